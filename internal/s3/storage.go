package s3

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	conf "github.com/zerofill/roku-s3-image-resizer/internal/config"
	"github.com/zerofill/roku-s3-image-resizer/internal/entities"
	"github.com/zerofill/roku-s3-image-resizer/internal/naming"
)

// DiscoveryError is a listing failure. It is fatal to the run; there is
// no partial-listing recovery.
type DiscoveryError struct {
	Bucket string
	Prefix string
	Err    error
}

func (e *DiscoveryError) Error() string {
	return fmt.Sprintf("list %s/%s: %v", e.Bucket, e.Prefix, e.Err)
}

func (e *DiscoveryError) Unwrap() error { return e.Err }

type Client struct {
	Bucket string
	Region string
	Public bool

	MaxRetries     int
	RetryBaseDelay time.Duration
	CallTimeout    time.Duration

	S3Client *awss3.Client
	Uploader *manager.Uploader

	// listing goes through the paginator's client interface so it can
	// run against something other than a live endpoint
	lister awss3.ListObjectsV2APIClient
}

// New builds the S3 client and resolves credentials before any bucket
// call is attempted. Explicit keys win over the ambient provider chain;
// having neither is fatal.
func New(ctx context.Context, cfg *conf.StorageConfig) (*Client, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	if _, err := awsCfg.Credentials.Retrieve(ctx); err != nil {
		return nil, fmt.Errorf("no usable credentials: %w", err)
	}

	c := &Client{
		Bucket:         cfg.Bucket,
		Region:         cfg.Region,
		Public:         cfg.Public,
		MaxRetries:     cfg.MaxRetries,
		RetryBaseDelay: cfg.RetryBaseDelay,
		CallTimeout:    cfg.CallTimeout,
	}

	c.S3Client = awss3.NewFromConfig(awsCfg, func(o *awss3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	c.Uploader = manager.NewUploader(c.S3Client)
	c.lister = c.S3Client

	return c, nil
}

// List returns the image objects under prefix in listing order. Entries
// without a recognized image extension and zero-length entries are
// silently skipped.
func (c *Client) List(ctx context.Context, prefix string) ([]entities.SourceObject, error) {
	input := &awss3.ListObjectsV2Input{
		Bucket: aws.String(c.Bucket),
	}
	if prefix != "" {
		if !strings.HasSuffix(prefix, "/") {
			prefix += "/"
		}
		input.Prefix = aws.String(prefix)
	}

	var objects []entities.SourceObject

	p := awss3.NewListObjectsV2Paginator(c.lister, input)
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, &DiscoveryError{Bucket: c.Bucket, Prefix: prefix, Err: err}
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			size := aws.ToInt64(obj.Size)
			if size == 0 || !naming.IsImageKey(key) {
				continue
			}
			objects = append(objects, entities.SourceObject{Key: key, SizeBytes: size})
		}
	}

	return objects, nil
}

// Download fetches one object into memory.
func (c *Client) Download(ctx context.Context, key string) ([]byte, error) {
	var payload []byte

	err := c.withRetry(ctx, func(callCtx context.Context) error {
		out, err := c.S3Client.GetObject(callCtx, &awss3.GetObjectInput{
			Bucket: aws.String(c.Bucket),
			Key:    aws.String(key),
		})
		if err != nil {
			return err
		}
		defer out.Body.Close()

		var buf bytes.Buffer
		if _, err := buf.ReadFrom(out.Body); err != nil {
			return err
		}
		payload = buf.Bytes()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to download %q: %w", key, err)
	}

	return payload, nil
}

// Upload publishes payload under key with the run's visibility. Keys are
// deterministic, so retried and repeated uploads overwrite in place.
func (c *Client) Upload(ctx context.Context, key, contentType string, payload []byte) error {
	acl := types.ObjectCannedACLPrivate
	if c.Public {
		acl = types.ObjectCannedACLPublicRead
	}

	err := c.withRetry(ctx, func(callCtx context.Context) error {
		_, err := c.Uploader.Upload(callCtx, &awss3.PutObjectInput{
			Bucket:      aws.String(c.Bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader(payload),
			ContentType: aws.String(contentType),
			ACL:         acl,
		})
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to upload %q: %w", key, err)
	}
	return nil
}

func (c *Client) withRetry(ctx context.Context, fn func(ctx context.Context) error) error {
	var err error
	attempt := 0

	for {
		attempt++
		callCtx, cancel := context.WithTimeout(ctx, c.CallTimeout)
		err = fn(callCtx)
		cancel()
		if err == nil {
			return nil
		}

		// retry?
		if attempt > c.MaxRetries {
			return err
		}

		// backoff with jitter
		backoff := c.backoffDelay(attempt)
		timer := time.NewTimer(backoff)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
		}
		if ctx.Err() != nil {
			return err
		}
	}
}

func (c *Client) backoffDelay(attempt int) time.Duration {
	delay := c.RetryBaseDelay << (attempt - 1)
	jitter := time.Duration(int64(delay) / 10)
	return delay - (jitter / 2) + time.Duration(int64(jitter)*time.Now().UnixNano()%2)
}
