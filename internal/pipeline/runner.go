package pipeline

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/getsentry/sentry-go"

	conf "github.com/zerofill/roku-s3-image-resizer/internal/config"
	"github.com/zerofill/roku-s3-image-resizer/internal/entities"
	"github.com/zerofill/roku-s3-image-resizer/internal/naming"
	"github.com/zerofill/roku-s3-image-resizer/internal/variants"
)

type Storage interface {
	List(ctx context.Context, prefix string) ([]entities.SourceObject, error)
	Download(ctx context.Context, key string) ([]byte, error)
	Upload(ctx context.Context, key, contentType string, payload []byte) error
}

type Transcoder interface {
	Transform(sourceKey string, data []byte, spec variants.Spec) ([]byte, error)
}

type Stager interface {
	Put(key string, data []byte) (string, error)
	Remove(key string) error
}

// Runner drives the per-object pipeline: fetch, then for every catalog
// entry transcode, derive the key and publish. Processing is strictly
// sequential; at most one object's bytes are live at a time.
type Runner struct {
	storage    Storage
	transcoder Transcoder
	staging    Stager
	catalog    []variants.Spec

	bucket string
	host   string
	region string
	prefix string
	public bool
}

func NewRunner(storage Storage, transcoder Transcoder, staging Stager, cfg *conf.StorageConfig) *Runner {
	return &Runner{
		storage:    storage,
		transcoder: transcoder,
		staging:    staging,
		catalog:    variants.Catalog(),
		bucket:     cfg.Bucket,
		host:       cfg.Host(),
		region:     cfg.Region,
		prefix:     cfg.Prefix,
		public:     cfg.Public,
	}
}

// Run lists the candidate objects and attempts every one exactly once.
// A listing failure is fatal; everything past that point is isolated
// per object and per variant.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	objects, err := r.storage.List(ctx, r.prefix)
	if err != nil {
		return Summary{}, err
	}

	log.Printf("[pipeline] discovered %d image objects under %q", len(objects), r.prefix)

	outcomes := make([]entities.ObjectOutcome, 0, len(objects))
	for _, obj := range objects {
		outcomes = append(outcomes, r.ProcessOne(ctx, obj))
	}

	return BuildSummary(outcomes), nil
}

// ProcessOne runs one source object through every catalog entry. A
// download failure aborts all variants for the object; a transcode or
// publish failure aborts only that variant. The run itself never stops
// here.
func (r *Runner) ProcessOne(ctx context.Context, obj entities.SourceObject) entities.ObjectOutcome {
	outcome := entities.ObjectOutcome{SourceKey: obj.Key}

	data, err := r.storage.Download(ctx, obj.Key)
	if err != nil {
		r.reportObjectFailure(obj.Key, err)
		outcome.FailedVariants = len(r.catalog)
		return outcome
	}

	// The extension got it listed, the content still has to be an image.
	if mt := mimetype.Detect(data); !strings.HasPrefix(mt.String(), "image/") {
		r.reportObjectFailure(obj.Key, fmt.Errorf("content is %s, not an image", mt.String()))
		outcome.FailedVariants = len(r.catalog)
		return outcome
	}

	// The staged copy is the object's only on-disk footprint. Variants
	// transcode from the in-memory buffer; the file exists to bound what
	// is held locally and is released at the end-of-object boundary.
	if _, err := r.staging.Put(obj.Key, data); err != nil {
		r.reportObjectFailure(obj.Key, err)
		outcome.FailedVariants = len(r.catalog)
		return outcome
	}
	defer func() {
		if err := r.staging.Remove(obj.Key); err != nil {
			log.Printf("[pipeline] unstage %s: %v", obj.Key, err)
		}
	}()

	for _, spec := range r.catalog {
		encoded, err := r.transcoder.Transform(obj.Key, data, spec)
		if err != nil {
			r.reportVariantFailure(obj.Key, spec.Name, err)
			outcome.FailedVariants++
			continue
		}

		derivedKey := naming.DeriveKey(obj.Key, spec.Name)

		if err := r.storage.Upload(ctx, derivedKey, naming.ContentType(derivedKey), encoded); err != nil {
			r.reportVariantFailure(obj.Key, spec.Name, err)
			outcome.FailedVariants++
			continue
		}

		outcome.Variants = append(outcome.Variants, entities.ProcessedVariant{
			VariantName: spec.Name,
			DerivedKey:  derivedKey,
			Location:    naming.Location(r.public, r.bucket, r.host, r.region, derivedKey),
		})
	}

	return outcome
}

func (r *Runner) reportObjectFailure(key string, err error) {
	log.Printf("[pipeline] object %s failed: %v", key, err)
	sentry.CaptureException(fmt.Errorf("object %s: %w", key, err))
}

func (r *Runner) reportVariantFailure(key, variant string, err error) {
	log.Printf("[pipeline] object %s variant %s failed: %v", key, variant, err)
	sentry.CaptureException(fmt.Errorf("object %s variant %s: %w", key, variant, err))
}
