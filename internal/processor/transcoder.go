package processor

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"path"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"

	"github.com/zerofill/roku-s3-image-resizer/internal/variants"
)

// TranscodeError wraps a decode/resize/encode failure for one variant of
// one source object.
type TranscodeError struct {
	Key     string
	Variant string
	Err     error
}

func (e *TranscodeError) Error() string {
	return fmt.Sprintf("transcode %s for variant %s: %v", e.Key, e.Variant, e.Err)
}

func (e *TranscodeError) Unwrap() error { return e.Err }

// Transcoder re-encodes image bytes to fit a variant's bounding box.
// Output format always matches the input format.
type Transcoder struct {
	JPEGQuality int
	WebPQuality float32
}

func NewTranscoder() *Transcoder {
	return &Transcoder{
		JPEGQuality: 90,
		WebPQuality: 90,
	}
}

// Transform returns data re-encoded to fit inside spec's bounding box,
// preserving aspect ratio and never enlarging. A passthrough spec returns
// the input bytes unchanged.
func (t *Transcoder) Transform(sourceKey string, data []byte, spec variants.Spec) ([]byte, error) {
	if spec.Passthrough() {
		return data, nil
	}

	ext := strings.ToLower(path.Ext(sourceKey))

	img, err := decode(ext, bytes.NewReader(data))
	if err != nil {
		return nil, &TranscodeError{Key: sourceKey, Variant: spec.Name, Err: err}
	}

	img = fitInside(img, spec.MaxWidth, spec.MaxHeight)

	var buf bytes.Buffer
	if err := t.encode(ext, &buf, img); err != nil {
		return nil, &TranscodeError{Key: sourceKey, Variant: spec.Name, Err: err}
	}
	return buf.Bytes(), nil
}

// fitInside shrinks img to fit a maxW×maxH box, keeping aspect ratio.
// Images already inside the box are returned untouched - upscaling is
// never performed.
func fitInside(img image.Image, maxW, maxH int) image.Image {
	w := float64(img.Bounds().Dx())
	h := float64(img.Bounds().Dy())

	if w == 0 || h == 0 || (maxW == 0 && maxH == 0) {
		return img
	}

	ratio := w / float64(maxW)
	if hRatio := h / float64(maxH); hRatio > ratio {
		ratio = hRatio
	}

	// Nothing to do - return original image
	if ratio <= 1 {
		return img
	}

	return imaging.Resize(img, int(w/ratio), int(h/ratio), imaging.Lanczos)
}

func decode(ext string, r io.Reader) (image.Image, error) {
	if ext == ".webp" {
		return webp.Decode(r)
	}
	return imaging.Decode(r)
}

func (t *Transcoder) encode(ext string, w io.Writer, img image.Image) error {
	if ext == ".webp" {
		return webp.Encode(w, img, &webp.Options{Quality: t.WebPQuality})
	}

	format, err := imaging.FormatFromExtension(ext)
	if err != nil {
		return fmt.Errorf("unsupported image extension %q: %w", ext, err)
	}
	return imaging.Encode(w, img, format, imaging.JPEGQuality(t.JPEGQuality))
}
