package naming_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zerofill/roku-s3-image-resizer/internal/naming"
)

func TestDeriveKey(t *testing.T) {
	t.Run("preserves folder prefix", func(t *testing.T) {
		got := naming.DeriveKey("a/b/photo.jpg", "hd_1280x720")
		assert.Equal(t, "a/b/photo-hd_1280x720.jpg", got)
	})

	t.Run("root-level key has no prefix", func(t *testing.T) {
		got := naming.DeriveKey("photo.png", "sd_320x180")
		assert.Equal(t, "photo-sd_320x180.png", got)
	})

	t.Run("deterministic", func(t *testing.T) {
		first := naming.DeriveKey("pics/cover.webp", "default")
		second := naming.DeriveKey("pics/cover.webp", "default")
		assert.Equal(t, first, second)
		assert.Equal(t, "pics/cover-default.webp", first)
	})

	t.Run("variants never collide for one source", func(t *testing.T) {
		seen := map[string]bool{}
		for _, v := range []string{"default", "sd_320x180", "hd_1280x720", "fhd_1920x1080"} {
			key := naming.DeriveKey("pics/a.jpg", v)
			assert.False(t, seen[key], "duplicate derived key %s", key)
			seen[key] = true
		}
	})
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "image/png", naming.ContentType("a/b.png"))
	assert.Equal(t, "image/jpeg", naming.ContentType("photo.JPG"))
	assert.Equal(t, "image/jpeg", naming.ContentType("photo.jpeg"))
	assert.Equal(t, "image/gif", naming.ContentType("x.gif"))
	assert.Equal(t, "image/bmp", naming.ContentType("x.bmp"))
	assert.Equal(t, "image/webp", naming.ContentType("x.webp"))

	// total: unknown extensions fall back, never error
	assert.Equal(t, "application/octet-stream", naming.ContentType("file.xyz"))
	assert.Equal(t, "application/octet-stream", naming.ContentType("noext"))
}

func TestIsImageKey(t *testing.T) {
	assert.True(t, naming.IsImageKey("pics/a.jpg"))
	assert.True(t, naming.IsImageKey("pics/a.JPEG"))
	assert.True(t, naming.IsImageKey("a.WebP"))
	assert.False(t, naming.IsImageKey("pics/readme.txt"))
	assert.False(t, naming.IsImageKey("archive.tar.gz"))
	assert.False(t, naming.IsImageKey("noext"))
}

func TestLocation(t *testing.T) {
	t.Run("public URL", func(t *testing.T) {
		got := naming.Location(true, "media", "s3.amazonaws.com", "us-east-1", "pics/a-default.jpg")
		assert.Equal(t, "https://media.s3.amazonaws.com/us-east-1/pics/a-default.jpg", got)
	})

	t.Run("private locator", func(t *testing.T) {
		got := naming.Location(false, "media", "s3.amazonaws.com", "us-east-1", "pics/a-default.jpg")
		assert.Equal(t, "storage://media/pics/a-default.jpg", got)
	})
}
