package naming

import (
	"fmt"
	"path"
	"strings"
)

var contentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".bmp":  "image/bmp",
	".webp": "image/webp",
}

// DeriveKey computes the storage key for one (source image, variant) pair:
// the source's folder prefix is preserved, the variant name is appended to
// the base name, and the original extension is kept.
//
//	DeriveKey("a/b/photo.jpg", "hd_1280x720") == "a/b/photo-hd_1280x720.jpg"
func DeriveKey(sourceKey, variantName string) string {
	ext := path.Ext(sourceKey)
	base := strings.TrimSuffix(path.Base(sourceKey), ext)

	derived := fmt.Sprintf("%s-%s%s", base, variantName, ext)
	if dir := path.Dir(sourceKey); dir != "." && dir != "/" {
		derived = dir + "/" + derived
	}
	return derived
}

// ContentType maps a key's extension to its MIME type. Unrecognized
// extensions fall back to the generic binary type so an upload can
// always proceed.
func ContentType(key string) string {
	if ct, ok := contentTypes[strings.ToLower(path.Ext(key))]; ok {
		return ct
	}
	return "application/octet-stream"
}

// IsImageKey reports whether the key carries a recognized image extension.
func IsImageKey(key string) bool {
	_, ok := contentTypes[strings.ToLower(path.Ext(key))]
	return ok
}

// Location builds the externally addressable location of a published key.
// Public objects get a deterministic URL; private objects get an opaque
// internal locator that is not guaranteed fetchable.
func Location(public bool, bucket, host, region, key string) string {
	if public {
		return fmt.Sprintf("https://%s.%s/%s/%s", bucket, host, region, key)
	}
	return fmt.Sprintf("storage://%s/%s", bucket, key)
}
