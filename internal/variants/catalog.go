package variants

// Spec is one named output configuration. Zero bounds mean the original
// image is published as-is; otherwise both bounds are set and the image
// is shrunk to fit inside MaxWidth×MaxHeight.
type Spec struct {
	Name      string
	MaxWidth  int
	MaxHeight int
}

// Passthrough reports whether this variant keeps the original dimensions.
func (s Spec) Passthrough() bool {
	return s.MaxWidth == 0 && s.MaxHeight == 0
}

var catalog = []Spec{
	{Name: "default"},
	{Name: "sd_320x180", MaxWidth: 320, MaxHeight: 180},
	{Name: "hd_1280x720", MaxWidth: 1280, MaxHeight: 720},
	{Name: "fhd_1920x1080", MaxWidth: 1920, MaxHeight: 1080},
}

// Catalog returns the fixed variant table in processing order.
// A copy is returned so callers cannot mutate the table.
func Catalog() []Spec {
	out := make([]Spec, len(catalog))
	copy(out, catalog)
	return out
}
