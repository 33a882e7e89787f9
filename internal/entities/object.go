package entities

// SourceObject is one candidate image discovered under the configured
// bucket/prefix. Produced by listing, consumed once by the pipeline.
type SourceObject struct {
	Key       string `json:"key"`
	SizeBytes int64  `json:"size_bytes"`
}

// ProcessedVariant records one successfully published derivative.
type ProcessedVariant struct {
	VariantName string `json:"variant_name"`
	DerivedKey  string `json:"derived_key"`
	Location    string `json:"location"`
}

// ObjectOutcome is the per-object result: which variants made it out
// and how many did not. One outcome exists for every attempted object,
// including objects whose download failed (zero variants, all failed).
type ObjectOutcome struct {
	SourceKey      string             `json:"source_key"`
	Variants       []ProcessedVariant `json:"variants"`
	FailedVariants int                `json:"failed_variants"`
}

func (o ObjectOutcome) Failed() bool {
	return o.FailedVariants > 0
}
