package pipeline

import (
	"log"

	"github.com/zerofill/roku-s3-image-resizer/internal/entities"
)

// Summary aggregates every per-object outcome of one run.
type Summary struct {
	ObjectsAttempted    int                      `json:"objects_attempted"`
	ObjectsWithFailures int                      `json:"objects_with_failures"`
	VariantsPublished   int                      `json:"variants_published"`
	VariantsFailed      int                      `json:"variants_failed"`
	Outcomes            []entities.ObjectOutcome `json:"outcomes"`
}

func BuildSummary(outcomes []entities.ObjectOutcome) Summary {
	s := Summary{
		ObjectsAttempted: len(outcomes),
		Outcomes:         outcomes,
	}
	for _, o := range outcomes {
		s.VariantsPublished += len(o.Variants)
		s.VariantsFailed += o.FailedVariants
		if o.Failed() {
			s.ObjectsWithFailures++
		}
	}
	return s
}

// Log prints the run summary. It runs even when every object failed;
// only a fatal error before enumeration completes suppresses it.
func (s Summary) Log() {
	log.Printf("[report] objects attempted=%d with_failures=%d variants published=%d failed=%d",
		s.ObjectsAttempted, s.ObjectsWithFailures, s.VariantsPublished, s.VariantsFailed,
	)
	for _, o := range s.Outcomes {
		log.Printf("[report] %s: %d published, %d failed", o.SourceKey, len(o.Variants), o.FailedVariants)
		for _, v := range o.Variants {
			log.Printf("[report]   %s -> %s", v.VariantName, v.Location)
		}
	}
}
