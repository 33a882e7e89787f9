package pipeline_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zerofill/roku-s3-image-resizer/internal/entities"
	"github.com/zerofill/roku-s3-image-resizer/internal/pipeline"
)

func TestBuildSummary(t *testing.T) {
	outcomes := []entities.ObjectOutcome{
		{
			SourceKey: "pics/a.jpg",
			Variants: []entities.ProcessedVariant{
				{VariantName: "default", DerivedKey: "pics/a-default.jpg"},
				{VariantName: "sd_320x180", DerivedKey: "pics/a-sd_320x180.jpg"},
			},
		},
		{
			SourceKey:      "pics/b.png",
			FailedVariants: 4,
		},
	}

	s := pipeline.BuildSummary(outcomes)
	assert.Equal(t, 2, s.ObjectsAttempted)
	assert.Equal(t, 1, s.ObjectsWithFailures)
	assert.Equal(t, 2, s.VariantsPublished)
	assert.Equal(t, 4, s.VariantsFailed)
	assert.Len(t, s.Outcomes, 2)
}

func TestBuildSummaryEmpty(t *testing.T) {
	s := pipeline.BuildSummary(nil)
	assert.Zero(t, s.ObjectsAttempted)
	assert.Zero(t, s.ObjectsWithFailures)
	assert.Zero(t, s.VariantsPublished)
	assert.Zero(t, s.VariantsFailed)
}
