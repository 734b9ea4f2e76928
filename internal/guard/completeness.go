package guard

import (
	"github.com/campusgrade/scorecore/internal/metrics"
	"github.com/campusgrade/scorecore/internal/models"
)

// Completeness returns the percentage of expected block types present among
// the usable blocks. With no expectation declared it is 100 when any usable
// block carries facts and 0 otherwise.
func Completeness(b *models.Batch, expected []string) float64 {
	usable := b.UsableBlocks()
	if len(expected) == 0 {
		for _, blk := range usable {
			if len(blk.Facts) > 0 {
				return 100
			}
		}
		return 0
	}

	present := map[string]bool{}
	for _, blk := range usable {
		if len(blk.Facts) > 0 {
			present[blk.Type] = true
		}
	}
	hits := make([]float64, len(expected))
	for i, t := range expected {
		if present[t] {
			hits[i] = 100
		}
	}
	return models.Round2(metrics.Mean(hits))
}
