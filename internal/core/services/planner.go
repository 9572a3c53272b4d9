package services

import (
	"math"

	"github.com/tabulae-labs/askcsv-cli/internal/core/domain"
)

// Retrieval width policy. Boundaries mirror the chunker tiers: small
// scopes are searched near-exhaustively so aggregate questions do not
// silently drop rows, large scopes cap k to bound prompt size.
const (
	// planTinyRows is the tier below which retrieval covers every chunk.
	planTinyRows = 10

	// planSmallRows is the upper bound of the small-table tier.
	planSmallRows = 50

	// planMediumRows is the upper bound of the medium-table tier.
	planMediumRows = 500

	// planSmallMin and planSmallMax clamp k for small tables.
	planSmallMin = 20
	planSmallMax = 100

	// planMediumMax caps k for medium tables.
	planMediumMax = 150

	// planLargeFraction of the row count is retrieved for large
	// tables, capped at planLargeMax.
	planLargeFraction = 0.3
	planLargeMax      = 200

	// planFallbackK is used when the store cannot report chunk counts.
	planFallbackK = 50
)

// PlanWidth chooses how many chunks to retrieve for a question over
// the given scope. The policy keys off the scope's total row count:
//
//	rows <= 10          max(chunks, 10)
//	10 < rows <= 50     max(chunks, 20), clamped to [20, 100]
//	50 < rows <= 500    min(rows, 150)
//	rows > 500          round(min(rows * 0.3, 200))
//
// A negative ChunkTotal means the store could not count chunks; the
// planner falls back to a fixed width rather than failing the query.
func PlanWidth(stats domain.ScopeStats) int {
	if stats.ChunkTotal < 0 {
		return planFallbackK
	}

	rows := stats.RowTotal

	switch {
	case rows <= planTinyRows:
		return max(stats.ChunkTotal, planTinyRows)

	case rows <= planSmallRows:
		k := max(stats.ChunkTotal, planSmallMin)
		return min(k, planSmallMax)

	case rows <= planMediumRows:
		return min(rows, planMediumMax)

	default:
		k := math.Min(float64(rows)*planLargeFraction, planLargeMax)
		return int(math.Round(k))
	}
}
