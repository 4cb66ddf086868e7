package vision

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/verdantlabs/leafsense-backend/internal/domain"
)

const (
	// gridSide is the fixed sampling grid dimension.
	gridSide = 3
	// DefaultRegionCount is how many grid cells are sampled when the caller
	// does not ask for a specific count.
	DefaultRegionCount = 5
	// affectedStdDevThreshold flags a region whose local deviation exceeds
	// plausible healthy-tissue texture.
	affectedStdDevThreshold = 15.0
)

// Region is one sampled grid cell with its local deviation verdict.
type Region struct {
	Index    int     `json:"index"`
	Row      int     `json:"row"`
	Col      int     `json:"col"`
	StdDev   float64 `json:"std_dev"`
	Affected bool    `json:"affected"`
}

// AnalyzeRegions samples the first n cells of the 3x3 grid in row-major
// order and summarizes how many look affected. n defaults to
// DefaultRegionCount and is capped at the grid size.
func AnalyzeRegions(m Matrix, n int) ([]Region, domain.RegionSummary, error) {
	if m.Empty() {
		return nil, domain.RegionSummary{}, &domain.InvalidImageError{Reason: "empty matrix"}
	}
	if m.H < gridSide || m.W < gridSide {
		return nil, domain.RegionSummary{}, &domain.InvalidImageError{Reason: "matrix smaller than sampling grid"}
	}
	if n <= 0 {
		n = DefaultRegionCount
	}
	if n > gridSide*gridSide {
		n = gridSide * gridSide
	}

	cellH := m.H / gridSide
	cellW := m.W / gridSide

	regions := make([]Region, 0, n)
	affected := 0
	for i := 0; i < n; i++ {
		row := i / gridSide
		col := i % gridSide
		cell := m.Region(row*cellH, col*cellW, (row+1)*cellH, (col+1)*cellW)
		sd := stat.PopStdDev(cell.Data, nil)
		r := Region{
			Index:    i,
			Row:      row,
			Col:      col,
			StdDev:   sd,
			Affected: sd > affectedStdDevThreshold,
		}
		if r.Affected {
			affected++
		}
		regions = append(regions, r)
	}

	summary := domain.RegionSummary{
		TotalRegions:    len(regions),
		AffectedRegions: affected,
		HealthyRegions:  len(regions) - affected,
	}
	if summary.TotalRegions > 0 {
		pct := float64(affected) / float64(summary.TotalRegions) * 100
		summary.AffectedPercentage = math.Round(pct*10) / 10
	}
	return regions, summary, nil
}
