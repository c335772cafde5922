package model

import "math"

// SlabEstimate is the area-only estimate of how many slabs a job needs.
// It ignores geometry, so it is a lower bound the packer can be measured
// against, not a promise.
type SlabEstimate struct {
	TotalRectArea    int     `json:"totalRectArea"` // kerf-inflated area of every rectangle (mm²)
	UsableSlabArea   int     `json:"usableSlabArea"`
	SlabsNeededExact float64 `json:"slabsNeededExact"`
	SlabsNeededMin   int     `json:"slabsNeededMin"`
	KerfWidth        int     `json:"kerfWidth"`
}

// EstimateSlabs computes the area lower bound for a set of rectangles cut
// from slabs with the given usable size. Each rectangle is inflated by its
// own kerf on both axes, matching what the packer reserves.
func EstimateSlabs(rects []PlaceableRect, usableW, usableH, kerf int) SlabEstimate {
	total := 0
	for _, r := range rects {
		total += (r.Width + r.Kerf) * (r.Height + r.Kerf)
	}

	est := SlabEstimate{
		TotalRectArea:  total,
		UsableSlabArea: usableW * usableH,
		KerfWidth:      kerf,
	}
	if est.UsableSlabArea <= 0 {
		return est
	}
	est.SlabsNeededExact = float64(total) / float64(est.UsableSlabArea)
	est.SlabsNeededMin = int(math.Ceil(est.SlabsNeededExact))
	return est
}
