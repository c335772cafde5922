package model

// GridSplitPolicy controls whether a piece that is oversize in both
// dimensions may be cut into a grid of segments (a cross joint).
type GridSplitPolicy string

const (
	GridSplitRotatableOnly GridSplitPolicy = "rotatable-only" // only pieces that may be turned
	GridSplitAlways        GridSplitPolicy = "always"
	GridSplitNever         GridSplitPolicy = "never"
)

// Valid reports whether the policy is one of the known values.
func (g GridSplitPolicy) Valid() bool {
	switch g {
	case GridSplitRotatableOnly, GridSplitAlways, GridSplitNever:
		return true
	}
	return false
}

// OptimizationInput is one nesting request: a flat piece list cut from a
// single slab size.
type OptimizationInput struct {
	Pieces          []Piece `json:"pieces"`
	SlabWidth       int     `json:"slabWidth"`
	SlabHeight      int     `json:"slabHeight"`
	KerfWidth       int     `json:"kerfWidth"`
	AllowRotation   bool    `json:"allowRotation"`
	EdgeAllowanceMm int     `json:"edgeAllowanceMm,omitempty"`
	MitreKerfWidth  *int    `json:"mitreKerfWidth,omitempty"` // nil means KerfWidth
}

// UsableWidth returns the slab width after the edge allowance on both sides.
func (in OptimizationInput) UsableWidth() int {
	return in.SlabWidth - 2*in.EdgeAllowanceMm
}

// UsableHeight returns the slab height after the edge allowance on both sides.
func (in OptimizationInput) UsableHeight() int {
	return in.SlabHeight - 2*in.EdgeAllowanceMm
}

// UsableArea returns the area a single slab offers for placements.
func (in OptimizationInput) UsableArea() int {
	return in.UsableWidth() * in.UsableHeight()
}

// MitreKerf returns the kerf of the mitre saw pass, defaulting to the slab kerf.
func (in OptimizationInput) MitreKerf() int {
	if in.MitreKerfWidth != nil {
		return *in.MitreKerfWidth
	}
	return in.KerfWidth
}

// MaterialInput pairs a material (stone colour / slab batch) with the
// request for the pieces cut from it.
type MaterialInput struct {
	MaterialID string            `json:"materialId"`
	Input      OptimizationInput `json:"input"`
}

// NestSettings holds the shop-level tuning that is not part of a single
// request: lamination rules, split policy and offcut thresholds.
type NestSettings struct {
	// Lamination
	LaminationThreshold  int      `json:"lamination_threshold"`   // minimum thickness (mm) that needs strips
	LaminationStripWidth int      `json:"lamination_strip_width"` // strip width for square laminated edges (mm)
	MitreStripWidth      int      `json:"mitre_strip_width"`      // strip width for mitred aprons (mm)
	MitreKeywords        []string `json:"mitre_keywords"`
	LaminatedKeywords    []string `json:"laminated_keywords"`

	// Oversize handling
	GridSplit GridSplitPolicy `json:"grid_split"`

	// Remnant reporting
	MinOffcutDimension int `json:"min_offcut_dimension"` // mm
	MinOffcutArea      int `json:"min_offcut_area"`      // mm²

	// Multi-material worker pool size; <= 0 means one worker per group.
	Workers int `json:"workers"`
}

// DefaultNestSettings returns the reference shop configuration.
func DefaultNestSettings() NestSettings {
	return NestSettings{
		LaminationThreshold:  40,
		LaminationStripWidth: 40,
		MitreStripWidth:      60,
		MitreKeywords:        []string{"mitre", "miter"},
		LaminatedKeywords:    []string{"laminat", "lam"},
		GridSplit:            GridSplitRotatableOnly,
		MinOffcutDimension:   300,
		MinOffcutArea:        90000,
		Workers:              4,
	}
}
