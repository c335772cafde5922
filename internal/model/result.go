package model

// SlabResult is one slab with everything placed on it.
type SlabResult struct {
	SlabIndex    int         `json:"slabIndex"`
	Width        int         `json:"width"`  // raw slab width
	Height       int         `json:"height"` // raw slab height
	Usable       Rect        `json:"usable"` // usable region in slab coordinates
	Placements   []Placement `json:"placements"`
	UsedArea     int         `json:"usedArea"`
	WasteArea    int         `json:"wasteArea"`
	WastePercent float64     `json:"wastePercent"`
	Offcuts      []Offcut    `json:"offcuts,omitempty"`
}

// UsableArea returns the area placements may occupy.
func (s SlabResult) UsableArea() int {
	return s.Usable.Area()
}

// Efficiency returns the used percentage of the usable area.
func (s SlabResult) Efficiency() float64 {
	return 100.0 - s.WastePercent
}

// StripRecord describes one lamination strip for fabrication reporting.
type StripRecord struct {
	PieceID      string       `json:"pieceId"`
	Position     EdgePosition `json:"position"`
	Profile      EdgeProfile  `json:"profile"`
	Length       int          `json:"length"`
	Width        int          `json:"width"`
	SegmentIndex *int         `json:"segmentIndex,omitempty"`
}

// ParentStrips lists the strips generated for one input piece.
type ParentStrips struct {
	ParentPieceID string        `json:"parentPieceId"`
	Label         string        `json:"label"`
	Strips        []StripRecord `json:"strips"`
}

// LaminationSummary totals the lamination strips of a run.
type LaminationSummary struct {
	TotalStrips    int            `json:"totalStrips"`
	TotalStripArea int            `json:"totalStripArea"`
	StripsByParent []ParentStrips `json:"stripsByParent"`
}

// SplitStrategy names how an oversize piece was divided.
type SplitStrategy string

const (
	SplitLengthwise SplitStrategy = "lengthwise" // joins across the piece width
	SplitWidthwise  SplitStrategy = "widthwise"  // joins across the piece height
	SplitGrid       SplitStrategy = "multi-join" // joins in both directions
)

// SplitRecord documents an oversize split so the join can be drawn on the
// fabrication sheet. JoinsX/JoinsY are cut-line offsets from the piece's
// left and top edges.
type SplitRecord struct {
	PieceID  string        `json:"pieceId"`
	Label    string        `json:"label"`
	Strategy SplitStrategy `json:"strategy"`
	Cols     int           `json:"cols"`
	Rows     int           `json:"rows"`
	JoinsX   []int         `json:"joinsX,omitempty"`
	JoinsY   []int         `json:"joinsY,omitempty"`
	Rotated  bool          `json:"rotated"` // split was sized for the turned orientation
}

// Segments returns the total segment count.
func (s SplitRecord) Segments() int {
	return s.Cols * s.Rows
}

// UnplacedPiece explains why a piece could not be nested.
type UnplacedPiece struct {
	PieceID string `json:"pieceId"`
	Label   string `json:"label"`
	Reason  string `json:"reason"`
}

// OptimizationResult is the answer to one OptimizationInput.
type OptimizationResult struct {
	Placements        []Placement        `json:"placements"`
	Slabs             []SlabResult       `json:"slabs"`
	TotalSlabs        int                `json:"totalSlabs"`
	TotalUsedArea     int                `json:"totalUsedArea"`
	TotalWasteArea    int                `json:"totalWasteArea"`
	WastePercent      float64            `json:"wastePercent"`
	UnplacedPieces    []string           `json:"unplacedPieces"`
	UnplacedDetails   []UnplacedPiece    `json:"unplacedDetails,omitempty"`
	LaminationSummary *LaminationSummary `json:"laminationSummary,omitempty"`
	Splits            []SplitRecord      `json:"splits,omitempty"`
	Warnings          []string           `json:"warnings,omitempty"`
	EdgeAllowanceMm   int                `json:"edgeAllowanceMm,omitempty"`
	AreaLowerBound    int                `json:"areaLowerBound"`
}

// PlacementsForPiece returns every placement derived from one input piece
// (main, segments and strips), in placement order.
func (r OptimizationResult) PlacementsForPiece(id string) []Placement {
	var out []Placement
	for _, p := range r.Placements {
		if p.Origin() == id {
			out = append(out, p)
		}
	}
	return out
}

// Efficiency returns overall used percentage.
func (r OptimizationResult) Efficiency() float64 {
	if r.TotalSlabs == 0 {
		return 0
	}
	return 100.0 - r.WastePercent
}

// MaterialGroupResult is the result for one material of a multi-material run.
type MaterialGroupResult struct {
	MaterialID string             `json:"materialId"`
	Result     OptimizationResult `json:"result"`
}

// MultiMaterialResult aggregates independent per-material runs.
type MultiMaterialResult struct {
	Groups         []MaterialGroupResult `json:"groups"`
	TotalSlabs     int                   `json:"totalSlabs"`
	TotalUsedArea  int                   `json:"totalUsedArea"`
	TotalWasteArea int                   `json:"totalWasteArea"`
	WastePercent   float64               `json:"wastePercent"` // area weighted across groups
	UnplacedCount  int                   `json:"unplacedCount"`
}

// Group returns the result for a material, if present.
func (m MultiMaterialResult) Group(materialID string) (OptimizationResult, bool) {
	for _, g := range m.Groups {
		if g.MaterialID == materialID {
			return g.Result, true
		}
	}
	return OptimizationResult{}, false
}

// WastePercentOf returns waste/(used+waste) * 100, or 0 when nothing was used.
func WastePercentOf(used, waste int) float64 {
	total := used + waste
	if total <= 0 {
		return 0
	}
	return float64(waste) / float64(total) * 100.0
}
