package model

import (
	"fmt"
	"strings"
)

// EdgePosition names one side of a piece as drawn on the quote.
type EdgePosition int

const (
	EdgeTop EdgePosition = iota
	EdgeBottom
	EdgeLeft
	EdgeRight
)

// AllEdges lists the edge positions in reporting order.
var AllEdges = []EdgePosition{EdgeTop, EdgeBottom, EdgeLeft, EdgeRight}

func (e EdgePosition) String() string {
	switch e {
	case EdgeTop:
		return "top"
	case EdgeBottom:
		return "bottom"
	case EdgeLeft:
		return "left"
	case EdgeRight:
		return "right"
	default:
		return fmt.Sprintf("edge(%d)", int(e))
	}
}

// MarshalText encodes the position as its lowercase name.
func (e EdgePosition) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// UnmarshalText parses a lowercase (or capitalised) edge name.
func (e *EdgePosition) UnmarshalText(b []byte) error {
	p, ok := ParseEdgePosition(string(b))
	if !ok {
		return fmt.Errorf("unknown edge position %q", string(b))
	}
	*e = p
	return nil
}

// ParseEdgePosition converts "top", "T", "Bottom"... to an EdgePosition.
func ParseEdgePosition(s string) (EdgePosition, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "top", "t":
		return EdgeTop, true
	case "bottom", "b":
		return EdgeBottom, true
	case "left", "l":
		return EdgeLeft, true
	case "right", "r":
		return EdgeRight, true
	default:
		return EdgeTop, false
	}
}

// FinishedEdges marks which sides of a piece are polished/visible.
type FinishedEdges struct {
	Top    bool `json:"top,omitempty"`
	Bottom bool `json:"bottom,omitempty"`
	Left   bool `json:"left,omitempty"`
	Right  bool `json:"right,omitempty"`
}

// Get returns the flag for one edge.
func (f FinishedEdges) Get(e EdgePosition) bool {
	switch e {
	case EdgeTop:
		return f.Top
	case EdgeBottom:
		return f.Bottom
	case EdgeLeft:
		return f.Left
	case EdgeRight:
		return f.Right
	}
	return false
}

// Set returns a copy with one edge flag changed.
func (f FinishedEdges) Set(e EdgePosition, v bool) FinishedEdges {
	switch e {
	case EdgeTop:
		f.Top = v
	case EdgeBottom:
		f.Bottom = v
	case EdgeLeft:
		f.Left = v
	case EdgeRight:
		f.Right = v
	}
	return f
}

// HasAny returns true if at least one edge is finished.
func (f FinishedEdges) HasAny() bool {
	return f.Top || f.Bottom || f.Left || f.Right
}

// Count returns the number of finished edges.
func (f FinishedEdges) Count() int {
	n := 0
	for _, e := range AllEdges {
		if f.Get(e) {
			n++
		}
	}
	return n
}

// String returns a compact representation like "T+B+L".
func (f FinishedEdges) String() string {
	var parts []string
	for _, e := range AllEdges {
		if f.Get(e) {
			parts = append(parts, strings.ToUpper(e.String()[:1]))
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "+")
}

// ParseFinishedEdges reads the compact "T+B+L" form (also accepting commas,
// spaces and full names). "all" marks every edge.
func ParseFinishedEdges(s string) (FinishedEdges, error) {
	var f FinishedEdges
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "none", "-":
		return f, nil
	case "all":
		return FinishedEdges{Top: true, Bottom: true, Left: true, Right: true}, nil
	}
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == '+' || r == ',' || r == ' ' || r == '/'
	})
	for _, field := range fields {
		e, ok := ParseEdgePosition(field)
		if !ok {
			return FinishedEdges{}, fmt.Errorf("unknown edge %q", field)
		}
		f = f.Set(e, true)
	}
	return f, nil
}

// EdgeTypeNames carries the edge profile name per side, as resolved by the
// quoting layer (e.g. "40mm Mitre", "Laminated Pencil Round").
type EdgeTypeNames struct {
	Top    string `json:"top,omitempty"`
	Bottom string `json:"bottom,omitempty"`
	Left   string `json:"left,omitempty"`
	Right  string `json:"right,omitempty"`
}

// Get returns the profile name for one edge.
func (n EdgeTypeNames) Get(e EdgePosition) string {
	switch e {
	case EdgeTop:
		return n.Top
	case EdgeBottom:
		return n.Bottom
	case EdgeLeft:
		return n.Left
	case EdgeRight:
		return n.Right
	}
	return ""
}

// Set returns a copy with one profile name changed.
func (n EdgeTypeNames) Set(e EdgePosition, name string) EdgeTypeNames {
	switch e {
	case EdgeTop:
		n.Top = name
	case EdgeBottom:
		n.Bottom = name
	case EdgeLeft:
		n.Left = name
	case EdgeRight:
		n.Right = name
	}
	return n
}

// Piece is one stone piece on a quote (a benchtop run, splashback, island
// top...). Width and height are in millimetres before any rotation.
type Piece struct {
	ID            string        `json:"id"`
	Label         string        `json:"label"`
	Width         int           `json:"width"`
	Height        int           `json:"height"`
	Thickness     int           `json:"thickness,omitempty"`
	CanRotate     *bool         `json:"canRotate,omitempty"` // nil means rotation allowed
	NoRotate      bool          `json:"noRotate,omitempty"`  // fixed override, e.g. book-matched veining
	FinishedEdges FinishedEdges `json:"finishedEdges"`
	EdgeTypeNames EdgeTypeNames `json:"edgeTypeNames"`
	Cutouts       int           `json:"cutouts,omitempty"`
	Material      string        `json:"material,omitempty"`
}

// NewPiece returns a piece with rotation allowed and no finished edges.
func NewPiece(id, label string, w, h int) Piece {
	return Piece{
		ID:     id,
		Label:  label,
		Width:  w,
		Height: h,
	}
}

// Rotatable reports whether the piece itself permits a 90° turn. The run's
// AllowRotation flag is applied on top of this.
func (p Piece) Rotatable() bool {
	if p.NoRotate {
		return false
	}
	return p.CanRotate == nil || *p.CanRotate
}

// Area returns the footprint area in mm².
func (p Piece) Area() int {
	return p.Width * p.Height
}

// EdgeLength returns the length of one side.
func (p Piece) EdgeLength(e EdgePosition) int {
	if e == EdgeTop || e == EdgeBottom {
		return p.Width
	}
	return p.Height
}

// DisplayLabel returns the label, falling back to the id.
func (p Piece) DisplayLabel() string {
	if p.Label != "" {
		return p.Label
	}
	return p.ID
}

// BoolPtr is a small helper for the optional CanRotate flag.
func BoolPtr(b bool) *bool { return &b }
