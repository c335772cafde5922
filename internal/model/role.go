package model

import (
	"fmt"
	"strings"
)

// RoleKind tags what a placeable rectangle represents.
type RoleKind int

const (
	RoleMain            RoleKind = iota // the piece itself
	RoleSegment                         // one part of an oversize piece
	RoleLaminationStrip                 // build-up strip for a thick edge
)

func (k RoleKind) String() string {
	switch k {
	case RoleMain:
		return "MAIN"
	case RoleSegment:
		return "SEGMENT"
	case RoleLaminationStrip:
		return "LAMINATION_STRIP"
	default:
		return fmt.Sprintf("ROLE(%d)", int(k))
	}
}

// MarshalText encodes the kind as its upper-case tag.
func (k RoleKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText parses MAIN / SEGMENT / LAMINATION_STRIP.
func (k *RoleKind) UnmarshalText(b []byte) error {
	switch strings.ToUpper(string(b)) {
	case "MAIN", "":
		*k = RoleMain
	case "SEGMENT":
		*k = RoleSegment
	case "LAMINATION_STRIP":
		*k = RoleLaminationStrip
	default:
		return fmt.Errorf("unknown role %q", string(b))
	}
	return nil
}

// EdgeProfile is the lamination class of a finished edge.
type EdgeProfile int

const (
	ProfileUnknown   EdgeProfile = iota // no strip can be derived
	ProfileLaminated                    // square laminated build-up
	ProfileMitre                        // 45° mitred apron
)

func (p EdgeProfile) String() string {
	switch p {
	case ProfileLaminated:
		return "laminated"
	case ProfileMitre:
		return "mitre"
	default:
		return "unknown"
	}
}

// MarshalText encodes the profile name.
func (p EdgeProfile) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText parses laminated / mitre / unknown.
func (p *EdgeProfile) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "laminated":
		*p = ProfileLaminated
	case "mitre", "miter":
		*p = ProfileMitre
	case "unknown", "":
		*p = ProfileUnknown
	default:
		return fmt.Errorf("unknown edge profile %q", string(b))
	}
	return nil
}

// Role is the closed set of things a placeable rectangle can be. The
// unexported method keeps other packages from adding variants.
type Role interface {
	Kind() RoleKind
	isRole()
}

// MainRole marks an unsplit piece.
type MainRole struct{}

func (MainRole) Kind() RoleKind { return RoleMain }
func (MainRole) isRole()        {}

// SegmentRole marks one cell of a split piece. Row/Col address the cell in
// the join grid; OffsetX/OffsetY locate it inside the original piece.
type SegmentRole struct {
	Index   int `json:"index"`
	Total   int `json:"total"`
	Row     int `json:"row"`
	Col     int `json:"col"`
	Rows    int `json:"rows"`
	Cols    int `json:"cols"`
	OffsetX int `json:"offsetX"`
	OffsetY int `json:"offsetY"`
}

func (SegmentRole) Kind() RoleKind { return RoleSegment }
func (SegmentRole) isRole()        {}

// StripRole marks a lamination strip cut for one edge of a parent piece.
// SegmentIndex is set when the strip belongs to a segment of a split piece.
type StripRole struct {
	ParentID     string       `json:"parentPieceId"`
	Position     EdgePosition `json:"position"`
	Profile      EdgeProfile  `json:"profile"`
	SegmentIndex *int         `json:"segmentIndex,omitempty"`
}

func (StripRole) Kind() RoleKind { return RoleLaminationStrip }
func (StripRole) isRole()        {}

// PlaceableRect is the unit the packing engine schedules. Pieces are
// expanded into one or more of these before packing.
type PlaceableRect struct {
	PieceID   string // reported piece id (strip ids are derived from the parent)
	Label     string
	Width     int
	Height    int
	Kerf      int // spacing reserved around this rectangle
	Rotatable bool
	Role      Role
}

// Area returns the un-kerfed footprint.
func (r PlaceableRect) Area() int {
	return r.Width * r.Height
}

// MaxSide returns the longer side.
func (r PlaceableRect) MaxSide() int {
	return max(r.Width, r.Height)
}

// Origin returns the id of the input piece this rectangle was derived from.
func (r PlaceableRect) Origin() string {
	if s, ok := r.Role.(StripRole); ok {
		return s.ParentID
	}
	return r.PieceID
}

// RoleOf returns the role, treating a nil role as MainRole.
func RoleOf(r Role) Role {
	if r == nil {
		return MainRole{}
	}
	return r
}
