package model

import (
	"encoding/json"
	"fmt"
)

// Placement is one rectangle placed on a slab. X and Y are measured from
// the raw slab corner, so they already include the edge allowance.
type Placement struct {
	PieceID   string
	SlabIndex int
	X         int
	Y         int
	Width     int // as placed, after rotation
	Height    int
	Rotated   bool
	Label     string
	Kerf      int
	Role      Role
}

// Rect returns the placed footprint without kerf.
func (p Placement) Rect() Rect {
	return Rect{X: p.X, Y: p.Y, Width: p.Width, Height: p.Height}
}

// KerfRect returns the footprint grown by the kerf on the right and bottom,
// which is the region the packer consumed from the free list.
func (p Placement) KerfRect() Rect {
	return Rect{X: p.X, Y: p.Y, Width: p.Width + p.Kerf, Height: p.Height + p.Kerf}
}

// Area returns the true placed area.
func (p Placement) Area() int {
	return p.Width * p.Height
}

// Origin returns the input piece id this placement belongs to.
func (p Placement) Origin() string {
	if s, ok := p.Role.(StripRole); ok {
		return s.ParentID
	}
	return p.PieceID
}

// IsStrip reports whether this is a lamination strip.
func (p Placement) IsStrip() bool {
	return RoleOf(p.Role).Kind() == RoleLaminationStrip
}

// placementJSON is the wire shape: the role is flattened into the optional
// fields the quoting system reads.
type placementJSON struct {
	PieceID           string        `json:"pieceId"`
	SlabIndex         int           `json:"slabIndex"`
	X                 int           `json:"x"`
	Y                 int           `json:"y"`
	Width             int           `json:"width"`
	Height            int           `json:"height"`
	Rotated           bool          `json:"rotated"`
	Label             string        `json:"label"`
	Kerf              int           `json:"kerf"`
	Role              RoleKind      `json:"role"`
	IsLaminationStrip bool          `json:"isLaminationStrip,omitempty"`
	ParentPieceID     string        `json:"parentPieceId,omitempty"`
	StripPosition     *EdgePosition `json:"stripPosition,omitempty"`
	StripProfile      *EdgeProfile  `json:"stripProfile,omitempty"`
	StripSegmentIndex *int          `json:"stripSegmentIndex,omitempty"`
	IsSegment         bool          `json:"isSegment,omitempty"`
	SegmentIndex      *int          `json:"segmentIndex,omitempty"`
	TotalSegments     int           `json:"totalSegments,omitempty"`
	Segment           *SegmentRole  `json:"segment,omitempty"`
}

// MarshalJSON flattens the role into the output contract.
func (p Placement) MarshalJSON() ([]byte, error) {
	out := placementJSON{
		PieceID:   p.PieceID,
		SlabIndex: p.SlabIndex,
		X:         p.X,
		Y:         p.Y,
		Width:     p.Width,
		Height:    p.Height,
		Rotated:   p.Rotated,
		Label:     p.Label,
		Kerf:      p.Kerf,
		Role:      RoleOf(p.Role).Kind(),
	}
	switch r := p.Role.(type) {
	case SegmentRole:
		idx := r.Index
		seg := r
		out.IsSegment = true
		out.SegmentIndex = &idx
		out.TotalSegments = r.Total
		out.Segment = &seg
	case StripRole:
		pos, prof := r.Position, r.Profile
		out.IsLaminationStrip = true
		out.ParentPieceID = r.ParentID
		out.StripPosition = &pos
		out.StripProfile = &prof
		out.StripSegmentIndex = r.SegmentIndex
	}
	return json.Marshal(out)
}

// UnmarshalJSON rebuilds the role from the flattened fields.
func (p *Placement) UnmarshalJSON(data []byte) error {
	var in placementJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*p = Placement{
		PieceID:   in.PieceID,
		SlabIndex: in.SlabIndex,
		X:         in.X,
		Y:         in.Y,
		Width:     in.Width,
		Height:    in.Height,
		Rotated:   in.Rotated,
		Label:     in.Label,
		Kerf:      in.Kerf,
		Role:      MainRole{},
	}
	switch {
	case in.IsLaminationStrip || in.Role == RoleLaminationStrip:
		if in.ParentPieceID == "" || in.StripPosition == nil {
			return fmt.Errorf("placement %q: strip without parent or position", in.PieceID)
		}
		s := StripRole{
			ParentID:     in.ParentPieceID,
			Position:     *in.StripPosition,
			SegmentIndex: in.StripSegmentIndex,
		}
		if in.StripProfile != nil {
			s.Profile = *in.StripProfile
		}
		p.Role = s
	case in.IsSegment || in.Role == RoleSegment:
		if in.Segment != nil {
			p.Role = *in.Segment
		} else if in.SegmentIndex != nil {
			p.Role = SegmentRole{Index: *in.SegmentIndex, Total: in.TotalSegments}
		} else {
			return fmt.Errorf("placement %q: segment without index", in.PieceID)
		}
	}
	return nil
}
