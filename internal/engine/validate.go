package engine

import (
	"errors"
	"fmt"

	"github.com/piwi3910/SlabNest/internal/model"
)

// ErrInvalidInput is returned (wrapped) when a request cannot be nested at
// all. No partial result is produced.
var ErrInvalidInput = errors.New("invalid optimization input")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// validateInput checks the request before any work is done.
func validateInput(in model.OptimizationInput) error {
	if in.SlabWidth <= 0 || in.SlabHeight <= 0 {
		return invalid("slab size must be positive, got %dx%d", in.SlabWidth, in.SlabHeight)
	}
	if in.KerfWidth < 0 {
		return invalid("kerf width must not be negative, got %d", in.KerfWidth)
	}
	if in.MitreKerfWidth != nil && *in.MitreKerfWidth < 0 {
		return invalid("mitre kerf width must not be negative, got %d", *in.MitreKerfWidth)
	}
	if in.EdgeAllowanceMm < 0 {
		return invalid("edge allowance must not be negative, got %d", in.EdgeAllowanceMm)
	}
	if in.UsableWidth() <= 0 || in.UsableHeight() <= 0 {
		return invalid("edge allowance %dmm leaves no usable area on a %dx%d slab",
			in.EdgeAllowanceMm, in.SlabWidth, in.SlabHeight)
	}

	seen := make(map[string]bool, len(in.Pieces))
	for i, p := range in.Pieces {
		if p.ID == "" {
			return invalid("piece %d has no id", i+1)
		}
		if seen[p.ID] {
			return invalid("duplicate piece id %q", p.ID)
		}
		seen[p.ID] = true
		if p.Width <= 0 || p.Height <= 0 {
			return invalid("piece %q has non-positive size %dx%d", p.ID, p.Width, p.Height)
		}
		if p.Thickness < 0 {
			return invalid("piece %q has negative thickness %d", p.ID, p.Thickness)
		}
	}
	return nil
}

// validateSettings rejects shop settings the engine cannot work with.
func validateSettings(s model.NestSettings) error {
	if s.LaminationStripWidth <= 0 || s.MitreStripWidth <= 0 {
		return invalid("strip widths must be positive (laminated %d, mitre %d)",
			s.LaminationStripWidth, s.MitreStripWidth)
	}
	if !s.GridSplit.Valid() {
		return invalid("unknown grid split policy %q", s.GridSplit)
	}
	return nil
}
