package export

import (
	"fmt"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/drawing"

	"github.com/piwi3910/SlabNest/internal/model"
)

// DXF layer names. The saw software maps layers to operations.
const (
	LayerSlab    = "SLAB"
	LayerUsable  = "USABLE"
	LayerPieces  = "PIECES"
	LayerStrips  = "STRIPS"
	LayerOffcuts = "OFFCUTS"
	LayerText    = "TEXT"
)

// slabGap separates slabs laid out side by side in one drawing (mm).
const slabGap = 200.0

// ExportDXF writes one material's slabs into a DXF drawing, side by side
// along X. DXF has Y pointing up, so layouts are flipped about each slab's
// height.
func ExportDXF(path string, g Group) error {
	if len(g.Result.Slabs) == 0 {
		return ErrNothingToExport
	}

	d := dxf.NewDrawing()
	layers := []struct {
		name  string
		color color.ColorNumber
	}{
		{LayerSlab, color.White},
		{LayerUsable, color.Red},
		{LayerPieces, color.Cyan},
		{LayerStrips, color.Yellow},
		{LayerOffcuts, color.Green},
		{LayerText, color.White},
	}
	for _, l := range layers {
		if _, err := d.AddLayer(l.name, l.color, dxf.DefaultLineType, false); err != nil {
			return fmt.Errorf("add layer %s: %w", l.name, err)
		}
	}

	originX := 0.0
	for _, s := range g.Result.Slabs {
		if err := drawSlab(d, s, originX); err != nil {
			return fmt.Errorf("slab %d: %w", s.SlabIndex+1, err)
		}
		originX += float64(s.Width) + slabGap
	}

	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save DXF: %w", err)
	}
	return nil
}

func drawSlab(d *drawing.Drawing, s model.SlabResult, ox float64) error {
	h := float64(s.Height)
	// rect outlines a slab-space rectangle in DXF coordinates.
	rect := func(layer string, r model.Rect) error {
		if err := d.ChangeLayer(layer); err != nil {
			return err
		}
		x0 := ox + float64(r.X)
		x1 := x0 + float64(r.Width)
		y1 := h - float64(r.Y)
		y0 := y1 - float64(r.Height)
		corners := [][2]float64{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}, {x0, y0}}
		for i := 0; i < 4; i++ {
			a, b := corners[i], corners[i+1]
			if _, err := d.Line(a[0], a[1], 0, b[0], b[1], 0); err != nil {
				return err
			}
		}
		return nil
	}
	text := func(s string, x, y, height float64) error {
		if err := d.ChangeLayer(LayerText); err != nil {
			return err
		}
		_, err := d.Text(s, x, y, 0, height)
		return err
	}

	if err := rect(LayerSlab, model.Rect{Width: s.Width, Height: s.Height}); err != nil {
		return err
	}
	if s.Usable.X > 0 {
		if err := rect(LayerUsable, s.Usable); err != nil {
			return err
		}
	}
	if err := text(fmt.Sprintf("SLAB %d", s.SlabIndex+1), ox, h+40, 60); err != nil {
		return err
	}

	for _, p := range s.Placements {
		layer := LayerPieces
		if p.IsStrip() {
			layer = LayerStrips
		}
		if err := rect(layer, p.Rect()); err != nil {
			return err
		}
		th := min(40.0, float64(min(p.Width, p.Height))/3)
		cx := ox + float64(p.X) + 10
		cy := h - float64(p.Y) - float64(p.Height)/2
		if err := text(fmt.Sprintf("%s %dx%d", p.Label, p.Width, p.Height), cx, cy, th); err != nil {
			return err
		}
	}

	for _, o := range s.Offcuts {
		if err := rect(LayerOffcuts, o.Rect()); err != nil {
			return err
		}
	}
	return nil
}
