package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/piwi3910/SlabNest/internal/importer"
	"github.com/piwi3910/SlabNest/internal/model"
)

// inputFlags override the configured request defaults.
type inputFlags struct {
	slabWidth     int
	slabHeight    int
	kerf          int
	mitreKerf     int
	edgeAllowance int
	rotate        bool
	material      string
	thickness     int
}

func (f *inputFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.IntVar(&f.slabWidth, "slab-width", 0, "slab width in mm")
	fs.IntVar(&f.slabHeight, "slab-height", 0, "slab height in mm")
	fs.IntVar(&f.kerf, "kerf", 0, "saw kerf in mm")
	fs.IntVar(&f.mitreKerf, "mitre-kerf", 0, "kerf of the mitre pass in mm")
	fs.IntVar(&f.edgeAllowance, "edge-allowance", 0, "unusable border on every slab edge in mm")
	fs.BoolVar(&f.rotate, "rotate", true, "allow pieces to be turned 90 degrees")
	fs.StringVar(&f.material, "material", "", "material for pieces that name none")
	fs.IntVar(&f.thickness, "thickness", 0, "thickness in mm for pieces that give none")
}

// apply copies every flag the user set onto in.
func (f *inputFlags) apply(cmd *cobra.Command, in *model.OptimizationInput) {
	fs := cmd.Flags()
	if fs.Changed("slab-width") {
		in.SlabWidth = f.slabWidth
	}
	if fs.Changed("slab-height") {
		in.SlabHeight = f.slabHeight
	}
	if fs.Changed("kerf") {
		in.KerfWidth = f.kerf
	}
	if fs.Changed("mitre-kerf") {
		mk := f.mitreKerf
		in.MitreKerfWidth = &mk
	}
	if fs.Changed("edge-allowance") {
		in.EdgeAllowanceMm = f.edgeAllowance
	}
	if fs.Changed("rotate") {
		in.AllowRotation = f.rotate
	}
}

func (a *app) defaultMaterial(f *inputFlags) string {
	if f.material != "" {
		return f.material
	}
	if a.cfg.Defaults.Material != "" {
		return a.cfg.Defaults.Material
	}
	return "default"
}

// requestFile is the JSON request format: either a single request with
// pieces at the top level or a list of material groups. Fields left out
// take the configured defaults.
type requestFile struct {
	Name      string          `json:"name,omitempty"`
	Materials []materialEntry `json:"materials,omitempty"`
	Pieces    json.RawMessage `json:"pieces,omitempty"`
}

type materialEntry struct {
	MaterialID string          `json:"materialId"`
	Input      json.RawMessage `json:"input"`
}

// loadMaterials reads a piece list (CSV, XLSX) or JSON request into
// material groups. The returned name comes from the file.
func (a *app) loadMaterials(cmd *cobra.Command, path string, f *inputFlags) ([]model.MaterialInput, string, error) {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	base := a.cfg.BaseInput()
	f.apply(cmd, &base)

	if strings.EqualFold(filepath.Ext(path), ".json") {
		return a.loadJSON(cmd, path, name, f)
	}

	thickness := a.cfg.Defaults.Thickness
	if f.thickness > 0 {
		thickness = f.thickness
	}
	res := importer.ImportFile(path, importer.Options{Thickness: thickness})
	for _, w := range res.Warnings {
		a.logger.Warn("import", zap.String("file", path), zap.String("warning", w))
	}
	if len(res.Errors) > 0 {
		return nil, "", fmt.Errorf("%s: %d problem(s):\n  %s", path, len(res.Errors), strings.Join(res.Errors, "\n  "))
	}
	return importer.GroupByMaterial(res.Pieces, base, a.defaultMaterial(f)), name, nil
}

func (a *app) loadJSON(cmd *cobra.Command, path, name string, f *inputFlags) ([]model.MaterialInput, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("read request: %w", err)
	}
	var req requestFile
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, "", fmt.Errorf("parse request %s: %w", path, err)
	}
	if req.Name != "" {
		name = req.Name
	}

	// decode fills a request seeded with defaults, then applies flags.
	decode := func(raw []byte) (model.OptimizationInput, error) {
		in := a.cfg.BaseInput()
		if err := json.Unmarshal(raw, &in); err != nil {
			return in, err
		}
		f.apply(cmd, &in)
		return in, nil
	}

	if len(req.Materials) == 0 {
		if req.Pieces == nil {
			return nil, "", fmt.Errorf("%s: request has neither pieces nor materials", path)
		}
		in, err := decode(data)
		if err != nil {
			return nil, "", fmt.Errorf("parse request %s: %w", path, err)
		}
		return []model.MaterialInput{{MaterialID: a.defaultMaterial(f), Input: in}}, name, nil
	}

	out := make([]model.MaterialInput, 0, len(req.Materials))
	for i, m := range req.Materials {
		in, err := decode(m.Input)
		if err != nil {
			return nil, "", fmt.Errorf("parse material %d of %s: %w", i+1, path, err)
		}
		out = append(out, model.MaterialInput{MaterialID: m.MaterialID, Input: in})
	}
	return out, name, nil
}
