package model

import (
	"slices"
	"strings"
)

// EdgeFinishLine totals one edge profile across a job.
type EdgeFinishLine struct {
	Profile   string  `json:"profile"` // edge type name as quoted, "unspecified" when blank
	EdgeCount int     `json:"edgeCount"`
	LinearMM  int     `json:"linearMm"`
	LinearM   float64 `json:"linearM"`
}

// EdgeFinishSummary holds the polishing / edge machining requirements of a job.
type EdgeFinishSummary struct {
	Lines         []EdgeFinishLine `json:"lines"`
	TotalLinearMM int              `json:"totalLinearMm"`
	TotalLinearM  float64          `json:"totalLinearM"`
	PieceCount    int              `json:"pieceCount"` // pieces with at least one finished edge
	EdgeCount     int              `json:"edgeCount"`
}

const unspecifiedProfile = "unspecified"

// CalculateEdgeFinish sums the finished edge length of every piece, grouped
// by edge type name. Lines are sorted by profile name.
func CalculateEdgeFinish(pieces []Piece) EdgeFinishSummary {
	byProfile := make(map[string]*EdgeFinishLine)
	var summary EdgeFinishSummary

	for _, p := range pieces {
		if !p.FinishedEdges.HasAny() {
			continue
		}
		summary.PieceCount++
		for _, e := range AllEdges {
			if !p.FinishedEdges.Get(e) {
				continue
			}
			name := strings.TrimSpace(p.EdgeTypeNames.Get(e))
			if name == "" {
				name = unspecifiedProfile
			}
			line, ok := byProfile[name]
			if !ok {
				line = &EdgeFinishLine{Profile: name}
				byProfile[name] = line
			}
			length := p.EdgeLength(e)
			line.EdgeCount++
			line.LinearMM += length
			summary.EdgeCount++
			summary.TotalLinearMM += length
		}
	}

	for _, line := range byProfile {
		line.LinearM = mmToM(line.LinearMM)
		summary.Lines = append(summary.Lines, *line)
	}
	slices.SortFunc(summary.Lines, func(a, b EdgeFinishLine) int {
		return strings.Compare(a.Profile, b.Profile)
	})
	summary.TotalLinearM = mmToM(summary.TotalLinearMM)
	return summary
}

func mmToM(mm int) float64 {
	return float64(mm) / 1000.0
}
