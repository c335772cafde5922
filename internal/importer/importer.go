// Package importer reads stone piece lists from CSV and Excel files. It
// detects the CSV delimiter, maps columns by case-insensitive header aliases
// and collects row problems instead of failing the whole file.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/SlabNest/internal/model"
)

// ImportResult holds the results of an import operation.
type ImportResult struct {
	Pieces   []model.Piece
	Errors   []string
	Warnings []string
}

// OK reports whether the import produced pieces without row errors.
func (r ImportResult) OK() bool {
	return len(r.Errors) == 0 && len(r.Pieces) > 0
}

// Options supplies values for columns a sheet leaves out.
type Options struct {
	Thickness int    // mm, used when the row has none
	Material  string // used when the row has none
	// NewID generates the base id of a row without an id column. Defaults to
	// a short random id.
	NewID func() string
}

func (o Options) newID() string {
	if o.NewID != nil {
		return o.NewID()
	}
	return "P-" + uuid.NewString()[:8]
}

// ColumnMapping maps semantic column roles to their indices in the data.
// -1 means the column is absent.
type ColumnMapping struct {
	ID        int
	Label     int
	Width     int
	Height    int
	Thickness int
	Quantity  int
	Rotate    int
	Material  int
	Edges     int
	Profile   int
}

func emptyMapping() ColumnMapping {
	return ColumnMapping{-1, -1, -1, -1, -1, -1, -1, -1, -1, -1}
}

func (m *ColumnMapping) slot(role string) *int {
	switch role {
	case "id":
		return &m.ID
	case "label":
		return &m.Label
	case "width":
		return &m.Width
	case "height":
		return &m.Height
	case "thickness":
		return &m.Thickness
	case "quantity":
		return &m.Quantity
	case "rotate":
		return &m.Rotate
	case "material":
		return &m.Material
	case "edges":
		return &m.Edges
	case "profile":
		return &m.Profile
	}
	return nil
}

// headerAliases lists the accepted header names per role, lowercase. Roles
// are matched in this order.
var headerAliases = []struct {
	role    string
	aliases []string
}{
	{"id", []string{"id", "piece id", "part id", "ref", "reference"}},
	{"label", []string{"label", "name", "part", "part name", "description", "desc", "piece", "item"}},
	{"width", []string{"width", "w", "length", "len", "x"}},
	{"height", []string{"height", "h", "depth", "d", "y"}},
	{"thickness", []string{"thickness", "thick", "t", "thk"}},
	{"quantity", []string{"quantity", "qty", "count", "num", "amount", "pcs", "pieces"}},
	{"rotate", []string{"rotate", "rotation", "can rotate", "rotatable"}},
	{"material", []string{"material", "stone", "colour", "color", "slab"}},
	{"edges", []string{"edges", "finished edges", "finished", "polished", "edge"}},
	{"profile", []string{"profile", "edge profile", "edge type", "finish"}},
}

// DetectCSVDelimiter reads the file content and determines the most likely
// CSV delimiter among comma, semicolon, tab and pipe. The delimiter that
// produces the most consistent multi-column rows wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}
		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}
		if weighted := score*10 + firstCols; weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}
	return bestDelimiter
}

// DetectColumns examines a header row and returns a ColumnMapping. Without
// a recognizable header it returns the positional layout
// label, width, height, quantity and false.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := emptyMapping()
	isHeader := false

	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
	roles:
		for _, ha := range headerAliases {
			for _, alias := range ha.aliases {
				if normalized != alias {
					continue
				}
				isHeader = true
				if slot := mapping.slot(ha.role); *slot == -1 {
					*slot = i
				}
				break roles
			}
		}
	}

	if !isHeader {
		m := emptyMapping()
		m.Label, m.Width, m.Height, m.Quantity = 0, 1, 2, 3
		return m, false
	}
	return mapping, true
}

// parseBool reads yes/no style flags.
func parseBool(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "y", "true", "1", "x":
		return true, true
	case "no", "n", "false", "0", "-":
		return false, true
	}
	return false, false
}

// parseMillimetres accepts whole or decimal millimetres and rounds to the
// nearest mm.
func parseMillimetres(s string) (int, bool, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, err
	}
	r := math.Round(v)
	return int(r), r != v, nil
}

func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// rowPieces is the parsed content of one row before quantity expansion.
type rowPieces struct {
	piece    model.Piece
	quantity int
}

// parseRow extracts one row. It returns the row, an error message, and any
// warnings.
func parseRow(row []string, m ColumnMapping, rowLabel string, opts Options) (rowPieces, string, []string) {
	var warnings []string

	dim := func(idx int, name string) (int, string) {
		s := getCell(row, idx)
		if s == "" {
			return 0, fmt.Sprintf("%s: Missing %s value", rowLabel, name)
		}
		v, rounded, err := parseMillimetres(s)
		if err != nil {
			return 0, fmt.Sprintf("%s: Invalid %s '%s'", rowLabel, name, s)
		}
		if rounded {
			warnings = append(warnings, fmt.Sprintf("%s: %s '%s' rounded to %d mm", rowLabel, name, s, v))
		}
		return v, ""
	}

	width, msg := dim(m.Width, "width")
	if msg != "" {
		return rowPieces{}, msg, nil
	}
	height, msg := dim(m.Height, "height")
	if msg != "" {
		return rowPieces{}, msg, nil
	}

	qty := 1
	if s := getCell(row, m.Quantity); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return rowPieces{}, fmt.Sprintf("%s: Invalid quantity '%s'", rowLabel, s), nil
		}
		qty = n
	}
	if width <= 0 || height <= 0 || qty <= 0 {
		return rowPieces{}, fmt.Sprintf("%s: Width, height, and quantity must be positive", rowLabel), nil
	}

	p := model.NewPiece(getCell(row, m.ID), getCell(row, m.Label), width, height)
	if p.ID == "" {
		p.ID = opts.newID()
	}

	p.Thickness = opts.Thickness
	if s := getCell(row, m.Thickness); s != "" {
		t, _, err := parseMillimetres(s)
		if err != nil || t <= 0 {
			return rowPieces{}, fmt.Sprintf("%s: Invalid thickness '%s'", rowLabel, s), nil
		}
		p.Thickness = t
	}

	if s := getCell(row, m.Rotate); s != "" {
		if v, ok := parseBool(s); ok {
			p.CanRotate = model.BoolPtr(v)
		} else {
			warnings = append(warnings, fmt.Sprintf("%s: Unknown rotate value '%s', allowing rotation", rowLabel, s))
		}
	}

	p.Material = opts.Material
	if s := getCell(row, m.Material); s != "" {
		p.Material = s
	}

	if s := getCell(row, m.Edges); s != "" {
		edges, err := model.ParseFinishedEdges(s)
		if err != nil {
			return rowPieces{}, fmt.Sprintf("%s: Invalid edges '%s': %v", rowLabel, s, err), nil
		}
		p.FinishedEdges = edges
	}
	if profile := getCell(row, m.Profile); profile != "" {
		if !p.FinishedEdges.HasAny() {
			warnings = append(warnings, fmt.Sprintf("%s: Profile '%s' given without finished edges, ignored", rowLabel, profile))
		}
		for _, e := range model.AllEdges {
			if p.FinishedEdges.Get(e) {
				p.EdgeTypeNames = p.EdgeTypeNames.Set(e, profile)
			}
		}
	}

	return rowPieces{piece: p, quantity: qty}, "", warnings
}

// expand turns a row into qty distinct pieces. Copies get "-1", "-2"...
// appended to the id so every piece stays individually addressable.
func (r rowPieces) expand() []model.Piece {
	if r.quantity == 1 {
		return []model.Piece{r.piece}
	}
	out := make([]model.Piece, r.quantity)
	for i := range out {
		p := r.piece
		p.ID = fmt.Sprintf("%s-%d", r.piece.ID, i+1)
		out[i] = p
	}
	return out
}

// ImportCSV imports pieces from a CSV file, detecting the delimiter.
func ImportCSV(path string, opts Options) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}
	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	var warnings []string
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		warnings = append(warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	records, err := readCSV(bytes.NewReader(data), delimiter)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}
	return importFromRows(records, "Line", warnings, opts)
}

// ImportCSVFromReader imports pieces from a reader with a known delimiter.
func ImportCSVFromReader(reader io.Reader, delimiter rune, opts Options) ImportResult {
	records, err := readCSV(reader, delimiter)
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("Cannot read CSV: %v", err)}}
	}
	return importFromRows(records, "Line", nil, opts)
}

func readCSV(r io.Reader, delimiter rune) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	return reader.ReadAll()
}

// ImportExcel imports pieces from the first sheet of an Excel workbook.
func ImportExcel(path string, opts Options) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}
	return importFromRows(rows, "Row", nil, opts)
}

// ImportFile dispatches on the file extension.
func ImportFile(path string, opts Options) ImportResult {
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".xlsx") || strings.HasSuffix(lower, ".xlsm") {
		return ImportExcel(path, opts)
	}
	return ImportCSV(path, opts)
}

// importFromRows is the shared logic for CSV and Excel data.
func importFromRows(rows [][]string, rowPrefix string, initialWarnings []string, opts Options) ImportResult {
	result := ImportResult{Warnings: initialWarnings}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		var missing []string
		if mapping.Width == -1 {
			missing = append(missing, "Width")
		}
		if mapping.Height == -1 {
			missing = append(missing, "Height")
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors,
				fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	} else if len(rows[0]) >= 3 {
		// A first row whose width cell is not a number is an unrecognized
		// header; skip it but keep the positional layout.
		if _, _, err := parseMillimetres(getCell(rows[0], 1)); err != nil {
			startRow = 1
			result.Warnings = append(result.Warnings, "Unrecognized header row, using column positions")
		}
	}

	seen := make(map[string]bool)
	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		parsed, errMsg, warnings := parseRow(row, mapping, rowLabel, opts)
		result.Warnings = append(result.Warnings, warnings...)
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}

		for _, p := range parsed.expand() {
			if seen[p.ID] {
				result.Errors = append(result.Errors, fmt.Sprintf("%s: Duplicate piece id '%s'", rowLabel, p.ID))
				continue
			}
			seen[p.ID] = true
			result.Pieces = append(result.Pieces, p)
		}
	}

	if len(result.Pieces) == 0 && len(result.Errors) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
	}
	return result
}

// GroupByMaterial splits pieces into one request per material, in order of
// first appearance. Each request copies the slab, kerf and rotation fields
// of base; pieces without a material go to defaultMaterial.
func GroupByMaterial(pieces []model.Piece, base model.OptimizationInput, defaultMaterial string) []model.MaterialInput {
	var groups []model.MaterialInput
	index := make(map[string]int)

	for _, p := range pieces {
		id := p.Material
		if id == "" {
			id = defaultMaterial
		}
		if id == "" {
			id = "default"
		}
		gi, ok := index[id]
		if !ok {
			in := base
			in.Pieces = nil
			groups = append(groups, model.MaterialInput{MaterialID: id, Input: in})
			gi = len(groups) - 1
			index[id] = gi
		}
		groups[gi].Input.Pieces = append(groups[gi].Input.Pieces, p)
	}
	return groups
}
