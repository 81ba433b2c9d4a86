package planload

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"planviz/internal/config"
	apperrors "planviz/internal/errors"
)

const (
	// DefaultIndexColumn is the header of the product-type column.
	DefaultIndexColumn = "砖型"
	// DefaultMetadataWidth is the number of columns before the first date,
	// counted after removal of the index column.
	DefaultMetadataWidth = 9
)

// Loader reads production plan exports.
type Loader struct {
	IndexColumn   string
	MetadataWidth int
	Encodings     []Encoding
	logger        *slog.Logger
}

// NewLoader creates a loader with the default layout and encoding chain.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		IndexColumn:   DefaultIndexColumn,
		MetadataWidth: DefaultMetadataWidth,
		Encodings:     DefaultEncodings,
		logger:        logger,
	}
}

// NewLoaderFromConfig creates a loader for the configured plan layout.
func NewLoaderFromConfig(cfg config.PlanConfig, logger *slog.Logger) (*Loader, error) {
	chain, err := ParseEncodings(cfg.Encodings)
	if err != nil {
		return nil, apperrors.NewConfigError("invalid plan encodings", err)
	}
	l := NewLoader(logger)
	l.Encodings = chain
	if cfg.IndexColumn != "" {
		l.IndexColumn = cfg.IndexColumn
	}
	l.MetadataWidth = cfg.MetadataColumns
	return l, nil
}

// Load reads and parses the plan export at path.
func (l *Loader) Load(path string) (*RawTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &apperrors.MissingInputError{Kind: "production plan", Path: path, Cause: err}
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return l.Parse(path, data)
}

// Parse builds a RawTable from the raw bytes of an export. path is used only
// in diagnostics.
func (l *Loader) Parse(path string, data []byte) (*RawTable, error) {
	chain := l.Encodings
	if len(chain) == 0 {
		chain = DefaultEncodings
	}

	attempts := tryEncodings(data, chain)
	last := attempts[len(attempts)-1]
	for _, a := range attempts[:len(attempts)-1] {
		l.logger.Warn("Plan export did not parse with encoding, trying next",
			slog.String("path", path),
			slog.String("encoding", string(a.Encoding)),
			slog.String("error", a.Err.Error()))
	}
	if !last.OK() {
		msgs := make([]string, len(attempts))
		for i, a := range attempts {
			msgs[i] = a.String()
		}
		return nil, &apperrors.DataFormatError{
			Path:     path,
			Message:  "no supported encoding could parse the production plan",
			Attempts: msgs,
			Cause:    last.Err,
		}
	}

	table, err := l.buildTable(path, last.Records)
	if err != nil {
		return nil, err
	}
	table.Encoding = last.Encoding

	l.logger.Info("Loaded production plan",
		slog.String("path", path),
		slog.String("encoding", string(table.Encoding)),
		slog.Int("rows", len(table.Rows)),
		slog.Int("date_columns", len(table.DateColumns())))

	if dups := table.DuplicateLabels(); len(dups) > 0 {
		l.logger.Warn("Duplicate product-type labels in production plan",
			slog.String("path", path),
			slog.Any("labels", dups))
	}

	return table, nil
}

func (l *Loader) buildTable(path string, records [][]string) (*RawTable, error) {
	header := records[0]

	indexPos := -1
	for i, name := range header {
		if name == l.IndexColumn {
			indexPos = i
			break
		}
	}
	if indexPos < 0 {
		return nil, &apperrors.DataFormatError{
			Path:    path,
			Message: fmt.Sprintf("index column %q not found in header", l.IndexColumn),
			Column:  l.IndexColumn,
		}
	}

	if width := len(header) - 1; width < l.MetadataWidth {
		return nil, &apperrors.DataFormatError{
			Path: path,
			Message: fmt.Sprintf("table has %d columns besides %q, need at least %d metadata columns",
				width, l.IndexColumn, l.MetadataWidth),
		}
	}

	columns := make([]string, 0, len(header)-1)
	columns = append(columns, header[:indexPos]...)
	columns = append(columns, header[indexPos+1:]...)

	table := &RawTable{
		Path:          path,
		IndexColumn:   l.IndexColumn,
		Columns:       columns,
		Rows:          make([]Row, 0, len(records)-1),
		metadataWidth: l.MetadataWidth,
	}

	for n, record := range records[1:] {
		lineNo := strconv.Itoa(n + 2)
		if err := checkSurplus(record, len(header)); err != nil {
			err.Path = path
			err.Row = lineNo
			return nil, err
		}

		row := Row{Cells: make([]Cell, 0, len(columns))}
		if indexPos < len(record) {
			row.Label = record[indexPos]
		}
		for i := 0; i < len(header); i++ {
			if i == indexPos {
				continue
			}
			if i < len(record) {
				row.Cells = append(row.Cells, Cell{Value: record[i], Present: true})
			} else {
				row.Cells = append(row.Cells, Cell{})
			}
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

// checkSurplus accepts cells beyond the header only when they are blank,
// which is what a trailing delimiter produces.
func checkSurplus(record []string, width int) *apperrors.DataFormatError {
	for i := width; i < len(record); i++ {
		if strings.TrimSpace(record[i]) != "" {
			return &apperrors.DataFormatError{
				Message: fmt.Sprintf("row has data in column %d beyond the %d header columns", i+1, width),
				Value:   record[i],
			}
		}
	}
	return nil
}
