package planload

// Cell is one value of the plan export as read from the file.
// Present is false when the source row ended before this column.
type Cell struct {
	Value   string
	Present bool
}

// Row is one product type of the plan export.
type Row struct {
	Label string
	// Cells align with RawTable.Columns.
	Cells []Cell
}

// RawTable is the production plan export keyed by product-type label.
//
// Columns lists the header labels in file order with the index column
// removed. The first MetadataWidth of them are the fixed metadata prefix
// (sequence number, unit count, weight, reserved blanks); everything after is
// the date-column suffix in production order.
type RawTable struct {
	Path        string
	Encoding    Encoding
	IndexColumn string
	Columns     []string
	Rows        []Row

	metadataWidth int
}

// Metadata prefix positions, counted after removal of the index column.
const (
	sequenceColumn  = 0
	unitCountColumn = 1
	weightColumn    = 2
)

// MetadataWidth is the number of leading non-date columns.
func (t *RawTable) MetadataWidth() int { return t.metadataWidth }

// MetadataColumns returns the labels of the fixed prefix.
func (t *RawTable) MetadataColumns() []string {
	return t.Columns[:t.metadataWidth]
}

// DateColumns returns the labels of the date suffix, in file order.
func (t *RawTable) DateColumns() []string {
	return t.Columns[t.metadataWidth:]
}

// DateCells returns row i's cells under DateColumns.
func (t *RawTable) DateCells(i int) []Cell {
	return t.Rows[i].Cells[t.metadataWidth:]
}

// Label returns the product-type label of row i.
func (t *RawTable) Label(i int) string { return t.Rows[i].Label }

// Sequence returns the sequence-number cell of row i.
func (t *RawTable) Sequence(i int) string { return t.metadataValue(i, sequenceColumn) }

// UnitCount returns the unit-count cell of row i.
func (t *RawTable) UnitCount(i int) string { return t.metadataValue(i, unitCountColumn) }

// Weight returns the weight cell of row i.
func (t *RawTable) Weight(i int) string { return t.metadataValue(i, weightColumn) }

func (t *RawTable) metadataValue(i, col int) string {
	if col >= t.metadataWidth {
		return ""
	}
	return t.Rows[i].Cells[col].Value
}

// Labels returns every row label in file order.
func (t *RawTable) Labels() []string {
	labels := make([]string, len(t.Rows))
	for i, r := range t.Rows {
		labels[i] = r.Label
	}
	return labels
}

// DuplicateLabels returns labels that occur on more than one row, in order of
// first repetition. Duplicates are kept in the table; this only reports them.
func (t *RawTable) DuplicateLabels() []string {
	seen := make(map[string]int, len(t.Rows))
	var dups []string
	for _, r := range t.Rows {
		seen[r.Label]++
		if seen[r.Label] == 2 {
			dups = append(dups, r.Label)
		}
	}
	return dups
}
