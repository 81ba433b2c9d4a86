package heatmap

// Matrix is the compacted production grid: one row per product type, one
// column per production date, both in file order.
type Matrix struct {
	Rows    []string
	Columns []string
	// Values[r][c] is the quantity of Rows[r] produced on Columns[c].
	Values [][]float64
}

// Dims returns the row and column counts.
func (m *Matrix) Dims() (rows, cols int) {
	return len(m.Rows), len(m.Columns)
}

// Empty reports whether the matrix has no rows or no columns.
func (m *Matrix) Empty() bool {
	r, c := m.Dims()
	return r == 0 || c == 0
}

// Max returns the largest value, or 0 for an empty matrix.
func (m *Matrix) Max() float64 {
	var peak float64
	for _, row := range m.Values {
		for _, v := range row {
			if v > peak {
				peak = v
			}
		}
	}
	return peak
}

// Total returns the sum of every value.
func (m *Matrix) Total() float64 {
	var sum float64
	for _, row := range m.Values {
		for _, v := range row {
			sum += v
		}
	}
	return sum
}

// Compact drops all-zero rows, then all-zero columns. Applying it to an
// already compacted matrix returns an equal matrix.
func (m *Matrix) Compact() *Matrix {
	return CompactColumns(CompactRows(m))
}

// CompactRows returns a copy of m without rows whose values are all zero.
func CompactRows(m *Matrix) *Matrix {
	out := &Matrix{Columns: append([]string(nil), m.Columns...)}
	for r, row := range m.Values {
		if allZero(row) {
			continue
		}
		out.Rows = append(out.Rows, m.Rows[r])
		out.Values = append(out.Values, append([]float64(nil), row...))
	}
	return out
}

// CompactColumns returns a copy of m without columns whose values are all
// zero. A matrix with no rows has every column zero.
func CompactColumns(m *Matrix) *Matrix {
	keep := make([]int, 0, len(m.Columns))
	for c := range m.Columns {
		for _, row := range m.Values {
			if row[c] != 0 {
				keep = append(keep, c)
				break
			}
		}
	}

	out := &Matrix{
		Rows:    append([]string(nil), m.Rows...),
		Columns: make([]string, len(keep)),
		Values:  make([][]float64, len(m.Values)),
	}
	for i, c := range keep {
		out.Columns[i] = m.Columns[c]
	}
	for r, row := range m.Values {
		out.Values[r] = make([]float64, len(keep))
		for i, c := range keep {
			out.Values[r][i] = row[c]
		}
	}
	return out
}

func allZero(row []float64) bool {
	for _, v := range row {
		if v != 0 {
			return false
		}
	}
	return true
}
