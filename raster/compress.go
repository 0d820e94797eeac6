package raster

// CompressRows rewrites m in place so that every maximal run of on-cells
// in a row is stored as its length in the run's first cell, with the rest
// of the run cleared. Runs never continue onto the next row.
func CompressRows(m *Mask) {
	for i := 0; i < m.Rows; i++ {
		row := m.Row(i)
		start := -1
		for j, v := range row {
			if v != 1 {
				start = -1
				continue
			}
			if start < 0 {
				start = j
				continue
			}
			row[start]++
			row[j] = 0
		}
	}
}

// Run is a horizontal stroke of Len on-cells beginning at (Row, Col).
type Run struct {
	Row, Col, Len int
}

// RowRuns lists the runs of row i of a compressed mask, left to right.
func RowRuns(i int, row []int) []Run {
	var runs []Run
	for j, n := range row {
		if n > 0 {
			runs = append(runs, Run{Row: i, Col: j, Len: n})
		}
	}
	return runs
}
