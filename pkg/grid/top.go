package grid

// TopFace derives the colour grid of the top face from d.
//
// The border of the top face is shared with the top level of the four
// sides, so it is rebuilt from row 0 (the top level): the first and last
// rows are row 0 reversed and forward, and every interior row y is framed
// by row0[n-y-1] on the left and row0[y] on the right around the interior
// of row y. The result is read with At like any other face grid: the cell
// at level i, column j lies over block position x = i, y = j.
func TopFace(d *Definition) *Definition {
	n := d.Size()
	top := d.cells[0]
	cells := make([][]Color, n)

	cells[0] = make([]Color, n)
	for j := range top {
		cells[0][j] = top[n-1-j]
	}
	cells[n-1] = append([]Color(nil), top...)

	for y := 1; y < n-1; y++ {
		row := make([]Color, 0, n)
		row = append(row, top[n-y-1])
		row = append(row, d.cells[y][1:n-1]...)
		row = append(row, top[y])
		cells[y] = row
	}
	return &Definition{cells: cells}
}
