package engine

// CalculatePath rasterizes the straight line from start to end into
// the ordered sequence of grid cells a car sweeps through, both
// endpoints included. The walk is a digital line: the axis with the
// larger distance advances every step, the other axis only when the
// accumulated rounding error demands it, so the path is connected in
// eight directions with no skipped diagonals. Ties between the two
// distances make x the fast axis. With start == end the path is just
// the start cell.
func CalculatePath(start, end Vector) []Vector {
	path := []Vector{start}

	diff := end.Subtract(start)
	dist := diff.Abs()
	dir := diff.Sign()

	fastX := dist.X >= dist.Y
	distFast, distSlow := dist.X, dist.Y
	if !fastX {
		distFast, distSlow = dist.Y, dist.X
	}

	pos := start
	errAcc := distFast / 2
	for step := 0; step < distFast; step++ {
		errAcc -= distSlow
		if errAcc < 0 {
			errAcc += distFast
			// Diagonal step: both axes advance.
			pos = pos.Add(dir)
		} else if fastX {
			pos = pos.Add(Vector{X: dir.X})
		} else {
			pos = pos.Add(Vector{Y: dir.Y})
		}
		path = append(path, pos)
	}

	return path
}
