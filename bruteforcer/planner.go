package main

// LinePlanner searches for a winning move sequence on a track. It runs
// a breadth-first search over (position, velocity) states, so the first
// line found uses the fewest turns. The sweep rules mirror the server:
// a move traces the digital line from the old cell to the new one, a
// wall or live rival anywhere on it crashes the car, and touching a
// finish cell with the velocity pointing the required way wins.
type LinePlanner struct {
	rows   []string
	width  int
	height int
	maxVX  int
	maxVY  int
	banned map[Vector]bool
}

// Move names in the order the search expands them, coasting first so
// shorter lines prefer fewer accelerations.
var moveNames = []string{
	"none", "up", "up_right", "right", "down_right",
	"down", "down_left", "left", "up_left",
}

var moveVectors = []Vector{
	{0, 0}, {0, -1}, {1, -1}, {1, 0}, {1, 1},
	{0, 1}, {-1, 1}, {-1, 0}, {-1, -1},
}

// NewLinePlanner builds a planner for the bare track layout. Velocity
// components are capped at the speed a car could actually build inside
// the grid: reaching speed k takes k(k+1)/2 cells of runway.
func NewLinePlanner(rows []string) *LinePlanner {
	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}

	return &LinePlanner{
		rows:   rows,
		width:  width,
		height: len(rows),
		maxVX:  speedCap(width),
		maxVY:  speedCap(len(rows)),
		banned: make(map[Vector]bool),
	}
}

// BanCell marks a cell the search must treat as a wall. Used to steer
// replanning away from cells the server crashed us on.
func (p *LinePlanner) BanCell(pos Vector) {
	p.banned[pos] = true
}

type planState struct {
	pos Vector
	vel Vector
}

type planEdge struct {
	prev planState
	move int
}

// Sweep outcomes.
const (
	sweepClean = iota
	sweepCrash
	sweepWin
)

// Plan returns the shortest winning move sequence for carID from the
// given race state, or nil when no line wins. Live rivals block the
// cells they stand on; crashed cars do not.
func (p *LinePlanner) Plan(state *RaceState, carID string) []string {
	var me *CarState
	for i := range state.Cars {
		if state.Cars[i].ID == carID {
			me = &state.Cars[i]
			break
		}
	}
	if me == nil || me.Crashed {
		return nil
	}

	blocked := make(map[Vector]bool, len(p.banned)+len(state.Cars))
	for pos := range p.banned {
		blocked[pos] = true
	}
	for _, car := range state.Cars {
		if car.ID == carID || car.Crashed {
			continue
		}
		blocked[car.Position] = true
	}

	start := planState{pos: me.Position, vel: me.Velocity}
	parents := map[planState]planEdge{start: {move: -1}}
	queue := []planState{start}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for moveIdx, accel := range moveVectors {
			vel := current.vel.Add(accel)
			if abs(vel.X) > p.maxVX || abs(vel.Y) > p.maxVY {
				continue
			}
			next := planState{pos: current.pos.Add(vel), vel: vel}

			switch p.sweep(current.pos, next.pos, vel, blocked) {
			case sweepWin:
				return p.rebuild(parents, current, moveIdx)
			case sweepCrash:
				continue
			}

			if _, seen := parents[next]; seen {
				continue
			}
			parents[next] = planEdge{prev: current, move: moveIdx}
			queue = append(queue, next)
		}
	}

	return nil
}

// rebuild walks the parent chain back from the state the winning move
// was made from and returns the move list in driving order.
func (p *LinePlanner) rebuild(parents map[planState]planEdge, last planState, winningMove int) []string {
	moves := []string{moveNames[winningMove]}
	for at := last; parents[at].move >= 0; at = parents[at].prev {
		moves = append(moves, moveNames[parents[at].move])
	}
	for i, j := 0, len(moves)-1; i < j; i, j = i+1, j-1 {
		moves[i], moves[j] = moves[j], moves[i]
	}
	return moves
}

// sweep walks the cells a move passes through, start cell included, and
// classifies the move. The server checks the finish before rival
// occupancy, so a correctly crossed finish wins even with a rival
// parked on it; blocked cells only crash elsewhere on the line.
func (p *LinePlanner) sweep(from, to, vel Vector, blocked map[Vector]bool) int {
	for _, cell := range calculatePath(from, to) {
		if p.isWall(cell) {
			return sweepCrash
		}
		if required, ok := p.finishAt(cell); ok && vel.Sign().Dot(required) > 0 {
			return sweepWin
		}
		if blocked[cell] {
			return sweepCrash
		}
	}
	return sweepClean
}

func (p *LinePlanner) isWall(pos Vector) bool {
	if pos.Y < 0 || pos.Y >= p.height || pos.X < 0 || pos.X >= len(p.rows[pos.Y]) {
		return true
	}
	return p.rows[pos.Y][pos.X] == '#'
}

// finishAt returns the required velocity signum for crossing the cell
// when it is a finish cell.
func (p *LinePlanner) finishAt(pos Vector) (Vector, bool) {
	if pos.Y < 0 || pos.Y >= p.height || pos.X < 0 || pos.X >= len(p.rows[pos.Y]) {
		return Vector{}, false
	}
	switch p.rows[pos.Y][pos.X] {
	case '>':
		return Vector{X: 1, Y: 0}, true
	case '<':
		return Vector{X: -1, Y: 0}, true
	case '^':
		return Vector{X: 0, Y: -1}, true
	case 'v':
		return Vector{X: 0, Y: 1}, true
	}
	return Vector{}, false
}

// calculatePath rasterizes the straight line from start to end into the
// ordered cells a car sweeps through, both endpoints included. The axis
// with the larger distance advances every step, the other only when the
// accumulated error demands it; ties make x the fast axis. This matches
// the server's path rule exactly.
func calculatePath(start, end Vector) []Vector {
	path := []Vector{start}

	diff := end.Subtract(start)
	dist := Vector{X: abs(diff.X), Y: abs(diff.Y)}
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

// speedCap returns the highest speed a car can reach along an axis with
// dim cells of room: the largest k with k(k+1)/2 <= dim.
func speedCap(dim int) int {
	k := 0
	for (k+1)*(k+2)/2 <= dim {
		k++
	}
	return k
}

func (v Vector) Add(w Vector) Vector {
	return Vector{X: v.X + w.X, Y: v.Y + w.Y}
}

func (v Vector) Subtract(w Vector) Vector {
	return Vector{X: v.X - w.X, Y: v.Y - w.Y}
}

func (v Vector) Sign() Vector {
	return Vector{X: sign(v.X), Y: sign(v.Y)}
}

func (v Vector) Dot(w Vector) int {
	return v.X*w.X + v.Y*w.Y
}

func sign(x int) int {
	switch {
	case x < 0:
		return -1
	case x > 0:
		return 1
	}
	return 0
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
