package engine

// CarState is the public snapshot of one car.
type CarState struct {
	ID       string `json:"id"`
	Position Vector `json:"position"`
	Velocity Vector `json:"velocity"`
	Crashed  bool   `json:"crashed"`
}

// RaceState is the complete public snapshot of a race, shaped for JSON
// responses and WebSocket broadcasts. Grid holds the rendered rows
// with the cars overlaid.
type RaceState struct {
	Grid            []string   `json:"grid"`
	Width           int        `json:"width"`
	Height          int        `json:"height"`
	Cars            []CarState `json:"cars"`
	CurrentCarIndex int        `json:"current_car_index"`
	CurrentCarID    string     `json:"current_car_id"`
	WinnerIndex     int        `json:"winner_index"`
	Winner          string     `json:"winner,omitempty"`
	Running         bool       `json:"running"`
	TotalTurns      int        `json:"total_turns"`
}

// Grid renders the track with the cars overlaid: live cars show their
// id, crashed cars the crash indicator. Cars frozen outside the grid
// (crashed into the boundary) are not drawn.
func (g *Game) Grid() []string {
	rows := make([][]rune, g.track.Height())
	for y, row := range g.track.Rows() {
		rows[y] = []rune(row)
	}

	for _, car := range g.cars {
		pos := car.Position()
		if pos.Y < 0 || pos.Y >= len(rows) || pos.X < 0 || pos.X >= len(rows[pos.Y]) {
			continue
		}
		marker := car.ID()
		if car.IsCrashed() {
			marker = CrashIndicator
		}
		rows[pos.Y][pos.X] = marker
	}

	out := make([]string, len(rows))
	for y, row := range rows {
		out[y] = string(row)
	}
	return out
}

// GetState snapshots the race into a RaceState.
func (g *Game) GetState() *RaceState {
	cars := make([]CarState, len(g.cars))
	for i, car := range g.cars {
		cars[i] = CarState{
			ID:       string(car.ID()),
			Position: car.Position(),
			Velocity: car.Velocity(),
			Crashed:  car.IsCrashed(),
		}
	}

	winner := ""
	if g.winner != NoWinner {
		winner = string(g.cars[g.winner].ID())
	}

	return &RaceState{
		Grid:            g.Grid(),
		Width:           g.track.Width(),
		Height:          g.track.Height(),
		Cars:            cars,
		CurrentCarIndex: g.currentCarIndex,
		CurrentCarID:    string(g.cars[g.currentCarIndex].ID()),
		WinnerIndex:     g.winner,
		Winner:          winner,
		Running:         g.IsRunning(),
		TotalTurns:      g.totalTurns,
	}
}
