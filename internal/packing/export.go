package packing

// PieceRow locates one piece inside its bin. Bin and Piece are 1-based and
// Start/End are cumulative offsets of the raw magnitudes.
type PieceRow struct {
	Bin       int     `json:"bin"`
	Piece     int     `json:"piece"`
	Magnitude float64 `json:"magnitude"`
	Start     float64 `json:"start"`
	End       float64 `json:"end"`
}

// BinRow is the per-bin detail line of a plan.
type BinRow struct {
	Bin         int     `json:"bin"`
	Capacity    float64 `json:"capacity"`
	Pieces      int     `json:"pieces"`
	Used        float64 `json:"used"`
	Consumption float64 `json:"consumption"`
	Utilization float64 `json:"utilization"`
	Headroom    float64 `json:"headroom"`
	Status      Status  `json:"status"`
}

// PieceRows flattens a plan into one row per piece.
func PieceRows(plan Plan) []PieceRow {
	rows := make([]PieceRow, 0, plan.Units())
	for bi, b := range plan.Bins {
		offset := 0.0
		for pi, u := range b.Units {
			rows = append(rows, PieceRow{
				Bin:       bi + 1,
				Piece:     pi + 1,
				Magnitude: u.Magnitude,
				Start:     offset,
				End:       offset + u.Magnitude,
			})
			offset += u.Magnitude
		}
	}
	return rows
}

// BinRows flattens a plan into one row per bin.
func BinRows(plan Plan) []BinRow {
	rows := make([]BinRow, 0, len(plan.Bins))
	for i, b := range plan.Bins {
		rows = append(rows, BinRow{
			Bin:         i + 1,
			Capacity:    b.Capacity,
			Pieces:      len(b.Units),
			Used:        b.Used,
			Consumption: b.Consumption,
			Utilization: b.Utilization(),
			Headroom:    b.Waste(),
			Status:      b.Status(),
		})
	}
	return rows
}
