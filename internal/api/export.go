package api

import (
	"encoding/csv"
	"net/http"
	"strconv"

	"github.com/eugenenazirov/stripplan/internal/packing"
)

func wantsCSV(r *http.Request) bool {
	return r.URL.Query().Get("format") == "csv"
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func pieceTable(plan packing.Plan) [][]string {
	rows := packing.PieceRows(plan)
	table := make([][]string, 0, len(rows)+1)
	table = append(table, []string{"bin", "piece", "length", "start", "end"})
	for _, row := range rows {
		table = append(table, []string{
			strconv.Itoa(row.Bin),
			strconv.Itoa(row.Piece),
			formatFloat(row.Magnitude),
			formatFloat(row.Start),
			formatFloat(row.End),
		})
	}
	return table
}

func binTable(plan packing.Plan) [][]string {
	rows := packing.BinRows(plan)
	table := make([][]string, 0, len(rows)+1)
	table = append(table, []string{"bin", "capacity", "pieces", "used", "consumption", "utilization_pct", "headroom", "status"})
	for _, row := range rows {
		table = append(table, []string{
			strconv.Itoa(row.Bin),
			formatFloat(row.Capacity),
			strconv.Itoa(row.Pieces),
			formatFloat(row.Used),
			formatFloat(row.Consumption),
			strconv.FormatFloat(row.Utilization*100, 'f', 1, 64),
			formatFloat(row.Headroom),
			string(row.Status),
		})
	}
	return table
}

func assignmentTable(result packing.IndividualResult) [][]string {
	table := make([][]string, 0, len(result.Assignments)+1)
	table = append(table, []string{"unit_size", "count", "consumption", "adjusted", "capacity", "overflowed"})
	for _, a := range result.Assignments {
		table = append(table, []string{
			formatFloat(a.UnitSize),
			strconv.Itoa(a.Count),
			formatFloat(a.Consumption),
			formatFloat(a.Adjusted),
			formatFloat(a.Capacity),
			strconv.FormatBool(a.Overflowed),
		})
	}
	return table
}

func writeCSV(w http.ResponseWriter, filename string, table [][]string) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_ = csv.NewWriter(w).WriteAll(table)
}
