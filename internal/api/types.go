package api

import (
	"time"

	"github.com/eugenenazirov/stripplan/internal/packing"
)

type orderPayload struct {
	UnitSize float64 `json:"unitSize" validate:"gt=0"`
	Count    int     `json:"count" validate:"gt=0,lte=10000"`
}

type cuttingRequest struct {
	Orders     []orderPayload `json:"orders" validate:"max=500,dive"`
	RollLength *float64       `json:"rollLength" validate:"omitempty,gt=0"`
}

func (r *cuttingRequest) pieces() int {
	return countPieces(r.Orders)
}

type sourcesRequest struct {
	Orders              []orderPayload `json:"orders" validate:"max=500,dive"`
	WattsPerMeter       *float64       `json:"wattsPerMeter" validate:"omitempty,gt=0"`
	SafetyFactorPercent *int           `json:"safetyFactorPercent" validate:"omitempty,gte=0,lte=1000"`
	Mode                string         `json:"mode" validate:"omitempty,oneof=grouped individual"`
	Catalog             []float64      `json:"catalog" validate:"max=20,dive,gt=0"`
}

func (r *sourcesRequest) pieces() int {
	return countPieces(r.Orders)
}

type catalogRequest struct {
	Capacities []float64 `json:"capacities" validate:"required,min=1"`
}

type catalogResponse struct {
	Capacities []float64 `json:"capacities"`
	UpdatedAt  time.Time `json:"updatedAt"`
	Message    string    `json:"message,omitempty"`
}

// binView is one bin of a plan with the raw magnitudes it holds.
type binView struct {
	packing.BinRow
	Pieces []float64 `json:"pieces"`
}

type cuttingResponse struct {
	PlanID            string             `json:"planId"`
	RollLength        float64            `json:"rollLength"`
	Bins              []binView          `json:"bins"`
	Statistics        packing.Statistics `json:"statistics"`
	CalculationTimeMs int64              `json:"calculationTimeMs"`
}

type sourcesResponse struct {
	PlanID            string                `json:"planId"`
	Mode              string                `json:"mode"`
	WattsPerMeter     float64               `json:"wattsPerMeter"`
	SafetyFactor      float64               `json:"safetyFactor"`
	Catalog           []float64             `json:"catalog"`
	Bins              []binView             `json:"bins,omitempty"`
	Statistics        *packing.Statistics   `json:"statistics,omitempty"`
	Assignments       []packing.Assignment  `json:"assignments,omitempty"`
	Counts            []packing.SourceCount `json:"counts"`
	CalculationTimeMs int64                 `json:"calculationTimeMs"`
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type errorResponse struct {
	Error      string `json:"error"`
	Details    string `json:"details,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

func toOrders(payload []orderPayload) []packing.Order {
	orders := make([]packing.Order, len(payload))
	for i, o := range payload {
		orders[i] = packing.Order{UnitSize: o.UnitSize, Count: o.Count}
	}
	return orders
}

func countPieces(payload []orderPayload) int {
	n := 0
	for _, o := range payload {
		n += o.Count
	}
	return n
}

func binViews(plan packing.Plan) []binView {
	rows := packing.BinRows(plan)
	views := make([]binView, len(rows))
	for i, row := range rows {
		views[i] = binView{BinRow: row, Pieces: plan.Bins[i].Magnitudes()}
	}
	return views
}
