// Package routeassembly materializes a terminal search state's leg sequence
// into the immutable Route record the engine returns to callers, computing
// its summary totals (price, time, transfer count).
//
// This generalizes a label-walking reconstruction step (walking backtrack
// pointers into leg/journey values) from a single best-arrival journey to
// an arbitrary admitted path handed to it by the engine's frontier search.
package routeassembly

import "github.com/antigravity/gridrail/internal/grid"

// Route is the caller-owned, immutable result of a single k_shortest
// candidate: an origin city, a destination city, and a time-consistent
// sequence of legs with absolute departure minutes set.
type Route struct {
	OriginCity      string
	DestinationCity string
	Legs            []grid.Leg
	TotalPrice      int
	TotalTime       int
	TransferCount   int
}

// Assemble builds a Route from a path of materialized legs (each already
// carrying its AbsoluteDepartureMinute) and the terminal state's total
// time. TotalPrice is the sum of non-transfer leg prices; TransferCount is
// computed by the authoritative post-hoc scan below rather than reusing
// whatever running transfer count the search kept during expansion.
func Assemble(originCity, destinationCity string, path []grid.Leg, totalTime int) Route {
	legs := make([]grid.Leg, len(path))
	copy(legs, path)

	price := 0
	for _, l := range legs {
		if !l.IsTransfer() {
			price += l.Price
		}
	}

	return Route{
		OriginCity:      originCity,
		DestinationCity: destinationCity,
		Legs:            legs,
		TotalPrice:      price,
		TotalTime:       totalTime,
		TransferCount:   TransferCount(legs),
	}
}

// TransferCount is the number of times two consecutive non-transfer legs
// have different leg IDs. Synthetic transfer legs are skipped during the
// scan and never themselves increment the count.
func TransferCount(legs []grid.Leg) int {
	count := 0
	var prev *grid.Leg
	for i := range legs {
		l := &legs[i]
		if l.IsTransfer() {
			continue
		}
		if prev != nil && prev.ID != l.ID {
			count++
		}
		prev = l
	}
	return count
}
