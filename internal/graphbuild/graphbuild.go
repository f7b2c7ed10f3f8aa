// Package graphbuild turns a grid.Model into an immutable adjacency
// structure: for every station, the set of outgoing real legs plus a
// synthetic intra-city transfer edge to its sibling station when both
// stations of a city exist.
//
// The builder is the only component allowed to mutate anything; once Build
// returns, the resulting Graph is read-only and safe for concurrent
// queries.
package graphbuild

import (
	"fmt"
	"sort"

	"github.com/antigravity/gridrail/internal/grid"
)

// Graph is the built, read-only routing graph: per-station outbound edges,
// including synthetic transfers.
type Graph struct {
	Model    *grid.Model
	Outbound map[grid.StationID][]grid.Leg
}

// Build constructs the adjacency structure for m. It validates that no real
// leg has an impossible duration and inserts a transfer edge in both
// directions for every city that has both a bus and a train station.
func Build(m *grid.Model) (*Graph, error) {
	g := &Graph{
		Model:    m,
		Outbound: make(map[grid.StationID][]grid.Leg, len(m.Stations)),
	}

	for id, st := range m.Stations {
		legs := make([]grid.Leg, len(st.Outbound))
		copy(legs, st.Outbound)
		g.Outbound[id] = legs
	}

	if err := g.validateDurations(); err != nil {
		return nil, err
	}

	g.addTransfers()

	// Deterministic ordering: sort each station's outbound legs by
	// departure time-of-day then leg ID, so two builds of the same model
	// produce the same engine iteration order.
	for id, legs := range g.Outbound {
		sort.Slice(legs, func(i, j int) bool {
			if legs[i].DepartureTOD != legs[j].DepartureTOD {
				return legs[i].DepartureTOD < legs[j].DepartureTOD
			}
			return legs[i].ID < legs[j].ID
		})
		g.Outbound[id] = legs
	}

	return g, nil
}

// minutesPerDay mirrors timeutil.MinutesPerDay; duplicated as an untyped
// constant here to avoid a dependency edge from graphbuild to timeutil for a
// single bound check.
const minutesPerDay = 1440

func (g *Graph) validateDurations() error {
	for id, legs := range g.Outbound {
		for _, l := range legs {
			if l.IsTransfer() {
				continue
			}
			// Duration() folds any negative raw difference into [0, 1440)
			// as an overnight leg; only a negative difference of a full day
			// or more is rejected here. Positive differences are not checked.
			raw := l.ArrivalTOD - l.DepartureTOD
			if raw <= -minutesPerDay {
				return fmt.Errorf("graphbuild: leg %q from %s has impossible duration", l.ID, id)
			}
		}
	}
	return nil
}

// addTransfers inserts a zero-price synthetic leg between a city's bus and
// train stations in both directions, whenever both exist. The transfer's
// MinWait is not meaningful on the edge template itself — the engine derives
// the transfer's actual connection time from the most recent real leg's
// MinWait at expansion time — so the template carries MinWait 0 and zero
// duration; the engine never reads DepartureTOD/ArrivalTOD on a transfer
// leg.
func (g *Graph) addTransfers() {
	for _, c := range g.Model.Cities {
		if !c.HasBus() || !c.HasTrain() {
			continue
		}
		g.addTransferEdge(c.Bus, c.Train)
		g.addTransferEdge(c.Train, c.Bus)
	}
}

func (g *Graph) addTransferEdge(from, to grid.StationID) {
	leg := grid.Leg{
		ID:   grid.TransferLegID(from, to),
		From: from,
		To:   to,
	}
	g.Outbound[from] = append(g.Outbound[from], leg)
}

// StationsOf returns the existing station IDs of a city (zero, one or two).
func (g *Graph) StationsOf(idx grid.CityIndex) []grid.StationID {
	return g.Model.Cities[idx].Stations()
}
