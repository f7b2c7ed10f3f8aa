// Package store hydrates a grid.Model from Postgres: the same in-memory
// shape a test builds by hand with grid.NewModel/AddCity/AddLeg, but read
// from grid_dimensions/cities/legs tables via pgx (stations come from the
// cities table's has_bus/has_train flags), with a log-timed bulk load and
// a pgx.Query/Scan row-loop per table.
package store

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/antigravity/gridrail/internal/grid"
)

// Loader reads the routing grid out of Postgres.
type Loader struct {
	db *pgxpool.Pool
}

// NewLoader wraps an existing pool. The pool's lifecycle (Ping, Close)
// stays with the caller; Loader only ever reads from it.
func NewLoader(db *pgxpool.Pool) *Loader {
	return &Loader{db: db}
}

// LoadModel builds a grid.Model sized from the grid_dimensions table, then attaches
// every station and leg. Cities must be loaded first since AddLeg requires
// its stations to already exist.
func (l *Loader) LoadModel(ctx context.Context) (*grid.Model, error) {
	start := time.Now()
	log.Println("store: loading grid model from database...")

	rows, err := l.db.Query(ctx, `SELECT grid_rows, grid_cols FROM grid_dimensions LIMIT 1`)
	if err != nil {
		return nil, fmt.Errorf("store: query grid_dimensions: %w", err)
	}
	var rowCount, colCount int
	if rows.Next() {
		if err := rows.Scan(&rowCount, &colCount); err != nil {
			rows.Close()
			return nil, fmt.Errorf("store: scan grid_dimensions: %w", err)
		}
	}
	rows.Close()

	m := grid.NewModel(rowCount, colCount)

	if err := l.loadCities(ctx, m); err != nil {
		return nil, err
	}
	if err := l.loadLegs(ctx, m); err != nil {
		return nil, err
	}

	log.Printf("store: loaded %d cities in %s", len(m.Cities), time.Since(start))
	return m, nil
}

func (l *Loader) loadCities(ctx context.Context, m *grid.Model) error {
	rows, err := l.db.Query(ctx, `SELECT city_id, row, col, has_bus, has_train FROM cities ORDER BY row, col`)
	if err != nil {
		return fmt.Errorf("store: query cities: %w", err)
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var id string
		var row, col int
		var hasBus, hasTrain bool
		if err := rows.Scan(&id, &row, &col, &hasBus, &hasTrain); err != nil {
			return fmt.Errorf("store: scan city: %w", err)
		}
		m.AddCity(id, row, col, hasBus, hasTrain)
		count++
	}
	log.Printf("store: loaded %d cities", count)
	return rows.Err()
}

func (l *Loader) loadLegs(ctx context.Context, m *grid.Model) error {
	rows, err := l.db.Query(ctx, `
		SELECT leg_id, from_station, to_station, departure_tod, arrival_tod, price, min_wait
		FROM legs
		ORDER BY leg_id
	`)
	if err != nil {
		return fmt.Errorf("store: query legs: %w", err)
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var leg grid.Leg
		var from, to string
		if err := rows.Scan(&leg.ID, &from, &to, &leg.DepartureTOD, &leg.ArrivalTOD, &leg.Price, &leg.MinWait); err != nil {
			return fmt.Errorf("store: scan leg: %w", err)
		}
		leg.From = grid.StationID(from)
		leg.To = grid.StationID(to)
		m.AddLeg(leg)
		count++
	}
	log.Printf("store: loaded %d legs", count)
	return rows.Err()
}
