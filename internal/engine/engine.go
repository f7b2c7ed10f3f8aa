// Package engine implements the time-expanded K-shortest-paths search
// kernel: a cost-ordered frontier search over scheduled departures that
// emits up to K distinct journeys ranked by a chosen criterion.
//
// The engine is single-threaded and synchronous: one query owns its
// frontier and its per-query bookkeeping maps; nothing here is shared
// across concurrent queries. The search generalizes a fixed-round RAPTOR
// sweep into a priority-queue frontier over container/heap, so criteria
// other than earliest-arrival are expressible.
package engine

import (
	"container/heap"
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/antigravity/gridrail/internal/graphbuild"
	"github.com/antigravity/gridrail/internal/grid"
	"github.com/antigravity/gridrail/internal/routeassembly"
	"github.com/antigravity/gridrail/internal/timeutil"
)

// Criterion selects the objective function a query optimizes for.
type Criterion string

const (
	Time      Criterion = "time"
	Price     Criterion = "price"
	Transfers Criterion = "transfers"
)

func (c Criterion) valid() bool {
	switch c {
	case Time, Price, Transfers:
		return true
	default:
		return false
	}
}

// Status reports how the search terminated. It is not an error — only
// ErrInvalidQuery and ErrUnknownCity are hard failures.
type Status string

const (
	OK              Status = "OK"
	NoRoute         Status = "NO_ROUTE"
	BudgetExhausted Status = "BUDGET_EXHAUSTED"
)

// Sentinel errors for the two hard-fail conditions. Reported before any
// search begins.
var (
	ErrInvalidQuery = errors.New("engine: invalid query")
	ErrUnknownCity  = errors.New("engine: unknown city")
)

// Limits exposes the search's pruning thresholds as tunable parameters
// instead of burying them as unexported constants. DefaultLimits returns
// this engine's own defaults.
type Limits struct {
	MaxLegs          int
	MaxTotalTime      int
	MaxTransfers      int
	MaxIterations     int
	MaxVisitsPerStationTime      int
	MaxVisitsPerStationOther     int
	TimeToleranceFloor    int
	TimeToleranceFraction float64
	PriceToleranceFloor    int
	PriceToleranceFraction float64
	TransfersTolerance     int
}

// DefaultLimits returns this engine's default pruning thresholds.
func DefaultLimits() Limits {
	return Limits{
		MaxLegs:       100,
		MaxTotalTime:  20 * timeutil.MinutesPerDay,
		MaxTransfers:  30,
		MaxIterations: 1_000_000,

		MaxVisitsPerStationTime:  100,
		MaxVisitsPerStationOther: 50,

		TimeToleranceFloor:    120,
		TimeToleranceFraction: 0.5,

		PriceToleranceFloor:    100,
		PriceToleranceFraction: 0.4,

		TransfersTolerance: 1,
	}
}

func (l Limits) maxVisits(c Criterion) int {
	if c == Time {
		return l.MaxVisitsPerStationTime
	}
	return l.MaxVisitsPerStationOther
}

func (l Limits) tolerance(c Criterion, best float64) float64 {
	switch c {
	case Time:
		f := l.TimeToleranceFraction * best
		if f < float64(l.TimeToleranceFloor) {
			f = float64(l.TimeToleranceFloor)
		}
		return f
	case Price:
		f := l.PriceToleranceFraction * best
		if f < float64(l.PriceToleranceFloor) {
			f = float64(l.PriceToleranceFloor)
		}
		return f
	default: // Transfers
		return float64(l.TransfersTolerance)
	}
}

// Query is a k-shortest-paths request.
type Query struct {
	OriginCity      string
	DestinationCity string
	Criterion       Criterion
	K               int
}

// Result carries the (possibly empty) ordered route list plus a status: the
// engine never throws for NO_ROUTE/BUDGET_EXHAUSTED.
type Result struct {
	Routes []routeassembly.Route
	Status Status
}

// Engine runs queries against a single immutable graph. A *Engine may be
// shared by concurrent callers; each call to KShortest owns its own
// frontier and bookkeeping.
type Engine struct {
	Graph  *graphbuild.Graph
	Limits Limits
}

// New constructs an Engine with the given graph and the default pruning
// limits.
func New(g *graphbuild.Graph) *Engine {
	return &Engine{Graph: g, Limits: DefaultLimits()}
}

// transferPenalty is the per-criterion cost added for traversing a transfer
// leg, discouraging routing through transfers that do not help.
func transferPenalty(c Criterion) float64 {
	switch c {
	case Time:
		return 5
	case Price:
		return 1.0
	default:
		return 0
	}
}

// state is a single frontier entry: an immutable snapshot of a partial
// journey. path is copy-on-extend: the leg cap bounds the copy cost per
// expansion step, and a flat slice signatures cheaply.
type state struct {
	station       grid.StationID
	path          []grid.Leg
	cost          float64
	arrivalMinute int
	totalTime     int
	transfers     int
	seq           int // insertion order, for stable tie-breaking
}

// frontier is a min-heap on (cost, seq).
type frontier []*state

func (f frontier) Len() int { return len(f) }
func (f frontier) Less(i, j int) bool {
	if f[i].cost != f[j].cost {
		return f[i].cost < f[j].cost
	}
	return f[i].seq < f[j].seq
}
func (f frontier) Swap(i, j int)      { f[i], f[j] = f[j], f[i] }
func (f *frontier) Push(x interface{}) { *f = append(*f, x.(*state)) }
func (f *frontier) Pop() interface{} {
	old := *f
	n := len(old)
	s := old[n-1]
	old[n-1] = nil
	*f = old[:n-1]
	return s
}

// KShortest runs the query and returns at most Query.K distinct routes,
// ordered by the query's criterion. ctx is checked every 1000 pops so a
// cancellation propagates without taxing the hot loop; a nil ctx is treated
// as context.Background().
func (e *Engine) KShortest(ctx context.Context, q Query) (Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if !q.Criterion.valid() {
		return Result{}, fmt.Errorf("%w: unknown criterion %q", ErrInvalidQuery, q.Criterion)
	}
	if q.K <= 0 {
		return Result{}, fmt.Errorf("%w: k must be positive", ErrInvalidQuery)
	}
	if q.OriginCity == q.DestinationCity {
		return Result{}, fmt.Errorf("%w: origin equals destination", ErrInvalidQuery)
	}

	m := e.Graph.Model
	originIdx, ok := m.CityByID(q.OriginCity)
	if !ok {
		return Result{}, fmt.Errorf("%w: origin city %q", ErrUnknownCity, q.OriginCity)
	}
	destIdx, ok := m.CityByID(q.DestinationCity)
	if !ok {
		return Result{}, fmt.Errorf("%w: destination city %q", ErrUnknownCity, q.DestinationCity)
	}

	originStations := e.Graph.StationsOf(originIdx)
	destStations := e.Graph.StationsOf(destIdx)
	destSet := make(map[grid.StationID]bool, len(destStations))
	for _, s := range destStations {
		destSet[s] = true
	}

	// Fail silently (empty result) when origin or destination has no
	// stations at all.
	if len(originStations) == 0 || len(destStations) == 0 {
		return Result{Status: NoRoute}, nil
	}

	f := &frontier{}
	heap.Init(f)
	seq := 0
	for _, s := range originStations {
		heap.Push(f, &state{station: s, seq: seq})
		seq++
	}

	visits := make(map[grid.StationID]int)
	bestCost := make(map[grid.StationID]float64)
	seen := make(map[string]bool)

	var emitted []routeassembly.Route
	iterations := 0
	exhausted := false

	for f.Len() > 0 {
		if len(emitted) >= q.K {
			break
		}
		if iterations >= e.Limits.MaxIterations {
			exhausted = true
			break
		}
		if iterations%1000 == 0 {
			select {
			case <-ctx.Done():
				exhausted = true
				iterations = e.Limits.MaxIterations // force BUDGET_EXHAUSTED below
			default:
			}
			if exhausted {
				break
			}
		}

		cur := heap.Pop(f).(*state)
		iterations++

		visits[cur.station]++
		if visits[cur.station] > e.Limits.maxVisits(q.Criterion) {
			continue
		}
		if best, ok := bestCost[cur.station]; ok {
			if cur.cost > best+e.Limits.tolerance(q.Criterion, best) {
				continue
			}
			if cur.cost < best {
				bestCost[cur.station] = cur.cost
			}
		} else {
			bestCost[cur.station] = cur.cost
		}

		if destSet[cur.station] && len(cur.path) > 0 {
			if route, ok := e.tryEmit(cur, q); ok {
				sig := signature(cur.path)
				if !seen[sig] {
					seen[sig] = true
					emitted = append(emitted, route)
				}
			}
		}

		e.expand(f, &seq, cur, q.Criterion)
	}

	status := OK
	if len(emitted) == 0 {
		status = NoRoute
	} else if exhausted || (iterations >= e.Limits.MaxIterations && len(emitted) < q.K) {
		status = BudgetExhausted
	}

	sortRoutes(emitted, q.Criterion)
	if len(emitted) > q.K {
		emitted = emitted[:q.K]
	}

	return Result{Routes: emitted, Status: status}, nil
}

// tryEmit materializes a terminal state into a Route, rejecting
// degenerate (transfer-only) candidates.
func (e *Engine) tryEmit(s *state, q Query) (routeassembly.Route, bool) {
	hasReal := false
	for _, l := range s.path {
		if !l.IsTransfer() {
			hasReal = true
			break
		}
	}
	if !hasReal {
		return routeassembly.Route{}, false
	}
	return routeassembly.Assemble(q.OriginCity, q.DestinationCity, s.path, s.totalTime), true
}

// expand enqueues every admissible successor of cur.
func (e *Engine) expand(f *frontier, seq *int, cur *state, criterion Criterion) {
	visited := make(map[grid.StationID]bool, len(cur.path)+1)
	for _, l := range cur.path {
		visited[l.From] = true
	}
	visited[cur.station] = true
	// Also guard against the very first state (no path yet): its own
	// station counts as visited.

	for _, leg := range e.Graph.Outbound[cur.station] {
		if visited[leg.To] {
			continue // simple-path guard
		}
		if leg.IsTransfer() && len(cur.path) == 0 {
			continue // no-initial-transfer guard
		}

		var (
			depAbs, arrivalAbs, wait, inVehicle int
			materialized                        grid.Leg
		)

		if leg.IsTransfer() {
			mwLast := lastRealMinWait(cur.path)
			depAbs = cur.arrivalMinute
			arrivalAbs = cur.arrivalMinute + mwLast
			wait = 0
			inVehicle = mwLast
			materialized = leg.WithAbsoluteDeparture(depAbs)
			materialized.DepartureTOD = timeutil.MinuteOfDay(depAbs)
			materialized.ArrivalTOD = timeutil.MinuteOfDay(arrivalAbs)
		} else {
			depAbs = timeutil.NextBoarding(cur.arrivalMinute, leg.MinWait, leg.DepartureTOD)
			inVehicle = leg.Duration()
			arrivalAbs = depAbs + inVehicle
			wait = depAbs - cur.arrivalMinute
			materialized = leg.WithAbsoluteDeparture(depAbs)
		}

		if wait < 0 {
			continue
		}

		newPath := make([]grid.Leg, len(cur.path)+1)
		copy(newPath, cur.path)
		newPath[len(cur.path)] = materialized

		newLen := len(newPath)
		newTotalTime := cur.totalTime + wait + inVehicle
		newTransfers := cur.transfers
		if !leg.IsTransfer() {
			if last := lastRealLeg(cur.path); last != nil && last.ID != leg.ID {
				newTransfers++
			}
		}

		if newLen > e.Limits.MaxLegs {
			continue
		}
		if newTotalTime > e.Limits.MaxTotalTime {
			continue
		}
		if newTransfers > e.Limits.MaxTransfers {
			continue
		}

		cost := cur.cost + stepCost(criterion, leg, wait, inVehicle)
		if criterion == Transfers {
			cost += float64(newTransfers - cur.transfers)
		}

		next := &state{
			station:       leg.To,
			path:          newPath,
			cost:          cost,
			arrivalMinute: arrivalAbs,
			totalTime:     newTotalTime,
			transfers:     newTransfers,
			seq:           *seq,
		}
		*seq++
		heap.Push(f, next)
	}
}

// stepCost computes the incremental cost contribution of traversing leg,
// under the chosen criterion's cost model plus transfer penalty.
func stepCost(c Criterion, leg grid.Leg, wait, inVehicle int) float64 {
	switch c {
	case Time:
		cost := float64(wait + inVehicle)
		if leg.IsTransfer() {
			cost += transferPenalty(Time)
		}
		return cost
	case Price:
		cost := 0.0
		if !leg.IsTransfer() {
			cost = float64(leg.Price)
		} else {
			cost = transferPenalty(Price)
		}
		return cost
	default: // Transfers
		return 0
	}
}

// lastRealLeg returns the most recent non-transfer leg in path, or nil.
func lastRealLeg(path []grid.Leg) *grid.Leg {
	for i := len(path) - 1; i >= 0; i-- {
		if !path[i].IsTransfer() {
			return &path[i]
		}
	}
	return nil
}

// lastRealMinWait returns the MinWait of the most recent non-transfer leg in
// path, or 0 if none exists. A transfer leg borrows this value as its own
// in-vehicle duration, since it has no independent travel-time field.
func lastRealMinWait(path []grid.Leg) int {
	if l := lastRealLeg(path); l != nil {
		return l.MinWait
	}
	return 0
}

// signature computes the canonical duplicate-suppression key for a path:
// two paths with the same signature are considered the same journey.
func signature(path []grid.Leg) string {
	var b []byte
	for i, l := range path {
		b = append(b, fmt.Sprintf("%d:%s->%s_%s_%d", i, l.From, l.To, l.ID, timeutil.MinuteOfDay(l.DepartureTOD))...)
	}
	return string(b)
}

// sortRoutes applies the total-order comparator for the query's criterion.
func sortRoutes(routes []routeassembly.Route, c Criterion) {
	sort.SliceStable(routes, func(i, j int) bool {
		a, b := routes[i], routes[j]
		switch c {
		case Time:
			return a.TotalTime < b.TotalTime
		case Price:
			if a.TotalPrice != b.TotalPrice {
				return a.TotalPrice < b.TotalPrice
			}
			return a.TotalTime < b.TotalTime
		default: // Transfers
			if a.TransferCount != b.TransferCount {
				return a.TransferCount < b.TransferCount
			}
			return a.TotalTime < b.TotalTime
		}
	})
}
