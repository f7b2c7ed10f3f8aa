// Package grid holds the domain model: cities laid out on a grid, their bus
// and train stations, and the scheduled legs between stations. The model is
// built once by an external loader (internal/store, or a test) and is
// read-only from then on.
package grid

import "fmt"

// Kind distinguishes the two station modes a city may offer.
type Kind uint8

const (
	Bus Kind = iota
	Train
)

func (k Kind) String() string {
	if k == Bus {
		return "bus"
	}
	return "train"
}

// TransferIDPrefix marks a leg ID as a synthetic intra-city transfer. Any ID
// carrying this prefix is treated as a transfer leg everywhere in the engine.
const TransferIDPrefix = "transfer_"

// CityIndex is a stable handle into Model.Cities.
type CityIndex int

// StationID is the globally unique station identifier, e.g. "A_0_1" (bus) or
// "Z_0_1" (train).
type StationID string

// BusStationID formats the bus-station identifier for a grid cell.
func BusStationID(row, col int) StationID {
	return StationID(fmt.Sprintf("A_%d_%d", row, col))
}

// TrainStationID formats the train-station identifier for a grid cell.
func TrainStationID(row, col int) StationID {
	return StationID(fmt.Sprintf("Z_%d_%d", row, col))
}

// TransferLegID formats the synthetic transfer leg identifier between two
// stations.
func TransferLegID(from, to StationID) string {
	return fmt.Sprintf("%s%s_to_%s", TransferIDPrefix, from, to)
}

// IsTransferLegID reports whether a leg ID names a synthetic transfer.
func IsTransferLegID(id string) bool {
	return len(id) >= len(TransferIDPrefix) && id[:len(TransferIDPrefix)] == TransferIDPrefix
}

// City is immutable after Model construction.
type City struct {
	ID       string
	Row, Col int
	Bus      StationID // empty if absent
	Train    StationID // empty if absent
}

// HasBus reports whether the city has a bus station.
func (c City) HasBus() bool { return c.Bus != "" }

// HasTrain reports whether the city has a train station.
func (c City) HasTrain() bool { return c.Train != "" }

// Stations returns the city's existing station IDs, at most two.
func (c City) Stations() []StationID {
	var out []StationID
	if c.HasBus() {
		out = append(out, c.Bus)
	}
	if c.HasTrain() {
		out = append(out, c.Train)
	}
	return out
}

// Station is a single bus or train stop. Outbound holds the real legs added
// by Model.AddLeg; synthetic transfers are added only to the graph builder's
// own adjacency, never here.
type Station struct {
	ID      StationID
	Kind    Kind
	City    CityIndex
	Outbound []Leg
}

// Leg is a scheduled departure, or (when its ID carries TransferIDPrefix) a
// synthetic intra-city transfer.
//
// DepartureTOD and ArrivalTOD are minutes-of-day in [0, 1440). AbsoluteDepartureMinute
// is only meaningful on legs materialized into an assembled Route.
type Leg struct {
	ID                      string
	From, To                StationID
	DepartureTOD, ArrivalTOD int
	Price                   int
	MinWait                 int
	AbsoluteDepartureMinute int
	hasAbsolute             bool
}

// IsTransfer reports whether this leg is a synthetic intra-city transfer.
func (l Leg) IsTransfer() bool { return IsTransferLegID(l.ID) }

// HasAbsoluteDeparture reports whether AbsoluteDepartureMinute was set via
// WithAbsoluteDeparture.
func (l Leg) HasAbsoluteDeparture() bool { return l.hasAbsolute }

// WithAbsoluteDeparture returns a copy of l carrying the given absolute
// departure minute, used when the engine materializes a leg onto a path.
func (l Leg) WithAbsoluteDeparture(minute int) Leg {
	l.AbsoluteDepartureMinute = minute
	l.hasAbsolute = true
	return l
}

// Duration is (arrival - departure) mod 1440 minutes.
func (l Leg) Duration() int {
	d := l.ArrivalTOD - l.DepartureTOD
	d %= 1440
	if d < 0 {
		d += 1440
	}
	return d
}

// Model is the complete, immutable-after-build domain graph input: a grid of
// cities, each with up to two stations, connected by scheduled legs.
type Model struct {
	Rows, Cols int
	Cities     []City
	cityIndex  map[string]CityIndex
	Stations   map[StationID]*Station
}

// NewModel creates an empty model sized rows x cols, ready for cities and
// legs to be added by a loader.
func NewModel(rows, cols int) *Model {
	return &Model{
		Rows:      rows,
		Cols:      cols,
		cityIndex: make(map[string]CityIndex),
		Stations:  make(map[StationID]*Station),
	}
}

// AddCity registers a city with optional bus/train stations at (row, col).
// hasBus/hasTrain control which station kinds exist for this city.
func (m *Model) AddCity(id string, row, col int, hasBus, hasTrain bool) CityIndex {
	c := City{ID: id, Row: row, Col: col}
	if hasBus {
		c.Bus = BusStationID(row, col)
		m.Stations[c.Bus] = &Station{ID: c.Bus, Kind: Bus, City: CityIndex(len(m.Cities))}
	}
	if hasTrain {
		c.Train = TrainStationID(row, col)
		m.Stations[c.Train] = &Station{ID: c.Train, Kind: Train, City: CityIndex(len(m.Cities))}
	}
	idx := CityIndex(len(m.Cities))
	m.Cities = append(m.Cities, c)
	m.cityIndex[id] = idx
	return idx
}

// CityByID looks up a city's index by its external identifier.
func (m *Model) CityByID(id string) (CityIndex, bool) {
	idx, ok := m.cityIndex[id]
	return idx, ok
}

// AddLeg appends a real scheduled leg to its origin station's outbound list.
// It is the loader's responsibility to ensure From/To reference existing
// stations; AddLeg is a no-op append and does not validate duration.
func (m *Model) AddLeg(leg Leg) {
	if st, ok := m.Stations[leg.From]; ok {
		st.Outbound = append(st.Outbound, leg)
	}
}

// Station looks up a station by ID.
func (m *Model) Station(id StationID) (*Station, bool) {
	st, ok := m.Stations[id]
	return st, ok
}
