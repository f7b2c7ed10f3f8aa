package grid

import "testing"

func TestBusAndTrainStationIDsAreDistinct(t *testing.T) {
	bus := BusStationID(2, 3)
	train := TrainStationID(2, 3)
	if bus == StationID(train) {
		t.Fatalf("bus and train station IDs collided: %q", bus)
	}
	if bus != "A_2_3" {
		t.Errorf("BusStationID(2, 3) = %q, want A_2_3", bus)
	}
	if train != "Z_2_3" {
		t.Errorf("TrainStationID(2, 3) = %q, want Z_2_3", train)
	}
}

func TestTransferLegIDRoundTrip(t *testing.T) {
	from := BusStationID(0, 0)
	to := TrainStationID(0, 0)
	id := TransferLegID(from, to)
	if !IsTransferLegID(id) {
		t.Errorf("IsTransferLegID(%q) = false, want true", id)
	}
	if IsTransferLegID(string(from)) {
		t.Errorf("IsTransferLegID(%q) = true, want false", from)
	}
}

func TestLegDurationWrapsOvernight(t *testing.T) {
	l := Leg{DepartureTOD: 23 * 60, ArrivalTOD: 1 * 60}
	if got, want := l.Duration(), 120; got != want {
		t.Errorf("Duration() = %d, want %d", got, want)
	}
}

func TestLegDurationSameDay(t *testing.T) {
	l := Leg{DepartureTOD: 480, ArrivalTOD: 540}
	if got, want := l.Duration(), 60; got != want {
		t.Errorf("Duration() = %d, want %d", got, want)
	}
}

func TestLegWithAbsoluteDeparture(t *testing.T) {
	l := Leg{ID: "L1"}
	if l.HasAbsoluteDeparture() {
		t.Fatal("fresh leg reports HasAbsoluteDeparture")
	}
	l2 := l.WithAbsoluteDeparture(100)
	if !l2.HasAbsoluteDeparture() {
		t.Error("WithAbsoluteDeparture result reports HasAbsoluteDeparture = false")
	}
	if l2.AbsoluteDepartureMinute != 100 {
		t.Errorf("AbsoluteDepartureMinute = %d, want 100", l2.AbsoluteDepartureMinute)
	}
	// original is untouched (value receiver).
	if l.HasAbsoluteDeparture() {
		t.Error("WithAbsoluteDeparture mutated its receiver")
	}
}

func TestCityStationsAndAddCity(t *testing.T) {
	m := NewModel(3, 3)
	idx := m.AddCity("A", 0, 1, true, true)
	c := m.Cities[idx]
	if !c.HasBus() || !c.HasTrain() {
		t.Fatalf("city %+v missing expected stations", c)
	}
	stations := c.Stations()
	if len(stations) != 2 {
		t.Fatalf("Stations() returned %d entries, want 2", len(stations))
	}
	if stations[0] != c.Bus || stations[1] != c.Train {
		t.Errorf("Stations() = %v, want [%s %s]", stations, c.Bus, c.Train)
	}

	gotIdx, ok := m.CityByID("A")
	if !ok || gotIdx != idx {
		t.Errorf("CityByID(A) = (%d, %v), want (%d, true)", gotIdx, ok, idx)
	}

	if _, ok := m.Station(c.Bus); !ok {
		t.Errorf("Station(%s) not found after AddCity", c.Bus)
	}
}

func TestAddCityBusOnly(t *testing.T) {
	m := NewModel(1, 1)
	idx := m.AddCity("B", 0, 0, true, false)
	c := m.Cities[idx]
	if !c.HasBus() {
		t.Fatal("expected bus station")
	}
	if c.HasTrain() {
		t.Fatal("did not expect train station")
	}
	if len(c.Stations()) != 1 {
		t.Errorf("Stations() = %v, want single bus station", c.Stations())
	}
}

func TestAddLegAppendsToOriginStationOnly(t *testing.T) {
	m := NewModel(1, 2)
	m.AddCity("A", 0, 0, true, false)
	m.AddCity("B", 0, 1, true, false)
	from := BusStationID(0, 0)
	to := BusStationID(0, 1)
	m.AddLeg(Leg{ID: "L1", From: from, To: to, DepartureTOD: 480, ArrivalTOD: 540, Price: 10, MinWait: 5})

	st, ok := m.Station(from)
	if !ok || len(st.Outbound) != 1 {
		t.Fatalf("origin station outbound = %v, want one leg", st)
	}
	dst, _ := m.Station(to)
	if len(dst.Outbound) != 0 {
		t.Errorf("destination station outbound should stay empty, got %v", dst.Outbound)
	}
}

func TestAddLegIgnoresUnknownOrigin(t *testing.T) {
	m := NewModel(1, 1)
	// Should not panic even though "ghost" station does not exist.
	m.AddLeg(Leg{ID: "L1", From: StationID("ghost"), To: StationID("also-ghost")})
}
