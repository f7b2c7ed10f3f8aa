package routeassembly

import (
	"testing"

	"github.com/antigravity/gridrail/internal/grid"
)

func realLeg(id string, price int) grid.Leg {
	return grid.Leg{ID: id, Price: price}
}

func transferLeg(from, to grid.StationID) grid.Leg {
	return grid.Leg{ID: grid.TransferLegID(from, to), From: from, To: to}
}

func TestAssembleSumsOnlyRealLegPrices(t *testing.T) {
	path := []grid.Leg{
		realLeg("L1", 20),
		transferLeg("A_0_0", "Z_0_0"),
		realLeg("L2", 15),
	}
	r := Assemble("A", "B", path, 90)
	if r.TotalPrice != 35 {
		t.Errorf("TotalPrice = %d, want 35", r.TotalPrice)
	}
	if r.TotalTime != 90 {
		t.Errorf("TotalTime = %d, want 90", r.TotalTime)
	}
	if r.OriginCity != "A" || r.DestinationCity != "B" {
		t.Errorf("Origin/Destination = %s/%s, want A/B", r.OriginCity, r.DestinationCity)
	}
}

func TestTransferCountSkipsTransferLegsAndCountsLegChanges(t *testing.T) {
	cases := []struct {
		name string
		legs []grid.Leg
		want int
	}{
		{
			name: "single leg, no transfers",
			legs: []grid.Leg{realLeg("L1", 1)},
			want: 0,
		},
		{
			name: "same leg id repeated never counts",
			legs: []grid.Leg{realLeg("L1", 1), realLeg("L1", 1)},
			want: 0,
		},
		{
			name: "two distinct real legs across a transfer",
			legs: []grid.Leg{
				realLeg("L1", 1),
				transferLeg("A_0_0", "Z_0_0"),
				realLeg("L2", 1),
			},
			want: 1,
		},
		{
			name: "three distinct real legs",
			legs: []grid.Leg{
				realLeg("L1", 1),
				realLeg("L2", 1),
				realLeg("L3", 1),
			},
			want: 2,
		},
		{
			name: "leading transfer leg does not count",
			legs: []grid.Leg{
				transferLeg("A_0_0", "Z_0_0"),
				realLeg("L1", 1),
			},
			want: 0,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := TransferCount(c.legs); got != c.want {
				t.Errorf("TransferCount() = %d, want %d", got, c.want)
			}
		})
	}
}

func TestAssembleCopiesPathDefensively(t *testing.T) {
	path := []grid.Leg{realLeg("L1", 5)}
	r := Assemble("A", "B", path, 10)
	path[0].Price = 999
	if r.Legs[0].Price != 5 {
		t.Errorf("Assemble result aliases caller's slice: Price = %d, want 5", r.Legs[0].Price)
	}
}
