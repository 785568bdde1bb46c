package demand

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cepro/gridbuilder/geometry"
	"github.com/cepro/gridbuilder/network"
	"github.com/cepro/gridbuilder/spatial"
)

func square(x0 float64) geometry.Polygon {
	return geometry.Polygon{Exterior: geometry.Ring{
		{X: x0, Y: 0},
		{X: x0 + 1, Y: 0},
		{X: x0 + 1, Y: 1},
		{X: x0, Y: 1},
	}}
}

func testNetwork(t *testing.T, hours int) *network.Network {
	start := time.Date(2013, 1, 1, 0, 0, 0, 0, time.UTC)
	n := network.New(network.HourlySnapshots(start, start.Add(time.Duration(hours)*time.Hour)))
	require.NoError(t, n.AddBus(network.Bus{Name: "bus0", Country: "NG", SubstationLV: true}))
	require.NoError(t, n.AddBus(network.Bus{Name: "bus1", Country: "NG", SubstationLV: true}))
	require.NoError(t, n.AddBus(network.Bus{Name: "bus2", Country: "NG", SubstationLV: false}))
	return n
}

func TestAttachConservesCountryDemand(t *testing.T) {
	n := testNetwork(t, 4)
	regions := []spatial.NodeRegion{
		{Bus: "bus0", Country: "NG", Geometry: square(0)},
		{Bus: "bus1", Country: "NG", Geometry: square(2)},
	}
	admins := []spatial.AdminRegion{
		spatial.NewAdminRegion("NG.0", "NG", 300, 10, true, true, square(0)),
		spatial.NewAdminRegion("NG.1", "NG", 100, 30, true, true, square(2)),
	}
	countrySeries := network.NewSeriesFrom([]float64{100, 200, 150, 50})
	scale := 1.3

	err := Attach(n, regions, admins, map[string]*network.Series{"NG": countrySeries}, []string{"NG"}, scale)
	require.NoError(t, err)
	require.Len(t, n.Loads, 2)

	// the disaggregated node series must sum back to the scaled country series
	for i := range countrySeries.Values {
		total := 0.0
		for _, l := range n.Loads {
			total += l.PSet.Values[i]
		}
		assert.InDelta(t, scale*countrySeries.Values[i], total, 1e-9)
	}
}

func TestAttachSkipsNonSubstationBuses(t *testing.T) {
	n := testNetwork(t, 2)
	regions := []spatial.NodeRegion{
		{Bus: "bus0", Country: "NG", Geometry: square(0)},
		{Bus: "bus2", Country: "NG", Geometry: square(2)}, // not a LV substation
	}
	series := network.NewSeriesFrom([]float64{10, 20})

	err := Attach(n, regions, nil, map[string]*network.Series{"NG": series}, []string{"NG"}, 1.0)
	require.NoError(t, err)

	// bus2 is filtered out, so bus0 is the single node and takes everything
	require.Len(t, n.Loads, 1)
	assert.Equal(t, "bus0", n.Loads[0].Bus)
	assert.Equal(t, []float64{10, 20}, n.Loads[0].PSet.Values)
}

func TestAttachMissingDemandSeriesIsFatal(t *testing.T) {
	n := testNetwork(t, 2)
	regions := []spatial.NodeRegion{{Bus: "bus0", Country: "NG", Geometry: square(0)}}

	err := Attach(n, regions, nil, map[string]*network.Series{}, []string{"NG"}, 1.0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"NG"`)
}

func TestAttachRestrictsToConfiguredCountries(t *testing.T) {
	n := testNetwork(t, 2)
	require.NoError(t, n.AddBus(network.Bus{Name: "bus3", Country: "BJ", SubstationLV: true}))
	regions := []spatial.NodeRegion{
		{Bus: "bus0", Country: "NG", Geometry: square(0)},
		{Bus: "bus3", Country: "BJ", Geometry: square(2)},
	}
	demand := map[string]*network.Series{
		"NG": network.NewSeriesFrom([]float64{10, 20}),
		"BJ": network.NewSeriesFrom([]float64{1, 2}),
	}

	err := Attach(n, regions, nil, demand, []string{"NG"}, 1.0)
	require.NoError(t, err)
	require.Len(t, n.Loads, 1)
	assert.Equal(t, "bus0", n.Loads[0].Bus)
}

func TestAttachHorizonMismatchIsFatal(t *testing.T) {
	n := testNetwork(t, 4)
	regions := []spatial.NodeRegion{{Bus: "bus0", Country: "NG", Geometry: square(0)}}
	short := network.NewSeriesFrom([]float64{10, 20})

	err := Attach(n, regions, nil, map[string]*network.Series{"NG": short}, []string{"NG"}, 1.0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "covers 2 snapshots")
}
