package spatial

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cepro/gridbuilder/geometry"
)

func square(x0 float64) geometry.Polygon {
	return geometry.Polygon{Exterior: geometry.Ring{
		{X: x0, Y: 0},
		{X: x0 + 1, Y: 0},
		{X: x0 + 1, Y: 1},
		{X: x0, Y: 1},
	}}
}

// threeNodeFixture builds three unit-square node regions with coinciding
// admin regions, so the transfer matrix is the identity and the statistics
// shares map straight onto the nodes.
func threeNodeFixture(gdp, pop [3]float64) ([]NodeRegion, []AdminRegion) {
	var nodes []NodeRegion
	var admins []AdminRegion
	for i := 0; i < 3; i++ {
		shape := square(float64(i) * 2)
		nodes = append(nodes, NodeRegion{
			Bus:      []string{"bus0", "bus1", "bus2"}[i],
			Country:  "NG",
			Geometry: shape,
		})
		admins = append(admins, NewAdminRegion(
			[]string{"NG.0", "NG.1", "NG.2"}[i], "NG", gdp[i], pop[i], true, true, shape,
		))
	}
	return nodes, admins
}

func TestApportionSingleNodeGetsFullWeight(t *testing.T) {
	nodes := []NodeRegion{{Bus: "bus0", Country: "BJ", Geometry: square(0)}}

	weights, err := Apportion("BJ", nodes, nil)
	require.NoError(t, err)
	require.Len(t, weights, 1)
	assert.Equal(t, "bus0", weights[0].Bus)
	assert.Equal(t, 1.0, weights[0].Fraction)
	assert.InDelta(t, 1.0, weights.Sum(), 1e-12)
}

func TestApportionThreeNodeBlend(t *testing.T) {
	// GDP shares [0.5 0.3 0.2], population shares [0.2 0.3 0.5]:
	// blended weights are normalize(0.6*gdp + 0.4*pop) = [0.38 0.30 0.32]
	nodes, admins := threeNodeFixture([3]float64{0.5, 0.3, 0.2}, [3]float64{0.2, 0.3, 0.5})

	weights, err := Apportion("NG", nodes, admins)
	require.NoError(t, err)
	require.Len(t, weights, 3)
	assert.InDelta(t, 0.38, weights[0].Fraction, 1e-9)
	assert.InDelta(t, 0.30, weights[1].Fraction, 1e-9)
	assert.InDelta(t, 0.32, weights[2].Fraction, 1e-9)
	assert.InDelta(t, 1.0, weights.Sum(), 1e-9)
}

func TestApportionWeightsSumToOne(t *testing.T) {
	nodes, admins := threeNodeFixture([3]float64{123, 4.5, 0.01}, [3]float64{9, 99, 999})

	weights, err := Apportion("NG", nodes, admins)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, weights.Sum(), 1e-9)
}

func TestApportionPartialOverlapIsFractional(t *testing.T) {
	// one admin region spanning both node squares equally: its statistics
	// split 50/50 between the nodes
	nodes := []NodeRegion{
		{Bus: "bus0", Country: "NG", Geometry: square(0)},
		{Bus: "bus1", Country: "NG", Geometry: square(1)},
	}
	wide := geometry.Polygon{Exterior: geometry.Ring{
		{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 1}, {X: 0, Y: 1},
	}}
	admins := []AdminRegion{NewAdminRegion("NG.0", "NG", 100, 50, true, true, wide)}

	weights, err := Apportion("NG", nodes, admins)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, weights[0].Fraction, 1e-9)
	assert.InDelta(t, 0.5, weights[1].Fraction, 1e-9)
}

func TestApportionZeroStatisticsFallsBackToUniform(t *testing.T) {
	nodes, admins := threeNodeFixture([3]float64{0, 0, 0}, [3]float64{0, 0, 0})

	weights, err := Apportion("NG", nodes, admins)
	require.NoError(t, err)
	for _, w := range weights {
		assert.InDelta(t, 1.0/3.0, w.Fraction, 1e-9)
	}
}

func TestApportionZeroGDPUsesPopulationOnly(t *testing.T) {
	nodes, admins := threeNodeFixture([3]float64{0, 0, 0}, [3]float64{1, 1, 2})

	weights, err := Apportion("NG", nodes, admins)
	require.NoError(t, err)
	assert.InDelta(t, 0.25, weights[0].Fraction, 1e-9)
	assert.InDelta(t, 0.25, weights[1].Fraction, 1e-9)
	assert.InDelta(t, 0.50, weights[2].Fraction, 1e-9)
}

func TestApportionMissingStatisticsCountAsOne(t *testing.T) {
	// the region with unknown GDP/pop must not be excluded
	nodes := []NodeRegion{
		{Bus: "bus0", Country: "NG", Geometry: square(0)},
		{Bus: "bus1", Country: "NG", Geometry: square(2)},
	}
	admins := []AdminRegion{
		NewAdminRegion("NG.0", "NG", 1, 1, true, true, square(0)),
		NewAdminRegion("NG.1", "NG", 0, 0, false, false, square(2)),
	}

	weights, err := Apportion("NG", nodes, admins)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, weights[0].Fraction, 1e-9)
	assert.InDelta(t, 0.5, weights[1].Fraction, 1e-9)
}

func TestApportionRejectsForeignNode(t *testing.T) {
	nodes := []NodeRegion{
		{Bus: "bus0", Country: "NG", Geometry: square(0)},
		{Bus: "bus1", Country: "BJ", Geometry: square(1)},
	}

	_, err := Apportion("NG", nodes, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bus1")
}
