package costs

import (
	"testing"

	"github.com/cepro/gridbuilder/network"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func transmissionTable(t *testing.T) *Table {
	raw := []RawEntry{
		entry("HVAC overhead", "investment", 400, "EUR/MW/km"),
		entry("HVDC overhead", "investment", 430, "EUR/MW/km"),
		entry("HVDC submarine", "investment", 970, "EUR/MW/km"),
		entry("HVDC inverter pair", "investment", 140000, "EUR/MW"),
	}
	table, err := Compute(raw, defaultOptions())
	require.NoError(t, err)
	return table
}

func TestUpdateTransmissionCosts(t *testing.T) {
	table := transmissionTable(t)
	hvac, _ := table.Get("HVAC overhead")
	hvdc, _ := table.Get("HVDC overhead")
	submarine, _ := table.Get("HVDC submarine")
	inverter, _ := table.Get("HVDC inverter pair")

	n := network.New(nil)
	require.NoError(t, n.AddBus(network.Bus{Name: "b0"}))
	require.NoError(t, n.AddBus(network.Bus{Name: "b1"}))
	n.Lines = append(n.Lines, network.Line{Name: "l0", Bus0: "b0", Bus1: "b1", Length: 100})
	n.Links = append(n.Links, network.Link{
		Name: "dc0", Bus0: "b0", Bus1: "b1", Carrier: "DC",
		Length: 50, UnderwaterFraction: 0.4, HasUnderwater: true,
	})

	require.NoError(t, UpdateTransmissionCosts(n, table, 1.25, false))

	assert.InDelta(t, 100*1.25*hvac.CapitalCost, n.Lines[0].CapitalCost, 1e-6)
	expected := 50*1.25*(0.6*hvdc.CapitalCost+0.4*submarine.CapitalCost) + inverter.CapitalCost
	assert.InDelta(t, expected, n.Links[0].CapitalCost, 1e-6)
}

func TestUpdateTransmissionCostsMissingUnderwaterFallsBack(t *testing.T) {
	table := transmissionTable(t)
	hvdc, _ := table.Get("HVDC overhead")
	inverter, _ := table.Get("HVDC inverter pair")

	n := network.New(nil)
	require.NoError(t, n.AddBus(network.Bus{Name: "b0"}))
	require.NoError(t, n.AddBus(network.Bus{Name: "b1"}))
	n.Links = append(n.Links, network.Link{Name: "dc0", Carrier: "DC", Length: 50})

	require.NoError(t, UpdateTransmissionCosts(n, table, 1.0, false))
	assert.InDelta(t, 50*hvdc.CapitalCost+inverter.CapitalCost, n.Links[0].CapitalCost, 1e-6)
}

func TestUpdateTransmissionCostsSimpleHVDC(t *testing.T) {
	table := transmissionTable(t)
	hvdc, _ := table.Get("HVDC overhead")

	n := network.New(nil)
	n.Links = append(n.Links, network.Link{Name: "dc0", Carrier: "DC", Length: 80})

	require.NoError(t, UpdateTransmissionCosts(n, table, 1.0, true))
	assert.InDelta(t, 80*hvdc.CapitalCost, n.Links[0].CapitalCost, 1e-6)
}
