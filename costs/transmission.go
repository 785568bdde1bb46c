package costs

import (
	"log/slog"
	"strings"

	"github.com/cepro/gridbuilder/network"
)

// UpdateTransmissionCosts sets the capital cost of the network's AC lines and
// DC links from the cost table. Line cost is length times lengthFactor times
// the HVAC overhead cost. DC link cost composes overhead and submarine costs
// by the link's underwater fraction plus an inverter pair, unless simpleHVDC
// is set, in which case only the overhead cost is used.
func UpdateTransmissionCosts(n *network.Network, table *Table, lengthFactor float64, simpleHVDC bool) error {
	hvac, err := table.require("HVAC overhead", "transmission line costs")
	if err != nil {
		return err
	}
	for i := range n.Lines {
		n.Lines[i].CapitalCost = n.Lines[i].Length * lengthFactor * hvac.CapitalCost
	}

	if len(n.Links) == 0 {
		return nil
	}

	hvdc, err := table.require("HVDC overhead", "transmission link costs")
	if err != nil {
		return err
	}

	var missingUnderwater []string
	for i := range n.Links {
		link := &n.Links[i]
		if link.Carrier != "DC" {
			continue
		}
		simpleCost := link.Length * lengthFactor * hvdc.CapitalCost
		if simpleHVDC {
			link.CapitalCost = simpleCost
			continue
		}

		submarine, err := table.require("HVDC submarine", "transmission link costs")
		if err != nil {
			return err
		}
		inverter, err := table.require("HVDC inverter pair", "transmission link costs")
		if err != nil {
			return err
		}

		if !link.HasUnderwater {
			// without underwater-fraction data the submarine component cannot
			// be apportioned; fall back to the overhead-only cost
			missingUnderwater = append(missingUnderwater, link.Name)
			link.CapitalCost = simpleCost + inverter.CapitalCost
			continue
		}

		link.CapitalCost = link.Length*lengthFactor*
			((1.0-link.UnderwaterFraction)*hvdc.CapitalCost+
				link.UnderwaterFraction*submarine.CapitalCost) +
			inverter.CapitalCost
	}

	if len(missingUnderwater) > 0 {
		slog.Warn(
			"DC links without underwater fraction data, submarine cost component skipped",
			"links", strings.Join(missingUnderwater, ", "),
		)
	}
	return nil
}
