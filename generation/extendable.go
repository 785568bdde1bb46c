package generation

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/cepro/gridbuilder/costs"
	"github.com/cepro/gridbuilder/network"
	"github.com/cepro/gridbuilder/plants"
)

// AttachExtendable adds a zero-capacity, capacity-extendable generator for
// each configured conventional carrier, at one representative bus per
// existing plant of that kind. Carriers without a siting rule are rejected
// before any record is attached.
func AttachExtendable(n *network.Network, table *costs.Table, matched []plants.Plant, carriers []string) error {
	for _, carrier := range carriers {
		switch carrier {
		case "OCGT", "CCGT", "nuclear":
		default:
			return fmt.Errorf("adding extendable generators for carrier %q is not implemented", carrier)
		}
	}

	for _, carrier := range carriers {
		var sites []plants.Plant
		switch carrier {
		case "OCGT", "CCGT":
			sites = plants.FirstPerBus(plants.ByCarrier(matched, "OCGT", "CCGT"))
		case "nuclear":
			sites = plants.FirstPerBus(plants.ByCarrier(matched, "nuclear"))
		}

		row, err := requireTech(table, carrier, "extendable generator attachment")
		if err != nil {
			return err
		}
		EnsureCarriers(n, table, []string{carrier})

		for _, site := range sites {
			err := n.AddGenerator(network.Generator{
				ID:             uuid.New(),
				Name:           site.Bus + " " + carrier,
				Bus:            site.Bus,
				Carrier:        carrier,
				PNom:           0,
				PNomExtendable: true,
				CapitalCost:    row.CapitalCost,
				MarginalCost:   row.MarginalCost,
				Efficiency:     row.Efficiency,
			})
			if err != nil {
				return fmt.Errorf("attach extendable %s at %q: %w", carrier, site.Bus, err)
			}
		}
		slog.Info("Attached extendable generators", "carrier", carrier, "count", len(sites))
	}
	return nil
}
