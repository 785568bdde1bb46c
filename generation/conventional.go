package generation

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/cepro/gridbuilder/costs"
	"github.com/cepro/gridbuilder/network"
	"github.com/cepro/gridbuilder/plants"
)

// AttachConventional adds one generator per matched conventional power plant
// of the configured carriers. Existing assets are treated as sunk cost, so
// the capital cost is zero; the marginal cost and efficiency come from the
// cost table row of the plant's carrier.
func AttachConventional(n *network.Network, table *costs.Table, matched []plants.Plant, carriers []string) error {
	EnsureCarriers(n, table, carriers)

	selected := plants.ByCarrier(plants.ByTech(matched, plants.TechConventional), carriers...)

	var withoutCosts []string
	for _, plant := range selected {
		marginalCost := 0.0
		efficiency := 1.0
		if tech, ok := table.Get(plant.Carrier); ok {
			marginalCost = tech.MarginalCost
			efficiency = tech.Efficiency
		} else {
			withoutCosts = append(withoutCosts, plant.ID)
		}
		// a plant's own measured efficiency beats the technology average
		if plant.Efficiency > 0 {
			efficiency = plant.Efficiency
		}

		err := n.AddGenerator(network.Generator{
			ID:           uuid.New(),
			Name:         "C" + plant.ID,
			Bus:          plant.Bus,
			Carrier:      plant.Carrier,
			PNom:         plant.PNom,
			Efficiency:   efficiency,
			MarginalCost: marginalCost,
			CapitalCost:  0,
		})
		if err != nil {
			return fmt.Errorf("attach conventional generator %q: %w", plant.ID, err)
		}
	}

	if len(withoutCosts) > 0 {
		slog.Warn("Conventional plants without a cost table row, marginal cost set to 0", "plants", withoutCosts)
	}
	slog.Info("Attached conventional generators", "count", len(selected))
	slog.Warn("Capital costs for conventional generators put to 0")
	return nil
}
