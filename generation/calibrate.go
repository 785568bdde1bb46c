package generation

import (
	"log/slog"
	"sort"

	"github.com/cepro/gridbuilder/network"
)

// UpdatePNomMax raises any generator capacity bound that an earlier pass left
// below the installed capacity, so overwritten capacities stay feasible.
func UpdatePNomMax(n *network.Network) {
	adjusted := 0
	for i := range n.Generators {
		g := &n.Generators[i]
		if g.HasPNomMax && g.PNomMax < g.PNom {
			g.PNomMax = g.PNom
			adjusted++
		}
	}
	if adjusted > 0 {
		slog.Info("Raised capacity bounds to installed capacity", "generators", adjusted)
	}
}

// ApplyOPSDCapacities overwrites a carrier's generator capacities with the
// reported per-country totals, distributed in proportion to each generator's
// existing capacity bound. Totals for countries with no matching generators
// are reported and skipped. Only PNom and PNomMin are touched.
func ApplyOPSDCapacities(n *network.Network, carrier string, totalsByCountry map[string]float64) {
	applyCountryTotals(n, []string{carrier}, totalsByCountry)
}

// EstimateRenewableCapacities scales generator capacities to the reference
// statistics totals. The technology map groups the carriers that share one
// statistics category, so a country total is split across all of them.
func EstimateRenewableCapacities(n *network.Network, techMap map[string][]string, stats map[string]map[string]float64) {
	categories := make([]string, 0, len(techMap))
	for category := range techMap {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	for _, category := range categories {
		applyCountryTotals(n, techMap[category], stats[category])
	}
}

func applyCountryTotals(n *network.Network, carriers []string, totalsByCountry map[string]float64) {
	countries := make([]string, 0, len(totalsByCountry))
	for country := range totalsByCountry {
		countries = append(countries, country)
	}
	sort.Strings(countries)

	for _, country := range countries {
		indices := generatorsIn(n, carriers, country)
		if len(indices) == 0 {
			slog.Warn("No generators to calibrate against reported capacity",
				"carriers", carriers, "country", country)
			continue
		}
		distributeCapacity(n, indices, totalsByCountry[country])
	}
}

// generatorsIn returns the indices of the generators with one of the given
// carriers on buses of the given country.
func generatorsIn(n *network.Network, carriers []string, country string) []int {
	wanted := map[string]bool{}
	for _, c := range carriers {
		wanted[c] = true
	}
	var indices []int
	for i, g := range n.Generators {
		if !wanted[g.Carrier] {
			continue
		}
		bus, ok := n.Bus(g.Bus)
		if !ok || bus.Country != country {
			continue
		}
		indices = append(indices, i)
	}
	return indices
}

// distributeCapacity splits total across the generators in proportion to
// their capacity bounds, falling back to an even split when no generator
// carries a bound.
func distributeCapacity(n *network.Network, indices []int, total float64) {
	boundSum := 0.0
	for _, i := range indices {
		if n.Generators[i].HasPNomMax {
			boundSum += n.Generators[i].PNomMax
		}
	}
	for _, i := range indices {
		g := &n.Generators[i]
		share := 1.0 / float64(len(indices))
		if boundSum > 0 && g.HasPNomMax {
			share = g.PNomMax / boundSum
		} else if boundSum > 0 {
			share = 0
		}
		g.PNom = total * share
		g.PNomMin = g.PNom
	}
}
