package demand

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/google/uuid"

	"github.com/cepro/gridbuilder/network"
	"github.com/cepro/gridbuilder/spatial"
)

// Attach distributes the per-country demand time series onto the network's
// low-voltage substation nodes, weighting each node by the spatial
// apportionment of GDP and population. One load record is appended per node
// with a defined weight, each carrying a dense series over the full snapshot
// horizon. The scale factor is applied uniformly to all countries
// (1.3 = 30% more load).
func Attach(
	n *network.Network,
	regions []spatial.NodeRegion,
	admins []spatial.AdminRegion,
	demandByCountry map[string]*network.Series,
	countries []string,
	scale float64,
) error {
	lv := map[string]bool{}
	for _, bus := range n.SubstationLVBuses() {
		lv[bus] = true
	}

	// restrict to service areas of low-voltage substations, grouped by country
	byCountry := map[string][]spatial.NodeRegion{}
	for _, region := range regions {
		if lv[region.Bus] {
			byCountry[region.Country] = append(byCountry[region.Country], region)
		}
	}

	slog.Info("Scaling load data", "scale", scale)

	ordered := append([]string{}, countries...)
	sort.Strings(ordered)

	for _, country := range ordered {
		group := byCountry[country]
		if len(group) == 0 {
			slog.Warn("No substation service areas for country, no load attached", "country", country)
			continue
		}
		countrySeries, ok := demandByCountry[country]
		if !ok {
			return fmt.Errorf("no demand time series for country %q", country)
		}
		if countrySeries.Len() != len(n.Snapshots) {
			return fmt.Errorf("demand series for country %q covers %d snapshots, network has %d",
				country, countrySeries.Len(), len(n.Snapshots))
		}

		weights, err := spatial.Apportion(country, group, admins)
		if err != nil {
			return fmt.Errorf("apportion demand for country %q: %w", country, err)
		}

		for _, weight := range weights {
			err := n.AddLoad(network.Load{
				ID:   uuid.New(),
				Name: weight.Bus,
				Bus:  weight.Bus,
				PSet: countrySeries.Scaled(scale * weight.Fraction),
			})
			if err != nil {
				return fmt.Errorf("attach load for country %q: %w", country, err)
			}
		}
		slog.Info("Attached load", "country", country, "nodes", len(weights))
	}
	return nil
}
