package generation

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/google/uuid"

	"github.com/cepro/gridbuilder/config"
	"github.com/cepro/gridbuilder/costs"
	"github.com/cepro/gridbuilder/network"
)

// ProfileDataset is one technology's availability-profile dataset (time x
// bus), opened externally and closed deterministically after its data has
// been extracted.
type ProfileDataset struct {
	Tech    string
	Buses   []string
	Profile map[string]*network.Series // hourly capacity factors per bus

	PNomMax map[string]float64 // installable potential per bus, MW
	Weight  map[string]float64

	// connection-cost inputs; only present for offshore datasets
	AverageDistance    map[string]float64 // km to shore
	UnderwaterFraction map[string]float64

	// CloseFunc releases the underlying dataset handle. Nil when the data was
	// already in memory.
	CloseFunc func() error
}

// Close releases the dataset.
func (d *ProfileDataset) Close() error {
	if d.CloseFunc == nil {
		return nil
	}
	return d.CloseFunc()
}

// ProfileSource opens availability-profile datasets by technology name.
type ProfileSource interface {
	Open(tech string) (*ProfileDataset, error)
}

// AttachWindSolar adds one zero-capacity generator per node for each
// configured variable-resource technology, with an hourly capacity-factor
// profile bounding the maximum output and the extendable flag taken from the
// configuration. Technologies whose dataset has no buses are skipped.
func AttachWindSolar(
	n *network.Network,
	table *costs.Table,
	renewables map[string]config.RenewableConfig,
	src ProfileSource,
	lengthFactor float64,
) error {
	techs := make([]string, 0, len(renewables))
	for tech := range renewables {
		if tech == "hydro" {
			continue // hydro has its own attachment path
		}
		techs = append(techs, tech)
	}
	sort.Strings(techs)

	for _, tech := range techs {
		if err := attachProfileTech(n, table, tech, renewables[tech], src, lengthFactor); err != nil {
			return err
		}
	}
	return nil
}

func attachProfileTech(
	n *network.Network,
	table *costs.Table,
	tech string,
	cfg config.RenewableConfig,
	src ProfileSource,
	lengthFactor float64,
) error {
	n.AddCarrier(network.Carrier{Name: tech})

	ds, err := src.Open(tech)
	if err != nil {
		return fmt.Errorf("open profile dataset for %q: %w", tech, err)
	}
	// the dataset must be released whether or not extraction succeeds
	defer ds.Close()

	if len(ds.Buses) == 0 {
		slog.Info("Profile dataset has no buses, skipping technology", "tech", tech)
		return nil
	}

	techRow, err := requireTech(table, tech, "renewable capital cost")
	if err != nil {
		return err
	}
	supRow, err := requireTech(table, supTech(tech), "renewable marginal cost and efficiency")
	if err != nil {
		return err
	}

	buses := append([]string{}, ds.Buses...)
	sort.Strings(buses)

	var noUnderwater []string
	for _, bus := range buses {
		capitalCost := techRow.CapitalCost
		if supTech(tech) == "offwind" && cfg.ConnectionCosts {
			connection, ok, err := offshoreConnectionCost(table, ds, tech, bus, lengthFactor)
			if err != nil {
				return err
			}
			if ok {
				capitalCost += connection
			} else {
				noUnderwater = append(noUnderwater, bus)
			}
		}

		pNomMax, hasMax := ds.PNomMax[bus]
		err := n.AddGenerator(network.Generator{
			ID:             uuid.New(),
			Name:           bus + " " + tech,
			Bus:            bus,
			Carrier:        tech,
			PNom:           0,
			PNomExtendable: cfg.Extendable,
			PNomMax:        pNomMax,
			HasPNomMax:     hasMax,
			Weight:         ds.Weight[bus],
			CapitalCost:    capitalCost,
			MarginalCost:   supRow.MarginalCost,
			Efficiency:     supRow.Efficiency,
			PMaxPU:         ds.Profile[bus],
		})
		if err != nil {
			return fmt.Errorf("attach %s generator at bus %q: %w", tech, bus, err)
		}
	}

	if len(noUnderwater) > 0 {
		slog.Warn(
			"Missing underwater fraction or shore distance, connection cost component skipped",
			"tech", tech,
			"buses", noUnderwater,
		)
	}
	slog.Info("Attached renewable generators", "tech", tech, "count", len(buses), "extendable", cfg.Extendable)
	return nil
}

// offshoreConnectionCost composes the grid-connection cost of an offshore
// bus from its distance to shore and underwater fraction. The second return
// is false when the dataset lacks the per-bus data.
func offshoreConnectionCost(table *costs.Table, ds *ProfileDataset, tech, bus string, lengthFactor float64) (float64, bool, error) {
	distance, hasDistance := ds.AverageDistance[bus]
	underwater, hasUnderwater := ds.UnderwaterFraction[bus]
	if !hasDistance || !hasUnderwater {
		return 0, false, nil
	}

	submarine, err := requireTech(table, tech+"-connection-submarine", "offshore connection cost")
	if err != nil {
		return 0, false, err
	}
	underground, err := requireTech(table, tech+"-connection-underground", "offshore connection cost")
	if err != nil {
		return 0, false, err
	}
	station, err := requireTech(table, tech+"-station", "offshore connection cost")
	if err != nil {
		return 0, false, err
	}

	connection := lengthFactor * distance *
		(underwater*submarine.CapitalCost + (1.0-underwater)*underground.CapitalCost)
	return station.CapitalCost + connection, true, nil
}

// requireTech looks up a cost row, failing fast with the technology name when
// it is absent.
func requireTech(table *costs.Table, name, neededFor string) (*costs.Technology, error) {
	tech, ok := table.Get(name)
	if !ok {
		return nil, fmt.Errorf("cost table has no %q entry, required for %s", name, neededFor)
	}
	return tech, nil
}
