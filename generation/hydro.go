package generation

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/cepro/gridbuilder/config"
	"github.com/cepro/gridbuilder/costs"
	"github.com/cepro/gridbuilder/network"
	"github.com/cepro/gridbuilder/plants"
)

// defaultReservoirMaxHours is assumed for reservoirs in countries that no
// estimation strategy can resolve.
const defaultReservoirMaxHours = 6.0

// reservoirEnergyFloorTWh is the lower bound applied to the per-country
// reservoir energy target from the reference statistics.
const reservoirEnergyFloorTWh = 0.2

// InflowDataset is the hydro inflow dataset (time x plant station), opened
// externally and closed deterministically after extraction.
type InflowDataset struct {
	// Series is keyed by the station (bus) the plant reports inflow at, in MW.
	Series map[string]*network.Series

	CloseFunc func() error
}

// Close releases the dataset.
func (d *InflowDataset) Close() error {
	if d.CloseFunc == nil {
		return nil
	}
	return d.CloseFunc()
}

// InflowSource opens the hydro inflow dataset.
type InflowSource interface {
	Open() (*InflowDataset, error)
}

// HydroStat is one country row of the hydro reference statistics.
type HydroStat struct {
	EStoreTWh       float64 // reservoir energy target
	HasEStore       bool
	PNomDischargeGW float64 // aggregate discharge power
	HasDischarge    bool
}

// max-hours estimation strategy selectors, matching the configuration values
const (
	MaxHoursByEnergyTotals       = "energy_capacity_totals_by_country"
	MaxHoursByLargeInstallations = "estimate_by_large_installations"
)

// AttachHydro partitions the matched hydro plants into run-of-river, pumped
// storage and reservoir units and attaches each with its technology-specific
// sizing rules. Every run-of-river and reservoir plant must have an inflow
// series; a missing series is a fatal error enumerating the stations.
func AttachHydro(
	n *network.Network,
	table *costs.Table,
	matched []plants.Plant,
	cfg config.HydroConfig,
	src InflowSource,
	stats map[string]HydroStat,
) error {
	carriers := cfg.Carriers
	if len(carriers) == 0 {
		carriers = []string{"ror", "PHS", "hydro"}
	}
	EnsureCarriers(n, table, carriers)

	hydroPlants := plants.ByCarrier(matched, "hydro")
	ror := plants.ByTech(hydroPlants, plants.TechHydroROR)
	phs := plants.ByTech(hydroPlants, plants.TechHydroPHS)
	reservoir := plants.ByTech(hydroPlants, plants.TechHydroReservoir)

	var inflow *InflowDataset
	if len(ror)+len(reservoir) > 0 {
		ds, err := src.Open()
		if err != nil {
			return fmt.Errorf("open hydro inflow dataset: %w", err)
		}
		defer ds.Close()
		inflow = ds

		if err := checkInflowCoverage(inflow, append(append([]plants.Plant{}, ror...), reservoir...)); err != nil {
			return err
		}
	}

	if contains(carriers, "ror") && len(ror) > 0 {
		if err := attachRunOfRiver(n, table, ror, inflow); err != nil {
			return err
		}
	}
	if contains(carriers, "PHS") && len(phs) > 0 {
		if err := attachPumpedStorage(n, table, phs, cfg.PHSMaxHours); err != nil {
			return err
		}
	}
	if contains(carriers, "hydro") && len(reservoir) > 0 {
		if err := attachReservoir(n, table, reservoir, cfg, inflow, stats); err != nil {
			return err
		}
	}
	return nil
}

// checkInflowCoverage verifies every inflow-dependent plant has a series,
// enumerating the affected plants rather than just counting them.
func checkInflowCoverage(inflow *InflowDataset, needed []plants.Plant) error {
	var missing []string
	for _, plant := range needed {
		if _, ok := inflow.Series[plant.Bus]; !ok {
			missing = append(missing, plant.ID)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return fmt.Errorf("hydro inflow dataset is missing time series for plants: %s", strings.Join(missing, ", "))
}

// attachRunOfRiver adds each plant as a generator whose availability profile
// is the inflow divided by the nominal power, clipped to [0, 1].
func attachRunOfRiver(n *network.Network, table *costs.Table, ror []plants.Plant, inflow *InflowDataset) error {
	row, err := requireTech(table, "ror", "run-of-river attachment")
	if err != nil {
		return err
	}
	for _, plant := range ror {
		profile := network.NewSeries(len(n.Snapshots), 0)
		if plant.PNom > 0 {
			profile = inflow.Series[plant.Bus].Scaled(1 / plant.PNom).Clipped(0, 1)
		}
		err := n.AddGenerator(network.Generator{
			ID:          uuid.New(),
			Name:        plant.ID + " ror",
			Bus:         plant.Bus,
			Carrier:     "ror",
			PNom:        plant.PNom,
			Efficiency:  row.Efficiency,
			CapitalCost: row.CapitalCost,
			Weight:      plant.PNom,
			PMaxPU:      profile,
		})
		if err != nil {
			return fmt.Errorf("attach run-of-river plant %q: %w", plant.ID, err)
		}
	}
	slog.Info("Attached run-of-river generators", "count", len(ror))
	return nil
}

// attachPumpedStorage adds each plant as a cyclic storage unit with the
// round-trip efficiency split evenly between the store and dispatch legs.
// Plants without a known duration fall back to the configured default, and
// no natural inflow is assumed due to lack of data.
func attachPumpedStorage(n *network.Network, table *costs.Table, phs []plants.Plant, defaultMaxHours float64) error {
	row, err := requireTech(table, "PHS", "pumped storage attachment")
	if err != nil {
		return err
	}
	legEfficiency := math.Sqrt(row.Efficiency)

	for _, plant := range phs {
		maxHours := plant.MaxHours
		if maxHours == 0 {
			maxHours = defaultMaxHours
		}
		err := n.AddStorageUnit(network.StorageUnit{
			ID:                  uuid.New(),
			Name:                plant.ID + " PHS",
			Bus:                 plant.Bus,
			Carrier:             "PHS",
			PNom:                plant.PNom,
			MaxHours:            maxHours,
			CapitalCost:         row.CapitalCost,
			EfficiencyStore:     legEfficiency,
			EfficiencyDispatch:  legEfficiency,
			CyclicStateOfCharge: true,
			PMaxPU:              1.0,
			PMinPU:              -1.0,
		})
		if err != nil {
			return fmt.Errorf("attach pumped storage plant %q: %w", plant.ID, err)
		}
	}
	slog.Info("Attached pumped storage units", "count", len(phs))
	return nil
}

// attachReservoir adds each plant as a cyclic storage unit with natural
// inflow. A plant's duration is its own record where known, otherwise the
// per-country estimate from the configured strategy, otherwise the fixed
// default.
func attachReservoir(
	n *network.Network,
	table *costs.Table,
	reservoir []plants.Plant,
	cfg config.HydroConfig,
	inflow *InflowDataset,
	stats map[string]HydroStat,
) error {
	row, err := requireTech(table, "hydro", "reservoir attachment")
	if err != nil {
		return err
	}

	maxHoursByCountry := estimateMaxHours(reservoir, cfg.MaxHours, stats)

	capitalCost := 0.0
	if cfg.CapitalCost {
		capitalCost = row.CapitalCost
	}

	for _, plant := range reservoir {
		maxHours := plant.MaxHours
		if maxHours == 0 {
			estimated, ok := maxHoursByCountry[plant.Country]
			if !ok {
				estimated = defaultReservoirMaxHours
			}
			maxHours = estimated
		}
		err := n.AddStorageUnit(network.StorageUnit{
			ID:                  uuid.New(),
			Name:                plant.ID + " hydro",
			Bus:                 plant.Bus,
			Carrier:             "hydro",
			PNom:                plant.PNom,
			MaxHours:            maxHours,
			CapitalCost:         capitalCost,
			MarginalCost:        row.MarginalCost,
			PMaxPU:              1.0, // dispatch
			PMinPU:              0.0, // store
			EfficiencyDispatch:  row.Efficiency,
			EfficiencyStore:     0.0,
			CyclicStateOfCharge: true,
			Inflow:              inflow.Series[plant.Bus],
		})
		if err != nil {
			return fmt.Errorf("attach reservoir plant %q: %w", plant.ID, err)
		}
	}
	slog.Info("Attached reservoir storage units", "count", len(reservoir))
	return nil
}

// estimateMaxHours resolves a per-country reservoir duration with the
// configured strategy. Countries resolvable by neither strategy are reported
// with a warning; callers fall back to the fixed default for them.
func estimateMaxHours(reservoir []plants.Plant, strategy string, stats map[string]HydroStat) map[string]float64 {
	countries := map[string]bool{}
	installedEnergy := map[string]float64{} // MWh already accounted by known durations
	unassignedPower := map[string]float64{} // MW of plants with unknown duration
	for _, plant := range reservoir {
		countries[plant.Country] = true
		if plant.MaxHours > 0 {
			installedEnergy[plant.Country] += plant.PNom * plant.MaxHours
		} else {
			unassignedPower[plant.Country] += plant.PNom
		}
	}

	out := map[string]float64{}
	for country := range countries {
		stat, ok := stats[country]
		if !ok {
			continue
		}
		switch strategy {
		case MaxHoursByEnergyTotals:
			if !stat.HasEStore || unassignedPower[country] <= 0 {
				continue
			}
			target := math.Max(stat.EStoreTWh, reservoirEnergyFloorTWh) * 1e6 // TWh -> MWh
			deficit := target - installedEnergy[country]
			if hours := deficit / unassignedPower[country]; hours > 0 {
				out[country] = hours
			}
		case MaxHoursByLargeInstallations:
			if !stat.HasEStore || !stat.HasDischarge || stat.PNomDischargeGW <= 0 {
				continue
			}
			out[country] = stat.EStoreTWh * 1e3 / stat.PNomDischargeGW // TWh/GW -> h
		}
	}

	var unresolved []string
	for country := range countries {
		if _, ok := out[country]; !ok {
			unresolved = append(unresolved, country)
		}
	}
	if len(unresolved) > 0 {
		sort.Strings(unresolved)
		slog.Warn(
			fmt.Sprintf("Assuming max_hours=%g for hydro reservoirs", defaultReservoirMaxHours),
			"countries", strings.Join(unresolved, ", "),
		)
	}
	return out
}

func contains(values []string, wanted string) bool {
	for _, v := range values {
		if v == wanted {
			return true
		}
	}
	return false
}
