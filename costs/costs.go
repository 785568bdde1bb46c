package costs

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// RawEntry is one long-format row of the technology cost database, keyed by
// (technology, year, parameter).
type RawEntry struct {
	Technology string
	Year       int
	Parameter  string
	Value      float64
	Unit       string
	Source     string
}

// Technology is one pivoted row of the cost table after unit correction,
// defaults and derivations. All monetary values are per MW (never per kW) and
// in the model currency.
type Technology struct {
	Name         string
	Investment   float64 // currency/MW
	FOM          float64 // fixed O&M, % of investment per year
	VOM          float64 // variable O&M, currency/MWh
	Fuel         float64 // currency/MWh_th
	Efficiency   float64
	Lifetime     float64 // years
	DiscountRate float64
	CO2Intensity float64 // tCO2/MWh_th

	// derived, never loaded
	CapitalCost  float64 // annualized, currency/MW/a
	MarginalCost float64 // currency/MWh
}

// Table holds one Technology row per name with deterministic iteration order.
type Table struct {
	techs map[string]*Technology
}

// Get returns the row for the given technology name.
func (t *Table) Get(name string) (*Technology, bool) {
	tech, ok := t.techs[name]
	return tech, ok
}

// Names returns all technology names in sorted order.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.techs))
	for name := range t.techs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (t *Table) put(tech *Technology) {
	t.techs[tech.Name] = tech
}

// require returns the named row or an error naming the missing technology.
// Derivation steps that reference a technology absent from the table must
// fail fast rather than substitute defaults silently.
func (t *Table) require(name, neededFor string) (*Technology, error) {
	tech, ok := t.techs[name]
	if !ok {
		return nil, fmt.Errorf("cost table has no %q entry, required for %s", name, neededFor)
	}
	return tech, nil
}

// Options parameterizes a cost table computation.
type Options struct {
	Year         int
	CurrencyRate float64 // multiplier applied to foreign-currency entries
	DiscountRate float64 // default when a technology has no discount rate row
	Nyears       float64 // fraction of a year covered by the snapshot horizon

	// MaxHours gives the energy/power ratio per composite storage carrier
	// ("battery", "H2"); composites are synthesized only for listed carriers.
	MaxHours map[string]float64

	// Overrides replace computed values last, with absolute precedence. They
	// arrive as loosely-typed maps from the configuration document.
	MarginalCostOverrides map[string]any
	CapitalCostOverrides  map[string]any
}

// Compute builds the cost table for one target year from the raw cost
// database: unit correction, pivot with documented defaults, annuitized
// capital cost, gas-fuel inheritance, marginal cost, the solar proxy, the
// composite storage technologies and finally the user overrides.
func Compute(raw []RawEntry, opts Options) (*Table, error) {
	pivoted := pivot(raw, opts)

	table := &Table{techs: map[string]*Technology{}}
	for _, tech := range pivoted {
		tech.CapitalCost = (Annuity(tech.Lifetime, tech.DiscountRate) + tech.FOM/100.0) *
			tech.Investment * opts.Nyears
		table.put(tech)
	}

	// open- and closed-cycle gas turbines burn the same fuel as the generic
	// gas entry; this is an explicit copy, not a default
	for _, name := range []string{"OCGT", "CCGT"} {
		turbine, ok := table.Get(name)
		if !ok {
			continue
		}
		gas, err := table.require("gas", name+" fuel and emission inheritance")
		if err != nil {
			return nil, err
		}
		turbine.Fuel = gas.Fuel
		turbine.CO2Intensity = gas.CO2Intensity
	}

	for _, name := range table.Names() {
		tech, _ := table.Get(name)
		tech.MarginalCost = tech.VOM + tech.Fuel/tech.Efficiency
	}

	if err := addSolarProxy(table); err != nil {
		return nil, err
	}

	if err := addStorageComposites(table, opts.MaxHours); err != nil {
		return nil, err
	}

	if err := applyOverrides(table, opts); err != nil {
		return nil, err
	}

	return table, nil
}

// pivot filters the raw entries to the target year, applies the one-time unit
// correction pass and collapses to one row per technology with the documented
// defaults for missing parameters.
func pivot(raw []RawEntry, opts Options) []*Technology {
	type row struct {
		values map[string]float64
	}
	rows := map[string]*row{}
	var order []string

	for _, entry := range raw {
		if entry.Year != opts.Year {
			continue
		}
		value := entry.Value
		// correct units to MW and the model currency, exactly once per entry
		if strings.Contains(entry.Unit, "/kW") {
			value *= 1e3
		}
		if strings.Contains(entry.Unit, "USD") {
			value *= opts.CurrencyRate
		}

		r, ok := rows[entry.Technology]
		if !ok {
			r = &row{values: map[string]float64{}}
			rows[entry.Technology] = r
			order = append(order, entry.Technology)
		}
		// duplicate (technology, parameter) rows accumulate
		r.values[entry.Parameter] += value
	}

	sort.Strings(order)

	techs := make([]*Technology, 0, len(order))
	for _, name := range order {
		values := rows[name].values
		techs = append(techs, &Technology{
			Name:         name,
			Investment:   valueOr(values, "investment", 0),
			FOM:          valueOr(values, "FOM", 0),
			VOM:          valueOr(values, "VOM", 0),
			Fuel:         valueOr(values, "fuel", 0),
			Efficiency:   valueOr(values, "efficiency", 1),
			Lifetime:     valueOr(values, "lifetime", 25),
			DiscountRate: valueOr(values, "discount rate", opts.DiscountRate),
			CO2Intensity: valueOr(values, "CO2 intensity", 0),
		})
	}
	return techs
}

func valueOr(values map[string]float64, parameter string, fallback float64) float64 {
	if v, ok := values[parameter]; ok {
		return v
	}
	return fallback
}

// addSolarProxy sets the capital cost of the composite "solar" technology to
// the arithmetic mean of the rooftop and utility entries. The proxy is only
// built when the table carries solar technologies at all.
func addSolarProxy(table *Table) error {
	_, hasSolar := table.Get("solar")
	_, hasRooftop := table.Get("solar-rooftop")
	_, hasUtility := table.Get("solar-utility")
	if !hasSolar && !hasRooftop && !hasUtility {
		return nil
	}

	rooftop, err := table.require("solar-rooftop", "the solar proxy capital cost")
	if err != nil {
		return err
	}
	utility, err := table.require("solar-utility", "the solar proxy capital cost")
	if err != nil {
		return err
	}

	solar, ok := table.Get("solar")
	if !ok {
		solar = &Technology{Name: "solar", Efficiency: 1, Lifetime: 25}
		table.put(solar)
	}
	solar.CapitalCost = 0.5 * (rooftop.CapitalCost + utility.CapitalCost)
	return nil
}

// addStorageComposites synthesizes the battery and hydrogen storage
// technologies from their energy and power components. Composite capital cost
// is max_hours times the energy-component cost plus the power-component
// (link) costs; marginal cost and emissions are zero.
func addStorageComposites(table *Table, maxHours map[string]float64) error {
	composites := []struct {
		name  string
		store string
		links []string
	}{
		{name: "battery", store: "battery storage", links: []string{"battery inverter"}},
		{name: "H2", store: "hydrogen storage", links: []string{"fuel cell", "electrolysis"}},
	}

	for _, c := range composites {
		hours, wanted := maxHours[c.name]
		if !wanted {
			continue
		}
		store, err := table.require(c.store, "the "+c.name+" storage composite")
		if err != nil {
			return err
		}
		capital := hours * store.CapitalCost
		for _, link := range c.links {
			linkTech, err := table.require(link, "the "+c.name+" storage composite")
			if err != nil {
				return err
			}
			capital += linkTech.CapitalCost
		}
		table.put(&Technology{
			Name:        c.name,
			Efficiency:  1,
			Lifetime:    25,
			CapitalCost: capital,
			// storage composites have no fuel burn
			MarginalCost: 0,
			CO2Intensity: 0,
		})
	}
	return nil
}

// applyOverrides decodes the loosely-typed override maps from the
// configuration document and applies them last, with absolute precedence.
func applyOverrides(table *Table, opts Options) error {
	apply := func(overrides map[string]any, attr string, set func(*Technology, float64)) error {
		if len(overrides) == 0 {
			return nil
		}
		var decoded map[string]float64
		if err := mapstructure.Decode(overrides, &decoded); err != nil {
			return fmt.Errorf("decode %s overrides: %w", attr, err)
		}
		names := make([]string, 0, len(decoded))
		for name := range decoded {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			tech, err := table.require(name, attr+" override")
			if err != nil {
				return err
			}
			set(tech, decoded[name])
			slog.Info("Overriding computed cost", "technology", name, "attribute", attr, "value", decoded[name])
		}
		return nil
	}

	if err := apply(opts.MarginalCostOverrides, "marginal_cost", func(t *Technology, v float64) { t.MarginalCost = v }); err != nil {
		return err
	}
	return apply(opts.CapitalCostOverrides, "capital_cost", func(t *Technology, v float64) { t.CapitalCost = v })
}
