package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/cepro/gridbuilder/config"
	"github.com/cepro/gridbuilder/costs"
	dataplatform "github.com/cepro/gridbuilder/data_platform"
	"github.com/cepro/gridbuilder/demand"
	"github.com/cepro/gridbuilder/generation"
	"github.com/cepro/gridbuilder/network"
	"github.com/cepro/gridbuilder/plants"
)

func main() {

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	slog.SetDefault(logger)

	slog.Info("Starting network build...")

	configPath := "config.yaml"
	inputsPath := "inputs.json"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}
	if len(os.Args) > 2 {
		inputsPath = os.Args[2]
	}

	cfg, err := config.Read(configPath)
	if err != nil {
		slog.Error("Failed to read config", "error", err)
		os.Exit(1)
	}
	in, err := readInputs(inputsPath)
	if err != nil {
		slog.Error("Failed to read inputs", "error", err)
		os.Exit(1)
	}

	n, err := buildNetwork(in)
	if err != nil {
		slog.Error("Failed to assemble base topology", "error", err)
		os.Exit(1)
	}

	if err := run(cfg, in, n); err != nil {
		slog.Error("Network build failed", "error", err)
		os.Exit(1)
	}

	slog.Info("Network build complete",
		"buses", len(n.Buses),
		"carriers", len(n.Carriers),
		"generators", len(n.Generators),
		"storage_units", len(n.StorageUnits),
		"loads", len(n.Loads),
	)

	if cfg.DataPlatform.SupabaseURL != "" {
		if err := export(cfg, n); err != nil {
			slog.Error("Failed to export network records", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("Exiting")
}

// run executes the attachment pipeline in its fixed order on the assembled
// base topology.
func run(cfg config.Config, in Inputs, n *network.Network) error {

	table, err := costs.Compute(in.CostEntries, costs.Options{
		Year:                  cfg.Costs.Year,
		CurrencyRate:          cfg.Costs.USDToEUR,
		DiscountRate:          cfg.Costs.DiscountRate,
		Nyears:                n.Nyears(),
		MaxHours:              cfg.Electricity.MaxHours,
		MarginalCostOverrides: cfg.Costs.MarginalCost,
		CapitalCostOverrides:  cfg.Costs.CapitalCost,
	})
	if err != nil {
		return err
	}

	matched := plants.Normalize(in.Plants)

	countries := cfg.Countries
	if len(countries) == 0 {
		countries = n.Countries()
	}
	scale := cfg.Load.Scale
	if scale == 0 {
		scale = 1.0
	}
	err = demand.Attach(n, in.nodeRegions(), in.adminRegions(), in.demandSeries(), countries, scale)
	if err != nil {
		return err
	}

	lengthFactor := cfg.Lines.LengthFactor
	if lengthFactor == 0 {
		lengthFactor = 1.0
	}
	if err := costs.UpdateTransmissionCosts(n, table, lengthFactor, false); err != nil {
		return err
	}

	if err := generation.AttachConventional(n, table, matched, cfg.Electricity.ConventionalCarriers); err != nil {
		return err
	}

	profiles := &inputProfileSource{profiles: in.Profiles}
	if err := generation.AttachWindSolar(n, table, cfg.Renewable, profiles, lengthFactor); err != nil {
		return err
	}

	inflow := &inputInflowSource{inflow: in.Inflow}
	if err := generation.AttachHydro(n, table, matched, cfg.Hydro, inflow, in.HydroStats); err != nil {
		return err
	}

	err = generation.AttachExtendable(n, table, matched, cfg.Electricity.ExtendableCarriers.Generator)
	if err != nil {
		return err
	}

	for _, carrier := range cfg.Electricity.RenewableCapacitiesFromOPSD {
		generation.ApplyOPSDCapacities(n, carrier, in.OPSDCapacities[carrier])
	}
	if len(cfg.Electricity.EstimateRenewableCapacities) > 0 {
		generation.EstimateRenewableCapacities(n, cfg.Electricity.EstimateRenewableCapacities, in.CapacityTargets)
	}

	generation.UpdatePNomMax(n)
	generation.AddNiceCarrierNames(n, cfg.Plotting)

	return nil
}

// export drains the built records into the data platform via the on-disk
// buffer. The Supabase key is taken from the environment rather than config.
func export(cfg config.Config, n *network.Network) error {
	supabaseKey := os.Getenv("GRIDBUILDER_SUPABASE_KEY")

	dataPlatform, err := dataplatform.New(
		cfg.DataPlatform.SupabaseURL,
		supabaseKey,
		cfg.DataPlatform.Schema,
		cfg.DataPlatform.BufferPath,
	)
	if err != nil {
		return err
	}
	return dataPlatform.Export(context.Background(), n)
}
