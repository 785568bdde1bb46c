package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// CostsConfig selects the cost-assumption vintage and the overrides that are
// applied after all derived costs have been computed.
type CostsConfig struct {
	Year         int     `yaml:"year"`
	USDToEUR     float64 `yaml:"USD2013_to_EUR2013"`
	DiscountRate float64 `yaml:"discountrate"`
	// overrides are keyed by technology name; values replace the computed
	// figure with absolute precedence
	MarginalCost map[string]any `yaml:"marginal_cost"`
	CapitalCost  map[string]any `yaml:"capital_cost"`
}

// ExtendableCarriersConfig lists the carriers that get zero-capacity
// extendable candidate units.
type ExtendableCarriersConfig struct {
	Generator []string `yaml:"Generator"`
}

// ElectricityConfig covers carrier selection and storage sizing.
type ElectricityConfig struct {
	MaxHours             map[string]float64       `yaml:"max_hours"`
	ConventionalCarriers []string                 `yaml:"conventional_carriers"`
	ExtendableCarriers   ExtendableCarriersConfig `yaml:"extendable_carriers"`
	// optional calibration passes, off unless configured
	RenewableCapacitiesFromOPSD []string            `yaml:"renewable_capacities_from_OPSD"`
	EstimateRenewableCapacities map[string][]string `yaml:"estimate_renewable_capacities_from_capacity_stats"`
}

// RenewableConfig describes one variable-resource technology.
type RenewableConfig struct {
	Extendable bool `yaml:"extendable"`
	// ConnectionCosts enables composing grid-connection costs into the capital
	// cost of offshore technologies; requires underwater-fraction data
	ConnectionCosts bool `yaml:"connection_costs"`
}

// HydroConfig describes the hydro attachment rules.
type HydroConfig struct {
	Carriers []string `yaml:"carriers"`
	// MaxHours selects the reservoir duration estimation strategy:
	// "energy_capacity_totals_by_country" or "estimate_by_large_installations"
	MaxHours    string  `yaml:"hydro_max_hours"`
	PHSMaxHours float64 `yaml:"PHS_max_hours"`
	CapitalCost bool    `yaml:"hydro_capital_cost"`
}

// LoadConfig selects the demand scenario and scaling.
type LoadConfig struct {
	Scale          float64 `yaml:"scale"`
	SSP            string  `yaml:"ssp"`
	WeatherYear    int     `yaml:"weather_year"`
	PredictionYear int     `yaml:"prediction_year"`
	Region         string  `yaml:"region_load"`
}

// LinesConfig holds transmission cost parameters.
type LinesConfig struct {
	LengthFactor float64 `yaml:"length_factor"`
}

// PlottingConfig maps carriers to presentation attributes.
type PlottingConfig struct {
	NiceNames  map[string]string `yaml:"nice_names"`
	TechColors map[string]string `yaml:"tech_colors"`
}

// DataPlatformConfig holds the Supabase export target.
type DataPlatformConfig struct {
	SupabaseURL string `yaml:"supabaseUrl"`
	// key is specified via env var
	Schema     string `yaml:"schema"`
	BufferPath string `yaml:"bufferPath"`
}

type Config struct {
	Countries    []string                   `yaml:"countries"`
	Costs        CostsConfig                `yaml:"costs"`
	Electricity  ElectricityConfig          `yaml:"electricity"`
	Renewable    map[string]RenewableConfig `yaml:"renewable"`
	Hydro        HydroConfig                `yaml:"hydro"`
	Load         LoadConfig                 `yaml:"load"`
	Lines        LinesConfig                `yaml:"lines"`
	Plotting     PlottingConfig             `yaml:"plotting"`
	DataPlatform DataPlatformConfig         `yaml:"dataPlatform"`
}

func Read(path string) (Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	var config Config
	err = yaml.Unmarshal(content, &config)
	if err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	return config, nil
}
