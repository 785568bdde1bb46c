package dataplatform

import (
	"github.com/cepro/gridbuilder/repository"
)

// supabaseCarrier holds the json encoding schema for a carrier in supabase.
type supabaseCarrier struct {
	Name         string  `json:"name"`
	CO2Emissions float64 `json:"co2_emissions"`
	NiceName     string  `json:"nice_name"`
	Color        string  `json:"color"`
}

// supabaseGenerator holds the json encoding schema for a generator in supabase.
type supabaseGenerator struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Bus              string  `json:"bus"`
	Carrier          string  `json:"carrier"`
	PNom             float64 `json:"p_nom"`
	PNomMin          float64 `json:"p_nom_min"`
	PNomMax          float64 `json:"p_nom_max"`
	HasPNomMax       bool    `json:"has_p_nom_max"`
	PNomExtendable   bool    `json:"p_nom_extendable"`
	CapitalCost      float64 `json:"capital_cost"`
	MarginalCost     float64 `json:"marginal_cost"`
	Efficiency       float64 `json:"efficiency"`
	Weight           float64 `json:"weight"`
	MeanAvailability float64 `json:"mean_availability"`
}

// supabaseStorageUnit holds the json encoding schema for a storage unit in supabase.
type supabaseStorageUnit struct {
	ID                  string  `json:"id"`
	Name                string  `json:"name"`
	Bus                 string  `json:"bus"`
	Carrier             string  `json:"carrier"`
	PNom                float64 `json:"p_nom"`
	MaxHours            float64 `json:"max_hours"`
	CapitalCost         float64 `json:"capital_cost"`
	MarginalCost        float64 `json:"marginal_cost"`
	EfficiencyStore     float64 `json:"efficiency_store"`
	EfficiencyDispatch  float64 `json:"efficiency_dispatch"`
	CyclicStateOfCharge bool    `json:"cyclic_state_of_charge"`
	MeanInflow          float64 `json:"mean_inflow"`
}

// supabaseLoad holds the json encoding schema for a load in supabase.
type supabaseLoad struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Bus            string  `json:"bus"`
	TotalDemandMWh float64 `json:"total_demand_mwh"`
}

// getRecordsForSupabase converts a slice of buffered records into the matching
// supabase row encoding and table name.
func getRecordsForSupabase(records interface{}) (interface{}, string) {
	switch typed := records.(type) {
	case []repository.StoredCarrier:
		return convertCarriers(typed), "carriers"
	case []repository.StoredGenerator:
		return convertGenerators(typed), "generators"
	case []repository.StoredStorageUnit:
		return convertStorageUnits(typed), "storage_units"
	case []repository.StoredLoad:
		return convertLoads(typed), "loads"
	default:
		return records, "unknown"
	}
}

func convertCarriers(records []repository.StoredCarrier) []supabaseCarrier {
	var rows []supabaseCarrier
	for _, record := range records {
		rows = append(rows, supabaseCarrier{
			Name:         record.Name,
			CO2Emissions: record.CO2Emissions,
			NiceName:     record.NiceName,
			Color:        record.Color,
		})
	}
	return rows
}

func convertGenerators(records []repository.StoredGenerator) []supabaseGenerator {
	var rows []supabaseGenerator
	for _, record := range records {
		rows = append(rows, supabaseGenerator{
			ID:               record.ID,
			Name:             record.Name,
			Bus:              record.Bus,
			Carrier:          record.Carrier,
			PNom:             record.PNom,
			PNomMin:          record.PNomMin,
			PNomMax:          record.PNomMax,
			HasPNomMax:       record.HasPNomMax,
			PNomExtendable:   record.PNomExtendable,
			CapitalCost:      record.CapitalCost,
			MarginalCost:     record.MarginalCost,
			Efficiency:       record.Efficiency,
			Weight:           record.Weight,
			MeanAvailability: record.MeanAvailability,
		})
	}
	return rows
}

func convertStorageUnits(records []repository.StoredStorageUnit) []supabaseStorageUnit {
	var rows []supabaseStorageUnit
	for _, record := range records {
		rows = append(rows, supabaseStorageUnit{
			ID:                  record.ID,
			Name:                record.Name,
			Bus:                 record.Bus,
			Carrier:             record.Carrier,
			PNom:                record.PNom,
			MaxHours:            record.MaxHours,
			CapitalCost:         record.CapitalCost,
			MarginalCost:        record.MarginalCost,
			EfficiencyStore:     record.EfficiencyStore,
			EfficiencyDispatch:  record.EfficiencyDispatch,
			CyclicStateOfCharge: record.CyclicStateOfCharge,
			MeanInflow:          record.MeanInflow,
		})
	}
	return rows
}

func convertLoads(records []repository.StoredLoad) []supabaseLoad {
	var rows []supabaseLoad
	for _, record := range records {
		rows = append(rows, supabaseLoad{
			ID:             record.ID,
			Name:           record.Name,
			Bus:            record.Bus,
			TotalDemandMWh: record.TotalDemandMWh,
		})
	}
	return rows
}
