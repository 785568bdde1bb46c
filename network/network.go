package network

import (
	"fmt"
	"sort"
	"time"
)

// Network is the shared model object that the attachment steps append typed
// records to. Buses, lines and links come from the base topology; carriers,
// generators, storage units and loads are added during the build. Records are
// only ever appended or overwritten in place, never removed, and each build
// step runs to completion before the next begins, so no locking is needed.
type Network struct {
	Snapshots []time.Time

	Buses []Bus
	Lines []Line
	Links []Link

	Carriers     []Carrier
	Generators   []Generator
	StorageUnits []StorageUnit
	Loads        []Load

	busIndex     map[string]int
	carrierIndex map[string]int
}

// New returns an empty network over the given snapshot horizon.
func New(snapshots []time.Time) *Network {
	return &Network{
		Snapshots:    snapshots,
		busIndex:     map[string]int{},
		carrierIndex: map[string]int{},
	}
}

// HourlySnapshots returns an hourly snapshot range covering [start, end).
func HourlySnapshots(start, end time.Time) []time.Time {
	var snapshots []time.Time
	for t := start; t.Before(end); t = t.Add(time.Hour) {
		snapshots = append(snapshots, t)
	}
	return snapshots
}

// Nyears returns the fraction of a year covered by the snapshot horizon,
// assuming hourly snapshot weightings.
func (n *Network) Nyears() float64 {
	return float64(len(n.Snapshots)) / 8760.0
}

// AddBus registers a topology bus. Bus names must be unique.
func (n *Network) AddBus(bus Bus) error {
	if _, exists := n.busIndex[bus.Name]; exists {
		return fmt.Errorf("bus %q already exists", bus.Name)
	}
	n.busIndex[bus.Name] = len(n.Buses)
	n.Buses = append(n.Buses, bus)
	return nil
}

// Bus returns the bus with the given name.
func (n *Network) Bus(name string) (Bus, bool) {
	i, ok := n.busIndex[name]
	if !ok {
		return Bus{}, false
	}
	return n.Buses[i], true
}

// SubstationLVBuses returns the names of all low-voltage substation buses in
// their topology order.
func (n *Network) SubstationLVBuses() []string {
	var names []string
	for _, bus := range n.Buses {
		if bus.SubstationLV {
			names = append(names, bus.Name)
		}
	}
	return names
}

// HasCarrier reports whether a carrier of the given name is registered.
func (n *Network) HasCarrier(name string) bool {
	_, ok := n.carrierIndex[name]
	return ok
}

// AddCarrier registers a carrier. Adding an already-registered carrier is a
// no-op so that carrier registration stays idempotent.
func (n *Network) AddCarrier(carrier Carrier) {
	if n.HasCarrier(carrier.Name) {
		return
	}
	n.carrierIndex[carrier.Name] = len(n.Carriers)
	n.Carriers = append(n.Carriers, carrier)
}

// Carrier returns the registered carrier with the given name.
func (n *Network) Carrier(name string) (Carrier, bool) {
	i, ok := n.carrierIndex[name]
	if !ok {
		return Carrier{}, false
	}
	return n.Carriers[i], true
}

// UpdateCarrier overwrites an existing carrier record in place.
func (n *Network) UpdateCarrier(carrier Carrier) error {
	i, ok := n.carrierIndex[carrier.Name]
	if !ok {
		return fmt.Errorf("carrier %q is not registered", carrier.Name)
	}
	n.Carriers[i] = carrier
	return nil
}

// CarrierNames returns the registered carrier names in registration order.
func (n *Network) CarrierNames() []string {
	names := make([]string, len(n.Carriers))
	for i, c := range n.Carriers {
		names[i] = c.Name
	}
	return names
}

// AddGenerator appends a generator record. The referenced bus must exist and
// any availability profile must cover the full snapshot horizon. An extendable
// generator must either carry a finite non-negative capacity bound or be
// explicitly unconstrained.
func (n *Network) AddGenerator(g Generator) error {
	if _, ok := n.busIndex[g.Bus]; !ok {
		return fmt.Errorf("generator %q references unknown bus %q", g.Name, g.Bus)
	}
	if err := checkHorizon(g.PMaxPU, len(n.Snapshots), "generator "+g.Name+" p_max_pu"); err != nil {
		return err
	}
	if g.PNomExtendable && g.HasPNomMax && g.PNomMax < 0 {
		return fmt.Errorf("extendable generator %q has negative p_nom_max %v", g.Name, g.PNomMax)
	}
	n.Generators = append(n.Generators, g)
	return nil
}

// AddStorageUnit appends a storage unit record.
func (n *Network) AddStorageUnit(s StorageUnit) error {
	if _, ok := n.busIndex[s.Bus]; !ok {
		return fmt.Errorf("storage unit %q references unknown bus %q", s.Name, s.Bus)
	}
	if err := checkHorizon(s.Inflow, len(n.Snapshots), "storage unit "+s.Name+" inflow"); err != nil {
		return err
	}
	n.StorageUnits = append(n.StorageUnits, s)
	return nil
}

// AddLoad appends a load record. The demand series must be dense over the
// full snapshot horizon.
func (n *Network) AddLoad(l Load) error {
	if _, ok := n.busIndex[l.Bus]; !ok {
		return fmt.Errorf("load %q references unknown bus %q", l.Name, l.Bus)
	}
	if l.PSet == nil {
		return fmt.Errorf("load %q has no demand series", l.Name)
	}
	if err := checkHorizon(l.PSet, len(n.Snapshots), "load "+l.Name+" p_set"); err != nil {
		return err
	}
	n.Loads = append(n.Loads, l)
	return nil
}

// Countries returns the sorted set of countries present on the buses.
func (n *Network) Countries() []string {
	seen := map[string]bool{}
	for _, bus := range n.Buses {
		if bus.Country != "" {
			seen[bus.Country] = true
		}
	}
	countries := make([]string, 0, len(seen))
	for c := range seen {
		countries = append(countries, c)
	}
	sort.Strings(countries)
	return countries
}
