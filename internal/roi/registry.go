package roi

import (
	"fmt"
	"sort"

	"github.com/irfansharif/roicheck/internal/collide"
	"github.com/irfansharif/roicheck/internal/geom"
)

// Registry holds the zones a matcher tests against.
type Registry struct {
	zones  map[ZoneID]*Zone // map of zone IDs to zones
	byName map[string]ZoneID
	nextID ZoneID // next zone ID to assign
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		zones:  make(map[ZoneID]*Zone),
		byName: make(map[string]ZoneID),
	}
}

// NewRegistryFromConfig builds the config's zones and adds them in file order.
func NewRegistryFromConfig(c *Config) (*Registry, error) {
	zones, err := c.Build()
	if err != nil {
		return nil, err
	}
	reg := NewRegistry()
	for _, z := range zones {
		if _, err := reg.Add(z.Name, z.Points); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// Add registers a new zone and assigns it the next ID.
func (r *Registry) Add(name string, points geom.Polygon) (*Zone, error) {
	if _, ok := r.byName[name]; ok {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateZone, name)
	}
	if len(points) < 3 {
		return nil, fmt.Errorf("zone %q: %w, got %d", name, ErrTooFewPoints, len(points))
	}
	zone := &Zone{
		ID:     r.nextID,
		Name:   name,
		Points: append(geom.Polygon(nil), points...),
	}
	r.zones[zone.ID] = zone
	r.byName[name] = zone.ID
	r.nextID++
	return zone, nil
}

// Remove removes a zone by ID.
func (r *Registry) Remove(id ZoneID) bool {
	if zone, ok := r.zones[id]; ok {
		delete(r.zones, id)
		delete(r.byName, zone.Name)
		return true
	}
	return false
}

// Lookup returns the zone with the given name.
func (r *Registry) Lookup(name string) (*Zone, bool) {
	id, ok := r.byName[name]
	if !ok {
		return nil, false
	}
	return r.zones[id], true
}

// Len returns the number of zones.
func (r *Registry) Len() int { return len(r.zones) }

// Zones returns all zones sorted by ID (ascending).
func (r *Registry) Zones() []*Zone {
	zones := make([]*Zone, 0, len(r.zones))
	for _, zone := range r.zones {
		zones = append(zones, zone)
	}
	sort.Slice(zones, func(i, j int) bool { return zones[i].ID < zones[j].ID })
	return zones
}

// ZonePair is two zones that overlap, A's ID lower than B's.
type ZonePair struct {
	A, B *Zone
}

// Overlaps returns every pair of zones that overlap or touch, ordered by the
// IDs of A then B.
func (r *Registry) Overlaps() []ZonePair {
	zones := r.Zones()
	var pairs []ZonePair
	for i := range zones {
		for j := i + 1; j < len(zones); j++ {
			if collide.Polygons(zones[i].Points, zones[j].Points) {
				pairs = append(pairs, ZonePair{A: zones[i], B: zones[j]})
			}
		}
	}
	return pairs
}
