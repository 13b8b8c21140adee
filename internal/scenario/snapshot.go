package scenario

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/banshee-data/terrain.planner/internal/terrain/geo"
)

// ErrInvalidSnapshot is returned for snapshot JSON with the wrong shape.
var ErrInvalidSnapshot = errors.New("invalid snapshot")

// Snapshot is one saved arrangement of entities over a terrain tile.
// Entities hold units first, then zones. Operations on a Snapshot return new
// values and never modify the receiver's slices.
type Snapshot struct {
	Name      string
	MGRSCoord string
	Entities  []Entity
	// Contours pass through unchanged as [lat, lng] polylines.
	Contours  [][][2]float64
	CreatedAt time.Time

	// extra holds unrecognised top-level fields for round trips.
	extra map[string]json.RawMessage
}

// ParseSnapshot decodes a single snapshot document.
func ParseSnapshot(data []byte) (Snapshot, error) {
	return Parser{}.Parse(data)
}

// Parser decodes snapshot documents. Zones stored without a radius get
// ZoneRadiusMeters, or DefaultZoneRadiusMeters when it is not positive.
type Parser struct {
	ZoneRadiusMeters float64
}

// Parse decodes a single snapshot document.
func (p Parser) Parse(data []byte) (Snapshot, error) {
	radius := p.ZoneRadiusMeters
	if radius <= 0 {
		radius = DefaultZoneRadiusMeters
	}
	var s Snapshot
	if err := s.decode(data, radius); err != nil {
		opsf("rejected snapshot: %v", err)
		if !errors.Is(err, ErrInvalidSnapshot) {
			err = fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
		}
		return Snapshot{}, err
	}
	return s, nil
}

// Lookup returns the last entity carrying id.
func (s Snapshot) Lookup(id ID) (Entity, bool) {
	for i := len(s.Entities) - 1; i >= 0; i-- {
		if s.Entities[i].ID.Equal(id) {
			return s.Entities[i], true
		}
	}
	return Entity{}, false
}

// Units returns the point-marker entities in order.
func (s Snapshot) Units() []Entity {
	var out []Entity
	for _, e := range s.Entities {
		if !e.IsZone() {
			out = append(out, e)
		}
	}
	return out
}

// Zones returns the zone entities in order.
func (s Snapshot) Zones() []Entity {
	var out []Entity
	for _, e := range s.Entities {
		if e.IsZone() {
			out = append(out, e)
		}
	}
	return out
}

// WithEntity returns a copy with e added after the existing entities of the
// same group, keeping units ahead of zones.
func (s Snapshot) WithEntity(e Entity) Snapshot {
	out := s.clone()
	units, zones := s.Units(), s.Zones()
	if e.IsZone() {
		zones = append(zones, e)
	} else {
		units = append(units, e)
	}
	out.Entities = append(units, zones...)
	return out
}

// WithoutEntity returns a copy with every entity carrying id removed.
func (s Snapshot) WithoutEntity(id ID) Snapshot {
	out := s.clone()
	out.Entities = out.Entities[:0]
	for _, e := range s.Entities {
		if !e.ID.Equal(id) {
			out.Entities = append(out.Entities, e)
		}
	}
	return out
}

// MoveEntity returns a copy with the entity carrying id moved to pos. The
// boolean is false, and the copy unchanged, when no entity matches.
func (s Snapshot) MoveEntity(id ID, pos geo.LatLng) (Snapshot, bool) {
	out := s.clone()
	found := false
	for i := range out.Entities {
		if out.Entities[i].ID.Equal(id) {
			out.Entities[i].Position = pos
			found = true
		}
	}
	return out, found
}

func (s Snapshot) clone() Snapshot {
	out := s
	out.Entities = append(make([]Entity, 0, len(s.Entities)+1), s.Entities...)
	return out
}

type snapshotJSON struct {
	Name      string         `json:"name,omitempty"`
	MGRSCoord string         `json:"mgrsCoord"`
	Units     []unitJSON     `json:"units"`
	Zones     []zoneJSON     `json:"zones,omitempty"`
	Contours  [][][2]float64 `json:"contours"`
	CreatedAt *time.Time     `json:"createdAt,omitempty"`
}

var knownFields = map[string]bool{
	"name": true, "mgrsCoord": true, "units": true, "zones": true, "contours": true, "createdAt": true,
}

// MarshalJSON writes the editor's snapshot document. Units and contours are
// always emitted as arrays.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	w := snapshotJSON{
		Name:      s.Name,
		MGRSCoord: s.MGRSCoord,
		Units:     []unitJSON{},
		Contours:  s.Contours,
	}
	if w.Contours == nil {
		w.Contours = [][][2]float64{}
	}
	for _, e := range s.Entities {
		if e.IsZone() {
			w.Zones = append(w.Zones, zoneJSON{ID: e.ID, Type: e.TypeName(), Center: e.Position, RadiusMeters: e.RadiusMeters})
		} else {
			w.Units = append(w.Units, unitJSON{ID: e.ID, Position: e.Position, Type: e.TypeName()})
		}
	}
	if !s.CreatedAt.IsZero() {
		t := s.CreatedAt
		w.CreatedAt = &t
	}

	base, err := json.Marshal(w)
	if err != nil || len(s.extra) == 0 {
		return base, err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(base, &fields); err != nil {
		return nil, err
	}
	for k, v := range s.extra {
		fields[k] = v
	}
	return json.Marshal(fields)
}

// UnmarshalJSON accepts the editor document and the persisted form in which
// units and contours are JSON-encoded strings.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	return s.decode(data, DefaultZoneRadiusMeters)
}

func (s *Snapshot) decode(data []byte, zoneRadius float64) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}

	var out Snapshot
	if err := decodeField(fields, "name", &out.Name); err != nil {
		return err
	}
	if err := decodeField(fields, "mgrsCoord", &out.MGRSCoord); err != nil {
		return err
	}

	var units []unitJSON
	if err := decodeField(fields, "units", &units); err != nil {
		return err
	}
	var zones []zoneJSON
	if err := decodeField(fields, "zones", &zones); err != nil {
		return err
	}
	if err := decodeField(fields, "contours", &out.Contours); err != nil {
		return err
	}

	if raw, ok := fields["createdAt"]; ok && !isNull(raw) {
		var t time.Time
		if err := json.Unmarshal(raw, &t); err != nil {
			return fmt.Errorf("%w: createdAt: %v", ErrInvalidSnapshot, err)
		}
		out.CreatedAt = t
	}

	for i, u := range units {
		if u.ID.IsZero() {
			return fmt.Errorf("%w: units[%d]: missing id", ErrInvalidSnapshot, i)
		}
		out.Entities = append(out.Entities, entityFromWire(u.ID, u.Type, u.Position, 0))
	}
	for i, z := range zones {
		if z.ID.IsZero() {
			return fmt.Errorf("%w: zones[%d]: missing id", ErrInvalidSnapshot, i)
		}
		e := entityFromWire(z.ID, z.Type, z.Center, z.RadiusMeters)
		if e.RadiusMeters <= 0 {
			e.RadiusMeters = zoneRadius
		}
		out.Entities = append(out.Entities, e)
	}

	for k, v := range fields {
		if !knownFields[k] {
			if out.extra == nil {
				out.extra = make(map[string]json.RawMessage)
			}
			out.extra[k] = v
		}
	}

	*s = out
	return nil
}

// decodeField decodes fields[name] into dst. A JSON string holding a
// document is unwrapped once, matching how the persistence layer stores
// units and contours as TEXT. Missing and null fields leave dst untouched.
func decodeField(fields map[string]json.RawMessage, name string, dst any) error {
	raw, ok := fields[name]
	if !ok || isNull(raw) {
		return nil
	}
	if _, isString := dst.(*string); !isString && len(raw) > 0 && raw[0] == '"' {
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidSnapshot, name, err)
		}
		raw = json.RawMessage(text)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidSnapshot, name, err)
	}
	return nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
