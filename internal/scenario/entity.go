package scenario

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/banshee-data/terrain.planner/internal/terrain/geo"
)

// ID identifies an entity across snapshots. The editor has written both
// numeric ids (millisecond timestamps) and string ids, so the wire form is
// remembered for re-encoding while identity depends only on the text:
// "17" and 17 name the same entity.
type ID struct {
	text    string
	numeric bool
}

// StringID returns an ID encoded as a JSON string.
func StringID(s string) ID { return ID{text: s} }

// NumericID returns an ID encoded as a JSON number.
func NumericID(n int64) ID { return ID{text: fmt.Sprint(n), numeric: true} }

// NewEntityID returns a fresh random identity for a newly placed entity.
func NewEntityID() ID { return StringID(uuid.New().String()) }

func (id ID) String() string { return id.text }

// IsZero reports whether the id is empty.
func (id ID) IsZero() bool { return id.text == "" }

// Equal compares identity, ignoring the wire form.
func (id ID) Equal(o ID) bool { return id.text == o.text }

func (id ID) MarshalJSON() ([]byte, error) {
	if id.numeric {
		return []byte(id.text), nil
	}
	return json.Marshal(id.text)
}

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID{text: s}
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*id = ID{text: n.String(), numeric: true}
	return nil
}

// Entity is a unit marker or a zone circle.
type Entity struct {
	ID ID
	// Kind is KindUnknown when RawKind is not a known kind.
	Kind    Kind
	RawKind string
	// Position is the marker location, or the center of a zone.
	Position     geo.LatLng
	RadiusMeters float64
}

// NewUnit places a point marker with a fresh id.
func NewUnit(kind Kind, pos geo.LatLng) Entity {
	return Entity{ID: NewEntityID(), Kind: kind, RawKind: kind.String(), Position: pos}
}

// NewZone places a zone circle with a fresh id. A non-positive radius uses
// DefaultZoneRadiusMeters.
func NewZone(kind Kind, center geo.LatLng, radiusMeters float64) Entity {
	if radiusMeters <= 0 {
		radiusMeters = DefaultZoneRadiusMeters
	}
	return Entity{ID: NewEntityID(), Kind: kind, RawKind: kind.String(), Position: center, RadiusMeters: radiusMeters}
}

// IsZone reports whether the entity is drawn and stored as a zone.
func (e Entity) IsZone() bool {
	return e.Kind.IsZone() || e.RadiusMeters > 0
}

// TypeName is the wire text for the entity's kind.
func (e Entity) TypeName() string {
	if e.Kind == KindUnknown {
		return e.RawKind
	}
	return e.Kind.String()
}

type unitJSON struct {
	ID       ID         `json:"id"`
	Position geo.LatLng `json:"position"`
	Type     string     `json:"type"`
}

type zoneJSON struct {
	ID           ID         `json:"id"`
	Type         string     `json:"type"`
	Center       geo.LatLng `json:"center"`
	RadiusMeters float64    `json:"radiusMeters"`
}

func entityFromWire(id ID, typ string, pos geo.LatLng, radius float64) Entity {
	k, _ := ParseKind(typ)
	return Entity{ID: id, Kind: k, RawKind: typ, Position: pos, RadiusMeters: radius}
}
