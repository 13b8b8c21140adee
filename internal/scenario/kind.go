package scenario

// Kind is the closed set of entity kinds the editor knows how to draw.
// Kinds outside the set decode as KindUnknown and keep their raw text on the
// entity so they survive a round trip.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindInfantry
	KindTank
	KindArtillery
	KindHQ
	KindEnemy
	KindEnemyZone
	KindSafeZone
)

// DefaultZoneRadiusMeters is the radius given to zones placed without one.
const DefaultZoneRadiusMeters = 150.0

var kindNames = [...]string{
	KindUnknown:   "unknown",
	KindInfantry:  "infantry",
	KindTank:      "tank",
	KindArtillery: "artillery",
	KindHQ:        "hq",
	KindEnemy:     "enemy",
	KindEnemyZone: "enemyZone",
	KindSafeZone:  "safeZone",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// IsZone reports whether entities of this kind are drawn as circles with a
// radius rather than as point markers.
func (k Kind) IsZone() bool {
	return k == KindEnemyZone || k == KindSafeZone
}

// ParseKind maps wire text to a Kind. Matching is exact; the editor never
// emits other spellings.
func ParseKind(s string) (Kind, bool) {
	for k, name := range kindNames {
		if k != int(KindUnknown) && name == s {
			return Kind(k), true
		}
	}
	return KindUnknown, false
}

// UnitKinds lists the point-marker kinds in palette order.
func UnitKinds() []Kind {
	return []Kind{KindInfantry, KindTank, KindArtillery, KindHQ, KindEnemy}
}

// ZoneKinds lists the circle kinds in palette order.
func ZoneKinds() []Kind {
	return []Kind{KindEnemyZone, KindSafeZone}
}
