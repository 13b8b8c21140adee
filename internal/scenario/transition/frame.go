package transition

import (
	"time"

	"github.com/banshee-data/terrain.planner/internal/scenario"
	"github.com/banshee-data/terrain.planner/internal/terrain/geo"
)

// Role says which part of the plan an entity in a frame comes from.
type Role uint8

const (
	RolePaired Role = iota
	RoleAdded
	RoleRemoved
)

func (r Role) String() string {
	switch r {
	case RolePaired:
		return "paired"
	case RoleAdded:
		return "added"
	case RoleRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// FrameEntity is one entity as it should be drawn in a frame.
type FrameEntity struct {
	ID           scenario.ID `json:"id"`
	Kind         string      `json:"type"`
	Role         Role        `json:"-"`
	Position     geo.LatLng  `json:"position"`
	RadiusMeters float64     `json:"radiusMeters,omitempty"`
	Opacity      float64     `json:"opacity"`
}

// Frame is a complete description of the scene at one instant.
type Frame struct {
	Seq      int           `json:"seq"`
	Elapsed  time.Duration `json:"elapsedNs"`
	Progress float64       `json:"progress"`
	Eased    float64       `json:"eased"`
	// Final marks the frame that settles on the target snapshot. Removed
	// entities are absent from it.
	Final    bool          `json:"final"`
	Entities []FrameEntity `json:"entities"`
}

// buildFrame interpolates plan at eased progress e. Paired entities come
// first in source order, then added in target order, then removed in source
// order.
func buildFrame(plan scenario.TransitionPlan, e float64, final bool) []FrameEntity {
	n := len(plan.Paired) + len(plan.Added)
	if !final {
		n += len(plan.Removed)
	}
	out := make([]FrameEntity, 0, n)

	for _, p := range plan.Paired {
		fe := FrameEntity{
			ID:           p.Target.ID,
			Kind:         p.Target.TypeName(),
			Role:         RolePaired,
			Position:     p.Target.Position,
			RadiusMeters: p.Target.RadiusMeters,
			Opacity:      1,
		}
		// Lerp at e=1 can miss the target by an ulp.
		if e < 1 {
			fe.Position = p.Source.Position.Lerp(p.Target.Position, e)
			fe.RadiusMeters = p.Source.RadiusMeters + (p.Target.RadiusMeters-p.Source.RadiusMeters)*e
		}
		out = append(out, fe)
	}
	for _, a := range plan.Added {
		out = append(out, FrameEntity{
			ID:           a.ID,
			Kind:         a.TypeName(),
			Role:         RoleAdded,
			Position:     a.Position,
			RadiusMeters: a.RadiusMeters,
			Opacity:      e,
		})
	}
	if final {
		return out
	}
	for _, r := range plan.Removed {
		out = append(out, FrameEntity{
			ID:           r.ID,
			Kind:         r.TypeName(),
			Role:         RoleRemoved,
			Position:     r.Position,
			RadiusMeters: r.RadiusMeters,
			Opacity:      1 - e,
		})
	}
	return out
}
