// Package scenario models keyed snapshots of placed map entities and diffs
// two snapshots into a transition plan.
//
// Responsibilities: the snapshot wire format (including the legacy shape
// where units and contours are stored as JSON text), entity kinds, entity
// placement and editing, and Diff.
// Key types: Snapshot, Entity, ID, Kind, TransitionPlan.
//
// Dependency rule: scenario may import internal/terrain/geo for positions.
// Animation lives in scenario/transition and imports scenario, never the
// reverse.
package scenario
