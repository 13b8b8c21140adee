package scenario

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/terrain.planner/internal/terrain/geo"
)

var idComparer = cmp.Comparer(func(a, b ID) bool { return a == b })

func unit(id string, kind Kind, lat, lng float64) Entity {
	return Entity{ID: StringID(id), Kind: kind, RawKind: kind.String(), Position: geo.LatLng{Lat: lat, Lng: lng}}
}

func snap(name string, es ...Entity) Snapshot {
	return Snapshot{Name: name, Entities: es}
}

func ids(es []Entity) []string {
	out := make([]string, len(es))
	for i, e := range es {
		out[i] = e.ID.String()
	}
	return out
}

func TestDiff_Partition(t *testing.T) {
	src := snap("a",
		unit("1", KindInfantry, 0, 0),
		unit("2", KindTank, 1, 1),
		unit("3", KindHQ, 2, 2),
	)
	dst := snap("b",
		unit("4", KindEnemy, 5, 5),
		unit("3", KindHQ, 3, 3),
		unit("1", KindArtillery, 9, 9),
		unit("5", KindTank, 6, 6),
	)

	plan := Diff(src, dst)

	want := TransitionPlan{
		Removed: []Entity{src.Entities[1]},
		Added:   []Entity{dst.Entities[0], dst.Entities[3]},
		Paired: []Pair{
			{Source: src.Entities[0], Target: dst.Entities[2]},
			{Source: src.Entities[2], Target: dst.Entities[1]},
		},
	}
	if diff := cmp.Diff(want, plan, idComparer); diff != "" {
		t.Errorf("Diff mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, KindArtillery, plan.Paired[0].Target.Kind, "pair kind comes from the target")
}

func TestDiff_EveryIDExactlyOnce(t *testing.T) {
	src := snap("a", unit("1", KindTank, 0, 0), unit("2", KindTank, 0, 0), unit("3", KindTank, 0, 0))
	dst := snap("b", unit("2", KindTank, 1, 1), unit("4", KindTank, 1, 1))
	plan := Diff(src, dst)

	seen := map[string]int{}
	for _, e := range plan.Removed {
		seen[e.ID.String()]++
	}
	for _, e := range plan.Added {
		seen[e.ID.String()]++
	}
	for _, p := range plan.Paired {
		seen[p.ID().String()]++
	}
	assert.Equal(t, map[string]int{"1": 1, "2": 1, "3": 1, "4": 1}, seen)
}

func TestDiff_Identical(t *testing.T) {
	s := snap("a", unit("1", KindTank, 0, 0), unit("2", KindHQ, 1, 1))
	plan := Diff(s, s)
	assert.Empty(t, plan.Removed)
	assert.Empty(t, plan.Added)
	require.Len(t, plan.Paired, 2)
	for _, p := range plan.Paired {
		assert.Equal(t, p.Source, p.Target)
	}
}

func TestDiff_EmptySnapshots(t *testing.T) {
	assert.True(t, Diff(Snapshot{}, Snapshot{}).Empty())

	s := snap("a", unit("1", KindTank, 0, 0))
	assert.Equal(t, []string{"1"}, ids(Diff(Snapshot{}, s).Added))
	assert.Equal(t, []string{"1"}, ids(Diff(s, Snapshot{}).Removed))
}

func TestDiff_DuplicateIDsLastWins(t *testing.T) {
	src := snap("a",
		unit("1", KindTank, 0, 0),
		unit("2", KindTank, 0, 0),
		unit("1", KindHQ, 7, 7),
	)
	dst := snap("b",
		unit("1", KindTank, 8, 8),
		unit("3", KindTank, 0, 0),
		unit("3", KindEnemy, 4, 4),
	)

	var plan TransitionPlan
	require.NotPanics(t, func() { plan = Diff(src, dst) })

	require.Len(t, plan.Paired, 1)
	assert.Equal(t, geo.LatLng{Lat: 7, Lng: 7}, plan.Paired[0].Source.Position)
	assert.Equal(t, []string{"2"}, ids(plan.Removed))
	require.Len(t, plan.Added, 1)
	assert.Equal(t, KindEnemy, plan.Added[0].Kind)
	assert.Equal(t, []ID{StringID("1"), StringID("3")}, plan.Duplicates)
}

func TestDiff_MixedIDForms(t *testing.T) {
	src := snap("a", Entity{ID: NumericID(17), Kind: KindTank})
	dst := snap("b", Entity{ID: StringID("17"), Kind: KindTank})
	plan := Diff(src, dst)
	assert.Len(t, plan.Paired, 1)
	assert.Empty(t, plan.Added)
	assert.Empty(t, plan.Removed)
}

func TestDiff_DoesNotModifyInputs(t *testing.T) {
	src := snap("a", unit("1", KindTank, 0, 0), unit("2", KindTank, 1, 1))
	dst := snap("b", unit("2", KindTank, 2, 2))
	before := append([]Entity(nil), src.Entities...)
	_ = Diff(src, dst)
	if diff := cmp.Diff(before, src.Entities, idComparer); diff != "" {
		t.Errorf("source modified (-before +after):\n%s", diff)
	}
}

func TestDiff_LogsSummary(t *testing.T) {
	var diag bytes.Buffer
	SetLogWriters(nil, &diag, nil)
	defer SetLogWriters(nil, nil, nil)

	Diff(snap("a", unit("1", KindTank, 0, 0), unit("1", KindTank, 0, 0)), snap("b"))
	out := diag.String()
	assert.True(t, strings.Contains(out, `plan "a" -> "b": 1 removed, 0 added, 0 paired`), out)
	assert.True(t, strings.Contains(out, "duplicate ids resolved last-wins: [1]"), out)
}
