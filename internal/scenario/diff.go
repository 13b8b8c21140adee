package scenario

// Pair is an entity present in both snapshots.
type Pair struct {
	Source Entity
	Target Entity
}

// ID returns the shared identity.
func (p Pair) ID() ID { return p.Target.ID }

// TransitionPlan partitions the entities of two snapshots. Every id that
// appears in either snapshot is in exactly one of Removed, Added or Paired.
type TransitionPlan struct {
	// Removed holds source-only entities in source order.
	Removed []Entity
	// Added holds target-only entities in target order.
	Added []Entity
	// Paired holds entities present in both, in source order.
	Paired []Pair
	// Duplicates lists ids that appeared more than once in either snapshot.
	// Only their last occurrence took part in the diff.
	Duplicates []ID
}

// Empty reports whether the plan has nothing to animate.
func (p TransitionPlan) Empty() bool {
	return len(p.Removed) == 0 && len(p.Added) == 0 && len(p.Paired) == 0
}

// Diff computes the plan that takes source to target. Entities are matched
// by ID text. Within one snapshot the last occurrence of an id wins, and the
// entity is placed at that occurrence's position in the ordering.
func Diff(source, target Snapshot) TransitionPlan {
	srcLast := lastIndex(source.Entities)
	tgtLast := lastIndex(target.Entities)

	var plan TransitionPlan
	dup := make(map[string]bool)
	noteDup := func(id ID) {
		if !dup[id.text] {
			dup[id.text] = true
			plan.Duplicates = append(plan.Duplicates, id)
		}
	}

	for i, e := range source.Entities {
		if srcLast[e.ID.text] != i {
			noteDup(e.ID)
			continue
		}
		if j, ok := tgtLast[e.ID.text]; ok {
			plan.Paired = append(plan.Paired, Pair{Source: e, Target: target.Entities[j]})
			tracef("pair %s", e.ID)
		} else {
			plan.Removed = append(plan.Removed, e)
			tracef("remove %s", e.ID)
		}
	}
	for j, e := range target.Entities {
		if tgtLast[e.ID.text] != j {
			noteDup(e.ID)
			continue
		}
		if _, ok := srcLast[e.ID.text]; !ok {
			plan.Added = append(plan.Added, e)
			tracef("add %s", e.ID)
		}
	}

	if len(plan.Duplicates) > 0 {
		diagf("duplicate ids resolved last-wins: %v", plan.Duplicates)
	}
	diagf("plan %q -> %q: %d removed, %d added, %d paired",
		source.Name, target.Name, len(plan.Removed), len(plan.Added), len(plan.Paired))
	return plan
}

func lastIndex(es []Entity) map[string]int {
	m := make(map[string]int, len(es))
	for i, e := range es {
		m[e.ID.text] = i
	}
	return m
}
