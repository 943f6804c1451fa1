package models

// TargetScheme is the tagged union of the two ways a program day exercise
// prescribes its sets: a uniform scheme (N identical sets) or an explicit
// per-set list.
type TargetScheme interface {
	isTargetScheme()
}

// UniformTargets prescribes Sets identical sets of Reps at Weight.
type UniformTargets struct {
	Sets   int
	Reps   int
	Weight float64
}

// ExplicitTargets prescribes each set individually, in order.
type ExplicitTargets struct {
	Sets []PlannedSet
}

// PlannedSet is one concrete prescribed set.
type PlannedSet struct {
	Reps   int
	Weight float64
}

func (UniformTargets) isTargetScheme()  {}
func (ExplicitTargets) isTargetScheme() {}

// Targets returns the exercise's prescription as a tagged union. Explicit
// per-set rows win over the legacy scalar fields when both are present.
func (e *ProgramDayExercise) Targets() TargetScheme {
	if len(e.ExplicitSets) > 0 {
		sets := make([]PlannedSet, len(e.ExplicitSets))
		for i, t := range e.ExplicitSets {
			sets[i] = PlannedSet{Reps: t.TargetReps, Weight: t.TargetWeight}
		}
		return ExplicitTargets{Sets: sets}
	}
	u := UniformTargets{}
	if e.TargetSets != nil {
		u.Sets = *e.TargetSets
	}
	if e.TargetReps != nil {
		u.Reps = *e.TargetReps
	}
	if e.TargetWeight != nil {
		u.Weight = *e.TargetWeight
	}
	return u
}

// ExpandTargets turns a scheme into the concrete ordered set list a live
// session starts from. A uniform scheme with zero sets expands to nothing.
func ExpandTargets(scheme TargetScheme) []PlannedSet {
	switch s := scheme.(type) {
	case UniformTargets:
		if s.Sets <= 0 {
			return nil
		}
		sets := make([]PlannedSet, s.Sets)
		for i := range sets {
			sets[i] = PlannedSet{Reps: s.Reps, Weight: s.Weight}
		}
		return sets
	case ExplicitTargets:
		return s.Sets
	default:
		return nil
	}
}
