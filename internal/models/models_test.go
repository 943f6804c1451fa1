package models

import (
	"testing"
)

func strPtr(s string) *string   { return &s }
func intPtr(i int) *int         { return &i }
func f64Ptr(f float64) *float64 { return &f }

// TestSessionKind verifies the derived classification: program when both
// program fields are set, template when only a template id is set, free
// otherwise.
func TestSessionKind(t *testing.T) {
	tests := []struct {
		name    string
		session WorkoutSession
		want    SessionKind
	}{
		{
			name:    "free",
			session: WorkoutSession{Name: "Quick pump"},
			want:    SessionKindFree,
		},
		{
			name: "template",
			session: WorkoutSession{
				TemplateID:   strPtr("tpl-1"),
				TemplateName: strPtr("Push Day"),
			},
			want: SessionKindTemplate,
		},
		{
			name: "program",
			session: WorkoutSession{
				ProgramID:    strPtr("prog-1"),
				ProgramDayID: strPtr("day-1"),
			},
			want: SessionKindProgram,
		},
		{
			name: "program id without day id falls back to free",
			session: WorkoutSession{
				ProgramID: strPtr("prog-1"),
			},
			want: SessionKindFree,
		},
		{
			name: "program wins over template",
			session: WorkoutSession{
				TemplateID:   strPtr("tpl-1"),
				ProgramID:    strPtr("prog-1"),
				ProgramDayID: strPtr("day-1"),
			},
			want: SessionKindProgram,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.session.Kind(); got != tt.want {
				t.Errorf("Kind() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestVolume verifies that only completed sets contribute reps×weight.
func TestVolume(t *testing.T) {
	sets := []WorkoutSet{
		{Reps: 5, Weight: 100, Completed: true},
		{Reps: 5, Weight: 110, Completed: true},
		{Reps: 8, Weight: 200, Completed: false}, // skipped set, no contribution
	}
	if got, want := Volume(sets), 5*100.0+5*110.0; got != want {
		t.Errorf("Volume = %.1f, want %.1f", got, want)
	}
	if got := Volume(nil); got != 0 {
		t.Errorf("Volume(nil) = %.1f, want 0", got)
	}
}

// TestTargetsUnion verifies the uniform/explicit tagged-union selection.
func TestTargetsUnion(t *testing.T) {
	uniform := ProgramDayExercise{
		ExerciseName: "Squat",
		TargetSets:   intPtr(3),
		TargetReps:   intPtr(5),
		TargetWeight: f64Ptr(140),
	}
	u, ok := uniform.Targets().(UniformTargets)
	if !ok {
		t.Fatalf("Targets() = %T, want UniformTargets", uniform.Targets())
	}
	if u.Sets != 3 || u.Reps != 5 || u.Weight != 140 {
		t.Errorf("uniform targets = %+v", u)
	}

	explicit := ProgramDayExercise{
		ExerciseName: "Bench Press",
		TargetSets:   intPtr(99), // ignored: explicit rows win
		ExplicitSets: []SetTarget{
			{SetNumber: 1, TargetReps: 8, TargetWeight: 80},
			{SetNumber: 2, TargetReps: 6, TargetWeight: 85},
		},
	}
	e, ok := explicit.Targets().(ExplicitTargets)
	if !ok {
		t.Fatalf("Targets() = %T, want ExplicitTargets", explicit.Targets())
	}
	if len(e.Sets) != 2 || e.Sets[1].Reps != 6 || e.Sets[1].Weight != 85 {
		t.Errorf("explicit targets = %+v", e)
	}
}

// TestExpandTargets verifies the pure expansion from scheme to set list.
func TestExpandTargets(t *testing.T) {
	tests := []struct {
		name   string
		scheme TargetScheme
		want   []PlannedSet
	}{
		{
			name:   "uniform expands to identical rows",
			scheme: UniformTargets{Sets: 3, Reps: 5, Weight: 100},
			want: []PlannedSet{
				{Reps: 5, Weight: 100},
				{Reps: 5, Weight: 100},
				{Reps: 5, Weight: 100},
			},
		},
		{
			name:   "uniform with zero sets expands to nothing",
			scheme: UniformTargets{Reps: 5, Weight: 100},
			want:   nil,
		},
		{
			name: "explicit passes through",
			scheme: ExplicitTargets{Sets: []PlannedSet{
				{Reps: 8, Weight: 60},
				{Reps: 5, Weight: 80},
			}},
			want: []PlannedSet{
				{Reps: 8, Weight: 60},
				{Reps: 5, Weight: 80},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExpandTargets(tt.scheme)
			if len(got) != len(tt.want) {
				t.Fatalf("ExpandTargets len = %d, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("set %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

// TestNormalizeExerciseName verifies the PR lookup key normalization.
func TestNormalizeExerciseName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Squat", "squat"},
		{"  Bench Press ", "bench press"},
		{"OVERHEAD PRESS", "overhead press"},
	}
	for _, tt := range tests {
		if got := NormalizeExerciseName(tt.in); got != tt.want {
			t.Errorf("NormalizeExerciseName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
