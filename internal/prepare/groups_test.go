package prepare

import (
	"testing"

	"github.com/hrsync/tcsync/internal/model"
)

// seedPersons builds the Alice/Bob/Carol/Dan/Eve supervisor-chain example
// from spec.md §8.
func seedPersons() []model.Person {
	return []model.Person{
		{ExternalID: "1", Name: "Alice", IsSupervisor: true},
		{ExternalID: "2", Name: "Bob", SupervisorID: "1", IsSupervisor: true},
		{ExternalID: "3", Name: "Carol", SupervisorID: "2", IsSupervisor: false},
		{ExternalID: "4", Name: "Dan", SupervisorID: "1", IsSupervisor: false},
		{ExternalID: "5", Name: "Eve", IsSupervisor: false},
	}
}

func TestSupervisorOnlyGroupPaths(t *testing.T) {
	persons := seedPersons()
	r := newResolver(persons, GroupPathConfig{UseSupervisorGroups: true})

	want := map[string]string{
		"1": "Alice",
		"2": "Alice/Bob",
		"3": "Alice/Bob",
		"4": "Alice",
		"5": "",
	}
	for id, expected := range want {
		if got := r.supervisorPath(id); got != expected {
			t.Errorf("supervisorPath(%s) = %q, want %q", id, got, expected)
		}
	}
}

func TestSupervisorCycleTerminates(t *testing.T) {
	persons := []model.Person{
		{ExternalID: "1", Name: "Alice", SupervisorID: "2", IsSupervisor: true},
		{ExternalID: "2", Name: "Bob", SupervisorID: "1", IsSupervisor: true},
	}
	r := newResolver(persons, GroupPathConfig{UseSupervisorGroups: true})

	got := r.supervisorPath("1")
	for _, seg := range []string{"Alice", "Bob"} {
		count := 0
		for i := 0; i+len(seg) <= len(got); i++ {
			if got[i:i+len(seg)] == seg {
				count++
			}
		}
		if count > 1 {
			t.Errorf("supervisorPath for cyclic input repeats segment %q in %q", seg, got)
		}
	}
}

func TestDanglingSupervisorTreatedAsNone(t *testing.T) {
	persons := []model.Person{
		{ExternalID: "1", Name: "Zoe", SupervisorID: "ghost", IsSupervisor: true},
	}
	r := newResolver(persons, GroupPathConfig{UseSupervisorGroups: true})
	if got := r.supervisorPath("1"); got != "Zoe" {
		t.Errorf("supervisorPath with dangling pointer = %q, want %q", got, "Zoe")
	}
}

func TestHybridStrategy(t *testing.T) {
	r := newResolver(seedPersons(), GroupPathConfig{UseDepartmentGroups: true, UseSupervisorGroups: true})
	strategy := hybridStrategy{}

	bob := model.Person{ExternalID: "2", Name: "Bob", SupervisorID: "1", IsSupervisor: true, Department: "Eng"}
	if got := strategy.path(r, bob); got != "Eng/Alice/Bob" {
		t.Errorf("hybrid path = %q, want %q", got, "Eng/Alice/Bob")
	}

	noDept := model.Person{ExternalID: "2", Name: "Bob", SupervisorID: "1", IsSupervisor: true}
	if got := strategy.path(r, noDept); got != "Alice/Bob" {
		t.Errorf("hybrid path with no department = %q, want %q", got, "Alice/Bob")
	}
}

func TestFlatStrategyAlwaysRoot(t *testing.T) {
	r := newResolver(seedPersons(), GroupPathConfig{})
	strategy := flatStrategy{}
	p := model.Person{ExternalID: "1", Department: "Eng", SupervisorID: ""}
	if got := strategy.path(r, p); got != "" {
		t.Errorf("flat strategy path = %q, want empty", got)
	}
}
