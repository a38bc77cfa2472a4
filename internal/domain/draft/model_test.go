package draft

import (
	"reflect"
	"testing"
)

func TestRosterEntry_Ref_PrefersPlayerID(t *testing.T) {
	entry := RosterEntry{PlayerID: 42, LegacyID: 99}
	id, ok := entry.Ref()
	if !ok || id != 42 {
		t.Fatalf("expected playerId 42, got %d ok=%v", id, ok)
	}
}

func TestRosterEntry_Ref_FallsBackToLegacyID(t *testing.T) {
	entry := RosterEntry{LegacyID: 99}
	id, ok := entry.Ref()
	if !ok || id != 99 {
		t.Fatalf("expected legacy id 99, got %d ok=%v", id, ok)
	}
}

func TestRosterEntry_Ref_MissingIdentifier(t *testing.T) {
	if _, ok := (RosterEntry{FullName: "Ghost"}).Ref(); ok {
		t.Fatalf("expected ok=false for entry without identifier")
	}
}

func TestState_MarkMatchdayFinished_KeepsSortedAndGrows(t *testing.T) {
	state := State{FinishedMatchdays: []int{1, 3}}

	if !state.MarkMatchdayFinished(2) {
		t.Fatalf("expected new matchday to be recorded")
	}
	if state.MarkMatchdayFinished(2) {
		t.Fatalf("expected duplicate matchday to be rejected")
	}
	if !reflect.DeepEqual(state.FinishedMatchdays, []int{1, 2, 3}) {
		t.Fatalf("unexpected finished matchdays: %v", state.FinishedMatchdays)
	}
}

func TestState_RosterIDs_SkipsUnresolvableEntries(t *testing.T) {
	state := State{Rosters: map[string][]RosterEntry{
		"mia": {
			{PlayerID: 10},
			{FullName: "no id"},
			{LegacyID: 20},
		},
	}}

	ids := state.RosterIDs("mia")
	if len(ids) != 2 {
		t.Fatalf("expected 2 ids, got %v", ids)
	}
	if _, ok := ids[10]; !ok {
		t.Fatalf("expected id 10 present")
	}
	if _, ok := ids[20]; !ok {
		t.Fatalf("expected id 20 present")
	}
}

func TestState_RosterIDs_UnknownManagerIsEmpty(t *testing.T) {
	state := State{Rosters: map[string][]RosterEntry{}}
	if ids := state.RosterIDs("nobody"); len(ids) != 0 {
		t.Fatalf("expected empty set, got %v", ids)
	}
}

func TestState_LineupIDs_UnionOfPlayersAndBench(t *testing.T) {
	state := State{Lineups: map[string]map[string]Lineup{
		"mia": {
			"3": {Players: []int64{1, 2}, Bench: []int64{3, 0}},
		},
	}}

	ids := state.LineupIDs("mia", "3")
	if !reflect.DeepEqual(SortedIDs(ids), []int64{1, 2, 3}) {
		t.Fatalf("unexpected lineup ids: %v", SortedIDs(ids))
	}
	if len(state.LineupIDs("mia", "4")) != 0 {
		t.Fatalf("expected empty set for unknown gameweek")
	}
}

func TestState_BaselineFromPicks_FiltersByManager(t *testing.T) {
	state := State{Picks: []Pick{
		{User: "mia", Player: RosterEntry{PlayerID: 7}},
		{User: "leo", Player: RosterEntry{PlayerID: 8}},
		{User: "mia", Player: RosterEntry{LegacyID: 9}},
		{User: "mia", Player: RosterEntry{FullName: "no id"}},
	}}

	ids := SortedIDs(state.BaselineFromPicks("mia"))
	if !reflect.DeepEqual(ids, []int64{7, 9}) {
		t.Fatalf("unexpected baseline: %v", ids)
	}
}

func TestSortedIDs_Ascending(t *testing.T) {
	set := map[int64]struct{}{30: {}, 10: {}, 20: {}}
	if got := SortedIDs(set); !reflect.DeepEqual(got, []int64{10, 20, 30}) {
		t.Fatalf("unexpected order: %v", got)
	}
}
