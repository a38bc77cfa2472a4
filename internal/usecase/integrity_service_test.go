package usecase

import (
	"errors"
	"reflect"
	"testing"

	"github.com/riskibarqy/draft-state/internal/domain/draft"
)

func testRule(maxID int64, denied ...int64) IntegrityRule {
	denylist := make(map[int64]struct{}, len(denied))
	for _, id := range denied {
		denylist[id] = struct{}{}
	}
	return IntegrityRule{MaxValidID: maxID, Denylist: denylist}
}

func TestIntegrityService_Clean_PreservesSurvivorOrder(t *testing.T) {
	state := draft.State{Rosters: map[string][]draft.RosterEntry{
		"mia": {{PlayerID: 1}, {PlayerID: 99999}, {PlayerID: 3}, {PlayerID: 4}},
	}}

	svc := NewIntegrityService(nil)
	cleaned, report, err := svc.Clean(state, testRule(1000))
	if err != nil {
		t.Fatalf("clean: %v", err)
	}

	var kept []int64
	for _, entry := range cleaned.Rosters["mia"] {
		kept = append(kept, entry.PlayerID)
	}
	if !reflect.DeepEqual(kept, []int64{1, 3, 4}) {
		t.Fatalf("unexpected survivors: %v", kept)
	}
	if report.RostersRemoved != 1 {
		t.Fatalf("expected 1 roster removal, got %d", report.RostersRemoved)
	}
}

func TestIntegrityService_Clean_RemovesAcrossAllStructures(t *testing.T) {
	state := draft.State{
		Rosters: map[string][]draft.RosterEntry{
			"mia": {{PlayerID: 99999}, {PlayerID: 5}},
		},
		Lineups: map[string]map[string]draft.Lineup{
			"leo": {"3": {Players: []int64{5}, Bench: []int64{99999, 6}}},
		},
		Picks: []draft.Pick{
			{User: "mia", Player: draft.RosterEntry{PlayerID: 99999}},
			{User: "mia", Player: draft.RosterEntry{PlayerID: 5}},
		},
	}

	svc := NewIntegrityService(nil)
	cleaned, report, err := svc.Clean(state, testRule(1000))
	if err != nil {
		t.Fatalf("clean: %v", err)
	}

	if report.RostersRemoved != 1 || report.LineupsRemoved != 1 || report.PicksRemoved != 1 {
		t.Fatalf("expected exactly one removal per structure, got %+v", report)
	}
	if !reflect.DeepEqual(report.InvalidIDs, []int64{99999}) {
		t.Fatalf("unexpected invalid ids: %v", report.InvalidIDs)
	}
	if got := cleaned.Lineups["leo"]["3"].Bench; !reflect.DeepEqual(got, []int64{6}) {
		t.Fatalf("unexpected bench after clean: %v", got)
	}
	if len(cleaned.Picks) != 1 {
		t.Fatalf("expected 1 surviving pick, got %d", len(cleaned.Picks))
	}
}

func TestIntegrityService_Clean_IsAFixedPoint(t *testing.T) {
	state := draft.State{
		Rosters: map[string][]draft.RosterEntry{
			"mia": {{PlayerID: 2000}, {PlayerID: 10}},
		},
		Lineups: map[string]map[string]draft.Lineup{
			"mia": {"1": {Players: []int64{2000, 10}, Bench: []int64{-5}}},
		},
	}

	svc := NewIntegrityService(nil)
	rule := testRule(1000)

	first, firstReport, err := svc.Clean(state, rule)
	if err != nil {
		t.Fatalf("first clean: %v", err)
	}
	if firstReport.TotalRemoved() == 0 {
		t.Fatalf("expected removals on first pass")
	}

	second, secondReport, err := svc.Clean(first, rule)
	if err != nil {
		t.Fatalf("second clean: %v", err)
	}
	if secondReport.TotalRemoved() != 0 {
		t.Fatalf("expected zero removals on second pass, got %+v", secondReport)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("second pass changed an already-clean document")
	}
}

func TestIntegrityService_Clean_InclusiveUpperBound(t *testing.T) {
	state := draft.State{Rosters: map[string][]draft.RosterEntry{
		"mia": {{PlayerID: 1000}, {PlayerID: 1001}, {PlayerID: 1}},
	}}

	svc := NewIntegrityService(nil)
	cleaned, report, err := svc.Clean(state, testRule(1000))
	if err != nil {
		t.Fatalf("clean: %v", err)
	}

	if !reflect.DeepEqual(report.InvalidIDs, []int64{1001}) {
		t.Fatalf("expected only 1001 invalid, got %v", report.InvalidIDs)
	}
	if len(cleaned.Rosters["mia"]) != 2 {
		t.Fatalf("expected ids 1000 and 1 to survive: %v", cleaned.Rosters["mia"])
	}
}

func TestIntegrityService_Clean_NegativeAndZeroBoundary(t *testing.T) {
	state := draft.State{
		Lineups: map[string]map[string]draft.Lineup{
			"mia": {"1": {Players: []int64{-7, 1}, Bench: []int64{0}}},
		},
	}

	svc := NewIntegrityService(nil)
	cleaned, report, err := svc.Clean(state, testRule(1000))
	if err != nil {
		t.Fatalf("clean: %v", err)
	}

	// -7 is invalid by the range rule; 0 means "no identifier" and is
	// skipped, not removed.
	if !reflect.DeepEqual(report.InvalidIDs, []int64{-7}) {
		t.Fatalf("unexpected invalid ids: %v", report.InvalidIDs)
	}
	if got := cleaned.Lineups["mia"]["1"]; !reflect.DeepEqual(got.Players, []int64{1}) || !reflect.DeepEqual(got.Bench, []int64{0}) {
		t.Fatalf("unexpected lineup after clean: %+v", got)
	}
}

func TestIntegrityService_Clean_DenylistLayersOnRange(t *testing.T) {
	state := draft.State{Rosters: map[string][]draft.RosterEntry{
		"mia": {{PlayerID: 500}, {PlayerID: 501}},
	}}

	svc := NewIntegrityService(nil)
	cleaned, report, err := svc.Clean(state, testRule(1000, 500))
	if err != nil {
		t.Fatalf("clean: %v", err)
	}

	if !reflect.DeepEqual(report.InvalidIDs, []int64{500}) {
		t.Fatalf("expected denylisted 500 invalid, got %v", report.InvalidIDs)
	}
	if len(cleaned.Rosters["mia"]) != 1 || cleaned.Rosters["mia"][0].PlayerID != 501 {
		t.Fatalf("unexpected roster after clean: %v", cleaned.Rosters["mia"])
	}
}

func TestIntegrityService_Clean_AbsentDenylistIDNotReported(t *testing.T) {
	state := draft.State{Rosters: map[string][]draft.RosterEntry{
		"mia": {{PlayerID: 10}},
	}}

	svc := NewIntegrityService(nil)
	_, report, err := svc.Clean(state, testRule(1000, 250112880))
	if err != nil {
		t.Fatalf("clean: %v", err)
	}
	if len(report.InvalidIDs) != 0 {
		t.Fatalf("denylisted id absent from state should not be reported: %v", report.InvalidIDs)
	}
}

func TestIntegrityService_Clean_LegacyIDFallback(t *testing.T) {
	state := draft.State{
		Rosters: map[string][]draft.RosterEntry{
			"mia": {{LegacyID: 99999}, {LegacyID: 10}},
		},
		Picks: []draft.Pick{{User: "mia", Player: draft.RosterEntry{LegacyID: 99999}}},
	}

	svc := NewIntegrityService(nil)
	cleaned, report, err := svc.Clean(state, testRule(1000))
	if err != nil {
		t.Fatalf("clean: %v", err)
	}

	if report.RostersRemoved != 1 || report.PicksRemoved != 1 {
		t.Fatalf("expected legacy ids to be cleaned, got %+v", report)
	}
	if len(cleaned.Picks) != 0 {
		t.Fatalf("expected pick removed, got %v", cleaned.Picks)
	}
}

func TestIntegrityService_Clean_EntriesWithoutIdentifierSurvive(t *testing.T) {
	state := draft.State{Rosters: map[string][]draft.RosterEntry{
		"mia": {{FullName: "no id at all"}},
	}}

	svc := NewIntegrityService(nil)
	cleaned, report, err := svc.Clean(state, testRule(1000))
	if err != nil {
		t.Fatalf("clean: %v", err)
	}
	if report.TotalRemoved() != 0 || len(cleaned.Rosters["mia"]) != 1 {
		t.Fatalf("entry without identifier must never be removed: %+v", report)
	}
}

func TestIntegrityService_Clean_DoesNotMutateInput(t *testing.T) {
	state := draft.State{
		Rosters: map[string][]draft.RosterEntry{
			"mia": {{PlayerID: 99999}, {PlayerID: 10}},
		},
		Lineups: map[string]map[string]draft.Lineup{
			"mia": {"1": {Players: []int64{99999}, Bench: []int64{10}}},
		},
		FinishedMatchdays: []int{1, 2},
	}

	svc := NewIntegrityService(nil)
	if _, _, err := svc.Clean(state, testRule(1000)); err != nil {
		t.Fatalf("clean: %v", err)
	}

	if len(state.Rosters["mia"]) != 2 {
		t.Fatalf("input roster mutated: %v", state.Rosters["mia"])
	}
	if len(state.Lineups["mia"]["1"].Players) != 1 {
		t.Fatalf("input lineup mutated: %v", state.Lineups["mia"]["1"])
	}
}

func TestIntegrityService_Clean_EmptiedLineupStaysPresent(t *testing.T) {
	state := draft.State{
		Lineups: map[string]map[string]draft.Lineup{
			"mia": {"7": {Players: []int64{99999}, Bench: []int64{88888}}},
		},
	}

	svc := NewIntegrityService(nil)
	cleaned, _, err := svc.Clean(state, testRule(1000))
	if err != nil {
		t.Fatalf("clean: %v", err)
	}

	lineup, ok := cleaned.Lineups["mia"]["7"]
	if !ok {
		t.Fatalf("emptied lineup container must stay present")
	}
	if len(lineup.Players) != 0 || len(lineup.Bench) != 0 {
		t.Fatalf("expected emptied lineup, got %+v", lineup)
	}
}

func TestIntegrityService_CleanDocument_RoundTrip(t *testing.T) {
	doc := []byte(`{
		"rosters": {"mia": [{"playerId": 99999}, {"playerId": 10}]},
		"picks": []
	}`)

	svc := NewIntegrityService(nil)
	cleaned, report, err := svc.CleanDocument(doc, testRule(1000))
	if err != nil {
		t.Fatalf("clean document: %v", err)
	}
	if report.RostersRemoved != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}

	state, err := draft.Decode(cleaned)
	if err != nil {
		t.Fatalf("decode cleaned document: %v", err)
	}
	if len(state.Rosters["mia"]) != 1 || state.Rosters["mia"][0].PlayerID != 10 {
		t.Fatalf("unexpected cleaned roster: %v", state.Rosters["mia"])
	}
}

func TestIntegrityService_CleanDocument_MalformedInput(t *testing.T) {
	svc := NewIntegrityService(nil)

	out, _, err := svc.CleanDocument([]byte(`not json`), testRule(1000))
	if !errors.Is(err, ErrMalformedState) {
		t.Fatalf("expected ErrMalformedState, got %v", err)
	}
	if out != nil {
		t.Fatalf("no partial output expected for malformed input")
	}
}

func TestIntegrityService_Clean_RejectsBadRule(t *testing.T) {
	svc := NewIntegrityService(nil)
	_, _, err := svc.Clean(draft.State{}, IntegrityRule{MaxValidID: 0})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
