package usecase

import (
	"fmt"

	"github.com/riskibarqy/draft-state/internal/domain/draft"
	"github.com/riskibarqy/draft-state/internal/platform/logging"
)

// IntegrityRule decides which player identifiers a snapshot may reference.
// The numeric bound is inclusive: MaxValidID itself is valid. The denylist
// is layered on top, a denylisted id is invalid even when in range.
type IntegrityRule struct {
	MaxValidID int64
	Denylist   map[int64]struct{}
}

func (r IntegrityRule) invalid(id int64) bool {
	if id < 1 || id > r.MaxValidID {
		return true
	}
	_, denied := r.Denylist[id]
	return denied
}

// IntegrityReport is the human-auditable summary of one cleaning pass.
type IntegrityReport struct {
	InvalidIDs     []int64 `json:"invalid_ids"`
	RostersRemoved int     `json:"rosters_removed"`
	LineupsRemoved int     `json:"lineups_removed"`
	PicksRemoved   int     `json:"picks_removed"`
}

func (r IntegrityReport) TotalRemoved() int {
	return r.RostersRemoved + r.LineupsRemoved + r.PicksRemoved
}

// IntegrityService removes structurally invalid player references from
// snapshots. Clean is a pure function of its inputs: the caller decides
// whether and where the cleaned document is persisted.
type IntegrityService struct {
	logger *logging.Logger
}

func NewIntegrityService(logger *logging.Logger) *IntegrityService {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &IntegrityService{logger: logger}
}

// CleanDocument runs Clean against a raw snapshot document and returns the
// cleaned document bytes. A document that fails to parse yields
// ErrMalformedState and no output.
func (s *IntegrityService) CleanDocument(data []byte, rule IntegrityRule) ([]byte, IntegrityReport, error) {
	state, err := draft.Decode(data)
	if err != nil {
		return nil, IntegrityReport{}, fmt.Errorf("%w: %v", ErrMalformedState, err)
	}

	cleaned, report, err := s.Clean(state, rule)
	if err != nil {
		return nil, IntegrityReport{}, err
	}

	out, err := draft.Encode(cleaned)
	if err != nil {
		return nil, IntegrityReport{}, err
	}
	return out, report, nil
}

// Clean returns a copy of state with every reference to an invalid player
// excised from rosters, lineups and picks, plus a removal report. The input
// is never mutated and survivor order is preserved. Entries without a
// resolvable identifier are skipped, not removed. Lineups emptied by the
// pass stay present: removal operates inside containers, never on them.
func (s *IntegrityService) Clean(state draft.State, rule IntegrityRule) (draft.State, IntegrityReport, error) {
	if rule.MaxValidID < 1 {
		return draft.State{}, IntegrityReport{}, fmt.Errorf("%w: max valid id must be >= 1", ErrInvalidInput)
	}

	invalid := s.scan(state, rule)
	report := IntegrityReport{InvalidIDs: draft.SortedIDs(invalid)}

	cleaned := draft.State{
		Rosters:           make(map[string][]draft.RosterEntry, len(state.Rosters)),
		Lineups:           make(map[string]map[string]draft.Lineup, len(state.Lineups)),
		Picks:             make([]draft.Pick, 0, len(state.Picks)),
		FinishedMatchdays: append([]int(nil), state.FinishedMatchdays...),
		DraftOrder:        append([]string(nil), state.DraftOrder...),
		CurrentPickIndex:  state.CurrentPickIndex,
	}

	for manager, roster := range state.Rosters {
		kept := make([]draft.RosterEntry, 0, len(roster))
		for _, entry := range roster {
			if id, ok := entry.Ref(); ok {
				if _, bad := invalid[id]; bad {
					report.RostersRemoved++
					continue
				}
			}
			kept = append(kept, entry)
		}
		cleaned.Rosters[manager] = kept
	}

	for manager, byGameweek := range state.Lineups {
		keptGameweeks := make(map[string]draft.Lineup, len(byGameweek))
		for gameweek, lineup := range byGameweek {
			players, removedPlayers := filterIDs(lineup.Players, invalid)
			bench, removedBench := filterIDs(lineup.Bench, invalid)
			report.LineupsRemoved += removedPlayers + removedBench
			keptGameweeks[gameweek] = draft.Lineup{Players: players, Bench: bench}
		}
		cleaned.Lineups[manager] = keptGameweeks
	}

	for _, pick := range state.Picks {
		if id, ok := pick.Player.Ref(); ok {
			if _, bad := invalid[id]; bad {
				report.PicksRemoved++
				continue
			}
		}
		cleaned.Picks = append(cleaned.Picks, pick)
	}

	if len(report.InvalidIDs) > 0 {
		s.logger.Info("cleaned invalid player ids",
			"invalid_ids", len(report.InvalidIDs),
			"rosters_removed", report.RostersRemoved,
			"lineups_removed", report.LineupsRemoved,
			"picks_removed", report.PicksRemoved,
		)
	}

	return cleaned, report, nil
}

// scan collects the identifiers that both appear in the snapshot and violate
// the rule. Denylisted ids that never occur in the document are not reported.
func (s *IntegrityService) scan(state draft.State, rule IntegrityRule) map[int64]struct{} {
	invalid := make(map[int64]struct{})
	record := func(id int64) {
		if rule.invalid(id) {
			invalid[id] = struct{}{}
		}
	}

	for _, roster := range state.Rosters {
		for _, entry := range roster {
			if id, ok := entry.Ref(); ok {
				record(id)
			}
		}
	}
	for _, byGameweek := range state.Lineups {
		for _, lineup := range byGameweek {
			for _, id := range lineup.Players {
				if id != 0 {
					record(id)
				}
			}
			for _, id := range lineup.Bench {
				if id != 0 {
					record(id)
				}
			}
		}
	}
	for _, pick := range state.Picks {
		if id, ok := pick.Player.Ref(); ok {
			record(id)
		}
	}

	return invalid
}

func filterIDs(ids []int64, invalid map[int64]struct{}) ([]int64, int) {
	kept := make([]int64, 0, len(ids))
	removed := 0
	for _, id := range ids {
		if _, bad := invalid[id]; bad {
			removed++
			continue
		}
		kept = append(kept, id)
	}
	return kept, removed
}
