package draft

import "sort"

// State is one complete draft snapshot as persisted to disk. A snapshot is
// self-contained: there is no incremental mutation protocol, scripts load a
// whole document, transform it and write a whole document back.
type State struct {
	Rosters           map[string][]RosterEntry     `json:"rosters"`
	Lineups           map[string]map[string]Lineup `json:"lineups,omitempty"`
	Picks             []Pick                       `json:"picks"`
	FinishedMatchdays []int                        `json:"finished_matchdays,omitempty"`
	DraftOrder        []string                     `json:"draft_order,omitempty"`
	CurrentPickIndex  int                          `json:"current_pick_index"`
}

// RosterEntry is one owned player. PlayerID is the join key; the remaining
// fields are denormalized from the player catalog. Older snapshots carry the
// identifier under "id" instead of "playerId".
type RosterEntry struct {
	PlayerID int64  `json:"playerId,omitempty"`
	LegacyID int64  `json:"id,omitempty"`
	FullName string `json:"fullName,omitempty"`
	ClubName string `json:"clubName,omitempty"`
	Position string `json:"position,omitempty"`
	League   string `json:"league,omitempty"`
	Price    int64  `json:"price,omitempty"`
}

// Ref resolves the entry identifier with the playerId-over-id fallback.
// A zero or missing identifier returns ok=false and the entry is skipped by
// validity checks, never treated as invalid.
func (e RosterEntry) Ref() (int64, bool) {
	if e.PlayerID != 0 {
		return e.PlayerID, true
	}
	if e.LegacyID != 0 {
		return e.LegacyID, true
	}
	return 0, false
}

// Lineup is one manager's fielded squad for a single gameweek.
type Lineup struct {
	Players []int64 `json:"players"`
	Bench   []int64 `json:"bench"`
}

// Pick is one draft-time acquisition event. Picks are the historical record
// a manager's original roster is reconstructed from.
type Pick struct {
	User   string      `json:"user"`
	Player RosterEntry `json:"player"`
	Ts     string      `json:"ts,omitempty"`
}

// MarkMatchdayFinished records md as scored. The slice stays sorted and
// deduplicated and only ever grows. Returns false when md was already
// recorded.
func (s *State) MarkMatchdayFinished(md int) bool {
	for _, existing := range s.FinishedMatchdays {
		if existing == md {
			return false
		}
	}
	s.FinishedMatchdays = append(s.FinishedMatchdays, md)
	sort.Ints(s.FinishedMatchdays)
	return true
}

// RosterIDs returns the resolvable identifiers of one manager's roster.
// An unknown manager yields an empty set.
func (s *State) RosterIDs(manager string) map[int64]struct{} {
	out := make(map[int64]struct{})
	for _, entry := range s.Rosters[manager] {
		if id, ok := entry.Ref(); ok {
			out[id] = struct{}{}
		}
	}
	return out
}

// LineupIDs returns players and bench of one manager's lineup for the given
// gameweek key as a single set.
func (s *State) LineupIDs(manager, gameweek string) map[int64]struct{} {
	out := make(map[int64]struct{})
	lineup, ok := s.Lineups[manager][gameweek]
	if !ok {
		return out
	}
	for _, id := range lineup.Players {
		if id != 0 {
			out[id] = struct{}{}
		}
	}
	for _, id := range lineup.Bench {
		if id != 0 {
			out[id] = struct{}{}
		}
	}
	return out
}

// BaselineFromPicks reconstructs a manager's original roster from the pick
// history of this snapshot.
func (s *State) BaselineFromPicks(manager string) map[int64]struct{} {
	out := make(map[int64]struct{})
	for _, pick := range s.Picks {
		if pick.User != manager {
			continue
		}
		if id, ok := pick.Player.Ref(); ok {
			out[id] = struct{}{}
		}
	}
	return out
}

// SortedIDs flattens a set into an ascending slice. Every diff and report in
// this package depends on this ordering for reproducibility.
func SortedIDs(set map[int64]struct{}) []int64 {
	out := make([]int64, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
