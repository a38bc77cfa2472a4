package draft

import (
	"encoding/json"
	"fmt"

	sonic "github.com/bytedance/sonic"
	"github.com/valyala/bytebufferpool"
)

// Decode parses a snapshot document. The document must be a JSON object
// carrying at least one of the known top-level keys; anything else is
// malformed and no partial state is returned.
func Decode(data []byte) (State, error) {
	var probe map[string]json.RawMessage
	if err := sonic.Unmarshal(data, &probe); err != nil {
		return State{}, fmt.Errorf("parse draft state: %w", err)
	}

	known := false
	for _, key := range []string{"rosters", "lineups", "picks"} {
		if _, ok := probe[key]; ok {
			known = true
			break
		}
	}
	if !known {
		return State{}, fmt.Errorf("parse draft state: no rosters, lineups or picks key")
	}

	var state State
	if err := sonic.Unmarshal(data, &state); err != nil {
		return State{}, fmt.Errorf("parse draft state: %w", err)
	}
	if state.Rosters == nil {
		state.Rosters = make(map[string][]RosterEntry)
	}
	if state.Lineups == nil {
		state.Lineups = make(map[string]map[string]Lineup)
	}

	return state, nil
}

// Encode serializes a snapshot back to its on-disk form.
func Encode(state State) ([]byte, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := sonic.ConfigDefault.NewEncoder(buf).Encode(state); err != nil {
		return nil, fmt.Errorf("encode draft state: %w", err)
	}

	out := make([]byte, len(buf.B))
	copy(out, buf.B)
	return out, nil
}
