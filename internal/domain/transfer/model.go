package transfer

// Event is one derived transfer: a player leaving and/or entering a
// manager's set between two checkpoints. Events are never stored in the
// snapshot, they are reconstructed from set differences. OutID/InID use 0
// as "no player on this side"; at least one side is always set.
type Event struct {
	Epoch   string `json:"epoch"`
	Manager string `json:"manager"`
	OutID   int64  `json:"out,omitempty"`
	InID    int64  `json:"in,omitempty"`
}

// Swap reports whether the event pairs an outgoing player with an incoming
// one, as opposed to a one-sided drop or add.
func (e Event) Swap() bool {
	return e.OutID != 0 && e.InID != 0
}

// Checkpoint is one labeled point in a manager's roster timeline.
type Checkpoint struct {
	Epoch string
	IDs   map[int64]struct{}
}
