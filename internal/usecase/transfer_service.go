package usecase

import (
	"github.com/riskibarqy/draft-state/internal/domain/draft"
	"github.com/riskibarqy/draft-state/internal/domain/transfer"
	"github.com/riskibarqy/draft-state/internal/platform/logging"
)

// TransferService reconstructs the effective transfer history between
// snapshots of the same manager. No causal link between specific players is
// recoverable from set differences alone, so paired events are a heuristic:
// removed and added ids are each sorted ascending and zipped positionally.
// Callers must not read a pairing as ground truth, only as a deterministic
// presentation of the diff. The policy is load-bearing for historical
// reports and must not be replaced with a smarter matching.
type TransferService struct {
	logger *logging.Logger
}

func NewTransferService(logger *logging.Logger) *TransferService {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &TransferService{logger: logger}
}

// Diff derives the transfer events explaining the change from before to
// after at one epoch boundary. A manager missing on either side is an empty
// set, not an error: every id on the present side becomes a one-sided event.
func (s *TransferService) Diff(epoch, manager string, before, after map[int64]struct{}) []transfer.Event {
	removed := make([]int64, 0)
	for id := range before {
		if _, ok := after[id]; !ok {
			removed = append(removed, id)
		}
	}
	added := make([]int64, 0)
	for id := range after {
		if _, ok := before[id]; !ok {
			added = append(added, id)
		}
	}

	removed = sortAscending(removed)
	added = sortAscending(added)

	paired := len(removed)
	if len(added) < paired {
		paired = len(added)
	}

	events := make([]transfer.Event, 0, len(removed)+len(added)-paired)
	for i := 0; i < paired; i++ {
		events = append(events, transfer.Event{
			Epoch:   epoch,
			Manager: manager,
			OutID:   removed[i],
			InID:    added[i],
		})
	}
	for _, id := range removed[paired:] {
		events = append(events, transfer.Event{Epoch: epoch, Manager: manager, OutID: id})
	}
	for _, id := range added[paired:] {
		events = append(events, transfer.Event{Epoch: epoch, Manager: manager, InID: id})
	}

	return events
}

// Reconcile rebuilds a manager's transfer timeline across the two epoch
// boundaries of the restore flow: picks-derived baseline to the reference
// snapshot, then reference to the current snapshot.
func (s *TransferService) Reconcile(manager string, reference, current draft.State) []transfer.Event {
	baseline := reference.BaselineFromPicks(manager)
	referenceIDs := reference.RosterIDs(manager)
	currentIDs := current.RosterIDs(manager)

	events := s.Diff("baseline-reference", manager, baseline, referenceIDs)
	events = append(events, s.Diff("reference-current", manager, referenceIDs, currentIDs)...)

	s.logger.Debug("reconciled manager rosters",
		"manager", manager,
		"events", len(events),
	)

	return events
}

// Timeline applies Diff across every consecutive pair of an ordered
// checkpoint sequence. Only two checkpoints are ever compared at once.
func (s *TransferService) Timeline(manager string, checkpoints []transfer.Checkpoint) []transfer.Event {
	events := make([]transfer.Event, 0)
	for i := 1; i < len(checkpoints); i++ {
		events = append(events, s.Diff(
			checkpoints[i].Epoch,
			manager,
			checkpoints[i-1].IDs,
			checkpoints[i].IDs,
		)...)
	}
	return events
}

func sortAscending(ids []int64) []int64 {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return draft.SortedIDs(set)
}
