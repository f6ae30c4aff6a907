package sync

import (
	"context"

	"github.com/mreyes/legisync/internal/model"
	"github.com/mreyes/legisync/internal/openleg"
)

// syncHistory fully replaces the history rows for one bill from the latest
// amendment's action list, falling back to the bill-level list. An empty
// upstream action list is a no-op: previously synced history is preserved
// rather than wiped when upstream temporarily returns nothing.
func (r *Run) syncHistory(ctx context.Context, billID int, ext *openleg.Bill) error {
	actions := historyActions(ext)
	if len(actions) == 0 {
		return nil
	}

	entries := make([]model.HistoryEntry, 0, len(actions))
	for i, a := range actions {
		seq := a.SequenceNo
		if seq == 0 {
			seq = i + 1
		}

		entries = append(entries, model.HistoryEntry{
			BillID:   billID,
			Date:     parseDate(a.Date),
			Sequence: seq,
			Action:   a.Text,
			Chamber:  mapChamber(a.Chamber),
		})
	}

	return r.stores.History.Replace(ctx, billID, entries)
}

// historyActions picks the action list to sync from: the latest amendment's
// when it carries any, otherwise the bill-level list.
func historyActions(ext *openleg.Bill) []openleg.Action {
	if amd := latestAmendment(ext); amd != nil && amd.Actions != nil && len(amd.Actions.Items) > 0 {
		return amd.Actions.Items
	}
	if ext.Actions != nil {
		return ext.Actions.Items
	}
	return nil
}
