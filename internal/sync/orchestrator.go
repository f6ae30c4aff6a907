package sync

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/mreyes/legisync/internal/model"
	"github.com/mreyes/legisync/internal/openleg"
)

// BillOutcome reports what happened to one bill during an upsert. Child
// syncer failures are carried here instead of being swallowed into logs so
// callers can assert partial-failure behavior.
type BillOutcome struct {
	PrintNo  string
	BillID   int
	Inserted bool
	Updated  bool

	SponsorErr error
	HistoryErr error
	VotesErr   error
}

// Degraded reports whether any child syncer failed. A degraded bill is not
// counted as errored; sponsor/history/vote sync is best-effort.
func (o BillOutcome) Degraded() bool {
	return o.SponsorErr != nil || o.HistoryErr != nil || o.VotesErr != nil
}

// UpsertBill reconciles one external bill payload against the store:
// find-or-create the bill row, then replace its sponsor, history and vote
// records. A bill-row failure is fatal for the bill and returned; child
// failures are logged at warn and recorded on the outcome only.
func (r *Run) UpsertBill(ctx context.Context, ext *openleg.Bill, sessionYear int) (BillOutcome, error) {
	if ext == nil || ext.BasePrintNo == "" {
		return BillOutcome{}, fmt.Errorf("invalid external bill payload: missing basePrintNo")
	}

	// The session embedded in the payload wins over the caller-supplied one.
	session := sessionYear
	if ext.Session != 0 {
		session = ext.Session
	}

	number := NormalizePrintNo(ext.BasePrintNo)
	outcome := BillOutcome{PrintNo: number}

	existing, err := r.stores.Bills.GetByNumber(ctx, number, session)
	if err != nil {
		return outcome, fmt.Errorf("failed to look up bill %s-%d: %w", number, session, err)
	}

	if existing != nil {
		outcome.BillID = existing.BillID
		outcome.Updated = true
	} else {
		outcome.BillID = DeriveBillID(session, number)
		outcome.Inserted = true
	}

	bill := r.buildBill(ext, number, session, outcome.BillID)
	if err := r.stores.Bills.Upsert(ctx, bill); err != nil {
		return outcome, fmt.Errorf("failed to upsert bill %s-%d: %w", number, session, err)
	}

	r.syncChildren(ctx, ext, &outcome)

	return outcome, nil
}

// ResyncChildren re-runs only the sponsor, history and vote syncers against
// an existing bill row, leaving the bill metadata untouched. Used by the
// batch resync strategy to backfill improved person matching.
func (r *Run) ResyncChildren(ctx context.Context, billID int, ext *openleg.Bill) BillOutcome {
	outcome := BillOutcome{
		PrintNo: NormalizePrintNo(ext.BasePrintNo),
		BillID:  billID,
		Updated: true,
	}
	r.syncChildren(ctx, ext, &outcome)
	return outcome
}

// syncChildren runs the three child syncers in order, recording failures on
// the outcome without aborting.
func (r *Run) syncChildren(ctx context.Context, ext *openleg.Bill, outcome *BillOutcome) {
	if err := r.syncSponsors(ctx, outcome.BillID, ext); err != nil {
		outcome.SponsorErr = err
		r.log.Warn().Err(err).Str("bill", outcome.PrintNo).Msg("sponsor sync failed")
	}
	if err := r.syncHistory(ctx, outcome.BillID, ext); err != nil {
		outcome.HistoryErr = err
		r.log.Warn().Err(err).Str("bill", outcome.PrintNo).Msg("history sync failed")
	}
	if err := r.syncVotes(ctx, outcome.BillID, ext); err != nil {
		outcome.VotesErr = err
		r.log.Warn().Err(err).Str("bill", outcome.PrintNo).Msg("vote sync failed")
	}
}

// buildBill maps the external payload onto the bill row.
func (r *Run) buildBill(ext *openleg.Bill, number string, session, billID int) *model.Bill {
	bill := &model.Bill{
		BillID:      billID,
		BillNumber:  number,
		Title:       ext.Title,
		Description: ext.Summary,
		SessionID:   session,
		URL:         fmt.Sprintf("https://legislation.nysenate.gov/api/3/bills/%d/%s", session, number),
		StateLink:   fmt.Sprintf("https://www.nysenate.gov/legislation/bills/%d/%s", session, strings.ToLower(number)),
		UpdatedAt:   time.Now(),
	}
	if bill.Description == "" {
		bill.Description = ext.Title
	}

	if ext.Status != nil {
		bill.Status, bill.StatusDesc = MapStatus(ext.Status.StatusType)
		if bill.StatusDesc == "" {
			bill.StatusDesc = ext.Status.StatusDesc
		}
		bill.StatusDate = parseDate(ext.Status.ActionDate)
		if ext.Status.CommitteeName != "" {
			bill.Committee = sql.NullString{String: ext.Status.CommitteeName, Valid: true}
		}
	}

	if actions := historyActions(ext); len(actions) > 0 {
		last := actions[len(actions)-1]
		bill.LastAction = sql.NullString{String: last.Text, Valid: last.Text != ""}
		bill.LastActionDate = parseDate(last.Date)
	}

	return bill
}

// latestAmendment returns the amendment with the lexicographically-last
// version key, or nil when the payload carries none. The base version keys
// as "", so any lettered amendment sorts after it.
func latestAmendment(ext *openleg.Bill) *openleg.Amendment {
	if ext.Amendments == nil || len(ext.Amendments.Items) == 0 {
		return nil
	}

	keys := make([]string, 0, len(ext.Amendments.Items))
	for k := range ext.Amendments.Items {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	amd := ext.Amendments.Items[keys[len(keys)-1]]
	return &amd
}

// parseDate reads an upstream date, accepting a bare date or a full
// timestamp. Unparseable input yields an invalid NullTime.
func parseDate(s string) sql.NullTime {
	if s == "" {
		return sql.NullTime{}
	}

	for _, layout := range []string{"2006-01-02", "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return sql.NullTime{Time: t, Valid: true}
		}
	}
	return sql.NullTime{}
}
