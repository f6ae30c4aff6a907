package sync

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/mreyes/legisync/internal/model"
	"github.com/mreyes/legisync/internal/openleg"
)

// BillStore is the bill-table surface the engine writes through.
type BillStore interface {
	// GetByNumber returns the bill for (billNumber, sessionID), or nil when
	// no row exists.
	GetByNumber(ctx context.Context, billNumber string, sessionID int) (*model.Bill, error)
	// Upsert inserts or replaces the bill row keyed on BillID.
	Upsert(ctx context.Context, bill *model.Bill) error
	// ListNumbers pages stored bill numbers for a session in id order.
	ListNumbers(ctx context.Context, sessionID, limit, offset int) ([]string, error)
}

// PersonDirectory is the read-only people-table surface. The engine never
// creates, updates or deletes person rows.
type PersonDirectory interface {
	GetAll(ctx context.Context) ([]model.Person, error)
}

// SponsorStore replaces the sponsor set for one bill.
type SponsorStore interface {
	Replace(ctx context.Context, billID int, sponsors []model.Sponsor) error
}

// HistoryStore replaces the history entries for one bill.
type HistoryStore interface {
	Replace(ctx context.Context, billID int, entries []model.HistoryEntry) error
}

// VoteStore replaces all roll calls and member votes for one bill.
type VoteStore interface {
	Replace(ctx context.Context, billID int, rollCalls []model.RollCall, votes []model.Vote) error
}

// Stores bundles the store surfaces one sync run writes through.
type Stores struct {
	Bills    BillStore
	People   PersonDirectory
	Sponsors SponsorStore
	History  HistoryStore
	Votes    VoteStore
}

// Fetcher is the upstream API surface the strategies consume.
type Fetcher interface {
	GetBill(ctx context.Context, session int, printNo string) (*openleg.Bill, error)
	ListBills(ctx context.Context, session, limit, offset int) ([]openleg.Bill, int, error)
	GetBillUpdates(ctx context.Context, from, to time.Time) ([]openleg.UpdateToken, error)
}

// Run owns the state of one sync invocation: the stores and a person-match
// cache scoped to this run only. A fresh Run is constructed at every
// strategy entry so a run triggered after person data changed never sees a
// stale cache.
type Run struct {
	stores  Stores
	matcher *Matcher
	log     zerolog.Logger
}

// NewRun creates the per-invocation sync context.
func NewRun(stores Stores, log zerolog.Logger) *Run {
	return &Run{
		stores:  stores,
		matcher: NewMatcher(stores.People),
		log:     log,
	}
}
