package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/mreyes/legisync/internal/model"
	"github.com/mreyes/legisync/internal/openleg"
)

// memDB backs the in-memory store fakes shared by the engine tests.
type memDB struct {
	bills     map[string]*model.Bill
	sponsors  map[int][]model.Sponsor
	history   map[int][]model.HistoryEntry
	rollCalls map[int][]model.RollCall
	votes     map[int][]model.Vote
	people    []model.Person

	sponsorErr error
	historyErr error
	votesErr   error
	peopleErr  error
}

func newMemDB(people ...model.Person) *memDB {
	return &memDB{
		bills:     make(map[string]*model.Bill),
		sponsors:  make(map[int][]model.Sponsor),
		history:   make(map[int][]model.HistoryEntry),
		rollCalls: make(map[int][]model.RollCall),
		votes:     make(map[int][]model.Vote),
		people:    people,
	}
}

func (d *memDB) stores() Stores {
	return Stores{
		Bills:    &memBills{d},
		People:   &memPeople{d},
		Sponsors: &memSponsors{d},
		History:  &memHistory{d},
		Votes:    &memVotes{d},
	}
}

func billKeyOf(number string, session int) string {
	return fmt.Sprintf("%s-%d", number, session)
}

type memBills struct{ d *memDB }

func (m *memBills) GetByNumber(_ context.Context, number string, session int) (*model.Bill, error) {
	if b, ok := m.d.bills[billKeyOf(number, session)]; ok {
		copied := *b
		return &copied, nil
	}
	return nil, nil
}

func (m *memBills) Upsert(_ context.Context, bill *model.Bill) error {
	copied := *bill
	m.d.bills[billKeyOf(bill.BillNumber, bill.SessionID)] = &copied
	return nil
}

func (m *memBills) ListNumbers(_ context.Context, session, limit, offset int) ([]string, error) {
	var numbers []string
	for _, b := range m.d.bills {
		if b.SessionID == session {
			numbers = append(numbers, b.BillNumber)
		}
	}
	if offset >= len(numbers) {
		return nil, nil
	}
	numbers = numbers[offset:]
	if len(numbers) > limit {
		numbers = numbers[:limit]
	}
	return numbers, nil
}

type memPeople struct{ d *memDB }

func (m *memPeople) GetAll(_ context.Context) ([]model.Person, error) {
	if m.d.peopleErr != nil {
		return nil, m.d.peopleErr
	}
	return m.d.people, nil
}

type memSponsors struct{ d *memDB }

func (m *memSponsors) Replace(_ context.Context, billID int, sponsors []model.Sponsor) error {
	if m.d.sponsorErr != nil {
		return m.d.sponsorErr
	}
	m.d.sponsors[billID] = sponsors
	return nil
}

type memHistory struct{ d *memDB }

func (m *memHistory) Replace(_ context.Context, billID int, entries []model.HistoryEntry) error {
	if m.d.historyErr != nil {
		return m.d.historyErr
	}
	m.d.history[billID] = entries
	return nil
}

type memVotes struct{ d *memDB }

func (m *memVotes) Replace(_ context.Context, billID int, rollCalls []model.RollCall, votes []model.Vote) error {
	if m.d.votesErr != nil {
		return m.d.votesErr
	}
	m.d.rollCalls[billID] = rollCalls
	m.d.votes[billID] = votes
	return nil
}

// fakeFetcher serves canned upstream payloads to the strategies.
type fakeFetcher struct {
	bills      map[string]*openleg.Bill
	getErr     map[string]error
	pages      [][]openleg.Bill
	total      int
	updates    []openleg.UpdateToken
	updatesErr error

	getCalls int
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		bills:  make(map[string]*openleg.Bill),
		getErr: make(map[string]error),
	}
}

func (f *fakeFetcher) add(bill *openleg.Bill) {
	f.bills[billKeyOf(NormalizePrintNo(bill.BasePrintNo), bill.Session)] = bill
}

func (f *fakeFetcher) GetBill(_ context.Context, session int, printNo string) (*openleg.Bill, error) {
	f.getCalls++
	key := billKeyOf(NormalizePrintNo(printNo), session)
	if err, ok := f.getErr[key]; ok {
		return nil, err
	}
	if bill, ok := f.bills[key]; ok {
		return bill, nil
	}
	return nil, fmt.Errorf("%w: no bill matched", openleg.ErrAPIFailure)
}

func (f *fakeFetcher) ListBills(_ context.Context, _, _, offset int) ([]openleg.Bill, int, error) {
	page := offset / pageSizeForTest
	if page >= len(f.pages) {
		return nil, f.total, nil
	}
	return f.pages[page], f.total, nil
}

func (f *fakeFetcher) GetBillUpdates(_ context.Context, _, _ time.Time) ([]openleg.UpdateToken, error) {
	if f.updatesErr != nil {
		return nil, f.updatesErr
	}
	return f.updates, nil
}

const pageSizeForTest = 10

// senateBill builds a minimal external bill payload.
func senateBill(printNo string, session int) *openleg.Bill {
	return &openleg.Bill{
		BasePrintNo: printNo,
		Session:     session,
		Title:       "An act to amend the public health law",
		Status:      &openleg.Status{StatusType: "INTRODUCED", ActionDate: "2025-01-08"},
	}
}
