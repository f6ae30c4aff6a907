package sync

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/mreyes/legisync/internal/model"
	"github.com/mreyes/legisync/internal/openleg"
)

// voteCode pairs the internal vote code with its display label.
type voteCode struct {
	Code int
	Desc string
}

// voteCodes maps upstream vote-type keys to internal codes. Unrecognized
// keys get code 0 with the raw label.
var voteCodes = map[string]voteCode{
	"AYE":    {1, "Yea"},
	"AYEWR":  {1, "Yea"}, // aye with reservations
	"NAY":    {2, "Nay"},
	"ABSENT": {3, "Absent"},
	"ABD":    {3, "Absent"},
	"EXC":    {4, "NV"},
	"NV":     {4, "NV"},
}

func mapVoteCode(key string) (int, string) {
	if v, ok := voteCodes[strings.ToUpper(strings.TrimSpace(key))]; ok {
		return v.Code, v.Desc
	}
	return 0, key
}

// syncVotes fully replaces the roll calls and member votes for one bill.
// Roll-call ids derive from the vote event's position in the upstream list;
// tallies count every upstream member vote while Vote rows are written only
// for members the matcher resolves. An empty upstream vote list is a no-op,
// same preserve-on-empty policy as history.
func (r *Run) syncVotes(ctx context.Context, billID int, ext *openleg.Bill) error {
	if ext.Votes == nil || len(ext.Votes.Items) == 0 {
		return nil
	}

	var rollCalls []model.RollCall
	var votes []model.Vote

	for i, event := range ext.Votes.Items {
		rc := model.RollCall{
			RollCallID: deriveRollCallID(billID, i),
			BillID:     billID,
			Date:       parseDate(event.VoteDate),
			Chamber:    voteChamber(event, ext),
			Desc:       describeVote(event),
		}

		if event.MemberVotes != nil {
			// Sorted keys keep insert order deterministic across syncs.
			keys := make([]string, 0, len(event.MemberVotes.Items))
			for key := range event.MemberVotes.Items {
				keys = append(keys, key)
			}
			sort.Strings(keys)

			seen := make(map[int]bool)
			for _, key := range keys {
				code, desc := mapVoteCode(key)

				for _, member := range event.MemberVotes.Items[key].Items {
					rc.Total++
					switch code {
					case 1:
						rc.Yea++
					case 2:
						rc.Nay++
					case 3:
						rc.Absent++
					case 4:
						rc.NV++
					}

					id, ok, err := r.matcher.Match(ctx, member)
					if err != nil {
						return err
					}
					if !ok {
						r.log.Debug().Str("member", member.FullName).Int("bill_id", billID).
							Msg("no person match for vote, skipping")
						continue
					}
					if seen[id] {
						continue
					}
					seen[id] = true

					votes = append(votes, model.Vote{
						RollCallID: rc.RollCallID,
						PeopleID:   id,
						VoteCode:   code,
						VoteDesc:   desc,
					})
				}
			}
		}

		rollCalls = append(rollCalls, rc)
	}

	return r.stores.Votes.Replace(ctx, billID, rollCalls, votes)
}

// voteChamber picks the roll call's display chamber: the committee's when
// present, otherwise inferred from the bill's print number.
func voteChamber(event openleg.VoteEvent, ext *openleg.Bill) string {
	if event.Committee != nil && event.Committee.Chamber != "" {
		return mapChamber(event.Committee.Chamber)
	}
	return chamberFromPrintNo(ext.BasePrintNo)
}

// describeVote builds the roll call description.
func describeVote(event openleg.VoteEvent) string {
	if event.Committee != nil && event.Committee.Name != "" {
		return fmt.Sprintf("%s Committee Vote", event.Committee.Name)
	}
	if event.VoteType != "" {
		t := strings.ToLower(event.VoteType)
		return strings.ToUpper(t[:1]) + t[1:] + " Vote"
	}
	return "Vote"
}
