package sync

import (
	"context"

	"github.com/mreyes/legisync/internal/model"
	"github.com/mreyes/legisync/internal/openleg"
)

// syncSponsors fully replaces the sponsor rows for one bill: the primary
// sponsor first, then co-sponsors in list order, then multi-sponsors.
// Members the matcher cannot resolve are omitted, so the stored list may be
// shorter than upstream's. Unlike history and votes, an empty sponsor set
// still replaces: a bill can genuinely lose its sponsors on amendment.
func (r *Run) syncSponsors(ctx context.Context, billID int, ext *openleg.Bill) error {
	var sponsors []model.Sponsor
	position := 1

	add := func(member openleg.Member) error {
		id, ok, err := r.matcher.Match(ctx, member)
		if err != nil {
			return err
		}
		if !ok {
			r.log.Debug().Str("member", member.FullName).Int("bill_id", billID).
				Msg("no person match for sponsor, skipping")
			return nil
		}

		sponsors = append(sponsors, model.Sponsor{
			BillID:   billID,
			PeopleID: id,
			Position: position,
		})
		position++
		return nil
	}

	if ext.Sponsor != nil && ext.Sponsor.Member != nil {
		if err := add(*ext.Sponsor.Member); err != nil {
			return err
		}
	}

	if amd := latestAmendment(ext); amd != nil {
		if amd.CoSponsors != nil {
			for _, member := range amd.CoSponsors.Items {
				if err := add(member); err != nil {
					return err
				}
			}
		}
		if amd.MultiSponsors != nil {
			for _, member := range amd.MultiSponsors.Items {
				if err := add(member); err != nil {
					return err
				}
			}
		}
	}

	return r.stores.Sponsors.Replace(ctx, billID, sponsors)
}
