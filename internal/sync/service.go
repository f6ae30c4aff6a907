package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/mreyes/legisync/internal/config"
	"github.com/mreyes/legisync/internal/logging"
)

// RunRecorder persists finished run reports. Recording is best-effort; a
// persistence failure never fails the run it describes.
type RunRecorder interface {
	Record(ctx context.Context, report *Report) error
}

// Service wires the upstream fetcher and the stores into the sync
// strategies. Every strategy entry constructs a fresh Run, so each
// invocation gets its own person-match cache.
type Service struct {
	fetcher  Fetcher
	stores   Stores
	cfg      config.SyncConfig
	recorder RunRecorder
	now      func() time.Time
}

// NewService creates the sync service. recorder may be nil.
func NewService(fetcher Fetcher, stores Stores, cfg config.SyncConfig, recorder RunRecorder) *Service {
	return &Service{
		fetcher:  fetcher,
		stores:   stores,
		cfg:      cfg,
		recorder: recorder,
		now:      time.Now,
	}
}

// SyncBills is the incremental strategy: fetch the bill updates from the
// trailing lookback window, deduplicate, and upsert each unique bill. An
// unavailable update feed or an empty window is a successful no-op, not an
// error; this runs on a tight schedule and "nothing changed" is routine.
func (s *Service) SyncBills(ctx context.Context) *Report {
	start := s.now()
	report := newReport("sync-bills", start)
	log := logging.WithRun(report.RunID)

	to := start
	from := to.Add(-s.cfg.Lookback)

	updates, err := s.fetcher.GetBillUpdates(ctx, from, to)
	if err != nil {
		report.Message = fmt.Sprintf("update feed unavailable, nothing to do: %v", err)
		log.Info().Msg(report.Message)
		return s.finish(ctx, report, start)
	}
	if len(updates) == 0 {
		report.Message = "no bill updates in window"
		log.Info().Msg(report.Message)
		return s.finish(ctx, report, start)
	}

	// One bill can appear many times in the window; keep first occurrence
	// order.
	type billKey struct {
		printNo string
		session int
	}
	seen := make(map[billKey]bool)
	var unique []billKey
	for _, u := range updates {
		key := billKey{NormalizePrintNo(u.ID.BasePrintNo), u.ID.Session}
		if key.printNo == "" || seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, key)
	}

	log.Info().Int("updates", len(updates)).Int("bills", len(unique)).Msg("processing update window")

	run := NewRun(s.stores, log)
	for _, key := range unique {
		ext, err := s.fetcher.GetBill(ctx, key.session, key.printNo)
		if err != nil {
			report.recordError(s.cfg.ErrorDetailCap, fmt.Sprintf("%s-%d: %v", key.printNo, key.session, err))
			log.Error().Err(err).Str("bill", key.printNo).Msg("failed to fetch bill")
			continue
		}

		outcome, err := run.UpsertBill(ctx, ext, key.session)
		if err != nil {
			report.recordError(s.cfg.ErrorDetailCap, fmt.Sprintf("%s-%d: %v", key.printNo, key.session, err))
			log.Error().Err(err).Str("bill", key.printNo).Msg("failed to upsert bill")
			continue
		}
		report.tally(outcome)
	}

	report.Message = fmt.Sprintf("synced %d bills from %d update events", report.Processed, len(updates))
	return s.finish(ctx, report, start)
}

// Backfill is the full-session strategy: page the session listing, fetch
// detail per bill and upsert, bounded by the per-run bill budget and time
// budget. It is not a resumable cursor: rerunning re-lists from offset 0 and
// reprocesses early bills, which is harmless because upsert is idempotent.
func (s *Service) Backfill(ctx context.Context, session int) *Report {
	start := s.now()
	report := newReport("backfill", start)
	report.Session = session
	log := logging.WithRun(report.RunID)

	deadline := start.Add(s.cfg.TimeBudget)
	run := NewRun(s.stores, log)

	budgetHit := false
paging:
	for offset := 0; ; offset += s.cfg.PageSize {
		if ctx.Err() != nil {
			report.Message = "cancelled"
			break
		}

		page, total, err := s.fetcher.ListBills(ctx, session, s.cfg.PageSize, offset)
		if err != nil {
			report.recordError(s.cfg.ErrorDetailCap, fmt.Sprintf("listing offset %d: %v", offset, err))
			log.Error().Err(err).Int("offset", offset).Msg("failed to list bills")
			break
		}
		if len(page) == 0 {
			break
		}

		for _, summary := range page {
			if report.Processed+report.Errored >= s.cfg.MaxBillsPerRun || s.now().After(deadline) {
				budgetHit = true
				break paging
			}

			printNo := NormalizePrintNo(summary.BasePrintNo)
			ext, err := s.fetcher.GetBill(ctx, session, printNo)
			if err != nil {
				report.recordError(s.cfg.ErrorDetailCap, fmt.Sprintf("%s-%d: %v", printNo, session, err))
				log.Error().Err(err).Str("bill", printNo).Msg("failed to fetch bill")
				continue
			}

			outcome, err := run.UpsertBill(ctx, ext, session)
			if err != nil {
				report.recordError(s.cfg.ErrorDetailCap, fmt.Sprintf("%s-%d: %v", printNo, session, err))
				log.Error().Err(err).Str("bill", printNo).Msg("failed to upsert bill")
				continue
			}
			report.tally(outcome)
		}

		if offset+len(page) >= total {
			break
		}
	}

	if budgetHit {
		report.Message = fmt.Sprintf("run budget reached after %d bills, rerun to continue", report.Processed)
	} else if report.Message == "" {
		report.Message = fmt.Sprintf("backfilled %d bills for session %d", report.Processed, session)
	}
	return s.finish(ctx, report, start)
}

// AddBill fetches one bill by number and session and upserts it, creating
// the bill row if absent.
func (s *Service) AddBill(ctx context.Context, printNo string, session int) *Report {
	start := s.now()
	report := newReport("add-bill", start)
	report.Session = session
	log := logging.WithRun(report.RunID)

	s.syncOne(ctx, report, log, printNo, session)
	return s.finish(ctx, report, start)
}

// ResyncBill re-fetches and upserts one bill that must already exist in the
// store; a bill not yet synced is an error (use add-bill for those).
func (s *Service) ResyncBill(ctx context.Context, printNo string, session int) *Report {
	start := s.now()
	report := newReport("resync-bill", start)
	report.Session = session
	log := logging.WithRun(report.RunID)

	number := NormalizePrintNo(printNo)
	existing, err := s.stores.Bills.GetByNumber(ctx, number, session)
	if err != nil {
		report.recordError(s.cfg.ErrorDetailCap, fmt.Sprintf("%s-%d: %v", number, session, err))
		return s.finish(ctx, report, start)
	}
	if existing == nil {
		report.recordError(s.cfg.ErrorDetailCap,
			fmt.Sprintf("%s-%d is not in the store; use add-bill first", number, session))
		return s.finish(ctx, report, start)
	}

	s.syncOne(ctx, report, log, number, session)
	return s.finish(ctx, report, start)
}

// BatchResync pages already-stored bills for a session and re-runs only the
// child syncers against fresh upstream detail, leaving bill metadata alone.
// Useful after improving the person matcher. Self-terminates near the time
// budget and returns nextOffset for the caller to resume.
func (s *Service) BatchResync(ctx context.Context, session, batchSize, offset int) *Report {
	start := s.now()
	report := newReport("resync", start)
	report.Session = session
	log := logging.WithRun(report.RunID)

	if batchSize <= 0 {
		batchSize = s.cfg.PageSize
	}

	numbers, err := s.stores.Bills.ListNumbers(ctx, session, batchSize, offset)
	if err != nil {
		report.recordError(s.cfg.ErrorDetailCap, fmt.Sprintf("listing stored bills: %v", err))
		return s.finish(ctx, report, start)
	}
	if len(numbers) == 0 {
		report.Message = "no stored bills at this offset"
		return s.finish(ctx, report, start)
	}

	deadline := start.Add(s.cfg.TimeBudget)
	run := NewRun(s.stores, log)

	for i, number := range numbers {
		if s.now().After(deadline) || ctx.Err() != nil {
			next := offset + i
			report.NextOffset = &next
			report.Message = fmt.Sprintf("time budget reached, resume at offset %d", next)
			return s.finish(ctx, report, start)
		}

		existing, err := s.stores.Bills.GetByNumber(ctx, number, session)
		if err != nil || existing == nil {
			report.recordError(s.cfg.ErrorDetailCap, fmt.Sprintf("%s-%d: store lookup failed: %v", number, session, err))
			continue
		}

		ext, err := s.fetcher.GetBill(ctx, session, number)
		if err != nil {
			report.recordError(s.cfg.ErrorDetailCap, fmt.Sprintf("%s-%d: %v", number, session, err))
			log.Error().Err(err).Str("bill", number).Msg("failed to fetch bill")
			continue
		}

		report.tally(run.ResyncChildren(ctx, existing.BillID, ext))
	}

	if len(numbers) == batchSize {
		next := offset + batchSize
		report.NextOffset = &next
	}
	report.Message = fmt.Sprintf("resynced children for %d bills", report.Processed)
	return s.finish(ctx, report, start)
}

// syncOne fetches and upserts a single bill into the report.
func (s *Service) syncOne(ctx context.Context, report *Report, log zerolog.Logger, printNo string, session int) {
	number := NormalizePrintNo(printNo)

	ext, err := s.fetcher.GetBill(ctx, session, number)
	if err != nil {
		report.recordError(s.cfg.ErrorDetailCap, fmt.Sprintf("%s-%d: %v", number, session, err))
		log.Error().Err(err).Str("bill", number).Msg("failed to fetch bill")
		return
	}

	run := NewRun(s.stores, log)
	outcome, err := run.UpsertBill(ctx, ext, session)
	if err != nil {
		report.recordError(s.cfg.ErrorDetailCap, fmt.Sprintf("%s-%d: %v", number, session, err))
		log.Error().Err(err).Str("bill", number).Msg("failed to upsert bill")
		return
	}

	report.tally(outcome)
	if outcome.Inserted {
		report.Message = fmt.Sprintf("added %s-%d", number, session)
	} else {
		report.Message = fmt.Sprintf("updated %s-%d", number, session)
	}
}

// finish stamps the duration and records the report best-effort.
func (s *Service) finish(ctx context.Context, report *Report, start time.Time) *Report {
	report.DurationMS = s.now().Sub(start).Milliseconds()

	if s.recorder != nil {
		if err := s.recorder.Record(ctx, report); err != nil {
			runLog := logging.WithRun(report.RunID)
			runLog.Warn().Err(err).Msg("failed to persist run report")
		}
	}

	return report
}
