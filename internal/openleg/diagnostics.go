package openleg

import (
	"context"
	"fmt"
	"time"
)

// CheckResult is the outcome of one diagnostic probe.
type CheckResult struct {
	Name     string `json:"name"`
	OK       bool   `json:"ok"`
	Detail   string `json:"detail"`
	Duration string `json:"duration"`
}

// DiagnosticReport aggregates the read-only probes of the upstream API.
type DiagnosticReport struct {
	Session int           `json:"session"`
	Healthy bool          `json:"healthy"`
	Checks  []CheckResult `json:"checks"`
}

// Diagnose runs every probe against the upstream API and reports each result
// independently; one failing probe never blocks the rest. Nothing is written.
func Diagnose(ctx context.Context, c *Client, session int) DiagnosticReport {
	report := DiagnosticReport{Session: session, Healthy: true}

	probes := []struct {
		name string
		run  func() (string, error)
	}{
		{
			name: "reachability",
			run: func() (string, error) {
				if err := c.Ping(ctx); err != nil {
					return "", err
				}
				return "host responded", nil
			},
		},
		{
			name: "bill-lookup",
			run: func() (string, error) {
				bill, err := c.GetBill(ctx, session, "S1")
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("fetched %s: %.60s", bill.BasePrintNo, bill.Title), nil
			},
		},
		{
			name: "bill-lookup-high",
			run: func() (string, error) {
				bill, err := c.GetBill(ctx, session, "S8000")
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("fetched %s", bill.BasePrintNo), nil
			},
		},
		{
			name: "bill-listing",
			run: func() (string, error) {
				items, total, err := c.ListBills(ctx, session, 5, 0)
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("page of %d, %d total", len(items), total), nil
			},
		},
		{
			name: "update-window",
			run: func() (string, error) {
				now := time.Now()
				updates, err := c.GetBillUpdates(ctx, now.Add(-1*time.Hour), now)
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("%d updates in the last hour", len(updates)), nil
			},
		},
		{
			name: "search",
			run: func() (string, error) {
				total, err := c.SearchBills(ctx, "budget", 1)
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("%d hits for 'budget'", total), nil
			},
		},
		{
			name: "prior-session-lookup",
			run: func() (string, error) {
				bill, err := c.GetBill(ctx, session-2, "S1")
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("fetched %s from session %d", bill.BasePrintNo, session-2), nil
			},
		},
	}

	for _, p := range probes {
		start := time.Now()
		detail, err := p.run()

		result := CheckResult{
			Name:     p.name,
			OK:       err == nil,
			Detail:   detail,
			Duration: time.Since(start).Round(time.Millisecond).String(),
		}
		if err != nil {
			result.Detail = err.Error()
			report.Healthy = false
		}
		report.Checks = append(report.Checks, result)
	}

	return report
}
