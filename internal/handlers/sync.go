// Package handlers exposes the sync engine over HTTP as a
// dispatch-by-action JSON interface for schedulers and admin callers.
package handlers

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/mreyes/legisync/internal/openleg"
	"github.com/mreyes/legisync/internal/sync"
)

// SyncRequest is the dispatch-by-action request body.
type SyncRequest struct {
	Action      string `json:"action" validate:"required,oneof=sync-bills backfill add-bill resync-bill resync diagnose-sync"`
	SessionYear int    `json:"sessionYear" validate:"omitempty,gte=2009"`
	BillNumber  string `json:"billNumber"`
	BatchSize   int    `json:"batchSize" validate:"omitempty,gt=0,lte=500"`
	Offset      int    `json:"offset" validate:"omitempty,gte=0"`
}

// errorResponse is the body for request-level failures (bad action, missing
// params). Per-bill failures never use it; those ride inside the report.
type errorResponse struct {
	Error string `json:"error"`
}

// SyncHandler dispatches one sync action and returns its JSON report.
// Every action returns 200 with a report once dispatched; only malformed
// requests get a 4xx.
func SyncHandler(svc *sync.Service, client *openleg.Client) fiber.Handler {
	validate := validator.New()

	return func(c *fiber.Ctx) error {
		var req SyncRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: "invalid request body"})
		}
		if err := validate.Struct(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: err.Error()})
		}
		if err := requireParams(req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: err.Error()})
		}

		ctx := context.Background()

		switch req.Action {
		case "sync-bills":
			return c.JSON(svc.SyncBills(ctx))
		case "backfill":
			return c.JSON(svc.Backfill(ctx, req.SessionYear))
		case "add-bill":
			return c.JSON(svc.AddBill(ctx, req.BillNumber, req.SessionYear))
		case "resync-bill":
			return c.JSON(svc.ResyncBill(ctx, req.BillNumber, req.SessionYear))
		case "resync":
			return c.JSON(svc.BatchResync(ctx, req.SessionYear, req.BatchSize, req.Offset))
		case "diagnose-sync":
			return c.JSON(openleg.Diagnose(ctx, client, req.SessionYear))
		}

		// unreachable: the validator pins Action to the cases above
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: "unknown action"})
	}
}

// requireParams enforces the per-action parameter contract.
func requireParams(req SyncRequest) error {
	switch req.Action {
	case "backfill", "resync", "diagnose-sync":
		if req.SessionYear == 0 {
			return fmt.Errorf("action %s requires sessionYear", req.Action)
		}
	case "add-bill", "resync-bill":
		if req.SessionYear == 0 || req.BillNumber == "" {
			return fmt.Errorf("action %s requires billNumber and sessionYear", req.Action)
		}
	}
	return nil
}
