package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/mreyes/legisync/internal/store"
)

const defaultRunLimit = 20

// RunsHandler returns the most recent persisted sync-run reports.
func RunsHandler(runStore *store.RunStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit := c.QueryInt("limit", defaultRunLimit)
		if limit <= 0 || limit > 200 {
			limit = defaultRunLimit
		}

		records, err := runStore.Recent(context.Background(), limit)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(errorResponse{Error: "failed to load sync runs"})
		}
		if records == nil {
			records = []store.RunRecord{}
		}

		return c.JSON(records)
	}
}
