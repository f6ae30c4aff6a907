package handlers

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// postSync sends a request through the handler. The service is nil: these
// cases must all be rejected before dispatch.
func postSync(t *testing.T, body string) (int, string) {
	t.Helper()

	app := fiber.New()
	app.Post("/api/sync", SyncHandler(nil, nil))

	req := httptest.NewRequest("POST", "/api/sync", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(data)
}

func TestSyncHandlerRejectsMalformedBody(t *testing.T) {
	status, body := postSync(t, "{not json")
	assert.Equal(t, fiber.StatusBadRequest, status)

	var resp errorResponse
	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	assert.Equal(t, "invalid request body", resp.Error)
}

func TestSyncHandlerRejectsUnknownAction(t *testing.T) {
	status, body := postSync(t, `{"action": "drop-tables"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, body, "oneof")
}

func TestSyncHandlerRejectsMissingAction(t *testing.T) {
	status, _ := postSync(t, `{}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestSyncHandlerRejectsEarlySession(t *testing.T) {
	status, _ := postSync(t, `{"action": "backfill", "sessionYear": 1999}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestSyncHandlerRequiresSessionYear(t *testing.T) {
	for _, action := range []string{"backfill", "resync", "diagnose-sync"} {
		status, body := postSync(t, `{"action": "`+action+`"}`)
		assert.Equal(t, fiber.StatusBadRequest, status, action)
		assert.Contains(t, body, "requires sessionYear", action)
	}
}

func TestSyncHandlerRequiresBillNumber(t *testing.T) {
	for _, action := range []string{"add-bill", "resync-bill"} {
		status, body := postSync(t, `{"action": "`+action+`", "sessionYear": 2025}`)
		assert.Equal(t, fiber.StatusBadRequest, status, action)
		assert.Contains(t, body, "requires billNumber", action)
	}
}

func TestSyncHandlerRejectsOversizedBatch(t *testing.T) {
	status, _ := postSync(t, `{"action": "resync", "sessionYear": 2025, "batchSize": 5000}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
}
