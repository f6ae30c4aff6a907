package openleg

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mreyes/legisync/internal/config"
)

func testClient(baseURL string) *Client {
	return NewClient(config.APIConfig{
		BaseURL: baseURL,
		Key:     "test-key",
		Timeout: 5 * time.Second,
	})
}

func TestGetBill(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/3/bills/2025/S256", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		assert.Equal(t, "default", r.URL.Query().Get("view"))

		fmt.Fprint(w, `{
			"success": true,
			"responseType": "bill",
			"result": {
				"basePrintNo": "S256",
				"session": 2025,
				"title": "An act to amend the public health law",
				"status": {"statusType": "INTRODUCED", "actionDate": "2025-01-08"}
			}
		}`)
	}))
	defer srv.Close()

	bill, err := testClient(srv.URL).GetBill(context.Background(), 2025, "S256")
	require.NoError(t, err)

	assert.Equal(t, "S256", bill.BasePrintNo)
	assert.Equal(t, 2025, bill.Session)
	require.NotNil(t, bill.Status)
	assert.Equal(t, "INTRODUCED", bill.Status.StatusType)
}

func TestGetBillEnvelopeFailure(t *testing.T) {
	// The API reports missing bills with success=false on an HTTP 200.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"success": false, "message": "no bill matched S9999-2025"}`)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).GetBill(context.Background(), 2025, "S9999")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAPIFailure)
	assert.Contains(t, err.Error(), "no bill matched")
}

func TestGetBillEnvelopeFailureOnErrorStatus(t *testing.T) {
	// A well-formed envelope on a 404 still yields the API's message, not a
	// bare transport error.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"success": false, "message": "bill not found"}`)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).GetBill(context.Background(), 2025, "S9999")
	assert.ErrorIs(t, err, ErrAPIFailure)
	assert.Contains(t, err.Error(), "bill not found")
}

func TestGetBillNonJSONErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		fmt.Fprint(w, "upstream proxy error")
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).GetBill(context.Background(), 2025, "S256")
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Contains(t, err.Error(), "502")
}

func TestGetBillMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "<html>not json</html>")
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).GetBill(context.Background(), 2025, "S256")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestListBills(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/3/bills/2025", r.URL.Path)
		assert.Equal(t, "50", r.URL.Query().Get("limit"))
		assert.Equal(t, "100", r.URL.Query().Get("offset"))

		fmt.Fprint(w, `{
			"success": true,
			"total": 12345,
			"result": {
				"items": [
					{"basePrintNo": "S101", "session": 2025},
					{"basePrintNo": "S102", "session": 2025}
				],
				"size": 2
			}
		}`)
	}))
	defer srv.Close()

	bills, total, err := testClient(srv.URL).ListBills(context.Background(), 2025, 50, 100)
	require.NoError(t, err)

	assert.Equal(t, 12345, total)
	require.Len(t, bills, 2)
	assert.Equal(t, "S101", bills[0].BasePrintNo)
}

func TestGetBillUpdates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/3/bills/updates/2025-06-01T00:00:00/2025-06-02T00:00:00", r.URL.Path)

		fmt.Fprint(w, `{
			"success": true,
			"result": {
				"items": [
					{"id": {"basePrintNo": "S256", "session": 2025}, "contentType": "BILL"}
				],
				"size": 1
			}
		}`)
	}))
	defer srv.Close()

	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	updates, err := testClient(srv.URL).GetBillUpdates(context.Background(), from, from.Add(24*time.Hour))
	require.NoError(t, err)

	require.Len(t, updates, 1)
	assert.Equal(t, "S256", updates[0].ID.BasePrintNo)
	assert.Equal(t, 2025, updates[0].ID.Session)
}

func TestSearchBills(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/3/bills/search", r.URL.Path)
		assert.Equal(t, "budget", r.URL.Query().Get("term"))

		fmt.Fprint(w, `{"success": true, "total": 87, "result": {"items": [], "size": 0}}`)
	}))
	defer srv.Close()

	total, err := testClient(srv.URL).SearchBills(context.Background(), "budget", 1)
	require.NoError(t, err)
	assert.Equal(t, 87, total)
}

func TestSearchBillsMissingResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"success": true}`)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).SearchBills(context.Background(), "budget", 1)
	assert.ErrorIs(t, err, ErrAPIFailure)
	assert.Contains(t, err.Error(), "missing result")
}

func TestPing(t *testing.T) {
	var sawKey bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawKey = r.URL.Query().Has("key")
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	// Any HTTP response counts as reachable, and the key is never sent.
	err := testClient(srv.URL).Ping(context.Background())
	assert.NoError(t, err)
	assert.False(t, sawKey)
}

func TestPingUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	err := testClient(srv.URL).Ping(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestCircuitBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests++
		w.WriteHeader(http.StatusBadGateway)
		fmt.Fprint(w, "bad gateway")
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	for i := 0; i < breakerFailureThreshold; i++ {
		_, err := c.GetBill(context.Background(), 2025, "S1")
		require.Error(t, err)
	}
	require.Equal(t, breakerFailureThreshold, requests)

	// The breaker is open now: the call fails without reaching the server.
	_, err := c.GetBill(context.Background(), 2025, "S1")
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, breakerFailureThreshold, requests)
}
