package app

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/holdingpro/holding/internal/config"
	"github.com/holdingpro/holding/internal/event_bus"
	"github.com/holdingpro/holding/pkg/finance"
	"github.com/holdingpro/holding/pkg/session"
	"github.com/holdingpro/holding/pkg/transaction"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApplication(t *testing.T, modify func(cfg *config.Application)) *Application {
	cfg, err := config.Load("does-not-exist.yaml")
	require.NoError(t, err)
	cfg.Ledger.Backend = config.BackendMemory
	cfg.AMQP.Url = ""
	if modify != nil {
		modify(&cfg)
	}
	a, err := NewApplicationWithConfig(cfg)
	require.NoError(t, err)
	t.Cleanup(a.Close)
	return a
}

func serve(a *Application, method, target, sessionId, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if sessionId != "" {
		req.Header.Set(session.Header, sessionId)
	}
	rr := httptest.NewRecorder()
	a.Handler().ServeHTTP(rr, req)
	return rr
}

func createSession(t *testing.T, a *Application) string {
	rr := serve(a, http.MethodPost, "/api/session", "", "")
	require.Equal(t, http.StatusCreated, rr.Code)
	var dto session.SessionDTO
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &dto))
	return dto.Id
}

func TestApplication_SessionsAreIsolated(t *testing.T) {
	// given
	a := newTestApplication(t, nil)
	first := createSession(t, a)
	second := createSession(t, a)

	// when
	rr := serve(a, http.MethodPost, "/api/transaction", first,
		`{"unit":"Godson Teknoloji","kind":"income","category":"Maaş","amount":"50000","date":"2026-01-01"}`)
	require.Equal(t, http.StatusCreated, rr.Code)

	// then
	var records []finance.TransactionDTO
	rr = serve(a, http.MethodGet, "/api/transaction", first, "")
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &records))
	assert.Len(t, records, 1)

	rr = serve(a, http.MethodGet, "/api/transaction", second, "")
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &records))
	assert.Empty(t, records)
}

func TestApplication_SessionIdSpellingsShareLedger(t *testing.T) {
	// given
	a := newTestApplication(t, nil)
	id := createSession(t, a)

	// when
	rr := serve(a, http.MethodPost, "/api/transaction", "{"+strings.ToUpper(id)+"}",
		`{"unit":"Godson Teknoloji","kind":"income","category":"Maaş","amount":"50000","date":"2026-01-01"}`)
	require.Equal(t, http.StatusCreated, rr.Code)

	// then
	var records []finance.TransactionDTO
	rr = serve(a, http.MethodGet, "/api/transaction", id, "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &records))
	assert.Len(t, records, 1)

	rr = serve(a, http.MethodGet, "/api/transaction", "urn:uuid:"+id, "")
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &records))
	assert.Len(t, records, 1)
}

func TestApplication_SessionHeader(t *testing.T) {
	a := newTestApplication(t, nil)

	t.Run("should reject a malformed session id", func(t *testing.T) {
		rr := serve(a, http.MethodGet, "/api/dashboard", "not-a-uuid", "")

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("should forbid ledger access without a session", func(t *testing.T) {
		rr := serve(a, http.MethodGet, "/api/dashboard", "", "")

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("should serve the catalog without a session", func(t *testing.T) {
		rr := serve(a, http.MethodGet, "/api/catalog", "", "")

		require.Equal(t, http.StatusOK, rr.Code)
		var catalog finance.CatalogDTO
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &catalog))
		assert.Contains(t, catalog.Units, "Prifa Kahvecilik")
	})
}

func TestApplication_SeedsDemoRecords(t *testing.T) {
	// given
	a := newTestApplication(t, func(cfg *config.Application) { cfg.Ledger.SeedDemo = true })
	id := createSession(t, a)

	// when
	rr := serve(a, http.MethodGet, "/api/dashboard", id, "")

	// then
	require.Equal(t, http.StatusOK, rr.Code)
	var dashboard finance.DashboardDTO
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &dashboard))
	assert.Equal(t, 2, dashboard.Count)
	assert.Equal(t, "35000", dashboard.Net.String())
	assert.Equal(t, "TRY", dashboard.Currency)
}

func TestApplication_ResetIsPublished(t *testing.T) {
	// given
	a := newTestApplication(t, nil)
	id := createSession(t, a)
	var cleared []event_bus.LedgerCleared
	event_bus.SubscribeTyped(a.deps.EventBus, event_bus.LedgerReset, func(e event_bus.EventT[event_bus.LedgerCleared]) error {
		cleared = append(cleared, e.Data)
		return nil
	})
	rr := serve(a, http.MethodPost, "/api/allocation", id,
		`{"amount":"900","weights":[{"unit":"Godson Teknoloji","percent":50},{"unit":"Fynix Teknoloji","percent":50}]}`)
	require.Equal(t, http.StatusCreated, rr.Code)

	// when
	rr = serve(a, http.MethodDelete, "/api/ledger", id, "")

	// then
	assert.Equal(t, http.StatusNoContent, rr.Code)
	require.Len(t, cleared, 1)
	assert.Equal(t, 2, cleared[0].Removed)
	assert.Equal(t, id, cleared[0].SessionId)
}

func TestBuildDependencies_SQLiteBackend(t *testing.T) {
	// given
	cfg, err := config.Load("does-not-exist.yaml")
	require.NoError(t, err)
	cfg.AMQP.Url = ""
	cfg.Ledger.Backend = config.BackendSQLite
	cfg.SQLite.Path = t.TempDir() + "/ledger.db"

	// when
	deps, err := BuildDependencies(cfg)
	require.NoError(t, err)
	defer deps.Close()

	// then
	require.NotNil(t, deps.Repository)
	ctx := session.WithSession(t.Context(), session.NewId())
	_, err = deps.FinanceService.SubmitTransaction(ctx, finance.TransactionRequest{
		Unit: "Fynix Teknoloji", Kind: "expense", Category: "Kira", Amount: decimal.RequireFromString("12.75"),
	})
	require.NoError(t, err)
	sessionId, _ := session.CurrentId(ctx)
	stored, err := deps.Repository.Load(ctx, sessionId)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, transaction.Unit("Fynix Teknoloji"), stored[0].Unit)
	assert.Equal(t, "12.75", stored[0].Amount.String())
}
