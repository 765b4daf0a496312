//go:build integration

package e2e

// End-to-end tests against real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./tests/e2e/... -v

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"pharmatrack/internal/config"
	"pharmatrack/internal/infra"
	"pharmatrack/internal/router"
	"pharmatrack/internal/worker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// ── Test Suite Setup ─────────────────────────────────────────────────────────

func setupServer(t *testing.T) *httptest.Server {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("pharmatrack_test"),
		tcPostgres.WithUsername("pharmatrack"),
		tcPostgres.WithPassword("pharmatrack"),
		tcPostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:              8000,
		Env:               "test",
		DatabaseURL:       pgURL,
		RedisURL:          rdURL,
		WorkerPoolSize:    1,
		LowStockThreshold: 10,
		PharmacyName:      "E2E Pharmacy",
		PDFStoragePath:    t.TempDir(),
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)
	require.NoError(t, infra.RunMigrations(db))

	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	r := router.New(cfg, db, rdb, worker.NewDispatcher(rdb))
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func createMedicine(t *testing.T, srv *httptest.Server, name string, qty int, selling, buying float64) string {
	t.Helper()
	resp := do(t, srv, "POST", "/v1/medicines", jsonBody(t, map[string]any{
		"name":          name,
		"quantity":      qty,
		"buying_price":  buying,
		"selling_price": selling,
		"expiry_date":   "2027-01-31",
		"manufacturer":  "E2E Labs",
	}))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var m struct {
		ID string `json:"id"`
	}
	decodeJSON(t, resp, &m)
	return m.ID
}

func medicineQuantity(t *testing.T, srv *httptest.Server, id string) int {
	t.Helper()
	resp := do(t, srv, "GET", "/v1/medicines/"+id, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var m struct {
		Quantity int `json:"quantity"`
	}
	decodeJSON(t, resp, &m)
	return m.Quantity
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestE2E_FullSaleCycle(t *testing.T) {
	srv := setupServer(t)
	medID := createMedicine(t, srv, "Paracetamol 500mg", 50, 10.00, 6.00)

	saleResp := do(t, srv, "POST", "/v1/sales", jsonBody(t, map[string]any{
		"items": []map[string]any{
			{"medicine_id": medID, "quantity": 5},
		},
		"payment_mode": "cash",
	}))
	require.Equal(t, http.StatusCreated, saleResp.StatusCode)
	var sale struct {
		ID          string `json:"id"`
		TotalAmount string `json:"total_amount"`
	}
	decodeJSON(t, saleResp, &sale)
	assert.Equal(t, "50", sale.TotalAmount)

	assert.Equal(t, 45, medicineQuantity(t, srv, medID))

	listResp := do(t, srv, "GET", "/v1/sales", nil)
	require.Equal(t, http.StatusOK, listResp.StatusCode)
	var list struct {
		Total int64 `json:"total"`
	}
	decodeJSON(t, listResp, &list)
	assert.EqualValues(t, 1, list.Total)
}

func TestE2E_OutOfStockRejected(t *testing.T) {
	srv := setupServer(t)
	okID := createMedicine(t, srv, "Ibuprofen 400mg", 100, 12.00, 7.00)
	scarceID := createMedicine(t, srv, "Insulin 10ml", 1, 450.00, 300.00)

	saleResp := do(t, srv, "POST", "/v1/sales", jsonBody(t, map[string]any{
		"items": []map[string]any{
			{"medicine_id": okID, "quantity": 10},
			{"medicine_id": scarceID, "quantity": 3},
		},
	}))
	assert.Equal(t, http.StatusConflict, saleResp.StatusCode)
	saleResp.Body.Close()

	// Atomicity: the first line must not have been deducted either
	assert.Equal(t, 100, medicineQuantity(t, srv, okID))
	assert.Equal(t, 1, medicineQuantity(t, srv, scarceID))
}

func TestE2E_ReverseSaleRestoresStock(t *testing.T) {
	srv := setupServer(t)
	medID := createMedicine(t, srv, "Metformin 850mg", 20, 9.00, 5.50)

	saleResp := do(t, srv, "POST", "/v1/sales", jsonBody(t, map[string]any{
		"items": []map[string]any{{"medicine_id": medID, "quantity": 4}},
	}))
	require.Equal(t, http.StatusCreated, saleResp.StatusCode)
	var sale struct {
		ID string `json:"id"`
	}
	decodeJSON(t, saleResp, &sale)
	require.Equal(t, 16, medicineQuantity(t, srv, medID))

	delResp := do(t, srv, "DELETE", "/v1/sales/"+sale.ID, nil)
	assert.Equal(t, http.StatusNoContent, delResp.StatusCode)
	delResp.Body.Close()

	assert.Equal(t, 20, medicineQuantity(t, srv, medID))

	getResp := do(t, srv, "GET", "/v1/sales/"+sale.ID, nil)
	assert.Equal(t, http.StatusNotFound, getResp.StatusCode)
	getResp.Body.Close()
}

func TestE2E_ConcurrentSettlementNeverOversells(t *testing.T) {
	srv := setupServer(t)
	medID := createMedicine(t, srv, "Amoxicillin 250mg", 10, 8.50, 5.00)

	// 20 requests of 1 unit against 10 in stock. Exactly 10 may succeed.
	// Requests are sent without the test helpers: require.FailNow must not
	// be called from a spawned goroutine, so errors travel over the channel.
	payload, err := json.Marshal(map[string]any{
		"items": []map[string]any{{"medicine_id": medID, "quantity": 1}},
	})
	require.NoError(t, err)

	type outcome struct {
		status int
		err    error
	}
	results := make(chan outcome, 20)
	for i := 0; i < 20; i++ {
		go func() {
			req, reqErr := http.NewRequest("POST", srv.URL+"/v1/sales", bytes.NewReader(payload))
			if reqErr != nil {
				results <- outcome{err: reqErr}
				return
			}
			req.Header.Set("Content-Type", "application/json")
			resp, doErr := srv.Client().Do(req)
			if doErr != nil {
				results <- outcome{err: doErr}
				return
			}
			resp.Body.Close()
			results <- outcome{status: resp.StatusCode}
		}()
	}

	var created int
	for i := 0; i < 20; i++ {
		res := <-results
		require.NoError(t, res.err)
		if res.status == http.StatusCreated {
			created++
		}
	}
	assert.Equal(t, 10, created)
	assert.Equal(t, 0, medicineQuantity(t, srv, medID))
}

func TestE2E_AlertsAndMovements(t *testing.T) {
	srv := setupServer(t)
	medID := createMedicine(t, srv, "Cough Syrup 120ml", 12, 25.00, 15.00)

	// Sell down to 7 — below the alert threshold of 10
	saleResp := do(t, srv, "POST", "/v1/sales", jsonBody(t, map[string]any{
		"items": []map[string]any{{"medicine_id": medID, "quantity": 5}},
	}))
	require.Equal(t, http.StatusCreated, saleResp.StatusCode)
	saleResp.Body.Close()

	alertsResp := do(t, srv, "GET", "/v1/reports/alerts", nil)
	require.Equal(t, http.StatusOK, alertsResp.StatusCode)
	var alerts struct {
		LowStock []struct {
			MedicineID string `json:"medicine_id"`
			Quantity   int    `json:"quantity"`
		} `json:"low_stock"`
	}
	decodeJSON(t, alertsResp, &alerts)
	require.Len(t, alerts.LowStock, 1)
	assert.Equal(t, medID, alerts.LowStock[0].MedicineID)
	assert.Equal(t, 7, alerts.LowStock[0].Quantity)

	movResp := do(t, srv, "GET", "/v1/inventory/movements?medicine_id="+medID, nil)
	require.Equal(t, http.StatusOK, movResp.StatusCode)
	var movements struct {
		Total int64 `json:"total"`
	}
	decodeJSON(t, movResp, &movements)
	assert.EqualValues(t, 1, movements.Total)
}

func TestE2E_DeleteMedicineCascadesSaleItems(t *testing.T) {
	srv := setupServer(t)
	medID := createMedicine(t, srv, "Ibuprofen 400mg", 30, 12.00, 7.00)

	saleResp := do(t, srv, "POST", "/v1/sales", jsonBody(t, map[string]any{
		"items": []map[string]any{{"medicine_id": medID, "quantity": 3}},
	}))
	require.Equal(t, http.StatusCreated, saleResp.StatusCode)
	var sale struct {
		ID string `json:"id"`
	}
	decodeJSON(t, saleResp, &sale)

	// Removing the medicine takes its sale lines with it.
	delResp := do(t, srv, "DELETE", "/v1/medicines/"+medID, nil)
	require.Equal(t, http.StatusNoContent, delResp.StatusCode)
	delResp.Body.Close()

	getResp := do(t, srv, "GET", "/v1/sales/"+sale.ID, nil)
	require.Equal(t, http.StatusOK, getResp.StatusCode)
	var got struct {
		Items []struct {
			ID string `json:"id"`
		} `json:"items"`
	}
	decodeJSON(t, getResp, &got)
	assert.Empty(t, got.Items)
}

func TestE2E_DeleteCategoryDetachesMedicines(t *testing.T) {
	srv := setupServer(t)

	catResp := do(t, srv, "POST", "/v1/categories", jsonBody(t, map[string]any{
		"name": "Antibiotics",
	}))
	require.Equal(t, http.StatusCreated, catResp.StatusCode)
	var cat struct {
		ID string `json:"id"`
	}
	decodeJSON(t, catResp, &cat)

	medResp := do(t, srv, "POST", "/v1/medicines", jsonBody(t, map[string]any{
		"name":          "Azithromycin 500mg",
		"category_id":   cat.ID,
		"quantity":      15,
		"buying_price":  20.00,
		"selling_price": 32.00,
		"expiry_date":   "2027-01-31",
		"manufacturer":  "E2E Labs",
	}))
	require.Equal(t, http.StatusCreated, medResp.StatusCode)
	var med struct {
		ID         string  `json:"id"`
		CategoryID *string `json:"category_id"`
	}
	decodeJSON(t, medResp, &med)
	require.NotNil(t, med.CategoryID)

	// Deleting the category ungroups the medicine instead of deleting it.
	delResp := do(t, srv, "DELETE", "/v1/categories/"+cat.ID, nil)
	require.Equal(t, http.StatusNoContent, delResp.StatusCode)
	delResp.Body.Close()

	getResp := do(t, srv, "GET", "/v1/medicines/"+med.ID, nil)
	require.Equal(t, http.StatusOK, getResp.StatusCode)
	var got struct {
		CategoryID *string `json:"category_id"`
		Quantity   int     `json:"quantity"`
	}
	decodeJSON(t, getResp, &got)
	assert.Nil(t, got.CategoryID)
	assert.Equal(t, 15, got.Quantity)
}
