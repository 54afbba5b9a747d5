package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cafepos/internal/config"
	"cafepos/internal/logger"
	"cafepos/internal/models"
	"cafepos/internal/repositories"
	"cafepos/internal/services"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Database.Driver = "memory"
	cfg.RabbitMQ.Enabled = false
	cfg.Redis.Enabled = false
	cfg.JWT.Secret = "test_jwt_secret"
	return cfg
}

func TestNewAppHealth(t *testing.T) {
	app, cleanup, err := NewApp(testConfig(t), logger.Nop())
	require.NoError(t, err)
	defer cleanup()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "memory", body["database"])
	assert.Equal(t, false, body["rabbitmq"])
	assert.Equal(t, "0.0%", body["tax_percent"])
}

func TestNewAppReportsConfiguredTax(t *testing.T) {
	cfg := testConfig(t)
	cfg.Pricing.TaxPercent = 8
	app, cleanup, err := NewApp(cfg, logger.Nop())
	require.NoError(t, err)
	defer cleanup()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "8.0%", body["tax_percent"])
}

func TestNewAppProtectsAPI(t *testing.T) {
	app, cleanup, err := NewApp(testConfig(t), logger.Nop())
	require.NoError(t, err)
	defer cleanup()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/products", nil), -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	register, _ := json.Marshal(map[string]string{
		"username": "admin",
		"email":    "admin@cafe.vn",
		"password": "password123",
		"role":     string(models.RoleAdmin),
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(register))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	login, _ := json.Marshal(map[string]string{"username": "admin", "password": "password123"})
	req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(login))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	var loginResp map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&loginResp))
	resp.Body.Close()

	req = httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	req.Header.Set("Authorization", "Bearer "+loginResp["token"])
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var products []models.Product
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&products))
	assert.Len(t, products, len(defaultMenu))
}

func TestSeedIsIdempotent(t *testing.T) {
	products := repositories.NewMemoryProductRepository()
	tables := repositories.NewMemoryTableRepository()

	seedMenu(products, logger.Nop())
	seedMenu(products, logger.Nop())
	seedTables(tables, logger.Nop())
	seedTables(tables, logger.Nop())

	all, err := products.GetAll()
	require.NoError(t, err)
	assert.Len(t, all, len(defaultMenu))

	floor, err := tables.GetAll()
	require.NoError(t, err)
	assert.Len(t, floor, 8)
	for _, table := range floor {
		assert.Equal(t, models.TableStatusAvailable, table.Status)
	}
}

func TestHandleOrderEvent(t *testing.T) {
	var buf bytes.Buffer
	handler := handleOrderEvent(zerolog.New(&buf))

	body, err := json.Marshal(services.OrderEvent{
		OrderID:       "o-1",
		OrderNumber:   "ORD-1700000000000",
		TableID:       "t-5",
		OrderStatus:   models.OrderStatusPreparing,
		PaymentStatus: models.PaymentStatusPending,
		FinalAmount:   decimal.NewFromInt(50000),
		OccurredAt:    time.Now(),
	})
	require.NoError(t, err)

	require.NoError(t, handler(amqp.Delivery{Type: services.EventOrderStatusChanged, Body: body}))
	assert.Contains(t, buf.String(), `"order_number":"ORD-1700000000000"`)
	assert.Contains(t, buf.String(), `"bar_ticket":true`)

	assert.Error(t, handler(amqp.Delivery{Type: services.EventOrderCreated, Body: []byte("{")}))
}
