package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tjautosupply/autoparts-api/internal/application/dto"
	"github.com/tjautosupply/autoparts-api/internal/application/usecase"
	"github.com/tjautosupply/autoparts-api/internal/domain/entity"
	apphttp "github.com/tjautosupply/autoparts-api/internal/interfaces/http"
)

// stubSaleRepo serves a fixed set of sales; write methods are never reached by
// the handler paths under test.
type stubSaleRepo struct {
	sales map[string]*entity.Sale
}

func (r *stubSaleRepo) Create(sale *entity.Sale) error { r.sales[sale.ID] = sale; return nil }

func (r *stubSaleRepo) GetByID(id string) (*entity.Sale, error) { return r.sales[id], nil }

func (r *stubSaleRepo) GetForUpdate(id string) (*entity.Sale, error) { return r.sales[id], nil }

func (r *stubSaleRepo) List(limit, offset int) ([]*entity.Sale, error) {
	out := make([]*entity.Sale, 0, len(r.sales))
	for _, s := range r.sales {
		out = append(out, s)
	}
	return out, nil
}

func (r *stubSaleRepo) AddReturnedQuantity(saleItemID string, quantity int) error { return nil }

func postSale(t *testing.T, app *fiber.App, body dto.CreateSaleRequest) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/sales", bytes.NewReader(payload))
	req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestSalesCreate_RetryOfCommittedSaleIDReturnsStoredSale(t *testing.T) {
	stored := &entity.Sale{
		ID:           "sale-1",
		CustomerName: "Walk-in",
		Status:       entity.SaleStatusCompleted,
		Total:        decimal.RequireFromString("19.98"),
		Items: []entity.SaleItem{{
			ID:        "item-1",
			SaleID:    "sale-1",
			ProductID: "p1",
			Quantity:  2,
			UnitPrice: decimal.RequireFromString("9.99"),
		}},
		CreatedAt: time.Now(),
	}
	repo := &stubSaleRepo{sales: map[string]*entity.Sale{"sale-1": stored}}
	history := usecase.NewHistoryUseCase(repo, nil, nil)

	// A nil ledger makes any attempt to reserve or commit panic, so a clean
	// 200 proves the retry never touches stock.
	handler := apphttp.NewSalesHandler(nil, history)
	app := fiber.New()
	app.Post("/api/sales", handler.Create)

	resp := postSale(t, app, dto.CreateSaleRequest{
		SaleID:       "sale-1",
		CustomerName: "Walk-in",
		Items:        []dto.SaleLineInput{{ProductID: "p1", Quantity: 2}},
	})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body dto.SaleResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "sale-1", body.ID)
	assert.True(t, body.Total.Equal(stored.Total))
	require.Len(t, body.Items, 1)
	assert.Equal(t, 2, body.Items[0].Quantity)
}
