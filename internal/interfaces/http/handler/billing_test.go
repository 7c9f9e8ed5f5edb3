package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	billingapp "github.com/pestops/backend/internal/application/billing"
	"github.com/pestops/backend/internal/domain/billing"
	"github.com/pestops/backend/internal/domain/fieldops"
	"github.com/pestops/backend/internal/domain/partner"
	"github.com/pestops/backend/internal/interfaces/http/dto"
)

type mockReceiptRepository struct {
	mock.Mock
}

func (m *mockReceiptRepository) Save(ctx context.Context, receipt *fieldops.CollectionReceipt) error {
	args := m.Called(ctx, receipt)
	return args.Error(0)
}

func (m *mockReceiptRepository) FindByID(ctx context.Context, id uuid.UUID) (*fieldops.CollectionReceipt, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fieldops.CollectionReceipt), args.Error(1)
}

func (m *mockReceiptRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]fieldops.CollectionReceipt, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]fieldops.CollectionReceipt), args.Error(1)
}

func (m *mockReceiptRepository) FindAll(ctx context.Context) ([]fieldops.CollectionReceipt, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]fieldops.CollectionReceipt), args.Error(1)
}

// billingSnapshot builds a snapshot with one customer, a per-visit rule,
// one completed visit and one approved sale in March 2025.
func billingSnapshot(t *testing.T) (*billing.Snapshot, uuid.UUID) {
	t.Helper()

	acme, err := partner.NewCustomer("ACME", "Acme Foods")
	require.NoError(t, err)

	rule, err := partner.NewCustomerPricingRule(acme.ID)
	require.NoError(t, err)
	require.NoError(t, rule.SetPerVisitPrice(decimal.NewFromInt(80)))

	visit, err := fieldops.NewVisit(acme.ID, nil, time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NoError(t, visit.Complete("RPT-1"))

	sale, err := fieldops.NewMaterialSale(acme.ID, nil, time.Date(2025, time.March, 20, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NoError(t, sale.AddLine("Rodent bait", decimal.NewFromInt(2), "box", decimal.NewFromInt(100), nil))
	require.NoError(t, sale.Approve())

	receipt, err := fieldops.NewCollectionReceipt(acme.ID, nil, decimal.NewFromInt(60), time.Date(2025, time.March, 25, 0, 0, 0, 0, time.UTC), "RC-001")
	require.NoError(t, err)

	snap, err := billing.NewSnapshot(
		[]partner.Customer{*acme},
		nil,
		[]partner.PricingRule{*rule},
		[]fieldops.Visit{*visit},
		[]fieldops.MaterialSale{*sale},
		[]fieldops.CollectionReceipt{*receipt},
	)
	require.NoError(t, err)
	return snap, acme.ID
}

func setupBillingRouter(t *testing.T, snapshots billing.SnapshotRepository, receipts fieldops.CollectionReceiptRepository) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := zap.NewNop()
	h := NewBillingHandler(
		billingapp.NewInvoiceService(snapshots, logger),
		billingapp.NewBalanceService(snapshots, logger),
		billingapp.NewReceiptService(receipts, logger),
	)

	engine := gin.New()
	api := engine.Group("/api/v1")
	h.RegisterRoutes(api)
	return engine
}

func TestBillingHandler_GetInvoiceDrafts(t *testing.T) {
	snap, _ := billingSnapshot(t)
	snapshots := new(mockSnapshotRepository)
	snapshots.On("Load", mock.Anything).Return(snap, nil)
	router := setupBillingRouter(t, snapshots, new(mockReceiptRepository))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/billing/invoice-drafts?year=2025&month=3", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool                              `json:"success"`
		Data    []billingapp.InvoiceDraftResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	require.Len(t, resp.Data, 1)
	assert.Equal(t, "Acme Foods", resp.Data[0].CustomerName)
	assert.Len(t, resp.Data[0].LineItems, 2)
	assert.InDelta(t, 280.0, resp.Data[0].Total, 0.001)
}

func TestBillingHandler_GetInvoiceDrafts_InvalidMonth(t *testing.T) {
	snap, _ := billingSnapshot(t)
	snapshots := new(mockSnapshotRepository)
	snapshots.On("Load", mock.Anything).Return(snap, nil)
	router := setupBillingRouter(t, snapshots, new(mockReceiptRepository))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/billing/invoice-drafts?year=2025&month=13", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBillingHandler_ExportInvoiceRows(t *testing.T) {
	snap, _ := billingSnapshot(t)
	snapshots := new(mockSnapshotRepository)
	snapshots.On("Load", mock.Anything).Return(snap, nil)
	router := setupBillingRouter(t, snapshots, new(mockReceiptRepository))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/billing/invoice-drafts/export?year=2025", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool       `json:"success"`
		Data    [][]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	require.NotEmpty(t, resp.Data)
	assert.Equal(t, billingapp.ExportColumns, resp.Data[0])
	for _, row := range resp.Data[1:] {
		assert.Len(t, row, len(billingapp.ExportColumns))
	}
}

func TestBillingHandler_GetCustomerBalance(t *testing.T) {
	snap, customerID := billingSnapshot(t)
	snapshots := new(mockSnapshotRepository)
	snapshots.On("Load", mock.Anything).Return(snap, nil)
	router := setupBillingRouter(t, snapshots, new(mockReceiptRepository))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/billing/customers/"+customerID.String()+"/balance", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool                               `json:"success"`
		Data    billingapp.CustomerBalanceResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.InDelta(t, 280.0, resp.Data.TotalDebt, 0.001)
	assert.InDelta(t, 60.0, resp.Data.TotalCollections, 0.001)
	assert.InDelta(t, 220.0, resp.Data.Balance, 0.001)
}

func TestBillingHandler_GetCustomerBalance_BadID(t *testing.T) {
	router := setupBillingRouter(t, new(mockSnapshotRepository), new(mockReceiptRepository))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/billing/customers/not-a-uuid/balance", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBillingHandler_GetCustomerBalance_Unknown(t *testing.T) {
	snap, _ := billingSnapshot(t)
	snapshots := new(mockSnapshotRepository)
	snapshots.On("Load", mock.Anything).Return(snap, nil)
	router := setupBillingRouter(t, snapshots, new(mockReceiptRepository))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/billing/customers/"+uuid.NewString()+"/balance", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, dto.ErrCodeInvalidInput, resp.Error.Code)
}

func TestBillingHandler_CheckReceipt(t *testing.T) {
	customerID := uuid.New()
	receipt, err := fieldops.NewCollectionReceipt(customerID, nil, decimal.NewFromInt(60), time.Now(), "RC-001")
	require.NoError(t, err)

	receipts := new(mockReceiptRepository)
	receipts.On("FindByID", mock.Anything, receipt.ID).Return(receipt, nil)
	receipts.On("Save", mock.Anything, receipt).Return(nil)

	router := setupBillingRouter(t, new(mockSnapshotRepository), receipts)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/billing/receipts/"+receipt.ID.String()+"/check", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool                              `json:"success"`
		Data    billingapp.BalanceReceiptResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.True(t, resp.Data.CheckedByAdmin)
	receipts.AssertCalled(t, "Save", mock.Anything, receipt)
}

func TestBillingHandler_CheckReceipt_AlreadyChecked(t *testing.T) {
	receipt, err := fieldops.NewCollectionReceipt(uuid.New(), nil, decimal.NewFromInt(60), time.Now(), "RC-002")
	require.NoError(t, err)
	require.NoError(t, receipt.MarkChecked())

	receipts := new(mockReceiptRepository)
	receipts.On("FindByID", mock.Anything, receipt.ID).Return(receipt, nil)

	router := setupBillingRouter(t, new(mockSnapshotRepository), receipts)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/billing/receipts/"+receipt.ID.String()+"/check", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	receipts.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}
