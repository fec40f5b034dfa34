package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/SscSPs/shop_ledger_app/internal/apperrors"
	"github.com/SscSPs/shop_ledger_app/internal/core/domain"
	portssvc "github.com/SscSPs/shop_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/shop_ledger_app/internal/dto"
	"github.com/SscSPs/shop_ledger_app/internal/handlers"
	"github.com/SscSPs/shop_ledger_app/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type HandlerTestSuite struct {
	suite.Suite
	router        *gin.Engine
	mockCatalog   *MockCatalogService
	mockStock     *MockStockService
	mockTxns      *MockTransactionService
	mockAnalytics *MockAnalyticsService
}

func (suite *HandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	handlers.RegisterValidators()
	suite.router = gin.New()

	suite.mockCatalog = new(MockCatalogService)
	suite.mockStock = new(MockStockService)
	suite.mockTxns = new(MockTransactionService)
	suite.mockAnalytics = new(MockAnalyticsService)

	v1 := suite.router.Group("/api/v1")
	handlers.RegisterProductRoutes(v1, suite.mockCatalog, suite.mockStock)
	handlers.RegisterTransactionRoutes(v1, suite.mockTxns)
	handlers.RegisterAnalyticsRoutes(v1, suite.mockAnalytics, suite.mockStock)
}

func (suite *HandlerTestSuite) do(method, path, body string, headers ...string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *HandlerTestSuite) errorBody(w *httptest.ResponseRecorder) handlers.ErrorResponse {
	var resp handlers.ErrorResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func (suite *HandlerTestSuite) TestCreateProduct_Created() {
	product := &domain.Product{ProductID: 7, Name: "Chair", Rate: decimal.NewFromInt(25), ProductType: domain.ProductTypeSales, StockQuantity: 3, MinStockLevel: 5}
	suite.mockCatalog.On("CreateProduct", mock.Anything, mock.MatchedBy(func(req dto.CreateProductRequest) bool {
		return req.Name == "Chair" && req.OpeningStock == 3
	})).Return(product, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/products", `{"name":"Chair","rate":"25","productType":"sales","openingStock":3}`)

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.ProductResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(int64(7), resp.ProductID)
	suite.True(resp.LowStock)
	suite.mockCatalog.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestCreateProduct_MissingName() {
	w := suite.do(http.MethodPost, "/api/v1/products", `{"productType":"sales"}`)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal(apperrors.CodeMissingRequiredField, suite.errorBody(w).Code)
	suite.mockCatalog.AssertNotCalled(suite.T(), "CreateProduct", mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestCreateProduct_Duplicate() {
	suite.mockCatalog.On("CreateProduct", mock.Anything, mock.Anything).Return(nil, apperrors.ErrDuplicate).Once()

	w := suite.do(http.MethodPost, "/api/v1/products", `{"name":"Chair","productType":"sales"}`)

	suite.Equal(http.StatusConflict, w.Code)
	suite.Equal(apperrors.CodeConflict, suite.errorBody(w).Code)
}

func (suite *HandlerTestSuite) TestGetProduct_NotFound() {
	suite.mockCatalog.On("GetProduct", mock.Anything, int64(404)).Return(nil, apperrors.NotFound("product 404 not found")).Once()

	w := suite.do(http.MethodGet, "/api/v1/products/404", "")

	suite.Equal(http.StatusNotFound, w.Code)
	suite.Equal(apperrors.CodeNotFound, suite.errorBody(w).Code)
}

func (suite *HandlerTestSuite) TestGetProduct_BadID() {
	w := suite.do(http.MethodGet, "/api/v1/products/abc", "")

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockCatalog.AssertNotCalled(suite.T(), "GetProduct", mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestAdjustStock_InsufficientStock() {
	suite.mockStock.On("ApplyDelta", mock.Anything, int64(3), -4, domain.ChangeDamage, (*string)(nil)).
		Return(nil, apperrors.InsufficientStock(3, 1, 4)).Once()

	w := suite.do(http.MethodPost, "/api/v1/products/3/stock", `{"delta":-4,"changeType":"damage"}`)

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
	suite.Equal(apperrors.CodeInsufficientStock, suite.errorBody(w).Code)
	suite.mockStock.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestAdjustStock_UnknownChangeType() {
	w := suite.do(http.MethodPost, "/api/v1/products/3/stock", `{"delta":2,"changeType":"gift"}`)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal(apperrors.CodeValidation, suite.errorBody(w).Code)
	suite.mockStock.AssertNotCalled(suite.T(), "ApplyDelta", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestSetStockLevel() {
	mutation := &domain.StockMutation{
		Product: domain.Product{ProductID: 3, StockQuantity: 8},
		Entry:   domain.StockHistoryEntry{ProductID: 3, ChangeType: domain.ChangeInventory, QuantityChange: -2, PreviousQuantity: 10, NewQuantity: 8},
	}
	suite.mockStock.On("SetStockLevel", mock.Anything, int64(3), 8, (*string)(nil)).Return(mutation, nil).Once()

	w := suite.do(http.MethodPut, "/api/v1/products/3/stock-level", `{"countedQuantity":8}`)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.StockMutationResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(8, resp.Product.StockQuantity)
	suite.Equal(-2, resp.Entry.QuantityChange)
}

func (suite *HandlerTestSuite) TestListStockHistory_EmptyIsArray() {
	suite.mockStock.On("ListStockHistory", mock.Anything, int64(3), dto.ListStockHistoryParams{Limit: 10}).
		Return(&dto.ListStockHistoryResponse{}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/products/3/history?limit=10", "")

	suite.Equal(http.StatusOK, w.Code)
	suite.JSONEq(`{"entries":[]}`, w.Body.String())
}

func (suite *HandlerTestSuite) TestCreateTransaction_ItemsNotAnArray() {
	w := suite.do(http.MethodPost, "/api/v1/transactions/sales", `{"customerName":"A","customerPhone":"1","items":"chair x2"}`)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal(apperrors.CodeInvalidItemsFormat, suite.errorBody(w).Code)
	suite.mockTxns.AssertNotCalled(suite.T(), "CreateTransaction", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestCreateTransaction_ItemFieldWrongType() {
	w := suite.do(http.MethodPost, "/api/v1/transactions/sales", `{"customerName":"A","customerPhone":"1","items":[{"itemName":"Chair","qty":"two"}]}`)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal(apperrors.CodeInvalidItemsFormat, suite.errorBody(w).Code)
}

func (suite *HandlerTestSuite) TestCreateTransaction_CreatedWithWarnings() {
	pid := int64(4)
	result := &domain.TransactionResult{
		Transaction: domain.Transaction{TransactionID: 1, Variant: domain.VariantRental, SerialNo: 12, TotalAmount: decimal.NewFromInt(460)},
		Warnings:    []domain.StockWarning{{Code: domain.WarningStockClamped, ItemName: "Tent", ProductID: &pid, Message: "short"}},
	}
	suite.mockTxns.On("CreateTransaction", mock.Anything, domain.VariantRental, mock.MatchedBy(func(req dto.CreateTransactionRequest) bool {
		return len(req.Items) == 1 && req.Items[0].Qty == 2
	}), "key-1").Return(result, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/transactions/rental",
		`{"customerName":"A","customerPhone":"1","items":[{"itemName":"Tent","qty":2,"rate":"100"}]}`,
		"Idempotency-Key", "key-1")

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.TransactionResultResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(int64(12), resp.Transaction.SerialNo)
	suite.Require().Len(resp.Warnings, 1)
	suite.Equal(domain.WarningStockClamped, resp.Warnings[0].Code)
	suite.mockTxns.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestCreateTransaction_IdempotencyKeyTooLong() {
	w := suite.do(http.MethodPost, "/api/v1/transactions/sales", `{}`, "Idempotency-Key", strings.Repeat("k", 200))

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestCreateTransaction_BadFeedback() {
	w := suite.do(http.MethodPost, "/api/v1/transactions/sales", `{"customerName":"A","customerPhone":"1","items":[],"customerFeedback":"great"}`)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal(apperrors.CodeValidation, suite.errorBody(w).Code)
}

func (suite *HandlerTestSuite) TestTransactions_UnknownVariant() {
	w := suite.do(http.MethodGet, "/api/v1/transactions/lease", "")

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockTxns.AssertNotCalled(suite.T(), "ListTransactions", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestGetTransaction_InternalErrorIsGeneric() {
	suite.mockTxns.On("GetTransaction", mock.Anything, domain.VariantSales, int64(5)).Return(nil, assert.AnError).Once()

	w := suite.do(http.MethodGet, "/api/v1/transactions/sales/5", "")

	suite.Equal(http.StatusInternalServerError, w.Code)
	body := suite.errorBody(w)
	suite.Equal(apperrors.CodeInternal, body.Code)
	suite.Equal("Failed to get transaction", body.Error)
}

func (suite *HandlerTestSuite) TestDeleteTransaction() {
	suite.mockTxns.On("DeleteTransaction", mock.Anything, domain.VariantSales, int64(5)).Return(nil, nil).Once()

	w := suite.do(http.MethodDelete, "/api/v1/transactions/sales/5", "")

	suite.Equal(http.StatusOK, w.Code)
	suite.JSONEq(`{"deleted":true,"warnings":[]}`, w.Body.String())
}

func (suite *HandlerTestSuite) TestTopSelling_DefaultsToFive() {
	suite.mockAnalytics.On("TopSelling", mock.Anything, 5).Return([]domain.Product{}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/analytics/top-selling", "")

	suite.Equal(http.StatusOK, w.Code)
	suite.JSONEq(`[]`, w.Body.String())
	suite.mockAnalytics.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestTopRented_RejectsOversizedN() {
	w := suite.do(http.MethodGet, "/api/v1/analytics/top-rented?n=500", "")

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockAnalytics.AssertNotCalled(suite.T(), "TopRented", mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestReconciliation() {
	report := &domain.ReconciliationReport{CheckedProducts: 2, Mismatches: []domain.ReconciliationMismatch{}}
	suite.mockStock.On("Reconcile", mock.Anything).Return(report, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/stock/reconciliation", "")

	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), `"checkedProducts":2`)
}

func TestRegisterRoutes_Health(t *testing.T) {
	gin.SetMode(gin.TestMode)
	container := &portssvc.ServiceContainer{
		Catalog:      new(MockCatalogService),
		Stock:        new(MockStockService),
		Transactions: new(MockTransactionService),
		Analytics:    new(MockAnalyticsService),
	}
	cfg := &config.Config{IsProduction: true}

	healthy := gin.New()
	handlers.RegisterRoutes(healthy, cfg, container)
	w := httptest.NewRecorder()
	healthy.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())

	down := gin.New()
	handlers.RegisterRoutes(down, cfg, container, func(context.Context) error { return assert.AnError })
	w = httptest.NewRecorder()
	down.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}
