package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"orderdesk/internal/config"
	"orderdesk/internal/model"
	"orderdesk/internal/notify"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// MockCatalogService is a mock implementation of service.CatalogService.
type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) ListProducts(ctx context.Context) ([]model.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockCatalogService) ImportStock(ctx context.Context, rows []model.StockRow) (*model.ImportResult, error) {
	args := m.Called(ctx, rows)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ImportResult), args.Error(1)
}

// MockAuthService is a mock implementation of service.AuthService.
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, username, password string) (string, string, error) {
	args := m.Called(ctx, username, password)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockAuthService) CreateBA(ctx context.Context, username, password string) error {
	args := m.Called(ctx, username, password)
	return args.Error(0)
}

func (m *MockAuthService) SeedAdmin(ctx context.Context, username, password string) error {
	args := m.Called(ctx, username, password)
	return args.Error(0)
}

// MockArchiver records stored uploads.
type MockArchiver struct {
	mock.Mock
}

func (m *MockArchiver) Store(ctx context.Context, filename string, data []byte) error {
	args := m.Called(ctx, filename, data)
	return args.Error(0)
}

func newAdminHandlerForTest(catalog *MockCatalogService, orders *MockOrderService, accounts *MockAuthService, archiver *MockArchiver) *AdminHandler {
	whatsapp := notify.NewWhatsAppSender(config.WhatsAppConfig{}, zerolog.Nop())
	return NewAdminHandler(catalog, orders, accounts, archiver, whatsapp, zerolog.Nop())
}

// stockWorkbook builds a minimal valid xlsx upload body.
func stockWorkbook(t *testing.T) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	header := []interface{}{"Lot Type Code", "Quantity Available"}
	row := []interface{}{"A1", 4}
	require.NoError(t, f.SetSheetRow(sheet, "A1", &header))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &row))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

func multipartUpload(t *testing.T, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	return body, writer.FormDataContentType()
}

func TestAdminHandler_UploadStock(t *testing.T) {
	catalog := new(MockCatalogService)
	catalog.On("ImportStock", mock.Anything, mock.AnythingOfType("[]model.StockRow")).
		Return(&model.ImportResult{Created: 1, Updated: 0}, nil)

	archiver := new(MockArchiver)
	archiver.On("Store", mock.Anything, "stock.xlsx", mock.AnythingOfType("[]uint8")).Return(nil)

	h := newAdminHandlerForTest(catalog, new(MockOrderService), new(MockAuthService), archiver)

	body, contentType := multipartUpload(t, "stock.xlsx", stockWorkbook(t))
	req := httptest.NewRequest(http.MethodPost, "/admin/upload_stock", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	h.UploadStock(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, "Stock updated successfully! Created: 1, Updated: 0", resp["message"])

	catalog.AssertExpectations(t)
	archiver.AssertExpectations(t)
}

func TestAdminHandler_UploadStock_RejectsWrongExtension(t *testing.T) {
	catalog := new(MockCatalogService)
	h := newAdminHandlerForTest(catalog, new(MockOrderService), new(MockAuthService), new(MockArchiver))

	body, contentType := multipartUpload(t, "stock.csv", []byte("a,b,c"))
	req := httptest.NewRequest(http.MethodPost, "/admin/upload_stock", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	h.UploadStock(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	catalog.AssertNotCalled(t, "ImportStock", mock.Anything, mock.Anything)
}

func TestAdminHandler_UploadStock_MissingSKUColumn(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	header := []interface{}{"SKU", "Quantity Available"}
	require.NoError(t, f.SetSheetRow(sheet, "A1", &header))
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	require.NoError(t, f.Close())

	h := newAdminHandlerForTest(new(MockCatalogService), new(MockOrderService), new(MockAuthService), new(MockArchiver))

	body, contentType := multipartUpload(t, "stock.xlsx", buf.Bytes())
	req := httptest.NewRequest(http.MethodPost, "/admin/upload_stock", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	h.UploadStock(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp model.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Lot Type Code column not found", resp.Error)
}

func TestAdminHandler_UploadStock_ArchiveFailureDoesNotFailRequest(t *testing.T) {
	catalog := new(MockCatalogService)
	catalog.On("ImportStock", mock.Anything, mock.AnythingOfType("[]model.StockRow")).
		Return(&model.ImportResult{Created: 1}, nil)

	archiver := new(MockArchiver)
	archiver.On("Store", mock.Anything, "stock.xlsx", mock.AnythingOfType("[]uint8")).
		Return(assert.AnError)

	h := newAdminHandlerForTest(catalog, new(MockOrderService), new(MockAuthService), archiver)

	body, contentType := multipartUpload(t, "stock.xlsx", stockWorkbook(t))
	req := httptest.NewRequest(http.MethodPost, "/admin/upload_stock", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	h.UploadStock(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

// routedRequest sends a request through a chi router so URL params resolve.
func routedRequest(h http.HandlerFunc, method, pattern, target string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.MethodFunc(method, pattern, h)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestAdminHandler_DownloadOrder(t *testing.T) {
	orderID := uuid.New()
	payload := []byte("workbook bytes")

	orders := new(MockOrderService)
	orders.On("ExportWorkbook", mock.Anything, orderID).
		Return("order_export.xlsx", payload, nil)

	h := newAdminHandlerForTest(new(MockCatalogService), orders, new(MockAuthService), new(MockArchiver))

	rec := routedRequest(h.DownloadOrder, http.MethodGet, "/admin/orders/{id}/download",
		"/admin/orders/"+orderID.String()+"/download")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, payload, rec.Body.Bytes())
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "order_export.xlsx")
	assert.Contains(t, rec.Header().Get("Content-Type"), "spreadsheetml")
}

func TestAdminHandler_DownloadOrder_NotFound(t *testing.T) {
	orderID := uuid.New()

	orders := new(MockOrderService)
	orders.On("ExportWorkbook", mock.Anything, orderID).Return("", nil, model.ErrOrderNotFound)

	h := newAdminHandlerForTest(new(MockCatalogService), orders, new(MockAuthService), new(MockArchiver))

	rec := routedRequest(h.DownloadOrder, http.MethodGet, "/admin/orders/{id}/download",
		"/admin/orders/"+orderID.String()+"/download")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminHandler_DeleteOrder(t *testing.T) {
	orderID := uuid.New()

	orders := new(MockOrderService)
	orders.On("Delete", mock.Anything, orderID).Return(nil)

	h := newAdminHandlerForTest(new(MockCatalogService), orders, new(MockAuthService), new(MockArchiver))

	rec := routedRequest(h.DeleteOrder, http.MethodDelete, "/admin/orders/{id}",
		"/admin/orders/"+orderID.String())

	assert.Equal(t, http.StatusOK, rec.Code)
	orders.AssertExpectations(t)
}

func TestAdminHandler_DeleteOrder_InvalidID(t *testing.T) {
	orders := new(MockOrderService)
	h := newAdminHandlerForTest(new(MockCatalogService), orders, new(MockAuthService), new(MockArchiver))

	rec := routedRequest(h.DeleteOrder, http.MethodDelete, "/admin/orders/{id}", "/admin/orders/not-a-uuid")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	orders.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestAdminHandler_CreateUser(t *testing.T) {
	accounts := new(MockAuthService)
	accounts.On("CreateBA", mock.Anything, "store-9", "secret").Return(nil)

	h := newAdminHandlerForTest(new(MockCatalogService), new(MockOrderService), accounts, new(MockArchiver))

	body, err := json.Marshal(createUserRequest{Username: "store-9", Password: "secret"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/admin/users", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.CreateUser(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	accounts.AssertExpectations(t)
}

func TestAdminHandler_CreateUser_Duplicate(t *testing.T) {
	accounts := new(MockAuthService)
	accounts.On("CreateBA", mock.Anything, "store-9", "secret").Return(model.ErrDuplicateUsername)

	h := newAdminHandlerForTest(new(MockCatalogService), new(MockOrderService), accounts, new(MockArchiver))

	body, err := json.Marshal(createUserRequest{Username: "store-9", Password: "secret"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/admin/users", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.CreateUser(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminHandler_TestWhatsApp_ReportsFailureInBody(t *testing.T) {
	h := newAdminHandlerForTest(new(MockCatalogService), new(MockOrderService), new(MockAuthService), new(MockArchiver))

	// Unconfigured sender: the probe fails but the endpoint still answers 200.
	body, err := json.Marshal(whatsAppSettingsRequest{})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/admin/whatsapp/test", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.TestWhatsApp(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["success"])
	assert.Contains(t, resp["message"], "TWILIO_ACCOUNT_SID")
}
