package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"free-rent/internal/auth"
	"free-rent/internal/middleware"
	"free-rent/internal/models"
	"free-rent/internal/schema"
	"free-rent/internal/testutil"
)

type testServer struct {
	t *testing.T
	s *Server
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	a, err := auth.New("admin", "")
	require.NoError(t, err)
	s, err := New(testutil.OpenDB(t), a, Options{HandleCORS: true})
	require.NoError(t, err)
	return &testServer{t: t, s: s}
}

func (ts *testServer) do(method, path string, body any) *httptest.ResponseRecorder {
	ts.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(ts.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth("admin", "admin")
	rr := httptest.NewRecorder()
	ts.s.Router.ServeHTTP(rr, req)
	return rr
}

type errorBody struct {
	Error  string   `json:"error"`
	Fields []string `json:"fields"`
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func tenantBody(first, phone string) map[string]any {
	return map[string]any{
		"first_name":    first,
		"last_name":     "Rivera",
		"phone":         phone,
		"email":         first + "@example.com",
		"date_of_birth": "1990-04-02T00:00:00Z",
	}
}

func TestGetVersion(t *testing.T) {
	ts := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/version", nil)
	rr := httptest.NewRecorder()
	ts.s.Router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.NotEmpty(t, rr.Header().Get(middleware.RequestIdHeader))
	assert.JSONEq(t, `{"serverVersion":"free-rent: `+Version+`","apiVersion":"v1"}`, rr.Body.String())
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)
	rr := httptest.NewRecorder()
	ts.s.Router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRequiresOperator(t *testing.T) {
	ts := newTestServer(t)

	rr := httptest.NewRecorder()
	ts.s.Router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/tenants", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("WWW-Authenticate"))

	req := httptest.NewRequest(http.MethodGet, "/api/tenants", nil)
	req.SetBasicAuth("admin", "letmein")
	rr = httptest.NewRecorder()
	ts.s.Router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestTenantLifecycle(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.do(http.MethodPost, "/api/tenants", tenantBody("Ann", "555-0100"))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	assert.Equal(t, "/api/tenants/1", rr.Header().Get("Location"))
	created := decode[models.Tenant](t, rr)
	assert.Equal(t, uint(1), created.ID)

	rr = ts.do(http.MethodPost, "/api/tenants", tenantBody("Bob", "555-0101"))
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = ts.do(http.MethodGet, "/api/tenants/1", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Ann", decode[models.Tenant](t, rr).FirstName)

	changed := tenantBody("Ann", "555-0199")
	changed["cell"] = "555-0200"
	rr = ts.do(http.MethodPut, "/api/tenants/1", changed)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = ts.do(http.MethodGet, "/api/tenants?column=first_name&q=an", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	found := decode[[]models.Tenant](t, rr)
	require.Len(t, found, 1)
	assert.Equal(t, "555-0199", found[0].Phone)
	assert.Equal(t, "555-0200", found[0].Cell)

	rr = ts.do(http.MethodGet, "/api/tenants", nil)
	assert.Len(t, decode[[]models.Tenant](t, rr), 2)

	rr = ts.do(http.MethodDelete, "/api/tenants/1", nil)
	require.Equal(t, http.StatusNoContent, rr.Code)
	assert.Empty(t, rr.Body.String())

	rr = ts.do(http.MethodGet, "/api/tenants/1", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	rr = ts.do(http.MethodPut, "/api/tenants/1", tenantBody("Ann", "555-0100"))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCreateInvalidRecord(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.do(http.MethodPost, "/api/tenants", tenantBody("Ann", ""))
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, []string{"phone"}, decode[errorBody](t, rr).Fields)

	rr = ts.do(http.MethodGet, "/api/tenants", nil)
	assert.Empty(t, decode[[]models.Tenant](t, rr))

	rr = ts.do(http.MethodPost, "/api/tenants", map[string]any{"nickname": "Annie"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = ts.do(http.MethodGet, "/api/tenants/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestDuplicateUnitType(t *testing.T) {
	ts := newTestServer(t)
	body := map[string]any{"unit_style_name": "Loft", "bedroom_count": 1, "bathroom_count": 1}

	rr := ts.do(http.MethodPost, "/api/unit-types", body)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = ts.do(http.MethodPost, "/api/unit-types", body)
	require.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, []string{"unit_style_name"}, decode[errorBody](t, rr).Fields)
}

func TestTenantPets(t *testing.T) {
	ts := newTestServer(t)
	require.Equal(t, http.StatusCreated, ts.do(http.MethodPost, "/api/tenants", tenantBody("Ann", "555-0100")).Code)

	pet := map[string]any{"name": "Rex", "species": "Dog", "breed": "Beagle", "age": 0, "weight": 22.5}
	rr := ts.do(http.MethodPost, "/api/tenants/1/pets", pet)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	assert.Equal(t, "/api/pets/1", rr.Header().Get("Location"))
	assert.Equal(t, uint(1), decode[models.Pet](t, rr).TenantID)

	rr = ts.do(http.MethodGet, "/api/tenants/1/pets", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	pets := decode[[]models.Pet](t, rr)
	require.Len(t, pets, 1)
	require.NotNil(t, pets[0].Age)
	assert.Equal(t, 0, *pets[0].Age)

	rr = ts.do(http.MethodGet, "/api/tenants/1/vehicles", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, decode[[]models.Vehicle](t, rr))

	rr = ts.do(http.MethodGet, "/api/tenants/9/pets", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = ts.do(http.MethodDelete, "/api/tenants/1", nil)
	require.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, []string{"pets"}, decode[errorBody](t, rr).Fields)
}

func TestUnitDefaults(t *testing.T) {
	ts := newTestServer(t)
	require.Equal(t, http.StatusCreated, ts.do(http.MethodPost, "/api/properties", map[string]any{
		"name": "Maple Court", "address": "12 Elm St", "city": "Springfield", "state": "OR",
		"postal_code": "97477", "country": "USA", "total_units": 12,
	}).Code)
	require.Equal(t, http.StatusCreated, ts.do(http.MethodPost, "/api/unit-types", map[string]any{
		"unit_style_name": "Loft", "bedroom_count": 1, "bathroom_count": 1,
	}).Code)

	rr := ts.do(http.MethodPost, "/api/units", map[string]any{"property_id": 1, "unit_type_id": 1, "unit_number": "101"})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	assert.True(t, decode[models.Unit](t, rr).IsVacant)

	rr = ts.do(http.MethodPost, "/api/units", map[string]any{"property_id": 1, "unit_type_id": 5, "unit_number": "102"})
	require.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, []string{"unit_type_id"}, decode[errorBody](t, rr).Fields)

	rr = ts.do(http.MethodDelete, "/api/properties/1", nil)
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestSchema(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.do(http.MethodGet, "/api/schema/unit-types", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	specs := decode[[]schema.FieldSpec](t, rr)
	require.NotEmpty(t, specs)
	assert.Equal(t, "unit_style_name", specs[0].Name)
	assert.True(t, specs[0].Required)

	rr = ts.do(http.MethodGet, "/api/schema/work-orders", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestListUnknownColumn(t *testing.T) {
	ts := newTestServer(t)
	rr := ts.do(http.MethodGet, "/api/pets?column=owner&q=x", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestExport(t *testing.T) {
	ts := newTestServer(t)
	require.Equal(t, http.StatusCreated, ts.do(http.MethodPost, "/api/tenants", tenantBody("Ann", "555-0100")).Code)
	require.Equal(t, http.StatusCreated, ts.do(http.MethodPost, "/api/tenants", tenantBody("Bob", "555-0101")).Code)

	rr := ts.do(http.MethodGet, "/api/tenants/export?column=first_name&q=bob", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, xlsxContentType, rr.Header().Get("Content-Type"))

	f, err := excelize.OpenReader(rr.Body)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("tenant")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Bob", rows[1][1])
}
