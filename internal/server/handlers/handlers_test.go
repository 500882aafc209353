package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/outletdesk/internal/catalog"
	"github.com/mamadbah2/outletdesk/internal/config"
	"github.com/mamadbah2/outletdesk/internal/domain/models"
	"github.com/mamadbah2/outletdesk/internal/repository/memory"
	"github.com/mamadbah2/outletdesk/internal/server/handlers"
	"github.com/mamadbah2/outletdesk/internal/server/router"
	"github.com/mamadbah2/outletdesk/internal/server/web"
	"github.com/mamadbah2/outletdesk/internal/service/auth"
	"github.com/mamadbah2/outletdesk/internal/service/dashboard"
	"github.com/mamadbah2/outletdesk/internal/service/records"
	"github.com/mamadbah2/outletdesk/internal/session"
)

const (
	inventoryStore = "Inventory"
	feedbackStore  = "Feedback"
)

type testApp struct {
	engine   *gin.Engine
	store    *memory.Store
	registry *session.Registry
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memory.NewStore()
	registry := session.NewRegistry()
	items := catalog.New([]models.LookupEntry{
		{Barcode: "6281007", ItemName: "Fresh Milk 1L", Supplier: "Almarai"},
	})

	authSvc := auth.NewService(config.AuthConfig{Username: "staff", Password: "secret", SessionSecret: "test-key"}, registry, nil)
	dashSvc := dashboard.NewService(store, items, dashboard.Options{InventoryStore: inventoryStore, FeedbackStore: feedbackStore}, nil)
	recSvc := records.NewService(store, inventoryStore, feedbackStore, 0, nil)

	tmpl, err := web.Templates()
	require.NoError(t, err)

	engine := router.New(router.Handlers{
		Auth:      handlers.NewAuthHandler(authSvc, false, nil),
		Dashboard: handlers.NewDashboardHandler(dashSvc, registry, nil),
		Records:   handlers.NewRecordsHandler(recSvc, registry, nil),
	}, tmpl, nil)

	return &testApp{engine: engine, store: store, registry: registry}
}

func (a *testApp) do(t *testing.T, method, path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

func (a *testApp) login(t *testing.T, outlet string) *http.Cookie {
	t.Helper()
	w := a.do(t, http.MethodPost, "/login", url.Values{
		"username": {"staff"},
		"password": {"secret"},
		"outlet":   {outlet},
	}, nil)
	require.Equal(t, http.StatusSeeOther, w.Code)
	require.Equal(t, "/dashboard", w.Header().Get("Location"))

	for _, c := range w.Result().Cookies() {
		if c.Name == handlers.SessionCookie {
			return c
		}
	}
	t.Fatal("session cookie not set")
	return nil
}

func TestLogin_ShowsOutletDashboard(t *testing.T) {
	app := newTestApp(t)
	cookie := app.login(t, "Hilal")

	w := app.do(t, http.MethodGet, "/dashboard", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Hilal Dashboard")
	assert.Equal(t, 1, app.registry.Len())
}

func TestLogin_WrongPasswordCreatesNoSession(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, http.MethodPost, "/login", url.Values{
		"username": {"staff"},
		"password": {"wrong"},
		"outlet":   {"Hilal"},
	}, nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid username or password.")
	assert.Empty(t, w.Result().Cookies())
	assert.Equal(t, 0, app.registry.Len())
}

func TestLogin_UnknownOutlet(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, http.MethodPost, "/login", url.Values{
		"username": {"staff"},
		"password": {"secret"},
		"outlet":   {"Nowhere"},
	}, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, app.registry.Len())
}

func TestDashboard_RequiresSession(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, http.MethodGet, "/dashboard", nil, nil)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	w = app.do(t, http.MethodGet, "/dashboard", nil, &http.Cookie{Name: handlers.SessionCookie, Value: "forged"})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestSubmitItem_FoundBarcodeIsSaved(t *testing.T) {
	app := newTestApp(t)
	cookie := app.login(t, "Hilal")

	app.do(t, http.MethodPost, "/dashboard/lookup", url.Values{"barcode": {"6281007"}}, cookie)

	w := app.do(t, http.MethodGet, "/dashboard", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Fresh Milk 1L")

	w = app.do(t, http.MethodPost, "/dashboard/items", url.Values{
		"barcode":       {"6281007"},
		"form_type":     {string(models.FormExpiry)},
		"quantity":      {"3"},
		"cost":          {"2.50"},
		"selling_price": {"4"},
		"expiry_date":   {"2026-11-01"},
		"staff_name":    {"Ravi"},
	}, cookie)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, 1, app.store.Count(inventoryStore))

	w = app.do(t, http.MethodGet, "/dashboard", nil, cookie)
	body := w.Body.String()
	assert.Contains(t, body, "Items this session (1)")
	assert.Contains(t, body, "7.50")
	assert.Contains(t, body, "01-Nov-26")
}

func TestSubmitItem_EmptyStaffIsRejected(t *testing.T) {
	app := newTestApp(t)
	cookie := app.login(t, "Hilal")

	w := app.do(t, http.MethodPost, "/dashboard/items", url.Values{
		"barcode":   {"999"},
		"item_name": {"Loose Dates"},
		"form_type": {string(models.FormDamages)},
		"quantity":  {"1"},
	}, cookie)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, 0, app.store.Count(inventoryStore))

	w = app.do(t, http.MethodGet, "/dashboard", nil, cookie)
	assert.Contains(t, w.Body.String(), "Staff name is required.")
}

func TestSubmitFeedback_EmptyNameIsRejected(t *testing.T) {
	app := newTestApp(t)
	cookie := app.login(t, "Hilal")

	app.do(t, http.MethodPost, "/dashboard/feedback", url.Values{
		"customer_name": {""},
		"rating":        {"4"},
		"feedback":      {"Great service"},
	}, cookie)
	assert.Equal(t, 0, app.store.Count(feedbackStore))

	w := app.do(t, http.MethodGet, "/dashboard", nil, cookie)
	assert.Contains(t, w.Body.String(), "Customer name and feedback are both required.")
}

func TestExportCSV(t *testing.T) {
	app := newTestApp(t)
	cookie := app.login(t, "Hilal")

	app.do(t, http.MethodPost, "/dashboard/feedback", url.Values{
		"customer_name": {"Amina"},
		"rating":        {"5"},
		"feedback":      {"Shelves were tidy"},
	}, cookie)
	require.Equal(t, 1, app.store.Count(feedbackStore))

	w := app.do(t, http.MethodGet, "/records/feedback/export.csv", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")

	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, strings.Join(models.FeedbackColumns, ","), strings.TrimSpace(lines[0]))
	assert.Contains(t, lines[1], "Amina")
	assert.Contains(t, lines[1], "Hilal")
}

func TestExport_UnknownStore(t *testing.T) {
	app := newTestApp(t)
	cookie := app.login(t, "Hilal")

	w := app.do(t, http.MethodGet, "/records/orders/export.csv", nil, cookie)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRecords_ShowsBothStores(t *testing.T) {
	app := newTestApp(t)
	cookie := app.login(t, "Hilal")

	w := app.do(t, http.MethodGet, "/records", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Saved inventory records (0)")
	assert.Contains(t, body, "Saved feedback records (0)")
}

func TestLogout_DropsSession(t *testing.T) {
	app := newTestApp(t)
	cookie := app.login(t, "Hilal")
	require.Equal(t, 1, app.registry.Len())

	w := app.do(t, http.MethodPost, "/logout", nil, cookie)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
	assert.Equal(t, 0, app.registry.Len())

	w = app.do(t, http.MethodGet, "/dashboard", nil, cookie)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestHealthz(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, http.MethodGet, "/healthz", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}
