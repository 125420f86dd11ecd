package formapi

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"
	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talkincode/productform/config"
	"github.com/talkincode/productform/internal/domain"
	"github.com/talkincode/productform/internal/imagehost"
	formsession "github.com/talkincode/productform/internal/session"
	"github.com/talkincode/productform/internal/webserver"
)

type testClient struct {
	t       *testing.T
	e       *echo.Echo
	cookies []*http.Cookie
}

// testApp carries just what the handlers read from the application.
type testApp struct {
	cfg       *config.AppConfig
	store     *formsession.Store
	allowlist *imagehost.Allowlist
}

func (a *testApp) Config() *config.AppConfig { return a.cfg }
func (a *testApp) Store() *formsession.Store { return a.store }
func (a *testApp) Scheduler() *cron.Cron { return nil }
func (a *testApp) Allowlist() *imagehost.Allowlist { return a.allowlist }
func (a *testApp) SweepSessions() int { return a.store.Sweep() }

type apiResponse struct {
	Code string       `json:"code"`
	Data formSnapshot `json:"data"`
}

func newTestServer(t *testing.T) (*echo.Echo, *formsession.Store) {
	t.Helper()
	return newTestServerTTL(t, time.Hour)
}

func newTestServerTTL(t *testing.T, ttl time.Duration) (*echo.Echo, *formsession.Store) {
	t.Helper()
	e, a := newTestApp(t, config.DefaultAppConfig(), ttl)
	return e, a.store
}

func newTestApp(t *testing.T, cfg *config.AppConfig, ttl time.Duration) (*echo.Echo, *testApp) {
	t.Helper()
	ws := webserver.Init(cfg)
	store, err := formsession.NewStore(1, ttl, nil)
	require.NoError(t, err)
	a := &testApp{cfg: cfg, store: store, allowlist: imagehost.NewAllowlist(cfg.Images.RemotePatterns)}
	require.NoError(t, Init(a))
	return ws.Echo(), a
}

func (cl *testClient) do(method, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	cl.t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	for _, ck := range cl.cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	cl.e.ServeHTTP(rec, req)
	if cks := rec.Result().Cookies(); len(cks) > 0 {
		cl.cookies = cks
	}
	return rec
}

func (cl *testClient) api(method, path, body string) (int, apiResponse) {
	cl.t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	rec := cl.do(method, "/api/v1"+path, r, echo.MIMEApplicationJSON)
	var resp apiResponse
	require.NoError(cl.t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return rec.Code, resp
}

func (cl *testClient) post(path string, values url.Values) *httptest.ResponseRecorder {
	cl.t.Helper()
	return cl.do(http.MethodPost, path, strings.NewReader(values.Encode()), echo.MIMEApplicationForm)
}

func TestApiItineraryScenario(t *testing.T) {
	e, _ := newTestServer(t)
	cl := &testClient{t: t, e: e}

	status, resp := cl.api(http.MethodGet, "/form", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "SUCCESS", resp.Code)
	assert.Equal(t, domain.NewProductRecord(), resp.Data.Record)

	cl.api(http.MethodPatch, "/form/fields", `{"field":"productName","value":"Acme Cruise"}`)
	cl.api(http.MethodPatch, "/form/fields", `{"field":"productType","value":"Cruise"}`)
	cl.api(http.MethodPost, "/form/days", "")
	cl.api(http.MethodPost, "/form/days", "")
	cl.api(http.MethodPatch, "/form/days/2", `{"field":"icon","value":"accommodation"}`)
	status, resp = cl.api(http.MethodPatch, "/form/days/1", `{"field":"content","value":"Embark"}`)
	require.Equal(t, http.StatusOK, status)

	out := resp.Data.Output
	assert.Contains(t, out, `"productName": "Acme Cruise"`)
	assert.Contains(t, out, `"productType": "Cruise"`)
	assert.Contains(t, out, `"content": "Embark"`)
	require.Equal(t, 2, resp.Data.Record.DayCount())

	status, resp = cl.api(http.MethodDelete, "/form/days/1", "")
	require.Equal(t, http.StatusOK, status)
	days := resp.Data.Record.ProductItinerary.Itineraries
	require.Len(t, days, 1)
	assert.Equal(t, domain.DayEntry{Day: 1, Icon: "accommodation"}, days[0])
}

func TestApiRejectsUnknownFields(t *testing.T) {
	e, _ := newTestServer(t)
	cl := &testClient{t: t, e: e}

	status, resp := cl.api(http.MethodPatch, "/form/fields", `{"field":"productInclusions","value":"x"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_FIELD", resp.Code)

	status, resp = cl.api(http.MethodPatch, "/form/itinerary", `{"field":"itineraries","value":"x"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_FIELD", resp.Code)

	status, resp = cl.api(http.MethodPatch, "/form/days/1", `{"field":"colour","value":"x"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_FIELD", resp.Code)
}

func TestApiUnmatchedDayIsNoop(t *testing.T) {
	e, _ := newTestServer(t)
	cl := &testClient{t: t, e: e}
	_, before := cl.api(http.MethodPost, "/form/days", "")

	status, resp := cl.api(http.MethodPatch, "/form/days/7", `{"field":"content","value":"x"}`)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, before.Data.Output, resp.Data.Output)

	status, resp = cl.api(http.MethodPatch, "/form/days/one", `{"field":"content","value":"x"}`)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, before.Data.Output, resp.Data.Output)

	status, resp = cl.api(http.MethodDelete, "/form/days/one", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, before.Data.Output, resp.Data.Output)
}

func TestApiFillThenReset(t *testing.T) {
	e, _ := newTestServer(t)
	cl := &testClient{t: t, e: e}

	_, resp := cl.api(http.MethodPost, "/form/fill", "")
	assert.Equal(t, domain.DemoProductRecord(), resp.Data.Record)

	_, resp = cl.api(http.MethodPost, "/form/reset", "")
	assert.Equal(t, domain.NewProductRecord(), resp.Data.Record)

	_, again := cl.api(http.MethodPost, "/form/generate", "")
	assert.Equal(t, resp.Data.Output, again.Data.Output)
}

func TestSessionsDoNotShareState(t *testing.T) {
	e, store := newTestServer(t)
	alice := &testClient{t: t, e: e}
	bob := &testClient{t: t, e: e}

	alice.api(http.MethodPatch, "/form/fields", `{"field":"productName","value":"Alice"}`)
	_, resp := bob.api(http.MethodGet, "/form", "")
	assert.Empty(t, resp.Data.Record.ProductName)

	_, resp = alice.api(http.MethodGet, "/form", "")
	assert.Equal(t, "Alice", resp.Data.Record.ProductName)
	assert.Equal(t, 2, store.Len())
}

func TestExpiredSessionStartsOver(t *testing.T) {
	e, store := newTestServerTTL(t, time.Millisecond)
	cl := &testClient{t: t, e: e}
	cl.api(http.MethodPatch, "/form/fields", `{"field":"productName","value":"gone soon"}`)
	require.Equal(t, 1, store.Len())

	time.Sleep(5 * time.Millisecond)
	require.Equal(t, 1, store.Sweep())

	_, resp := cl.api(http.MethodGet, "/form", "")
	assert.Empty(t, resp.Data.Record.ProductName)
	assert.Equal(t, 1, store.Len())
}

func TestSessionCookieRefreshedOnEveryRequest(t *testing.T) {
	e, _ := newTestServer(t)
	cl := &testClient{t: t, e: e}
	cl.do(http.MethodGet, "/", nil, "")
	require.Len(t, cl.cookies, 1)
	first := cl.cookies[0]

	for _, rec := range []*httptest.ResponseRecorder{
		cl.do(http.MethodGet, "/", nil, ""),
		cl.post("/form", url.Values{"productName": {"Acme"}}),
		cl.do(http.MethodGet, "/api/v1/form", nil, ""),
	} {
		cks := rec.Result().Cookies()
		require.Len(t, cks, 1)
		assert.Equal(t, first.Name, cks[0].Name)
		assert.Equal(t, 3600, cks[0].MaxAge)
	}

	_, resp := cl.api(http.MethodGet, "/form", "")
	assert.Equal(t, "Acme", resp.Data.Record.ProductName, "refreshing keeps the same session")
}

func TestCookieSignedWithOtherSecretIsRejected(t *testing.T) {
	cfg := config.DefaultAppConfig()
	e, a := newTestApp(t, cfg, time.Hour)
	victim := &testClient{t: t, e: e}
	victim.api(http.MethodPatch, "/form/fields", `{"field":"productName","value":"Alice private"}`)

	// recover the victim's session ID with the server's own key
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, ck := range victim.cookies {
		req.AddCookie(ck)
	}
	sess, err := sessions.NewCookieStore([]byte(cfg.Web.Secret)).Get(req, cfg.Session.CookieName)
	require.NoError(t, err)
	sid, _ := sess.Values[sessionIDKey].(string)
	require.True(t, a.store.Exists(sid))

	forger := sessions.NewCookieStore([]byte(config.DefaultAppConfig().Web.Secret))
	forged, err := forger.New(httptest.NewRequest(http.MethodGet, "/", nil), cfg.Session.CookieName)
	require.NoError(t, err)
	forged.Values[sessionIDKey] = sid
	rec := httptest.NewRecorder()
	require.NoError(t, forger.Save(httptest.NewRequest(http.MethodGet, "/", nil), rec, forged))

	attacker := &testClient{t: t, e: e, cookies: rec.Result().Cookies()}
	_, resp := attacker.api(http.MethodGet, "/form", "")
	assert.Empty(t, resp.Data.Record.ProductName)
	assert.Equal(t, 2, a.store.Len())
}
