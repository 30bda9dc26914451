package app

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"linktree_backend/internal/config"
	"linktree_backend/internal/database/dbtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testApp struct {
	server *httptest.Server
	client *http.Client
	mail   *MockEmailProvider
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	cfg := config.Default()
	cfg.Server.Env = config.EnvTest
	cfg.Session.Secret = "test-secret"
	cfg.Public.EmailDomain = "x.com"
	cfg.Auth.BcryptCost = 4

	mail := NewMockEmailProvider()
	db := dbtest.Open(t)
	server := httptest.NewServer(SetupRouter(cfg, db, NewServiceContainer(cfg, mail)))
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &testApp{
		server: server,
		mail:   mail,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func (a *testApp) get(t *testing.T, path string) (*http.Response, map[string]interface{}) {
	t.Helper()
	resp, err := a.client.Get(a.server.URL + path)
	require.NoError(t, err)
	return resp, decode(t, resp)
}

func (a *testApp) postJSON(t *testing.T, path, body string) (*http.Response, map[string]interface{}) {
	t.Helper()
	resp, err := a.client.Post(a.server.URL+path, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	return resp, decode(t, resp)
}

func decode(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	body := map[string]interface{}{}
	if len(raw) > 0 && strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(raw, &body), string(raw))
	}
	body["_raw"] = string(raw)
	return body
}

func errorCode(body map[string]interface{}) string {
	errObj, _ := body["error"].(map[string]interface{})
	code, _ := errObj["code"].(string)
	return code
}

// verificationPath turns the mailed link into a path on the test server
func (a *testApp) verificationPath(t *testing.T, addr string) string {
	t.Helper()
	raw, ok := a.mail.LastVerificationURL(addr)
	require.True(t, ok)
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u.RequestURI()
}

func TestEndToEnd_PublishAndUnpublish(t *testing.T) {
	a := newTestApp(t)

	resp, body := a.postJSON(t, "/register", `{"email":"a@x.com","password":"pw"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, body["_raw"])
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
	assert.Equal(t, "DENY", resp.Header.Get("X-Frame-Options"))

	verifyPath := a.verificationPath(t, "a@x.com")
	assert.True(t, strings.HasPrefix(verifyPath, "/verify?code="))

	resp, body = a.get(t, verifyPath)
	require.Equal(t, http.StatusOK, resp.StatusCode, body["_raw"])
	assert.Equal(t, "/dashboard", body["redirect"])

	resp, body = a.get(t, "/dashboard")
	require.Equal(t, http.StatusOK, resp.StatusCode, body["_raw"])
	assert.Equal(t, "a@x.com", body["email"])

	resp, body = a.postJSON(t, "/add-link", `{"platform":"twitter","url":"https://twitter.com/a"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, body["_raw"])
	link := body["link"].(map[string]interface{})
	linkID := link["id"].(float64)

	resp, body = a.get(t, "/a")
	require.Equal(t, http.StatusOK, resp.StatusCode, body["_raw"])
	links := body["links"].([]interface{})
	require.Len(t, links, 1)
	assert.Equal(t, "twitter", links[0].(map[string]interface{})["platform"])
	assert.NotContains(t, body["_raw"], "a@x.com")
	assert.NotContains(t, body["_raw"], "password")
	assert.NotContains(t, body["_raw"], "user_id")

	resp, body = a.postJSON(t, "/delete-link", `{"id":`+jsonNumber(linkID)+`}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, body["_raw"])

	resp, body = a.get(t, "/a")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", errorCode(body))
}

func TestEndToEnd_AuthErrors(t *testing.T) {
	a := newTestApp(t)

	resp, _ := a.postJSON(t, "/register", `{"email":"a@x.com","password":"pw"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := a.postJSON(t, "/register", `{"email":"a@x.com","password":"other"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "DUPLICATE_EMAIL", errorCode(body))

	resp, body = a.postJSON(t, "/login", `{"email":"a@x.com","password":"pw"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_CREDENTIALS", errorCode(body))
	assert.Contains(t, body["_raw"], "Please verify your email first")

	resp, body = a.postJSON(t, "/register", `{"email":"not-an-email","password":"pw"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(body))

	resp, body = a.get(t, "/verify?code=nope")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_TOKEN", errorCode(body))

	resp, _ = a.get(t, "/verify")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/create", resp.Header.Get("Location"))

	verifyPath := a.verificationPath(t, "a@x.com")
	resp, _ = a.get(t, verifyPath)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, body = a.get(t, verifyPath)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_TOKEN", errorCode(body))
}

func TestEndToEnd_SessionGate(t *testing.T) {
	a := newTestApp(t)

	resp, body := a.postJSON(t, "/add-link", `{"platform":"twitter","url":"u"}`)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", errorCode(body))

	resp, _ = a.get(t, "/dashboard")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/create", resp.Header.Get("Location"))

	resp, body = a.get(t, "/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, body["authenticated"])

	// register, verify, log out, then log back in with a form post
	resp, _ = a.postJSON(t, "/register", `{"email":"b@x.com","password":"pw"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = a.get(t, a.verificationPath(t, "b@x.com"))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = a.get(t, "/")
	assert.Equal(t, true, body["authenticated"])
	assert.Equal(t, "b@x.com", body["email"])

	resp, _ = a.get(t, "/create")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/dashboard", resp.Header.Get("Location"))

	resp, _ = a.get(t, "/logout")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	resp, _ = a.get(t, "/dashboard")
	assert.Equal(t, http.StatusFound, resp.StatusCode)

	resp, err := a.client.PostForm(a.server.URL+"/login", url.Values{"email": {"b@x.com"}, "password": {"pw"}})
	require.NoError(t, err)
	body = decode(t, resp)
	require.Equal(t, http.StatusOK, resp.StatusCode, body["_raw"])
	assert.Equal(t, "/dashboard", body["redirect"])

	resp, body = a.postJSON(t, "/update-profile", `{"displayName":"Bee","bio":"hello","themeColor":"#000000"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, body["_raw"])

	resp, body = a.get(t, "/dashboard")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	profile := body["profile"].(map[string]interface{})
	assert.Equal(t, "Bee", profile["display_name"])
	assert.Equal(t, "#000000", profile["theme_color"])
}

func TestEndToEnd_DeleteLinkIsOwnerScoped(t *testing.T) {
	a := newTestApp(t)

	resp, _ := a.postJSON(t, "/register", `{"email":"a@x.com","password":"pw"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = a.get(t, a.verificationPath(t, "a@x.com"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, body := a.postJSON(t, "/add-link", `{"platform":"github","url":"https://github.com/a"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, body["_raw"])
	linkID := body["link"].(map[string]interface{})["id"].(float64)

	resp, _ = a.get(t, "/logout")
	require.Equal(t, http.StatusFound, resp.StatusCode)

	resp, _ = a.postJSON(t, "/register", `{"email":"b@x.com","password":"pw"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = a.get(t, a.verificationPath(t, "b@x.com"))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	for _, payload := range []string{`{"id":0}`, `{}`, `{"id":` + jsonNumber(linkID) + `}`} {
		resp, body = a.postJSON(t, "/delete-link", payload)
		assert.Equal(t, http.StatusOK, resp.StatusCode, payload, body["_raw"])
		assert.Equal(t, true, body["success"], payload)
	}

	resp, body = a.postJSON(t, "/delete-link", `{"id":"5"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.NotContains(t, body["_raw"], "unmarshal")
	assert.NotContains(t, body["_raw"], "DeleteLinkRequest")

	resp, body = a.get(t, "/a")
	require.Equal(t, http.StatusOK, resp.StatusCode, body["_raw"])
	assert.Len(t, body["links"].([]interface{}), 1)
}

func TestEndToEnd_LoginReplacesExistingSession(t *testing.T) {
	a := newTestApp(t)

	resp, _ := a.postJSON(t, "/register", `{"email":"a@x.com","password":"pw"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = a.get(t, a.verificationPath(t, "a@x.com"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	first := a.sessionCookie(t)

	resp, body := a.postJSON(t, "/login", `{"email":"a@x.com","password":"pw"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, body["_raw"])
	second := a.sessionCookie(t)
	assert.NotEqual(t, first.Value, second.Value)

	// the replaced cookie no longer authenticates
	req, err := http.NewRequest(http.MethodPost, a.server.URL+"/add-link",
		strings.NewReader(`{"platform":"twitter","url":"u"}`))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(first)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	body = decode(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, body["_raw"])

	resp, body = a.get(t, "/dashboard")
	assert.Equal(t, http.StatusOK, resp.StatusCode, body["_raw"])
}

func TestHealthz(t *testing.T) {
	a := newTestApp(t)

	resp, body := a.get(t, "/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
}

// sessionCookie returns the single cookie the jar holds for the test server
func (a *testApp) sessionCookie(t *testing.T) *http.Cookie {
	t.Helper()
	u, err := url.Parse(a.server.URL)
	require.NoError(t, err)
	cookies := a.client.Jar.Cookies(u)
	require.Len(t, cookies, 1)
	return cookies[0]
}

func jsonNumber(f float64) string {
	raw, _ := json.Marshal(f)
	return string(raw)
}
