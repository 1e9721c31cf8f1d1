package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/warbler-app/warbler/config"
	"github.com/warbler-app/warbler/models"
	"github.com/warbler-app/warbler/monitoring"
	"github.com/warbler-app/warbler/utils"
)

const testJWTSecret = "test-jwt-secret"

func init() {
	gin.SetMode(gin.TestMode)
	models.PasswordCost = bcrypt.MinCost
}

type testApp struct {
	server *httptest.Server
	db     *gorm.DB
}

// memoryImages is an ImageStore that keeps uploads in memory.
type memoryImages struct {
	keys []string
}

func (m *memoryImages) Put(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	if _, err := io.ReadAll(body); err != nil {
		return "", err
	}
	m.keys = append(m.keys, key)
	return "https://cdn.test/" + key, nil
}

// newTestApp serves the full router over a fresh SQLite database.
func newTestApp(t *testing.T, configure ...func(*Options)) *testApp {
	t.Helper()

	db, err := config.ConnectDatabase(config.DriverSQLite, filepath.Join(t.TempDir(), "warbler.db")+"?_foreign_keys=on")
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	opts := Options{
		DB:        db,
		Store:     utils.NewStore("test-secret"),
		JWTSecret: testJWTSecret,
		StaticDir: "../static",
	}
	for _, f := range configure {
		f(&opts)
	}

	r := gin.New()
	r.Use(gin.Recovery(), monitoring.Instrument())
	require.NoError(t, SetupRoutes(r, opts))

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)

	return &testApp{server: server, db: db}
}

// Client with cookie jar; follows redirects automatically
func newClient() *http.Client {
	jar, _ := cookiejar.New(nil)
	return &http.Client{Jar: jar}
}

// noRedirect shares c's cookies but stops at the first response.
func noRedirect(c *http.Client) *http.Client {
	return &http.Client{
		Jar: c.Jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func (a *testApp) get(t *testing.T, c *http.Client, path string) (*http.Response, string) {
	t.Helper()
	resp, err := c.Get(a.server.URL + path)
	require.NoError(t, err)
	return resp, readBody(t, resp)
}

func (a *testApp) post(t *testing.T, c *http.Client, path string, form url.Values) (*http.Response, string) {
	t.Helper()
	resp, err := c.PostForm(a.server.URL+path, form)
	require.NoError(t, err)
	return resp, readBody(t, resp)
}

func (a *testApp) postJSON(t *testing.T, path, token string, payload interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPost, a.server.URL+path, bytes.NewReader(raw))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return a.doJSON(t, req)
}

func (a *testApp) getJSON(t *testing.T, path, token string) (*http.Response, map[string]interface{}) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, a.server.URL+path, nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return a.doJSON(t, req)
}

func (a *testApp) doJSON(t *testing.T, req *http.Request) (*http.Response, map[string]interface{}) {
	t.Helper()
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(readBody(t, resp)), &out))
	return resp, out
}

func (a *testApp) createUser(t *testing.T, username string) *models.User {
	t.Helper()
	u, err := models.Signup(a.db, username, username+"@test.com", "password", "")
	require.NoError(t, err)
	return u
}

func (a *testApp) createMessage(t *testing.T, user *models.User, text string) *models.Message {
	t.Helper()
	msg := &models.Message{Text: text, UserID: user.ID}
	require.NoError(t, a.db.Create(msg).Error)
	return msg
}

// login logs c in as username (password "password") and returns the landing page.
func (a *testApp) login(t *testing.T, c *http.Client, username string) string {
	t.Helper()
	resp, body := a.post(t, c, "/login", url.Values{"username": {username}, "password": {"password"}})
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	return body
}

func (a *testApp) count(t *testing.T, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, a.db.Model(model).Count(&n).Error)
	return n
}
