package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"restaurant/internal/config"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	adminEmail    = "admin@example.com"
	adminPassword = "correct-horse-battery"
)

type TestClient struct {
	BaseURL string
	HTTP    *http.Client
	Lang    string
}

func newTestClient(t *testing.T, baseURL string) *TestClient {
	t.Helper()

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &TestClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP: &http.Client{
			Jar:     jar,
			Timeout: 10 * time.Second,
		},
	}
}

type ErrorResponse struct {
	Message string `json:"message"`
}

type JwtAccessToken struct {
	AccessToken  string `json:"access_token"`
	ExpiresIn    int64  `json:"expires_in"`
	TokenVersion int64  `json:"token_version"`
}

type UserDTO struct {
	ID    string `json:"_id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type AuthLoginResponse struct {
	User  UserDTO        `json:"user"`
	Token JwtAccessToken `json:"token"`
}

type idDTO struct {
	ID string `json:"_id"`
}

type stockDTO struct {
	Stock decimal.Decimal `json:"stock"`
}

func (c *TestClient) doJSON(t *testing.T, method string, path string, bearer string, body any) (*http.Response, []byte) {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, c.BaseURL+path, reqBody)
	require.NoError(t, err)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	if c.Lang != "" {
		req.Header.Set("Accept-Language", c.Lang)
	}

	resp, err := c.HTTP.Do(req)
	require.NoError(t, err)

	defer func() { _ = resp.Body.Close() }()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp, data
}

func requireStatus(t *testing.T, resp *http.Response, want int, body []byte) {
	t.Helper()
	if resp.StatusCode != want {
		t.Fatalf("status=%d want=%d body=%s", resp.StatusCode, want, string(body))
	}
}

func mustDecode[T any](t *testing.T, body []byte) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(body, &v); err != nil {
		t.Fatalf("json.Unmarshal failed: %v body=%s", err, string(body))
	}
	return v
}

func login(t *testing.T, c *TestClient, email string, password string) string {
	t.Helper()

	resp, body := c.doJSON(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	requireStatus(t, resp, http.StatusOK, body)

	out := mustDecode[AuthLoginResponse](t, body)
	require.NotEmpty(t, out.Token.AccessToken)
	return out.Token.AccessToken
}

func newTestServer(t *testing.T) string {
	t.Helper()

	cfg := config.Config{
		Port:            "0",
		StorageDriver:   config.DriverMemory,
		JWTSecret:       "test-secret",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: time.Hour,
		GoEnv:           "dev",
		DefaultLanguage: "en",
		AdminEmail:      adminEmail,
		AdminPassword:   adminPassword,
	}

	srv, closeStorage, err := newApp(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		ts.Close()
		closeStorage()
	})
	return ts.URL
}

func TestE2E_OrderFlow(t *testing.T) {
	baseURL := newTestServer(t)

	admin := newTestClient(t, baseURL)
	adminToken := login(t, admin, adminEmail, adminPassword)

	//材料と入荷
	resp, body := admin.doJSON(t, http.MethodPost, "/material", adminToken, map[string]any{
		"name": "Flour", "unit": "kg",
	})
	requireStatus(t, resp, http.StatusCreated, body)
	flour := mustDecode[idDTO](t, body)

	resp, body = admin.doJSON(t, http.MethodPost, "/inventory", adminToken, map[string]any{
		"name": "flour", "quantity": 100, "message": "delivery",
	})
	requireStatus(t, resp, http.StatusCreated, body)

	//料理（1個で30使う）
	resp, body = admin.doJSON(t, http.MethodPost, "/food", adminToken, map[string]any{
		"name":      "Bread",
		"price":     2.5,
		"materials": []map[string]any{{"materialId": flour.ID, "quantity": 30}},
	})
	requireStatus(t, resp, http.StatusCreated, body)
	bread := mustDecode[idDTO](t, body)

	//一般ユーザー
	user := newTestClient(t, baseURL)
	resp, body = user.doJSON(t, http.MethodPost, "/auth/register", "", map[string]string{
		"email": "user@example.com", "name": "User", "password": "another-long-pass",
	})
	requireStatus(t, resp, http.StatusCreated, body)
	userToken := login(t, user, "user@example.com", "another-long-pass")

	resp, body = user.doJSON(t, http.MethodPost, "/order", userToken, map[string]any{
		"orderedProducts": []map[string]any{{"_id": bread.ID, "quantity": 3}},
	})
	requireStatus(t, resp, http.StatusCreated, body)
	order := mustDecode[idDTO](t, body)

	//残り10なので1個も作れない
	resp, body = user.doJSON(t, http.MethodPost, "/order", userToken, map[string]any{
		"orderedProducts": []map[string]any{{"_id": bread.ID, "quantity": 1}},
	})
	requireStatus(t, resp, http.StatusBadRequest, body)
	assert.Equal(t, "There is not enough Flour in stock!", mustDecode[ErrorResponse](t, body).Message)

	user.Lang = "hu-HU,hu;q=0.9"
	resp, body = user.doJSON(t, http.MethodPost, "/order", userToken, map[string]any{
		"orderedProducts": []map[string]any{{"_id": bread.ID, "quantity": 1}},
	})
	requireStatus(t, resp, http.StatusBadRequest, body)
	assert.Equal(t, "Nincs elég Flour raktáron!", mustDecode[ErrorResponse](t, body).Message)

	//失敗した注文は在庫に残らない
	resp, body = admin.doJSON(t, http.MethodGet, "/inventory/stock/"+flour.ID, adminToken, nil)
	requireStatus(t, resp, http.StatusOK, body)
	assert.True(t, mustDecode[stockDTO](t, body).Stock.Equal(decimal.NewFromInt(10)))

	//キッチン完了はADMINだけ、2回目は400
	resp, body = user.doJSON(t, http.MethodPatch, "/order/finish/"+order.ID, userToken, nil)
	requireStatus(t, resp, http.StatusForbidden, body)

	resp, body = admin.doJSON(t, http.MethodPatch, "/order/finish/"+order.ID, adminToken, nil)
	requireStatus(t, resp, http.StatusOK, body)

	resp, body = admin.doJSON(t, http.MethodPatch, "/order/finish/"+order.ID, adminToken, nil)
	requireStatus(t, resp, http.StatusBadRequest, body)
	assert.Equal(t, "The order is already cooked!", mustDecode[ErrorResponse](t, body).Message)

	resp, body = admin.doJSON(t, http.MethodPatch, "/order/finish/revert/"+order.ID, adminToken, nil)
	requireStatus(t, resp, http.StatusOK, body)
}

func TestE2E_AuthAndRouting(t *testing.T) {
	baseURL := newTestServer(t)
	c := newTestClient(t, baseURL)

	resp, body := c.doJSON(t, http.MethodGet, "/health", "", nil)
	requireStatus(t, resp, http.StatusOK, body)

	resp, body = c.doJSON(t, http.MethodGet, "/nope", "", nil)
	requireStatus(t, resp, http.StatusNotFound, body)
	assert.Equal(t, "The requested resource does not exist!", mustDecode[ErrorResponse](t, body).Message)

	//トークンなし
	resp, body = c.doJSON(t, http.MethodPost, "/order", "", map[string]any{})
	requireStatus(t, resp, http.StatusUnauthorized, body)
	assert.Equal(t, "Authentication required!", mustDecode[ErrorResponse](t, body).Message)

	//ログイン→cookieでrefresh→logout後はrefreshできない
	login(t, c, adminEmail, adminPassword)

	resp, body = c.doJSON(t, http.MethodPost, "/auth/refresh", "", nil)
	requireStatus(t, resp, http.StatusOK, body)
	assert.NotEmpty(t, mustDecode[JwtAccessToken](t, body).AccessToken)

	resp, body = c.doJSON(t, http.MethodPost, "/auth/logout", "", nil)
	requireStatus(t, resp, http.StatusNoContent, body)

	resp, body = c.doJSON(t, http.MethodPost, "/auth/refresh", "", nil)
	requireStatus(t, resp, http.StatusUnauthorized, body)
}
