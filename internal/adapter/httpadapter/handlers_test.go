package httpadapter

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/small-engineer/go-product-serv/internal/domain"
	"github.com/small-engineer/go-product-serv/internal/infra/mem"
	"github.com/small-engineer/go-product-serv/internal/usecase/auth"
	"github.com/small-engineer/go-product-serv/internal/usecase/product"
)

const (
	testSecret = "test-secret"
	testOrigin = "http://localhost:3000"
)

func setupServer(t *testing.T) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	authSvc := auth.NewService(mem.NewUserRepo())
	prodSvc := product.NewService(mem.NewProductRepo())
	s := NewServer(logger, authSvc, prodSvc, testSecret, testOrigin)
	return s.Routes()
}

func doJSON(t *testing.T, h http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func message(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var m jsonMessage
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &m))
	return m.Message
}

func registerAndLogin(t *testing.T, h http.Handler, username, password string) string {
	t.Helper()
	body := `{"username":"` + username + `","password":"` + password + `"}`
	rr := doJSON(t, h, http.MethodPost, "/register", "", body)
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = doJSON(t, h, http.MethodPost, "/login", "", body)
	require.Equal(t, http.StatusOK, rr.Code)
	var tok tokenResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &tok))
	require.NotEmpty(t, tok.Token)
	return tok.Token
}

func TestRegister(t *testing.T) {
	h := setupServer(t)

	rr := doJSON(t, h, http.MethodPost, "/register", "", `{"username":"alice","password":"secret1"}`)
	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "User created successfully!", message(t, rr))
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	rr = doJSON(t, h, http.MethodPost, "/register", "", `{"username":"alice","password":"another"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Username already exists", message(t, rr))
}

func TestRegisterMissingFields(t *testing.T) {
	h := setupServer(t)

	for _, body := range []string{
		`{"username":"alice"}`,
		`{"password":"secret1"}`,
		`{}`,
		`not json`,
	} {
		rr := doJSON(t, h, http.MethodPost, "/register", "", body)
		assert.Equal(t, http.StatusBadRequest, rr.Code, "body: %s", body)
		assert.Equal(t, "Username and password are required", message(t, rr))
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	h := setupServer(t)
	registerAndLogin(t, h, "alice", "secret1")

	// unknown user and wrong password return the exact same message
	for _, body := range []string{
		`{"username":"alice","password":"wrong"}`,
		`{"username":"nobody","password":"secret1"}`,
	} {
		rr := doJSON(t, h, http.MethodPost, "/login", "", body)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "Invalid credentials", message(t, rr))
	}
}

func TestTokenCarriesUsername(t *testing.T) {
	h := setupServer(t)
	tok := registerAndLogin(t, h, "alice", "secret1")

	cl := &jwtClaims{}
	_, err := jwt.ParseWithClaims(tok, cl, func(*jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", cl.Username)
	require.NotNil(t, cl.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(tokenTTL), cl.ExpiresAt.Time, time.Minute)
}

func TestProductCRUDFlow(t *testing.T) {
	h := setupServer(t)
	tok := registerAndLogin(t, h, "alice", "secret1")

	rr := doJSON(t, h, http.MethodPost, "/products", tok, `{"name":"Widget","price":9.99}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	var created domain.Product
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "Widget", created.Name)
	assert.Equal(t, 9.99, created.Price)

	rr = doJSON(t, h, http.MethodGet, "/products", tok, "")
	require.Equal(t, http.StatusOK, rr.Code)
	var listed []domain.Product
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, created, listed[0])

	rr = doJSON(t, h, http.MethodPut, "/products/"+string(created.ID), tok, `{"name":"Widget2","price":12.5}`)
	require.Equal(t, http.StatusOK, rr.Code)
	var updated domain.Product
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &updated))
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Widget2", updated.Name)
	assert.Equal(t, 12.5, updated.Price)

	rr = doJSON(t, h, http.MethodDelete, "/products/"+string(created.ID), tok, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Product deleted", message(t, rr))

	rr = doJSON(t, h, http.MethodGet, "/products", tok, "")
	require.Equal(t, http.StatusOK, rr.Code)
	listed = nil
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &listed))
	assert.Empty(t, listed)

	rr = doJSON(t, h, http.MethodDelete, "/products/"+string(created.ID), tok, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Product not found", message(t, rr))
}

func TestListProductsEmptyIsArray(t *testing.T) {
	h := setupServer(t)
	tok := registerAndLogin(t, h, "alice", "secret1")

	rr := doJSON(t, h, http.MethodGet, "/products", tok, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rr.Body.String()))
}

func TestCreateProductMissingFields(t *testing.T) {
	h := setupServer(t)
	tok := registerAndLogin(t, h, "alice", "secret1")

	for _, body := range []string{
		`{"name":"Widget"}`,
		`{"price":9.99}`,
		`{"name":"","price":9.99}`,
		`{"name":"Widget","price":0}`,
	} {
		rr := doJSON(t, h, http.MethodPost, "/products", tok, body)
		assert.Equal(t, http.StatusBadRequest, rr.Code, "body: %s", body)
		assert.Equal(t, "Name and price are required", message(t, rr))
	}
}

func TestUpdateProductMissingFields(t *testing.T) {
	h := setupServer(t)
	tok := registerAndLogin(t, h, "alice", "secret1")

	rr := doJSON(t, h, http.MethodPost, "/products", tok, `{"name":"Widget","price":9.99}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	var created domain.Product
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))

	rr = doJSON(t, h, http.MethodPut, "/products/"+string(created.ID), tok, `{"name":"Widget2"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Name and price are required", message(t, rr))

	// the rejected update must not have mutated the record
	rr = doJSON(t, h, http.MethodGet, "/products", tok, "")
	require.Equal(t, http.StatusOK, rr.Code)
	var listed []domain.Product
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, created, listed[0])
}

func TestUpdateProductNotFound(t *testing.T) {
	h := setupServer(t)
	tok := registerAndLogin(t, h, "alice", "secret1")

	rr := doJSON(t, h, http.MethodPut, "/products/unknown", tok, `{"name":"Widget","price":1}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Product not found", message(t, rr))
}

func TestAuthGate(t *testing.T) {
	h := setupServer(t)

	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"no header", "", "Token missing"},
		{"scheme only", "Bearer", "Token malformed"},
		{"empty segment", "Bearer ", "Token malformed"},
		{"garbled token", "Bearer not-a-jwt", "Invalid token"},
		{"expired token", "Bearer " + signedToken(t, testSecret, -time.Hour), "Invalid token"},
		{"wrong key", "Bearer " + signedToken(t, "other-secret", time.Hour), "Invalid token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/products", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)
			assert.Equal(t, http.StatusForbidden, rr.Code)
			assert.Equal(t, tt.want, message(t, rr))
		})
	}
}

func signedToken(t *testing.T, secret string, ttl time.Duration) string {
	t.Helper()
	cl := jwtClaims{
		Username: "alice",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			Subject:   "alice",
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, cl)
	v, err := tok.SignedString([]byte(secret))
	require.NoError(t, err)
	return v
}

func TestRegisterAndLoginNeedNoToken(t *testing.T) {
	h := setupServer(t)

	rr := doJSON(t, h, http.MethodPost, "/register", "", `{"username":"bob","password":"pw123456"}`)
	assert.Equal(t, http.StatusCreated, rr.Code)

	rr = doJSON(t, h, http.MethodPost, "/login", "", `{"username":"bob","password":"pw123456"}`)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestHealthz(t *testing.T) {
	h := setupServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}

func TestRequestIDEchoed(t *testing.T) {
	h := setupServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-Id", "req-42")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, "req-42", rr.Header().Get("X-Request-Id"))

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.NotEmpty(t, rr.Header().Get("X-Request-Id"))
}

func TestCORSPreflight(t *testing.T) {
	h := setupServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/products", nil)
	req.Header.Set("Origin", testOrigin)
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, testOrigin, rr.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/products", nil)
	req.Header.Set("Origin", "http://evil.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestRecoveryMiddleware(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := NewServer(logger, nil, nil, testSecret, testOrigin)

	panics := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})
	h := s.withRecovery(panics)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "Something went wrong!", message(t, rr))
}
