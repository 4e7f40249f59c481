// Package httpadapter exposes the JSON HTTP API of the service.
package httpadapter

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/cors"

	"github.com/small-engineer/go-product-serv/internal/usecase/auth"
	"github.com/small-engineer/go-product-serv/internal/usecase/product"
)

const tokenTTL = 1 * time.Hour

type Server struct {
	log      *slog.Logger
	auth     *auth.Service
	products *product.Service
	key      []byte
	origin   string
}

type jwtClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

func NewServer(log *slog.Logger, a *auth.Service, p *product.Service, secret, origin string) *Server {
	return &Server{
		log:      log,
		auth:     a,
		products: p,
		key:      []byte(secret),
		origin:   origin,
	}
}

// Routes builds the handler chain: mux, CORS for the configured origin, then
// recovery, logging and request-id middleware outermost.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /register", s.handleRegister)
	mux.HandleFunc("POST /login", s.handleLogin)
	mux.Handle("POST /products", s.requireAuth(http.HandlerFunc(s.handleCreateProduct)))
	mux.Handle("GET /products", s.requireAuth(http.HandlerFunc(s.handleListProducts)))
	mux.Handle("PUT /products/{id}", s.requireAuth(http.HandlerFunc(s.handleUpdateProduct)))
	mux.Handle("DELETE /products/{id}", s.requireAuth(http.HandlerFunc(s.handleDeleteProduct)))
	mux.HandleFunc("GET /healthz", s.handleHealthz)

	c := cors.New(cors.Options{
		AllowedOrigins: []string{s.origin},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	})

	var h http.Handler = mux
	h = c.Handler(h)
	h = s.withRecovery(h)
	h = s.withLogging(h)
	h = withRequestID(h)
	return h
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) issueToken(username string) (string, error) {
	exp := time.Now().Add(tokenTTL)

	cl := jwtClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			Subject:   username,
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, cl)
	v, err := tok.SignedString(s.key)
	if err != nil {
		return "", err
	}
	return v, nil
}

func (s *Server) parseToken(tok string) (*jwtClaims, error) {
	p, err := jwt.ParseWithClaims(tok, &jwtClaims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Method.Alg())
		}
		return s.key, nil
	})
	if err != nil {
		return nil, err
	}
	cl, ok := p.Claims.(*jwtClaims)
	if !ok || !p.Valid {
		return nil, errors.New("invalid token")
	}
	return cl, nil
}
