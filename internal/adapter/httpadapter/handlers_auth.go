package httpadapter

import (
	"errors"
	"net/http"

	"github.com/small-engineer/go-product-serv/internal/usecase/auth"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil || req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	ctx := r.Context()
	_, err := s.auth.Register(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrUserExists) {
			writeError(w, http.StatusBadRequest, "Username already exists")
			return
		}
		s.log.Error("register_failed",
			"error", err.Error(),
			"request_id", RequestIDFromContext(ctx),
		)
		writeError(w, http.StatusInternalServerError, "Failed to register user")
		return
	}

	writeJSON(w, http.StatusCreated, jsonMessage{Message: "User created successfully!"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil || req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	ctx := r.Context()
	u, err := s.auth.Login(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCred) {
			// unknown user and wrong password collapse into one message
			writeError(w, http.StatusBadRequest, "Invalid credentials")
			return
		}
		s.log.Error("login_failed",
			"error", err.Error(),
			"request_id", RequestIDFromContext(ctx),
		)
		writeError(w, http.StatusInternalServerError, "Failed to login")
		return
	}

	tok, err := s.issueToken(u.Username)
	if err != nil {
		s.log.Error("token_issue_failed",
			"error", err.Error(),
			"request_id", RequestIDFromContext(ctx),
		)
		writeError(w, http.StatusInternalServerError, "Failed to login")
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{Token: tok})
}
