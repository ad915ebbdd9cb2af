package http

import (
	"net/http"

	"github.com/datadash-io/datadash/internal/dash/domain"
	"github.com/datadash-io/datadash/internal/dash/service"
	"github.com/datadash-io/datadash/pkg/httpx"
)

type AuthHandler struct {
	AuthService    *service.AuthService
	AccountService *service.AccountService
}

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Message string         `json:"message"`
	Token   string         `json:"token"`
	User    domain.Account `json:"user"`
}

// HandleSignup registers a new account with the "user" role. The response
// carries no session token; the client logs in afterwards.
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if _, err := h.AuthService.Signup(r.Context(), req.Email, req.Password); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, map[string]string{
		"message": "user registered successfully",
	})
}

// HandleLogin verifies credentials and mints a session token. The account in
// the response never includes the password hash.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	acct, token, err := h.AuthService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	// Return the account with its data entries, as every other user-shaped
	// response does.
	acct, err = h.AccountService.GetAccount(r.Context(), acct.ID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, loginResponse{
		Message: "login successful",
		Token:   token,
		User:    acct,
	})
}
