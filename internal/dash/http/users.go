package http

import (
	"net/http"

	"github.com/datadash-io/datadash/internal/dash/domain"
	"github.com/datadash-io/datadash/internal/dash/service"
	"github.com/datadash-io/datadash/pkg/httpx"
)

type UsersHandler struct {
	AccountService *service.AccountService
}

type createUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type createUserResponse struct {
	Message           string         `json:"message"`
	User              domain.Account `json:"user"`
	TemporaryPassword string         `json:"temporary_password"`
}

type updateUserRequest struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

type appendDataRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type userResponse struct {
	Message string         `json:"message"`
	User    domain.Account `json:"user"`
}

// HandleList returns every account with its data entries.
func (h *UsersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.AccountService.ListAccounts(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, accounts)
}

// HandleCreate provisions an account on behalf of an admin. The generated
// temporary password appears in this response and nowhere else.
func (h *UsersHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	acct, tempPassword, err := h.AccountService.CreateAccount(r.Context(), req.Name, req.Email, req.Role)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	acct.UploadedData = []domain.DataEntry{}

	httpx.WriteJSON(w, http.StatusCreated, createUserResponse{
		Message:           "user created successfully",
		User:              acct,
		TemporaryPassword: tempPassword,
	})
}

// HandleUpdate changes an account's name or role. Absent fields are left
// unchanged.
func (h *UsersHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateUserRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	acct, err := h.AccountService.UpdateAccount(r.Context(), r.PathValue("id"), req.Name, req.Role)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, userResponse{
		Message: "user updated successfully",
		User:    acct,
	})
}

// HandleDelete removes an account and everything it owns.
func (h *UsersHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.AccountService.DeleteAccount(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "user deleted successfully",
	})
}

// HandleAppendData adds a data entry to the account and returns the updated
// account.
func (h *UsersHandler) HandleAppendData(w http.ResponseWriter, r *http.Request) {
	var req appendDataRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	acct, err := h.AccountService.AppendEntry(r.Context(), r.PathValue("id"), req.Title, req.Content)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, userResponse{
		Message: "data uploaded successfully",
		User:    acct,
	})
}

// HandleDeleteData removes one data entry. Unknown entry ids still return the
// current account unchanged.
func (h *UsersHandler) HandleDeleteData(w http.ResponseWriter, r *http.Request) {
	acct, err := h.AccountService.DeleteEntry(r.Context(), r.PathValue("id"), r.PathValue("dataId"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, userResponse{
		Message: "data deleted successfully",
		User:    acct,
	})
}
