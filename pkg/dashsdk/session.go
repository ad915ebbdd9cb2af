package dashsdk

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

// Session is an authenticated handle on the datadash API.
type Session struct {
	client *SDKClient
	token  string

	// User is the account as returned at login time. Not refreshed.
	User User
}

// Token returns the raw session token.
func (s *Session) Token() string {
	return s.token
}

// ListUsers returns all accounts. Requires the admin role.
func (s *Session) ListUsers(ctx context.Context) ([]User, error) {
	var users []User
	err := s.client.doJSON(ctx, http.MethodGet, "/api/users", s.token, nil, &users, http.StatusOK)
	return users, err
}

type createUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// CreateUser provisions an account with a generated temporary password.
// Requires the admin role.
func (s *Session) CreateUser(ctx context.Context, name, email, role string) (*CreateUserResponse, error) {
	var resp CreateUserResponse
	err := s.client.doJSON(ctx, http.MethodPost, "/api/users", s.token,
		createUserRequest{Name: name, Email: email, Role: role}, &resp, http.StatusCreated)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

type updateUserRequest struct {
	Name string `json:"name,omitempty"`
	Role string `json:"role,omitempty"`
}

// UpdateUser changes an account's name or role; empty fields are left
// unchanged. Requires the admin role.
func (s *Session) UpdateUser(ctx context.Context, userID, name, role string) (*UserResponse, error) {
	var resp UserResponse
	err := s.client.doJSON(ctx, http.MethodPut, "/api/users/"+userID, s.token,
		updateUserRequest{Name: name, Role: role}, &resp, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteUser removes an account and everything it owns. Requires the admin
// role.
func (s *Session) DeleteUser(ctx context.Context, userID string) error {
	return s.client.doJSON(ctx, http.MethodDelete, "/api/users/"+userID, s.token,
		nil, nil, http.StatusOK)
}

type appendDataRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// AppendData adds a data entry to the given account. Allowed for the account
// owner or an admin.
func (s *Session) AppendData(ctx context.Context, userID, title, content string) (*UserResponse, error) {
	var resp UserResponse
	err := s.client.doJSON(ctx, http.MethodPost, "/api/users/"+userID+"/upload", s.token,
		appendDataRequest{Title: title, Content: content}, &resp, http.StatusCreated)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteData removes one data entry. Allowed for the account owner or an
// admin.
func (s *Session) DeleteData(ctx context.Context, userID, dataID string) (*UserResponse, error) {
	var resp UserResponse
	err := s.client.doJSON(ctx, http.MethodDelete, "/api/users/"+userID+"/data/"+dataID, s.token,
		nil, &resp, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Upload stores a file under a server-chosen name owned by this session's
// account.
func (s *Session) Upload(ctx context.Context, filename string, content io.Reader) (*UploadResponse, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to build multipart body: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, fmt.Errorf("failed to write multipart body: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.client.url("/upload"), &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+s.token)

	httpResp, err := s.client.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	var resp UploadResponse
	if err := decodeJSON(httpResp, &resp, http.StatusOK); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Chart builds the chart series for a stored file.
func (s *Session) Chart(ctx context.Context, storedName string) (*ChartResponse, error) {
	var resp ChartResponse
	err := s.client.doJSON(ctx, http.MethodGet, "/api/charts/"+storedName, s.token,
		nil, &resp, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Download fetches a stored file's raw bytes. Downloads are public; this
// helper lives on SDKClient rather than Session.
func (c *SDKClient) Download(ctx context.Context, storedName string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url("/uploads/"+storedName), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, parseErrorResponse(resp, body)
	}
	return body, nil
}
