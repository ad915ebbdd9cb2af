package dashsdk

import (
	"context"
	"net/http"
)

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup registers a new account. The account starts with the "user" role
// and no session; call Login to obtain one.
func (c *SDKClient) Signup(ctx context.Context, email, password string) error {
	return c.doJSON(ctx, http.MethodPost, "/api/auth/signup", "",
		signupRequest{Email: email, Password: password}, nil, http.StatusCreated)
}

// Login authenticates and returns a Session holding the minted token.
func (c *SDKClient) Login(ctx context.Context, email, password string) (*Session, error) {
	var resp LoginResponse
	err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", "",
		loginRequest{Email: email, Password: password}, &resp, http.StatusOK)
	if err != nil {
		return nil, err
	}

	return &Session{
		client: c,
		token:  resp.Token,
		User:   resp.User,
	}, nil
}

// NewSessionFromToken wraps an existing session token, for callers that have
// persisted one.
func (c *SDKClient) NewSessionFromToken(token string) *Session {
	return &Session{client: c, token: token}
}
