package authclient

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go-blog-platform/internal/model"
	"go-blog-platform/pkg/apierror"
)

// Client calls the auth service's validate endpoint. One round trip per
// request, no retries: any failure is surfaced immediately as 401.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Validate forwards the Authorization header to GET /auth/validate. An
// upstream 401 means the token itself was rejected; every other failure
// (timeout, 5xx, connection refused) maps to a generic validation error.
func (c *Client) Validate(ctx context.Context, authorizationHeader string) (model.Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/validate", nil)
	if err != nil {
		return model.Identity{}, apierror.Unauthorized("token validation failed")
	}
	req.Header.Set("Authorization", authorizationHeader)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.Identity{}, apierror.Unauthorized("token validation failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return model.Identity{}, apierror.Unauthorized("invalid token")
	}
	if resp.StatusCode != http.StatusOK {
		return model.Identity{}, apierror.Unauthorized("token validation failed")
	}

	var payload model.ValidateResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil || !payload.Valid {
		return model.Identity{}, apierror.Unauthorized("token validation failed")
	}

	return model.Identity{UserID: payload.UserID, Email: payload.Email}, nil
}
