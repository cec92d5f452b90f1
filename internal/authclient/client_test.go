package authclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"go-blog-platform/pkg/apierror"
)

func TestValidateSuccess(t *testing.T) {
	t.Parallel()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/validate", r.URL.Path)
		require.Equal(t, "Bearer good-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"valid":true,"userId":7,"email":"a@test.com"}`))
	}))
	t.Cleanup(upstream.Close)

	client := New(upstream.URL, time.Second)

	identity, err := client.Validate(context.Background(), "Bearer good-token")
	require.NoError(t, err)
	require.Equal(t, int64(7), identity.UserID)
	require.Equal(t, "a@test.com", identity.Email)
}

func TestValidateUpstream401MapsToInvalidToken(t *testing.T) {
	t.Parallel()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(upstream.Close)

	client := New(upstream.URL, time.Second)

	_, err := client.Validate(context.Background(), "Bearer bad-token")
	var apiErr *apierror.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnauthorized, apiErr.HTTPStatus)
	require.Equal(t, "invalid token", apiErr.Message)
}

func TestValidateUpstream5xxMapsToGenericFailure(t *testing.T) {
	t.Parallel()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(upstream.Close)

	client := New(upstream.URL, time.Second)

	_, err := client.Validate(context.Background(), "Bearer token")
	var apiErr *apierror.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnauthorized, apiErr.HTTPStatus)
	require.Equal(t, "token validation failed", apiErr.Message)
}

func TestValidateConnectionRefusedMapsToGenericFailure(t *testing.T) {
	t.Parallel()

	// A server that is already closed refuses connections.
	upstream := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	upstream.Close()

	client := New(upstream.URL, time.Second)

	_, err := client.Validate(context.Background(), "Bearer token")
	var apiErr *apierror.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "token validation failed", apiErr.Message)
}

func TestValidateRejectsUnparsableBody(t *testing.T) {
	t.Parallel()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	t.Cleanup(upstream.Close)

	client := New(upstream.URL, time.Second)

	_, err := client.Validate(context.Background(), "Bearer token")
	require.Error(t, err)
}
