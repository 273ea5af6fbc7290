package dreamdrives

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/velorent/rentalsync/internal/config"
)

func TestFetchBookings(t *testing.T) {
	t.Run("decodes wrapped rows", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/bookings", r.URL.Path)
			assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"data":[{"Id":"R1","Total":"100.00"},{"Id":"R2"}]}`))
		}))
		defer server.Close()

		client := NewClient(config.FeedConfig{BaseURL: server.URL, APIKey: "secret"}, zap.NewNop())
		rows, err := client.FetchBookings(context.Background())
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "R1", rows[0]["Id"])
	})

	t.Run("non-200 is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		client := NewClient(config.FeedConfig{BaseURL: server.URL, APIKey: "secret"}, zap.NewNop())
		_, err := client.FetchBookings(context.Background())
		assert.Error(t, err)
	})
}
