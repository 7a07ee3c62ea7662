package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheck(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/moderations", r.URL.Path)
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))
		var in struct {
			Input string `json:"input"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]any{{"flagged": in.Input == "nasty"}},
		})
	}))
	defer srv.Close()

	c := New("key", srv.URL+"/")
	clean, err := c.Check(context.Background(), "nice")
	require.NoError(t, err)
	assert.True(t, clean)

	clean, err = c.Check(context.Background(), "nasty")
	require.NoError(t, err)
	assert.False(t, clean)
}

func TestCheckErrors(t *testing.T) {
	_, err := New("", "").Check(context.Background(), "x")
	assert.Error(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()
	_, err = New("key", srv.URL).Check(context.Background(), "x")
	assert.EqualError(t, err, "openai status 429")
}
