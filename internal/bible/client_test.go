package bible

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApiReference(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"JHN.3.16", "john+3:16", false},
		{"PSA.23.1-6", "psalms+23:1-6", false},
		{"2CO.5.17", "2corinthians+5:17", false},
		{"PSA.119.105", "psalms+119:105", false},
		{"UNKNOWNBOOK.1.1", "unknownbook+1:1", false}, // unmapped book passes through lowercased
		{"JHN.3", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := apiReference(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "apiReference(%q)", tt.in)
			continue
		}
		require.NoError(t, err, "apiReference(%q)", tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestClient_FetchVerse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/john+3:16", r.URL.Path)
		assert.Equal(t, "kjv", r.URL.Query().Get("translation"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"reference":"John 3:16","text":"For God so loved the world...\n"}`))
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, Timeout: time.Second})

	verse, err := client.FetchVerse(context.Background(), "JHN.3.16", "KJV")
	require.NoError(t, err)
	assert.Equal(t, "John 3:16", verse.Reference)
	assert.Equal(t, "For God so loved the world...", verse.Text)
	assert.Equal(t, "KJV", verse.Version)
}

func TestClient_FetchVerse_UnknownVersionFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "web", r.URL.Query().Get("translation"))
		_, _ = w.Write([]byte(`{"reference":"Genesis 1:1","text":"In the beginning"}`))
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL})

	verse, err := client.FetchVerse(context.Background(), "GEN.1.1", "NOPE")
	require.NoError(t, err)
	assert.Equal(t, "NOPE", verse.Version)
}

func TestClient_FetchVerse_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL})

	_, err := client.FetchVerse(context.Background(), "JHN.3.16", "KJV")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status")
}

func TestClient_FetchVerse_EmptyText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"reference":"John 3:16","text":"  "}`))
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL})

	_, err := client.FetchVerse(context.Background(), "JHN.3.16", "KJV")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty text")
}
