package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func ollamaServer(t *testing.T, lines ...string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/generate", r.URL.Path)
		var body struct {
			Model  string `json:"model"`
			Prompt string `json:"prompt"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "llama3.2:3b", body.Model)
		require.True(t, strings.HasPrefix(body.Prompt, AbridgeInstruction+" "))

		w.Header().Set("Content-Type", "application/x-ndjson")
		for _, l := range lines {
			fmt.Fprintln(w, l)
			if f, ok := w.(http.Flusher); ok {
				f.Flush()
			}
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOllamaGenerateStopsAtDone(t *testing.T) {
	srv := ollamaServer(t,
		`{"response":"A","done":false}`,
		`{"response":"B","done":true}`,
		`{"response":"C","done":false}`,
	)
	p := NewOllamaProvider(srv.URL, "llama3.2:3b", time.Second)
	resp, info, err := p.Generate(context.Background(), GenerateRequest{Prompt: ComposePrompt("text")})
	require.NoError(t, err)
	require.Equal(t, "AB", resp.Text)
	require.Equal(t, "ollama", info.Name)
}

func TestOllamaGenerateKeepsMalformedLines(t *testing.T) {
	srv := ollamaServer(t,
		`{"response":"Once "}`,
		``,
		`not json at all`,
		`{"response":" upon","done":true}`,
	)
	p := NewOllamaProvider(srv.URL+"/", "llama3.2:3b", time.Second)
	resp, _, err := p.Generate(context.Background(), GenerateRequest{Prompt: ComposePrompt("x")})
	require.NoError(t, err)
	require.Equal(t, "Once not json at all upon", resp.Text)
}

func TestOllamaGenerateStreamEndsWithoutDone(t *testing.T) {
	srv := ollamaServer(t, `{"response":"partial"}`, `{"response":" text"}`)
	p := NewOllamaProvider(srv.URL, "llama3.2:3b", time.Second)
	resp, _, err := p.Generate(context.Background(), GenerateRequest{Prompt: ComposePrompt("x")})
	require.NoError(t, err)
	require.Equal(t, "partial text", resp.Text)
}

func TestOllamaGenerateErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()
	p := NewOllamaProvider(srv.URL, "missing", time.Second)
	_, _, err := p.Generate(context.Background(), GenerateRequest{Prompt: "p"})
	require.ErrorContains(t, err, "404")
	require.ErrorContains(t, err, "model not found")
}

func TestOllamaGenerateTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	p := NewOllamaProvider(url, "llama3.2:3b", time.Second)
	_, _, err := p.Generate(context.Background(), GenerateRequest{Prompt: "p"})
	require.Error(t, err)
}

func TestOllamaGenerateTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "llama3.2:3b", 50*time.Millisecond)
	start := time.Now()
	_, _, err := p.Generate(context.Background(), GenerateRequest{Prompt: "p"})
	require.Error(t, err)
	require.Less(t, time.Since(start), time.Second)
}

func TestNewOllamaProviderURL(t *testing.T) {
	require.Equal(t, DefaultOllamaBaseURL+"/api/generate", NewOllamaProvider("", "m", 0).url)
	require.Equal(t, "http://10.0.0.247:11434/api/generate", NewOllamaProvider("http://10.0.0.247:11434/api/generate", "m", 0).url)
}
