package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"squish/internal/providers"
)

func TestRootCmdWithoutArgsPrintsUsage(t *testing.T) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(nil)
	require.NoError(t, cmd.Execute())
	require.Contains(t, out.String(), "squish <input_file>")
}

func TestRootCmdRejectsExtraArgs(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"a.epub", "b.epub"})
	require.Error(t, cmd.Execute())
}

// echoOllama streams the prompt back in two NDJSON fragments.
func echoOllama(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Prompt string `json:"prompt"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		half := len(body.Prompt) / 2
		for i, piece := range []string{body.Prompt[:half], body.Prompt[half:]} {
			line, _ := json.Marshal(map[string]any{"response": piece, "done": i == 1})
			fmt.Fprintln(w, string(line))
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRunAgainstLocalBackend(t *testing.T) {
	srv := echoOllama(t)
	dir := t.TempDir()
	cfg := fmt.Sprintf(`{"engine":"ollama","api_base":%q,"model":"llama3.2:3b","log_level":"error"}`, srv.URL)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte(cfg), 0o644))
	input := filepath.Join(dir, "tale.txt")
	require.NoError(t, os.WriteFile(input, []byte("It was cold. It was dark. It was late."), 0o644))

	out, err := run(t.Context(), dir, input)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "tale_squish.txt"), out)

	b, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Equal(t, providers.ComposePrompt("It was cold. It was dark. It was late."), string(b))
}

func TestRunMissingInputFails(t *testing.T) {
	dir := t.TempDir()
	_, err := run(t.Context(), dir, filepath.Join(dir, "missing.txt"))
	require.Error(t, err)
}
