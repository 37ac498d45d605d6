// TEST TYPE: Unit Test
// DEPENDENCIES: httptest server standing in for a chat-completion API
// PURPOSE: Test commit message priority, truncation, cleanup and the OpenAI provider

package commitmsg_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/billxc/git-file-vault/pkg/commitmsg"
	"github.com/billxc/git-file-vault/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	reply string
	err   error
	got   string
}

func (s *stubProvider) Generate(_ context.Context, diff string) (string, error) {
	s.got = diff
	return s.reply, s.err
}

func staticDiff(s string) func() (string, error) {
	return func() (string, error) { return s, nil }
}

func TestResolve_Priority(t *testing.T) {
	ctx := context.Background()
	stub := &stubProvider{reply: "update zsh aliases"}

	msg, src := commitmsg.Resolve(ctx, "  my message ", stub, staticDiff("diff"))
	assert.Equal(t, "my message", msg)
	assert.Equal(t, commitmsg.SourceExplicit, src)
	assert.Empty(t, stub.got, "provider is not consulted when a message is given")

	msg, src = commitmsg.Resolve(ctx, "", stub, staticDiff("diff"))
	assert.Equal(t, "update zsh aliases", msg)
	assert.Equal(t, commitmsg.SourceProvider, src)

	msg, src = commitmsg.Resolve(ctx, "", nil, staticDiff("diff"))
	assert.Equal(t, commitmsg.Fallback, msg)
	assert.Equal(t, commitmsg.SourceFallback, src)
}

func TestResolve_FailuresFallBack(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		provider commitmsg.Provider
		diff     func() (string, error)
	}{
		{"provider error", &stubProvider{err: fmt.Errorf("503")}, staticDiff("d")},
		{"empty reply", &stubProvider{reply: "  \n"}, staticDiff("d")},
		{"diff error", &stubProvider{reply: "x"}, func() (string, error) { return "", fmt.Errorf("boom") }},
		{"empty diff", &stubProvider{reply: "x"}, staticDiff("   ")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, src := commitmsg.Resolve(ctx, "", tt.provider, tt.diff)
			assert.Equal(t, commitmsg.Fallback, msg)
			assert.Equal(t, commitmsg.SourceFallback, src)
		})
	}
}

func TestResolve_TruncatesDiff(t *testing.T) {
	stub := &stubProvider{reply: "big change"}
	long := strings.Repeat("a", commitmsg.MaxDiffChars+500)

	_, _ = commitmsg.Resolve(context.Background(), "", stub, staticDiff(long))
	assert.Len(t, stub.got, commitmsg.MaxDiffChars)
}

func TestTruncate_KeepsRunesWhole(t *testing.T) {
	s := "ab" + "é" // é is two bytes
	assert.Equal(t, "ab", commitmsg.Truncate(s, 3))
	assert.Equal(t, s, commitmsg.Truncate(s, 10))
}

func TestClean(t *testing.T) {
	assert.Equal(t, "add nvim config", commitmsg.Clean("\n```\n\"add nvim config\"\nmore detail\n"))
	assert.Equal(t, "", commitmsg.Clean(" \n "))
}

func completionServer(t *testing.T, status int, content string) (*httptest.Server, *map[string]interface{}) {
	t.Helper()
	var body map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		_ = json.NewDecoder(r.Body).Decode(&body)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"error":{"message":"nope","type":"server_error"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id":      "cmpl-1",
			"object":  "chat.completion",
			"created": 1700000000,
			"model":   "test-model",
			"choices": []map[string]interface{}{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]interface{}{"role": "assistant", "content": content},
			}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv, &body
}

func TestOpenAI_Generate(t *testing.T) {
	srv, body := completionServer(t, http.StatusOK, "  update git aliases \n")

	p, err := commitmsg.NewOpenAI(config.AI{
		Endpoint: srv.URL + "/v1/chat/completions",
		APIKey:   "sk-test",
		Model:    "test-model",
	})
	require.NoError(t, err)

	msg, err := p.Generate(context.Background(), "+alias gs='git status'")
	require.NoError(t, err)
	assert.Equal(t, "update git aliases", msg)
	assert.Equal(t, "test-model", (*body)["model"])
}

func TestOpenAI_ErrorFallsBack(t *testing.T) {
	srv, _ := completionServer(t, http.StatusInternalServerError, "")

	p, err := commitmsg.NewOpenAI(config.AI{Endpoint: srv.URL + "/v1", APIKey: "sk-test", Model: "m"})
	require.NoError(t, err)

	_, err = p.Generate(context.Background(), "diff")
	assert.Error(t, err)

	msg, src := commitmsg.Resolve(context.Background(), "", p, staticDiff("diff"))
	assert.Equal(t, commitmsg.Fallback, msg)
	assert.Equal(t, commitmsg.SourceFallback, src)
}

func TestFromConfig(t *testing.T) {
	assert.Nil(t, commitmsg.FromConfig(config.AI{Endpoint: "https://x", APIKey: "k"}), "model is required")
	assert.NotNil(t, commitmsg.FromConfig(config.AI{Endpoint: "https://x", APIKey: "k", Model: "m"}))
}
