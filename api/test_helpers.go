package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/segmentio/ksuid"
	"github.com/stretchr/testify/require"

	"codestudio/assist"
	"codestudio/common"
	"codestudio/srv/memory"
)

// echoProvider is an assist.Provider that returns a canned reply and records
// the requests it saw.
type echoProvider struct {
	reply    string
	err      error
	requests []assist.Request
}

func (p *echoProvider) Complete(ctx context.Context, req assist.Request) (string, error) {
	p.requests = append(p.requests, req)
	if p.err != nil {
		return "", p.err
	}
	if p.reply == "" {
		return "echo reply", nil
	}
	return p.reply, nil
}

func testLocalConfig() common.LocalConfig {
	return common.LocalConfig{
		Editor: common.EditorConfig{
			AutoSave:         false,
			AutoSaveDelayMs:  10,
			AISuggestions:    false,
			AISuggestDelayMs: 10,
			TabSize:          4,
			InsertSpaces:     true,
		},
		AI: common.AIConfig{
			Model:         "test-model",
			SystemPrompt:  "You are a test assistant.",
			Temperature:   0.7,
			MaxTokens:     256,
			HistoryWindow: 8,
			HistoryCap:    20,
		},
		Storage: "memory",
	}
}

func newTestController(t *testing.T) (*Controller, *gin.Engine, *echoProvider) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	provider := &echoProvider{}
	ctrl := NewControllerWith(testLocalConfig(), memory.NewStorage(), provider)
	router, err := DefineRoutes(ctrl)
	require.NoError(t, err)
	return ctrl, router, provider
}

func newTestWorkspaceId() string {
	return "ws_" + ksuid.New().String()
}

// doRequest marshals body (when non-nil) and runs the request through the
// router, returning the recorder.
func doRequest(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}
