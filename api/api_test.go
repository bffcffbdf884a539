package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codestudio/domain"
)

func TestGetFileTreeHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	_, router, _ := newTestController(t)
	workspaceId := newTestWorkspaceId()

	w := doRequest(t, router, "GET", "/api/v1/workspaces/"+workspaceId+"/files", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	entries := body["entries"].([]any)
	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		paths = append(paths, e.(map[string]any)["path"].(string))
	}
	assert.ElementsMatch(t, []string{"/index.html", "/styles.css", "/main.js", "/README.md"}, paths)
	assert.Equal(t, workspaceId, body["workspace"].(map[string]any)["id"])
}

func TestCreateFileHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	_, router, _ := newTestController(t)
	base := "/api/v1/workspaces/" + newTestWorkspaceId()

	w := doRequest(t, router, "POST", base+"/files", createFileRequest{Name: "app.ts"})
	require.Equal(t, http.StatusOK, w.Code)
	entry := decodeBody(t, w)["entry"].(map[string]any)
	assert.Equal(t, "/app.ts", entry["path"])
	assert.Equal(t, "typescript", entry["language"])

	// Same name again conflicts.
	w = doRequest(t, router, "POST", base+"/files", createFileRequest{Name: "app.ts"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, decodeBody(t, w)["error"].(string), "already exists")

	// Missing name is a client error.
	w = doRequest(t, router, "POST", base+"/files", createFileRequest{Name: "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateFolderHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	_, router, _ := newTestController(t)
	base := "/api/v1/workspaces/" + newTestWorkspaceId()

	w := doRequest(t, router, "POST", base+"/folders", createFolderRequest{Name: "src"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/src/", decodeBody(t, w)["path"])

	w = doRequest(t, router, "POST", base+"/folders", createFolderRequest{Name: "src"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestOpenAndCloseFileHandlers(t *testing.T) {
	gin.SetMode(gin.TestMode)
	_, router, _ := newTestController(t)
	base := "/api/v1/workspaces/" + newTestWorkspaceId()

	w := doRequest(t, router, "POST", base+"/files/open", pathRequest{Path: "/main.js"})
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["opened"])
	assert.Equal(t, "/main.js", body["project"].(map[string]any)["activeFile"])

	w = doRequest(t, router, "POST", base+"/files/open", pathRequest{Path: "/nope.js"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(t, router, "POST", base+"/files/close", confirmedPathRequest{Path: "/main.js"})
	require.Equal(t, http.StatusOK, w.Code)
	body = decodeBody(t, w)
	assert.Equal(t, true, body["closed"])
	assert.Equal(t, "", body["project"].(map[string]any)["activeFile"])
}

func TestCloseFileHandlerRequiresConfirmation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	_, router, _ := newTestController(t)
	base := "/api/v1/workspaces/" + newTestWorkspaceId()

	w := doRequest(t, router, "POST", base+"/files/open", pathRequest{Path: "/main.js"})
	require.Equal(t, http.StatusOK, w.Code)

	// Unsaved edits make the close ask for confirmation.
	w = doRequest(t, router, "POST", base+"/editor/input", editorInputRequest{Content: "let x = 1;", CursorOffset: 0})
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, router, "POST", base+"/files/close", confirmedPathRequest{Path: "/main.js", Confirmed: false})
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, false, body["closed"])
	assert.Equal(t, true, body["requiresConfirmation"])

	w = doRequest(t, router, "POST", base+"/files/close", confirmedPathRequest{Path: "/main.js", Confirmed: true})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decodeBody(t, w)["closed"])
}

func TestCloseFileHandlerUnnormalizedPath(t *testing.T) {
	gin.SetMode(gin.TestMode)
	_, router, _ := newTestController(t)
	base := "/api/v1/workspaces/" + newTestWorkspaceId()

	w := doRequest(t, router, "POST", base+"/files/open", pathRequest{Path: "/main.js"})
	require.Equal(t, http.StatusOK, w.Code)

	// Closing via another spelling of the same path detaches the session too.
	w = doRequest(t, router, "POST", base+"/files/close", confirmedPathRequest{Path: "//main.js"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decodeBody(t, w)["closed"])

	w = doRequest(t, router, "POST", base+"/editor/input", editorInputRequest{Content: "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteFolderHandlerDetachesSession(t *testing.T) {
	gin.SetMode(gin.TestMode)
	_, router, _ := newTestController(t)
	base := "/api/v1/workspaces/" + newTestWorkspaceId()

	w := doRequest(t, router, "POST", base+"/files", createFileRequest{Name: "app.js", ParentFolder: "/src/"})
	require.Equal(t, http.StatusOK, w.Code)
	w = doRequest(t, router, "POST", base+"/files/open", pathRequest{Path: "/src/app.js"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, router, "POST", base+"/files/delete", confirmedPathRequest{Path: "src//", Confirmed: true})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decodeBody(t, w)["deleted"])

	// The session was attached to a file inside the deleted folder.
	w = doRequest(t, router, "POST", base+"/editor/input", editorInputRequest{Content: "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteFileHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	_, router, _ := newTestController(t)
	base := "/api/v1/workspaces/" + newTestWorkspaceId()

	// Delete always asks for confirmation first.
	w := doRequest(t, router, "POST", base+"/files/delete", confirmedPathRequest{Path: "/main.js"})
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, false, body["deleted"])
	assert.Equal(t, true, body["requiresConfirmation"])

	w = doRequest(t, router, "POST", base+"/files/delete", confirmedPathRequest{Path: "/main.js", Confirmed: true})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decodeBody(t, w)["deleted"])

	w = doRequest(t, router, "GET", base+"/file?path=/main.js", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSaveAndRenameHandlers(t *testing.T) {
	gin.SetMode(gin.TestMode)
	_, router, _ := newTestController(t)
	base := "/api/v1/workspaces/" + newTestWorkspaceId()

	w := doRequest(t, router, "POST", base+"/files/save", saveFileRequest{Path: "/main.js", Content: "let y = 2;"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, router, "GET", base+"/file?path=/main.js", nil)
	require.Equal(t, http.StatusOK, w.Code)
	entry := decodeBody(t, w)["entry"].(map[string]any)
	assert.Equal(t, "let y = 2;", entry["content"])

	w = doRequest(t, router, "POST", base+"/files/rename", renameFileRequest{Path: "/main.js", NewName: "app.js"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/app.js", decodeBody(t, w)["path"])

	w = doRequest(t, router, "POST", base+"/files/rename", renameFileRequest{Path: "/app.js", NewName: "index.html"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestEditorHandlers(t *testing.T) {
	gin.SetMode(gin.TestMode)
	_, router, _ := newTestController(t)
	base := "/api/v1/workspaces/" + newTestWorkspaceId()

	w := doRequest(t, router, "POST", base+"/files/open", pathRequest{Path: "/main.js"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, router, "POST", base+"/editor/input", editorInputRequest{Content: "ab\ncd", CursorOffset: 5})
	require.Equal(t, http.StatusOK, w.Code)
	cursor := decodeBody(t, w)["cursor"].(map[string]any)
	assert.Equal(t, float64(2), cursor["line"])
	assert.Equal(t, float64(3), cursor["column"])

	w = doRequest(t, router, "POST", base+"/editor/insert", editorInsertRequest{Text: "!"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ab\ncd!", decodeBody(t, w)["content"])

	// Tab inserts spaces per the configured tab size.
	w = doRequest(t, router, "POST", base+"/editor/tab", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ab\ncd!    ", decodeBody(t, w)["content"])

	w = doRequest(t, router, "POST", base+"/editor/selection", editorSelectionRequest{Start: 0, End: 2})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ab", decodeBody(t, w)["selection"])

	w = doRequest(t, router, "POST", base+"/editor/flush", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, router, "GET", base+"/file?path=/main.js", nil)
	require.Equal(t, http.StatusOK, w.Code)
	entry := decodeBody(t, w)["entry"].(map[string]any)
	assert.Equal(t, "ab\ncd!    ", entry["content"])
	assert.Equal(t, false, entry["isModified"])
}

func TestSearchHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	_, router, _ := newTestController(t)
	base := "/api/v1/workspaces/" + newTestWorkspaceId()

	w := doRequest(t, router, "GET", base+"/search?q=hello", nil)
	require.Equal(t, http.StatusOK, w.Code)
	results := decodeBody(t, w)["results"].([]any)
	assert.NotEmpty(t, results)

	w = doRequest(t, router, "GET", base+"/search", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHighlightHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	_, router, _ := newTestController(t)
	base := "/api/v1/workspaces/" + newTestWorkspaceId()

	w := doRequest(t, router, "POST", base+"/highlight", highlightRequest{Text: "// note", Language: "javascript"})
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Contains(t, body["html"].(string), `<span class="comment">`)
	assert.Len(t, body["spans"], 1)

	// Unknown languages render escaped plain text with no spans.
	w = doRequest(t, router, "POST", base+"/highlight", highlightRequest{Text: "<b>", Language: "cobol"})
	require.Equal(t, http.StatusOK, w.Code)
	body = decodeBody(t, w)
	assert.Equal(t, "&lt;b&gt;", body["html"])
	assert.Empty(t, body["spans"])
}

func TestChatHandlers(t *testing.T) {
	gin.SetMode(gin.TestMode)
	_, router, provider := newTestController(t)
	provider.reply = "Use a map."
	base := "/api/v1/workspaces/" + newTestWorkspaceId()

	w := doRequest(t, router, "POST", base+"/chat", sendChatMessageRequest{Text: "How do I dedupe?", ExcludeContext: true})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Use a map.", decodeBody(t, w)["reply"])

	w = doRequest(t, router, "GET", base+"/chat/history", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Len(t, body["messages"], 2)
	assert.Equal(t, "idle", body["status"])

	w = doRequest(t, router, "POST", base+"/chat/clear", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, router, "GET", base+"/chat/history", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeBody(t, w)["messages"])
}

func TestChatHandlerProviderFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	_, router, provider := newTestController(t)
	provider.err = fmt.Errorf("connection refused: %w", domain.ErrTransport)
	base := "/api/v1/workspaces/" + newTestWorkspaceId()

	w := doRequest(t, router, "POST", base+"/chat", sendChatMessageRequest{Text: "hi", ExcludeContext: true})
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestThemeAndSettingsHandlers(t *testing.T) {
	gin.SetMode(gin.TestMode)
	_, router, _ := newTestController(t)
	base := "/api/v1/workspaces/" + newTestWorkspaceId()

	w := doRequest(t, router, "GET", base+"/theme", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "dark", decodeBody(t, w)["theme"])

	w = doRequest(t, router, "PUT", base+"/theme", putThemeRequest{Theme: "light"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, router, "GET", base+"/theme", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "light", decodeBody(t, w)["theme"])

	w = doRequest(t, router, "PUT", base+"/settings", map[string]any{"fontSize": 14})
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, router, "GET", base+"/settings", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(14), decodeBody(t, w)["fontSize"])
}
