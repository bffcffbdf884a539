package api

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"codestudio"
	"codestudio/assist"
	"codestudio/common"
	"codestudio/domain"
	"codestudio/editor"
	"codestudio/srv"
	"codestudio/workspace"
)

func RunServer() *http.Server {
	gin.SetMode(gin.ReleaseMode)
	ctrl, err := NewController()
	if err != nil {
		log.Fatalf("Failed to initialize controller: %v\n", err)
	}
	router, err := DefineRoutes(ctrl)
	if err != nil {
		log.Fatalf("Failed to define routes: %v\n", err)
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", common.GetServerPort()),
		Handler: router.Handler(),
	}

	// Start server in a goroutine
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start API server: %v\n", err)
		}
	}()

	return srv
}

// Controller wires one set of workspace components per workspace id, lazily:
// the store, the editor session and the conversation orchestrator all share
// the storage backend and the store's event broadcaster.
type Controller struct {
	config   common.LocalConfig
	storage  srv.Storage
	provider assist.Provider

	mu         sync.Mutex
	workspaces map[string]*workspaceComponents
}

type workspaceComponents struct {
	store   *workspace.Store
	session *editor.Session
	assist  *assist.Orchestrator
}

func NewController() (*Controller, error) {
	config, err := common.LoadLocalConfig()
	if err != nil {
		return nil, err
	}

	storage, err := codestudio.GetStorage(config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	apiKey, err := codestudio.GetAIAPIKey()
	if err != nil {
		return nil, err
	}
	provider := assist.NewOpenAIProvider(config.AI.BaseURL, apiKey)

	return NewControllerWith(config, storage, provider), nil
}

// NewControllerWith injects the collaborators directly. Tests use this with
// in-memory storage and a stub provider.
func NewControllerWith(config common.LocalConfig, storage srv.Storage, provider assist.Provider) *Controller {
	return &Controller{
		config:     config,
		storage:    storage,
		provider:   provider,
		workspaces: make(map[string]*workspaceComponents),
	}
}

// getWorkspace returns the components for workspaceId, creating and loading
// them on first use.
func (ctrl *Controller) getWorkspace(ctx context.Context, workspaceId string) (*workspaceComponents, error) {
	ctrl.mu.Lock()
	defer ctrl.mu.Unlock()

	if ws, ok := ctrl.workspaces[workspaceId]; ok {
		return ws, nil
	}

	store := workspace.NewStore(workspaceId, ctrl.storage)
	if err := store.Load(ctx); err != nil {
		return nil, err
	}
	orchestrator := assist.NewOrchestrator(ctrl.provider, ctrl.config.AI, store)

	suggest := func(path, content string) {
		if _, err := orchestrator.Suggest(context.Background(), path, content); err != nil {
			log.Printf("Auto-suggest skipped: %v", err)
		}
	}
	session := editor.NewSession(store, ctrl.config.Editor, suggest)

	ws := &workspaceComponents{store: store, session: session, assist: orchestrator}
	ctrl.workspaces[workspaceId] = ws
	return ws, nil
}

// workspaceFromRequest resolves the request's workspace or writes an error
// response and returns nil.
func (ctrl *Controller) workspaceFromRequest(c *gin.Context) *workspaceComponents {
	workspaceId := c.Param("workspaceId")
	if workspaceId == "" {
		ctrl.ErrorHandler(c, http.StatusBadRequest, errors.New("missing workspace id"))
		return nil
	}
	ws, err := ctrl.getWorkspace(c.Request.Context(), workspaceId)
	if err != nil {
		ctrl.ErrorHandler(c, http.StatusInternalServerError, err)
		return nil
	}
	return ws
}

func (ctrl *Controller) ErrorHandler(c *gin.Context, status int, err error) {
	log.Println("Error:", err)
	c.JSON(status, gin.H{"error": err.Error()})
}

// domainErrorStatus maps the error taxonomy onto HTTP statuses.
func domainErrorStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, domain.ErrBusy):
		return http.StatusTooManyRequests
	case errors.Is(err, domain.ErrTransport), errors.Is(err, domain.ErrProtocol):
		return http.StatusBadGateway
	default:
		return http.StatusBadRequest
	}
}

func DefineRoutes(ctrl *Controller) (*gin.Engine, error) {
	r := gin.Default()
	r.ForwardedByClientIP = true
	r.SetTrustedProxies(nil)

	allowedOrigins, err := GetAllowedOrigins()
	if err != nil {
		return nil, err
	}
	r.Use(CORSMiddleware(allowedOrigins))

	v1 := r.Group("/api/v1/workspaces/:workspaceId")

	v1.GET("/files", ctrl.GetFileTreeHandler)
	v1.GET("/file", ctrl.GetFileHandler)
	v1.POST("/files", ctrl.CreateFileHandler)
	v1.POST("/folders", ctrl.CreateFolderHandler)
	v1.POST("/files/open", ctrl.OpenFileHandler)
	v1.POST("/files/close", ctrl.CloseFileHandler)
	v1.POST("/files/save", ctrl.SaveFileHandler)
	v1.POST("/files/rename", ctrl.RenameFileHandler)
	v1.POST("/files/delete", ctrl.DeleteFileHandler)
	v1.POST("/files/collapse_all", ctrl.CollapseAllHandler)
	v1.GET("/search", ctrl.SearchHandler)

	v1.POST("/editor/input", ctrl.EditorInputHandler)
	v1.POST("/editor/selection", ctrl.EditorSelectionHandler)
	v1.POST("/editor/insert", ctrl.EditorInsertHandler)
	v1.POST("/editor/tab", ctrl.EditorTabHandler)
	v1.POST("/editor/flush", ctrl.EditorFlushHandler)

	v1.POST("/highlight", ctrl.HighlightHandler)

	v1.GET("/chat/history", ctrl.GetChatHistoryHandler)
	v1.POST("/chat", ctrl.SendChatMessageHandler)
	v1.POST("/chat/clear", ctrl.ClearChatHandler)

	v1.GET("/settings", ctrl.GetSettingsHandler)
	v1.PUT("/settings", ctrl.PutSettingsHandler)
	v1.GET("/theme", ctrl.GetThemeHandler)
	v1.PUT("/theme", ctrl.PutThemeHandler)

	ws := r.Group("/ws/v1/workspaces")
	ws.GET("/:workspaceId/events", ctrl.EventsWebsocketHandler(allowedOrigins))

	return r, nil
}
