package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"codestudio/utils"
	"codestudio/workspace"
)

type createFileRequest struct {
	Name         string `json:"name"`
	Content      string `json:"content"`
	Language     string `json:"language"`
	ParentFolder string `json:"parentFolder"`
}

type createFolderRequest struct {
	Name         string `json:"name"`
	ParentFolder string `json:"parentFolder"`
}

type pathRequest struct {
	Path string `json:"path"`
}

// confirmedPathRequest is used by the destructive operations. When Confirmed
// is false and the store asks for confirmation, the handler answers no and the
// response carries requiresConfirmation so the client can re-submit.
type confirmedPathRequest struct {
	Path      string `json:"path"`
	Confirmed bool   `json:"confirmed"`
}

type saveFileRequest struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

type renameFileRequest struct {
	Path    string `json:"path"`
	NewName string `json:"newName"`
}

func (ctrl *Controller) GetFileTreeHandler(c *gin.Context) {
	ws := ctrl.workspaceFromRequest(c)
	if ws == nil {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"workspace": ws.store.Workspace(),
		"entries":   ws.store.Entries(),
		"project":   ws.store.Project(),
	})
}

func (ctrl *Controller) GetFileHandler(c *gin.Context) {
	ws := ctrl.workspaceFromRequest(c)
	if ws == nil {
		return
	}
	path := c.Query("path")
	entry, err := ws.store.Entry(path)
	if err != nil {
		ctrl.ErrorHandler(c, domainErrorStatus(err), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entry": entry})
}

func (ctrl *Controller) CreateFileHandler(c *gin.Context) {
	ws := ctrl.workspaceFromRequest(c)
	if ws == nil {
		return
	}
	var req createFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ctrl.ErrorHandler(c, http.StatusBadRequest, err)
		return
	}
	path, err := ws.store.CreateFile(c.Request.Context(), req.Name, req.Content, req.Language, req.ParentFolder)
	if err != nil {
		ctrl.ErrorHandler(c, domainErrorStatus(err), err)
		return
	}
	entry, err := ws.store.Entry(path)
	if err != nil {
		ctrl.ErrorHandler(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entry": entry})
}

func (ctrl *Controller) CreateFolderHandler(c *gin.Context) {
	ws := ctrl.workspaceFromRequest(c)
	if ws == nil {
		return
	}
	var req createFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ctrl.ErrorHandler(c, http.StatusBadRequest, err)
		return
	}
	path, err := ws.store.CreateFolder(c.Request.Context(), req.Name, req.ParentFolder)
	if err != nil {
		ctrl.ErrorHandler(c, domainErrorStatus(err), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"path": path})
}

func (ctrl *Controller) OpenFileHandler(c *gin.Context) {
	ws := ctrl.workspaceFromRequest(c)
	if ws == nil {
		return
	}
	var req pathRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ctrl.ErrorHandler(c, http.StatusBadRequest, err)
		return
	}
	opened, err := ws.session.Open(c.Request.Context(), req.Path)
	if err != nil {
		ctrl.ErrorHandler(c, domainErrorStatus(err), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"opened":  opened,
		"project": ws.store.Project(),
	})
}

func (ctrl *Controller) CloseFileHandler(c *gin.Context) {
	ws := ctrl.workspaceFromRequest(c)
	if ws == nil {
		return
	}
	var req confirmedPathRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ctrl.ErrorHandler(c, http.StatusBadRequest, err)
		return
	}
	path := utils.NormalizePath(req.Path)
	closed, err := ws.store.CloseFile(c.Request.Context(), path, confirmFromRequest(req.Confirmed))
	if err != nil {
		ctrl.ErrorHandler(c, domainErrorStatus(err), err)
		return
	}
	if closed && ws.session.Path() == path {
		ws.session.Close()
	}
	c.JSON(http.StatusOK, gin.H{
		"closed":               closed,
		"requiresConfirmation": !closed && !req.Confirmed,
		"project":              ws.store.Project(),
	})
}

func (ctrl *Controller) SaveFileHandler(c *gin.Context) {
	ws := ctrl.workspaceFromRequest(c)
	if ws == nil {
		return
	}
	var req saveFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ctrl.ErrorHandler(c, http.StatusBadRequest, err)
		return
	}
	if err := ws.store.Save(c.Request.Context(), req.Path, req.Content); err != nil {
		ctrl.ErrorHandler(c, domainErrorStatus(err), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"saved": true})
}

func (ctrl *Controller) RenameFileHandler(c *gin.Context) {
	ws := ctrl.workspaceFromRequest(c)
	if ws == nil {
		return
	}
	var req renameFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ctrl.ErrorHandler(c, http.StatusBadRequest, err)
		return
	}
	newPath, err := ws.store.Rename(c.Request.Context(), req.Path, req.NewName)
	if err != nil {
		ctrl.ErrorHandler(c, domainErrorStatus(err), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"path": newPath})
}

func (ctrl *Controller) DeleteFileHandler(c *gin.Context) {
	ws := ctrl.workspaceFromRequest(c)
	if ws == nil {
		return
	}
	var req confirmedPathRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ctrl.ErrorHandler(c, http.StatusBadRequest, err)
		return
	}
	path := utils.NormalizePath(req.Path)
	deleted, err := ws.store.Delete(c.Request.Context(), path, confirmFromRequest(req.Confirmed))
	if err != nil {
		ctrl.ErrorHandler(c, domainErrorStatus(err), err)
		return
	}
	if deleted && utils.HasPathPrefix(ws.session.Path(), path) {
		ws.session.Close()
	}
	c.JSON(http.StatusOK, gin.H{
		"deleted":              deleted,
		"requiresConfirmation": !deleted && !req.Confirmed,
	})
}

func (ctrl *Controller) CollapseAllHandler(c *gin.Context) {
	ws := ctrl.workspaceFromRequest(c)
	if ws == nil {
		return
	}
	ws.store.CollapseAll(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"collapsed": true})
}

func (ctrl *Controller) SearchHandler(c *gin.Context) {
	ws := ctrl.workspaceFromRequest(c)
	if ws == nil {
		return
	}
	query := c.Query("q")
	if query == "" {
		ctrl.ErrorHandler(c, http.StatusBadRequest, errors.New("missing search query"))
		return
	}
	results := ws.store.Search(query)
	if results == nil {
		results = []workspace.SearchResult{}
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

// confirmFromRequest turns the request's confirmed flag into a Confirmer: the
// store's prompt is answered with whatever the client already decided.
func confirmFromRequest(confirmed bool) workspace.Confirmer {
	return workspace.ConfirmFunc(func(ctx context.Context, prompt string) (bool, error) {
		return confirmed, nil
	})
}
