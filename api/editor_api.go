package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"codestudio/highlight"
)

type editorInputRequest struct {
	Content      string `json:"content"`
	CursorOffset int    `json:"cursorOffset"`
}

type editorSelectionRequest struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

type highlightRequest struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

func (ctrl *Controller) EditorInputHandler(c *gin.Context) {
	ws := ctrl.workspaceFromRequest(c)
	if ws == nil {
		return
	}
	var req editorInputRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ctrl.ErrorHandler(c, http.StatusBadRequest, err)
		return
	}
	if err := ws.session.HandleInput(c.Request.Context(), req.Content, req.CursorOffset); err != nil {
		ctrl.ErrorHandler(c, domainErrorStatus(err), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"path":   ws.session.Path(),
		"cursor": ws.session.CursorPosition(),
	})
}

func (ctrl *Controller) EditorSelectionHandler(c *gin.Context) {
	ws := ctrl.workspaceFromRequest(c)
	if ws == nil {
		return
	}
	var req editorSelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ctrl.ErrorHandler(c, http.StatusBadRequest, err)
		return
	}
	ws.session.SetSelection(req.Start, req.End)
	c.JSON(http.StatusOK, gin.H{"selection": ws.session.SelectionText()})
}

type editorInsertRequest struct {
	Text string `json:"text"`
}

func (ctrl *Controller) EditorInsertHandler(c *gin.Context) {
	ws := ctrl.workspaceFromRequest(c)
	if ws == nil {
		return
	}
	var req editorInsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ctrl.ErrorHandler(c, http.StatusBadRequest, err)
		return
	}
	if err := ws.session.InsertAtCursor(c.Request.Context(), req.Text); err != nil {
		ctrl.ErrorHandler(c, domainErrorStatus(err), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"content": ws.session.Content(),
		"cursor":  ws.session.CursorPosition(),
	})
}

func (ctrl *Controller) EditorTabHandler(c *gin.Context) {
	ws := ctrl.workspaceFromRequest(c)
	if ws == nil {
		return
	}
	if err := ws.session.InsertTab(c.Request.Context()); err != nil {
		ctrl.ErrorHandler(c, domainErrorStatus(err), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"content": ws.session.Content(),
		"cursor":  ws.session.CursorPosition(),
	})
}

func (ctrl *Controller) EditorFlushHandler(c *gin.Context) {
	ws := ctrl.workspaceFromRequest(c)
	if ws == nil {
		return
	}
	if err := ws.session.Flush(c.Request.Context()); err != nil {
		ctrl.ErrorHandler(c, domainErrorStatus(err), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"flushed": true})
}

// HighlightHandler is stateless: it renders whatever text the client sends,
// which lets the frontend highlight unsaved buffers.
func (ctrl *Controller) HighlightHandler(c *gin.Context) {
	var req highlightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ctrl.ErrorHandler(c, http.StatusBadRequest, err)
		return
	}
	spans := highlight.Spans(req.Text, req.Language)
	if spans == nil {
		spans = []highlight.Span{}
	}
	c.JSON(http.StatusOK, gin.H{
		"html":  highlight.Highlight(req.Text, req.Language),
		"spans": spans,
	})
}
