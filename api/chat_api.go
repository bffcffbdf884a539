package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"codestudio/assist"
	"codestudio/domain"
)

type sendChatMessageRequest struct {
	Text           string `json:"text"`
	Selection      string `json:"selection"`
	ExcludeContext bool   `json:"excludeContext"`
}

func (ctrl *Controller) GetChatHistoryHandler(c *gin.Context) {
	ws := ctrl.workspaceFromRequest(c)
	if ws == nil {
		return
	}
	history := ws.assist.History()
	if history == nil {
		history = []domain.ConversationMessage{}
	}
	c.JSON(http.StatusOK, gin.H{
		"messages": history,
		"status":   ws.assist.Status(),
		"welcome":  assist.WelcomeMessage,
	})
}

func (ctrl *Controller) SendChatMessageHandler(c *gin.Context) {
	ws := ctrl.workspaceFromRequest(c)
	if ws == nil {
		return
	}
	var req sendChatMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ctrl.ErrorHandler(c, http.StatusBadRequest, err)
		return
	}
	reply, err := ws.assist.Send(c.Request.Context(), req.Text, assist.SendOptions{
		Selection:      req.Selection,
		ExcludeContext: req.ExcludeContext,
	})
	if err != nil {
		ctrl.ErrorHandler(c, domainErrorStatus(err), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reply": reply})
}

func (ctrl *Controller) ClearChatHandler(c *gin.Context) {
	ws := ctrl.workspaceFromRequest(c)
	if ws == nil {
		return
	}
	if err := ws.assist.Clear(); err != nil {
		ctrl.ErrorHandler(c, domainErrorStatus(err), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cleared": true})
}

func (ctrl *Controller) GetSettingsHandler(c *gin.Context) {
	ws := ctrl.workspaceFromRequest(c)
	if ws == nil {
		return
	}
	raw, err := ws.store.GetSettings(c.Request.Context())
	if err != nil {
		ctrl.ErrorHandler(c, http.StatusInternalServerError, err)
		return
	}
	if len(raw) == 0 {
		raw = []byte("{}")
	}
	c.Data(http.StatusOK, "application/json", raw)
}

func (ctrl *Controller) PutSettingsHandler(c *gin.Context) {
	ws := ctrl.workspaceFromRequest(c)
	if ws == nil {
		return
	}
	raw, err := c.GetRawData()
	if err != nil {
		ctrl.ErrorHandler(c, http.StatusBadRequest, err)
		return
	}
	if err := ws.store.PutSettings(c.Request.Context(), raw); err != nil {
		ctrl.ErrorHandler(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"saved": true})
}

func (ctrl *Controller) GetThemeHandler(c *gin.Context) {
	ws := ctrl.workspaceFromRequest(c)
	if ws == nil {
		return
	}
	theme, err := ws.store.Theme(c.Request.Context())
	if err != nil {
		ctrl.ErrorHandler(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"theme": theme})
}

type putThemeRequest struct {
	Theme string `json:"theme"`
}

func (ctrl *Controller) PutThemeHandler(c *gin.Context) {
	ws := ctrl.workspaceFromRequest(c)
	if ws == nil {
		return
	}
	var req putThemeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ctrl.ErrorHandler(c, http.StatusBadRequest, err)
		return
	}
	if err := ws.store.SetTheme(c.Request.Context(), req.Theme); err != nil {
		ctrl.ErrorHandler(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"theme": req.Theme})
}
