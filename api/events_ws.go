package api

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// EventsWebsocketHandler streams every workspace event (file tree, tabs,
// saves, conversation, assistant status) to the client as JSON messages.
func (ctrl *Controller) EventsWebsocketHandler(allowedOrigins *AllowedOrigins) gin.HandlerFunc {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     CheckWebSocketOrigin(allowedOrigins),
	}

	return func(c *gin.Context) {
		ws := ctrl.workspaceFromRequest(c)
		if ws == nil {
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			http.Error(c.Writer, "Could not open websocket connection", http.StatusBadRequest)
			return
		}
		defer conn.Close()

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		events := ws.store.Subscribe()
		defer ws.store.Unsubscribe(events)

		// Handle disconnection detection in a separate goroutine
		go func() {
			for {
				if _, _, err := conn.NextReader(); err != nil {
					cancel()
					return
				}
			}
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-events:
				if !ok {
					return
				}
				if err := conn.WriteJSON(event); err != nil {
					log.Printf("Error writing event to websocket: %v", err)
					return
				}
			}
		}
	}
}
