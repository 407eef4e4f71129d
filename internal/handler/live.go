package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	core "document-downloader/api/internal/service"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// LiveHandler streams newly logged downloads to the admin UI over WebSocket
type LiveHandler struct {
	rdb    *redis.Client
	secret string
}

// NewLiveHandler creates a live feed handler
func NewLiveHandler(rdb *redis.Client, secret string) *LiveHandler {
	return &LiveHandler{rdb: rdb, secret: secret}
}

// Downloads handles GET /ws/downloads. Browsers cannot set an Authorization
// header on a WebSocket handshake, so the admin UI passes its JWT as a
// token query parameter.
func (h *LiveHandler) Downloads(c *gin.Context) {
	if _, err := core.VerifyToken(c.Query("token"), h.secret); err != nil {
		core.AbortWithMessage(c, core.ErrUnauthorized, "invalid token")
		return
	}

	if h.rdb == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "message": "live feed requires redis"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	subscribeAndForward(conn, h.rdb, LiveDownloadsChannel)
}

// subscribeAndForward pumps a Redis channel into a WebSocket connection until
// either side goes away
func subscribeAndForward(conn *websocket.Conn, rdb *redis.Client, channel string) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pubsub := rdb.Subscribe(ctx, channel)
	defer pubsub.Close()

	// Watch for the client hanging up.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	ch := pubsub.Channel()
	for {
		select {
		case msg := <-ch:
			if msg == nil {
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}
