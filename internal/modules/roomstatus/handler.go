package roomstatus

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"hotel/internal/middleware"
	"hotel/internal/modules/access"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	writeWait  = 10 * time.Second
)

// ClientMessage is what a client may send over the socket.
type ClientMessage struct {
	Type    string `json:"type"`
	HotelID int64  `json:"hotel_id"`
}

type reply struct {
	Type    string `json:"type"`
	HotelID int64  `json:"hotel_id,omitempty"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

type Handler struct {
	hub      *Hub
	upgrader websocket.Upgrader
}

// NewHandler accepts any origin when origins is empty.
func NewHandler(hub *Hub, origins []string) *Handler {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}
	return &Handler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return len(allowed) == 0 || origin == "" || allowed[origin]
			},
		},
	}
}

// RegisterRoutes mounts GET /rooms. rg must run JWTAuth with AllowQueryToken
// since browsers cannot set headers on a websocket handshake.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/rooms", middleware.RequirePermission(access.ResourceRoom, access.OpList), h.Serve)
}

func (h *Handler) Serve(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("level=warn msg=\"websocket upgrade failed\" err=%v", err)
		return
	}

	var userID int64
	if actor := middleware.ActorFrom(c); actor != nil {
		userID = actor.UserID
	}

	cl := newClient(conn)
	h.hub.register(cl)
	defer h.hub.unregister(cl)

	go writeLoop(cl)
	readLoop(cl, userID)
}

// writeLoop is the only writer on the connection.
func writeLoop(cl *client) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-cl.send:
			_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = cl.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := cl.conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cl.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func readLoop(cl *client, userID int64) {
	_ = cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	cl.conn.SetPongHandler(func(string) error {
		return cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := cl.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("level=warn msg=\"websocket read failed\" user_id=%d err=%v", userID, err)
			}
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			cl.push(reply{Type: TypeError, Code: "INVALID_JSON", Message: "Failed to parse message"})
			continue
		}

		switch msg.Type {
		case TypeSubscribe:
			if msg.HotelID <= 0 {
				cl.push(reply{Type: TypeError, Code: "INVALID_HOTEL", Message: "hotel_id is required"})
				continue
			}
			cl.subscribe(msg.HotelID)
			cl.push(reply{Type: TypeSubscribed, HotelID: msg.HotelID})
		case TypeUnsubscribe:
			cl.unsubscribe(msg.HotelID)
			cl.push(reply{Type: TypeUnsubscribed, HotelID: msg.HotelID})
		case TypePing:
			cl.push(reply{Type: TypePong})
		default:
			cl.push(reply{Type: TypeError, Code: "UNKNOWN_TYPE", Message: "Unknown message type: " + msg.Type})
		}
	}
}
