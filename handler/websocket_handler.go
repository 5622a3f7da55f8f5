package handler

import (
	"strings"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"social-chat-api/config/logger"
	"social-chat-api/dto"
	"social-chat-api/dto/req"
	"social-chat-api/middleware"
	"social-chat-api/observability/metrics"
	"social-chat-api/usecase"
)

const (
	localRoomID   = "roomId"
	localUserID   = "userId"
	localUsername = "username"
)

const (
	broadcastBuffer = 256
	// clientBuffer is how many events a connection may fall behind before it is dropped.
	clientBuffer = 32
	writeTimeout = 10 * time.Second
)

// RoomConn is the part of a websocket connection the hub writes to.
type RoomConn interface {
	WriteJSON(v interface{}) error
	Close() error
}

type writeDeadliner interface {
	SetWriteDeadline(t time.Time) error
}

// roomClient owns the only goroutine that writes to its connection.
type roomClient struct {
	conn RoomConn
	send chan dto.RoomEvent
}

// RoomHub fans room events out to every connection registered for the room.
// Neither Publish nor the broadcast loop ever waits on a socket write.
type RoomHub struct {
	sync.Mutex
	Clients   map[string]map[RoomConn]*roomClient // roomId -> connections
	Broadcast chan dto.RoomEvent
	Log       *logger.AppLogger
}

func NewRoomHub(log *logger.AppLogger) *RoomHub {
	hub := &RoomHub{
		Clients:   make(map[string]map[RoomConn]*roomClient),
		Broadcast: make(chan dto.RoomEvent, broadcastBuffer),
		Log:       log,
	}
	go hub.runBroadcast()
	return hub
}

// Publish satisfies usecase.RoomNotifier. The event is dropped when the hub is backed up.
func (hub *RoomHub) Publish(event dto.RoomEvent) {
	select {
	case hub.Broadcast <- event:
	default:
		metrics.RoomEventsDroppedTotal.Inc()
		hub.Log.WS.Warning.Warn().Str("roomId", event.RoomID).Str("type", event.Type).Msg("hub backed up, room event dropped")
	}
}

func (hub *RoomHub) Register(roomID string, conn RoomConn) {
	client := &roomClient{conn: conn, send: make(chan dto.RoomEvent, clientBuffer)}

	hub.Lock()
	if hub.Clients[roomID] == nil {
		hub.Clients[roomID] = make(map[RoomConn]*roomClient)
	}
	if old, ok := hub.Clients[roomID][conn]; ok {
		close(old.send)
	} else {
		metrics.RoomConnections.Inc()
	}
	hub.Clients[roomID][conn] = client
	total := len(hub.Clients[roomID])
	hub.Unlock()

	go hub.writePump(roomID, client)
	hub.Log.WS.Info.Info().Str("roomId", roomID).Int("total", total).Msg("client joined room")
}

func (hub *RoomHub) Unregister(roomID string, conn RoomConn) {
	hub.Lock()
	defer hub.Unlock()
	hub.remove(roomID, conn)
}

func (hub *RoomHub) Connections(roomID string) int {
	hub.Lock()
	defer hub.Unlock()
	return len(hub.Clients[roomID])
}

// remove expects the lock to be held. Closing send stops the client's writer.
func (hub *RoomHub) remove(roomID string, conn RoomConn) {
	client, ok := hub.Clients[roomID][conn]
	if !ok {
		return
	}
	clients := hub.Clients[roomID]
	delete(clients, conn)
	if len(clients) == 0 {
		delete(hub.Clients, roomID)
	}
	close(client.send)
	metrics.RoomConnections.Dec()
	hub.Log.WS.Info.Info().Str("roomId", roomID).Msg("client left room")
}

func (hub *RoomHub) runBroadcast() {
	for event := range hub.Broadcast {
		var slow []RoomConn

		hub.Lock()
		for conn, client := range hub.Clients[event.RoomID] {
			select {
			case client.send <- event:
			default:
				slow = append(slow, conn)
			}
		}
		for _, conn := range slow {
			hub.remove(event.RoomID, conn)
		}
		hub.Unlock()

		for _, conn := range slow {
			hub.Log.WS.Warning.Warn().Str("roomId", event.RoomID).Msg("client too slow, dropping connection")
			_ = conn.Close()
		}
	}
}

// writePump delivers queued events until send is closed or a write fails.
func (hub *RoomHub) writePump(roomID string, client *roomClient) {
	for event := range client.send {
		if d, ok := client.conn.(writeDeadliner); ok {
			_ = d.SetWriteDeadline(time.Now().Add(writeTimeout))
		}
		if err := client.conn.WriteJSON(event); err != nil {
			hub.Log.WS.Warning.Warn().Err(err).Str("roomId", roomID).Msg("failed to deliver room event")
			hub.Lock()
			hub.removeClient(roomID, client)
			hub.Unlock()
			_ = client.conn.Close()
			return
		}
	}
}

// removeClient drops client only if it is still the registered one for its conn.
func (hub *RoomHub) removeClient(roomID string, client *roomClient) {
	if current, ok := hub.Clients[roomID][client.conn]; ok && current == client {
		hub.remove(roomID, client.conn)
	}
}

type WebSocketHandler struct {
	Hub *RoomHub
	usecase.ChatroomUsecase
	*logrus.Logger
}

func NewWebSocketHandler(hub *RoomHub, chatroomUsecase usecase.ChatroomUsecase, logger *logrus.Logger) *WebSocketHandler {
	return &WebSocketHandler{Hub: hub, ChatroomUsecase: chatroomUsecase, Logger: logger}
}

// Upgrade only lets members of :id through to the socket.
func (handler *WebSocketHandler) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	claims := middleware.UserFromContext(c)
	if claims == nil {
		return fiber.ErrUnauthorized
	}

	roomID := c.Params("id")
	member, err := handler.ChatroomUsecase.IsMember(c.Context(), roomID, claims.UserID)
	if err != nil {
		return err
	}
	if !member {
		return fiber.NewError(fiber.StatusForbidden, "not a member of this chat room")
	}

	c.Locals(localRoomID, strings.Clone(roomID))
	c.Locals(localUserID, claims.UserID)
	c.Locals(localUsername, claims.Username)
	return c.Next()
}

func (handler *WebSocketHandler) HandleWebSocket(c *websocket.Conn) {
	roomID, _ := c.Locals(localRoomID).(string)
	userID, _ := c.Locals(localUserID).(string)
	username, _ := c.Locals(localUsername).(string)

	handler.Hub.Register(roomID, c)
	defer func() {
		handler.Hub.Unregister(roomID, c)
		_ = c.Close()
	}()

	for {
		var payload req.RoomMessageRequest
		if err := c.ReadJSON(&payload); err != nil {
			handler.Logger.Debugf("room %s socket closed for %s: %v", roomID, userID, err)
			return
		}
		if strings.TrimSpace(payload.Content) == "" {
			continue
		}
		handler.Hub.Publish(dto.RoomEvent{
			Type:      dto.EventMessage,
			RoomID:    roomID,
			UserID:    userID,
			Username:  username,
			Content:   payload.Content,
			CreatedAt: time.Now(),
		})
	}
}
