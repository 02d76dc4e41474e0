package gameserver

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/config"
	"github.com/cory-johannsen/skirmish/internal/game/room"
)

const writeTimeout = 5 * time.Second

// Gateway is the websocket boundary. It accepts connections, decodes client
// messages into service calls, and implements room.Broadcaster for the
// outbound direction. It satisfies server.Service for lifecycle management.
type Gateway struct {
	logger *zap.Logger
	cfg    config.ServerConfig

	service    *CombatService
	httpServer *http.Server

	mu      sync.RWMutex
	clients map[string]*client            // client ID → client
	rooms   map[string]map[string]*client // room ID → client ID → client
}

// client is one live websocket connection.
type client struct {
	id     string
	conn   *websocket.Conn
	roomID string

	writeMu sync.Mutex
}

// NewGateway creates a Gateway. AttachService must be called before Start.
//
// Precondition: cfg must be validated.
func NewGateway(logger *zap.Logger, cfg config.ServerConfig) *Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gateway{
		logger:  logger,
		cfg:     cfg,
		clients: make(map[string]*client),
		rooms:   make(map[string]map[string]*client),
	}
}

// AttachService binds the combat service. Split from construction because
// the service needs the gateway as its Broadcaster.
//
// Precondition: svc must be non-nil; must be called before Start.
func (g *Gateway) AttachService(svc *CombatService) {
	g.service = svc
}

// Handler returns the HTTP handler serving the websocket endpoint at /ws.
func (g *Gateway) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", g.handleWebsocket)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

// Start listens on the configured address and serves until Stop is called.
// Blocks, satisfying server.Service.
//
// Precondition: AttachService has been called.
func (g *Gateway) Start() error {
	if g.service == nil {
		return errors.New("gateway: no service attached")
	}

	ln, err := net.Listen("tcp", g.cfg.Addr())
	if err != nil {
		return err
	}
	g.httpServer = &http.Server{Handler: g.Handler()}

	g.logger.Info("websocket gateway listening", zap.String("addr", g.cfg.Addr()))
	if err := g.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop gracefully shuts the HTTP server down, closing live connections.
func (g *Gateway) Stop() {
	if g.httpServer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), g.cfg.ShutdownTimeout)
	defer cancel()
	if err := g.httpServer.Shutdown(ctx); err != nil {
		g.logger.Warn("gateway shutdown", zap.Error(err))
	}

	g.mu.Lock()
	clients := make([]*client, 0, len(g.clients))
	for _, c := range g.clients {
		clients = append(clients, c)
	}
	g.mu.Unlock()
	for _, c := range clients {
		_ = c.conn.Close(websocket.StatusGoingAway, "server shutting down")
	}
}

func (g *Gateway) acceptOptions() *websocket.AcceptOptions {
	for _, origin := range g.cfg.AllowedOrigins {
		if origin == "*" {
			return &websocket.AcceptOptions{InsecureSkipVerify: true}
		}
	}
	return &websocket.AcceptOptions{OriginPatterns: g.cfg.AllowedOrigins}
}

func (g *Gateway) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, g.acceptOptions())
	if err != nil {
		g.logger.Warn("websocket accept failed", zap.Error(err))
		return
	}

	c := &client{id: uuid.NewString(), conn: conn}
	g.register(c)
	g.logger.Info("client connected", zap.String("client", c.id))

	defer func() {
		g.disconnect(c)
		_ = conn.CloseNow()
		g.logger.Info("client disconnected", zap.String("client", c.id))
	}()

	ctx := r.Context()
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			g.sendError(c, "Malformed message")
			continue
		}
		g.dispatch(c, msg)
	}
}

// dispatch routes one decoded client message to the service.
func (g *Gateway) dispatch(c *client, msg ClientMessage) {
	switch msg.Type {
	case MessageJoin:
		var data JoinData
		if err := json.Unmarshal(msg.Data, &data); err != nil || data.RoomID == "" || data.Username == "" {
			g.sendError(c, "Join requires username and roomId")
			return
		}
		if c.roomID != "" {
			g.sendError(c, "Already in a room")
			return
		}
		member := room.Member{ID: c.id, DisplayName: data.Username}
		if data.Stats != nil {
			member.Stats = *data.Stats
		}
		// Register before Join so the joining player hears playerJoined.
		g.placeInRoom(c, data.RoomID)
		if err := g.service.Join(data.RoomID, member); err != nil {
			g.removeFromRoom(c)
			g.sendError(c, "Could not join room")
			return
		}

	case MessageLeave:
		if c.roomID == "" {
			return
		}
		roomID := c.roomID
		g.removeFromRoom(c)
		g.service.Leave(roomID, c.id)

	case MessageInitiateCombat:
		if c.roomID == "" {
			g.sendError(c, "Join a room first")
			return
		}
		var data InitiateCombatData
		if len(msg.Data) > 0 {
			if err := json.Unmarshal(msg.Data, &data); err != nil {
				g.sendError(c, "Malformed initiateCombat payload")
				return
			}
		}
		g.service.InitiateCombat(c.roomID, c.id, data)

	case MessageCombatAction:
		if c.roomID == "" {
			g.sendError(c, "Join a room first")
			return
		}
		var data CombatActionData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			g.sendError(c, "Malformed combatAction payload")
			return
		}
		g.service.HandleAction(c.roomID, c.id, data)

	default:
		g.sendError(c, "Unknown message type")
	}
}

// Broadcast implements room.Broadcaster.
func (g *Gateway) Broadcast(roomID, event string, payload any) {
	data, err := json.Marshal(ServerMessage{Event: event, Data: payload})
	if err != nil {
		g.logger.Error("marshalling broadcast", zap.String("event", event), zap.Error(err))
		return
	}

	g.mu.RLock()
	members := make([]*client, 0, len(g.rooms[roomID]))
	for _, c := range g.rooms[roomID] {
		members = append(members, c)
	}
	g.mu.RUnlock()

	for _, c := range members {
		g.send(c, data)
	}
}

// NotifyError implements room.Broadcaster.
func (g *Gateway) NotifyError(memberID, message string) {
	g.mu.RLock()
	c, ok := g.clients[memberID]
	g.mu.RUnlock()
	if !ok {
		return
	}
	g.sendError(c, message)
}

func (g *Gateway) sendError(c *client, message string) {
	data, err := json.Marshal(ServerMessage{
		Event: EventCombatError,
		Data:  CombatErrorPayload{Message: message},
	})
	if err != nil {
		return
	}
	g.send(c, data)
}

func (g *Gateway) send(c *client, data []byte) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	if err := c.conn.Write(ctx, websocket.MessageText, data); err != nil {
		g.logger.Debug("write failed", zap.String("client", c.id), zap.Error(err))
	}
}

func (g *Gateway) register(c *client) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.clients[c.id] = c
}

func (g *Gateway) placeInRoom(c *client, roomID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	c.roomID = roomID
	if g.rooms[roomID] == nil {
		g.rooms[roomID] = make(map[string]*client)
	}
	g.rooms[roomID][c.id] = c
}

func (g *Gateway) removeFromRoom(c *client) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if c.roomID == "" {
		return
	}
	if members, ok := g.rooms[c.roomID]; ok {
		delete(members, c.id)
		if len(members) == 0 {
			delete(g.rooms, c.roomID)
		}
	}
	c.roomID = ""
}

// disconnect cleans up after a closed connection, leaving any joined room.
func (g *Gateway) disconnect(c *client) {
	roomID := c.roomID
	g.removeFromRoom(c)

	g.mu.Lock()
	delete(g.clients, c.id)
	g.mu.Unlock()

	if roomID != "" {
		g.service.Leave(roomID, c.id)
	}
}
