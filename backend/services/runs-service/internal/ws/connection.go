package ws

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	readTimeout = 60 * time.Second
	sendBuffer  = 16
)

// Connection is one live subscriber. Only the write pump writes to the socket.
type Connection struct {
	id           uint64
	ws           *websocket.Conn
	send         chan []byte
	done         chan struct{}
	stopOnce     sync.Once
	logger       *zap.Logger
	writeTimeout time.Duration
	pingInterval time.Duration
	onClose      func(id uint64)
}

// NewConnection builds connection wrapper.
func NewConnection(id uint64, ws *websocket.Conn, writeTimeout, pingInterval time.Duration, logger *zap.Logger, onClose func(uint64)) *Connection {
	return &Connection{
		id:           id,
		ws:           ws,
		send:         make(chan []byte, sendBuffer),
		done:         make(chan struct{}),
		logger:       logger,
		writeTimeout: writeTimeout,
		pingInterval: pingInterval,
		onClose:      onClose,
	}
}

// ID returns identifier.
func (c *Connection) ID() uint64 {
	return c.id
}

// Start launches the write pump and blocks in the read pump until the peer goes away.
func (c *Connection) Start() {
	go c.writePump()
	c.readPump()
}

// readPump only drains control frames; subscribers have nothing to say.
func (c *Connection) readPump() {
	defer c.cleanup()
	c.ws.SetReadLimit(4096)
	_ = c.ws.SetReadDeadline(time.Now().Add(readTimeout))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(readTimeout))
	})

	for {
		if _, _, err := c.ws.ReadMessage(); err != nil {
			c.logger.Debug("subscriber read closed", zap.Uint64("conn_id", c.id), zap.Error(err))
			return
		}
	}
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(c.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			_ = c.write(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case msg := <-c.send:
			if err := c.write(websocket.TextMessage, msg); err != nil {
				_ = c.ws.Close()
				return
			}
		case <-ticker.C:
			if err := c.write(websocket.PingMessage, nil); err != nil {
				_ = c.ws.Close()
				return
			}
		}
	}
}

// Send enqueues a message for writing. Slow subscribers lose messages rather
// than stall the broadcaster.
func (c *Connection) Send(msg []byte) {
	select {
	case <-c.done:
		return
	default:
	}
	select {
	case c.send <- msg:
	default:
		c.logger.Warn("dropping outgoing message, buffer full", zap.Uint64("conn_id", c.id))
	}
}

// Close asks the write pump to send a close frame and stop.
func (c *Connection) Close() {
	_ = c.ws.SetReadDeadline(time.Now().Add(c.writeTimeout))
	c.stop()
}

func (c *Connection) stop() {
	c.stopOnce.Do(func() { close(c.done) })
}

func (c *Connection) write(messageType int, data []byte) error {
	_ = c.ws.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	return c.ws.WriteMessage(messageType, data)
}

func (c *Connection) cleanup() {
	c.stop()
	_ = c.ws.Close()
	if c.onClose != nil {
		c.onClose(c.id)
	}
}
