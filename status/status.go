// Package status pushes batch decode progress to websocket subscribers of
// the browser UI. Fire-and-forget: a slow subscriber drops messages, the
// decode never blocks on the UI.
package status

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	INFO = iota
	ERROR
	PROGRESS
)

type status struct {
	Message  string
	Time     time.Time
	Type     int
	Progress float32
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

var (
	globalLock  sync.Mutex
	clients     = make(map[*client]bool)
	lastMessage []byte
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

func Handler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[status] ws upgrade error: %v", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, 32)}
	globalLock.Lock()
	clients[c] = true
	if lastMessage != nil {
		c.send <- lastMessage
	}
	globalLock.Unlock()
	go c.writePump()
}

func (c *client) writePump() {
	ticker := time.NewTicker(time.Second * 30)
	defer func() {
		ticker.Stop()
		globalLock.Lock()
		delete(clients, c)
		globalLock.Unlock()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(40 * time.Second))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				log.Printf("[status] ws write msg error: %v", err)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(40 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func broadcast(s *status) {
	data, err := json.Marshal(s)
	if err != nil {
		return
	}
	globalLock.Lock()
	lastMessage = data
	for c := range clients {
		select {
		case c.send <- data:
		default:
		}
	}
	globalLock.Unlock()
}

func Info(format string, a ...interface{}) {
	msg := fmt.Sprintf(format, a...)
	log.Printf("[status] %s", msg)
	broadcast(&status{Message: msg, Time: time.Now(), Type: INFO})
}

func Error(format string, a ...interface{}) {
	msg := fmt.Sprintf(format, a...)
	log.Printf("[status] error: %s", msg)
	broadcast(&status{Message: msg, Time: time.Now(), Type: ERROR})
}

func Progress(done, total int, message string) {
	p := float32(1)
	if total > 0 {
		p = float32(done) / float32(total)
	}
	broadcast(&status{Message: message, Time: time.Now(), Type: PROGRESS, Progress: p})
}
