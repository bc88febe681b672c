package gateway

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/judelaw007/connectbymanus-sub000/internal/models"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// WebSocketClient реалізує інтерфейс gateway.Client поверх
// gorilla/websocket.
type WebSocketClient struct {
	ConnID string
	UserID string
	Name   string
	Admin  bool

	Conn *websocket.Conn
	Hub  *Hub
	Send chan models.Event

	closeOnce sync.Once
}

// --- Реалізація методів інтерфейсу ---

func (c *WebSocketClient) GetConnID() string { return c.ConnID }

func (c *WebSocketClient) GetUserID() string { return c.UserID }

func (c *WebSocketClient) GetName() string { return c.Name }

func (c *WebSocketClient) IsAdmin() bool { return c.Admin }

func (c *WebSocketClient) GetSendChannel() chan<- models.Event { return c.Send }

// Run запускає 'pumps' для WebSocket.
func (c *WebSocketClient) Run() {
	go c.writePump()
	go c.readPump()
}

// Close закриває Send канал (що зупинить writePump). Hub може
// викликати його повторно; sync.Once робить повтор безпечним.
func (c *WebSocketClient) Close() {
	c.closeOnce.Do(func() {
		close(c.Send)
	})
	// readPump зупиниться сам, коли Conn.Close() буде викликано в його defer
}

// --- Логіка 'Pump' ---

func (c *WebSocketClient) readPump() {
	// Встановлення таймаутів та обробка закриття з'єднання.
	// Закриття транспорту клієнтом і мережевий збій проходять один
	// і той самий шлях teardown.
	defer func() {
		c.Hub.UnregisterCh <- c // Надсилаємо команду на Unregister
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("error reading message: %v", err)
			}
			break
		}

		var frame models.ClientFrame
		if err := json.Unmarshal(message, &frame); err != nil {
			log.Printf("Error decoding JSON from connection %s: %v", c.ConnID, err)
			continue // Пропускаємо невірне повідомлення
		}

		c.dispatch(frame)
	}
}

// dispatch обробляє один кадр від клієнта. Перевірки доступу ходять у
// сховище, тому виконуються тут, у goroutine читання цього з'єднання:
// власні події з'єднання обробляються в порядку надходження, а цикл
// хаба ніколи не чекає на I/O.
func (c *WebSocketClient) dispatch(frame models.ClientFrame) {
	switch frame.Event {
	case models.EventChannelJoin:
		var ref models.ChannelRef
		if err := json.Unmarshal(frame.Data, &ref); err != nil {
			return
		}
		if err := c.Hub.Authority.CanJoinChannel(c.UserID, ref.ChannelID); err != nil {
			c.sendError(err)
			return
		}
		c.Hub.JoinChannel(c, ref.ChannelID)

	case models.EventChannelLeave:
		var ref models.ChannelRef
		if err := json.Unmarshal(frame.Data, &ref); err != nil {
			return
		}
		c.Hub.Leave(c, ChannelRoom(ref.ChannelID))

	case models.EventTypingStart, models.EventTypingStop:
		var ref models.ChannelRef
		if err := json.Unmarshal(frame.Data, &ref); err != nil {
			return
		}
		c.Hub.Typing(c, ref.ChannelID, frame.Event == models.EventTypingStart)

	case models.EventSupportJoin:
		var ref models.TicketRef
		if err := json.Unmarshal(frame.Data, &ref); err != nil {
			return
		}
		if err := c.Hub.Authority.CanJoinTicket(c.UserID, c.Admin, ref.TicketID); err != nil {
			c.sendError(err)
			return
		}
		c.Hub.Join(c, TicketRoom(ref.TicketID))

	case models.EventSupportLeave:
		var ref models.TicketRef
		if err := json.Unmarshal(frame.Data, &ref); err != nil {
			return
		}
		c.Hub.Leave(c, TicketRoom(ref.TicketID))

	default:
		log.Printf("Unknown event %q from connection %s", frame.Event, c.ConnID)
	}
}

// sendError надсилає подію error лише цьому з'єднанню. З'єднання
// залишається відкритим: відмова в доступі стосується однієї кімнати.
func (c *WebSocketClient) sendError(err error) {
	event := models.Event{
		Name: models.EventError,
		Data: models.ErrorPayload{Message: err.Error()},
	}
	select {
	case c.Send <- event:
	default:
	}
}

// writePump читає повідомлення з каналу Send і записує їх у WebSocket.
func (c *WebSocketClient) writePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Канал закрито хабом, закриваємо з'єднання WS
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			dataToWrite, err := json.Marshal(event)
			if err != nil {
				log.Printf("Error encoding JSON for connection %s: %v", c.ConnID, err)
				continue
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(dataToWrite)

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			// Надсилаємо Ping для підтримки з'єднання активним
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
