package realtime

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// Upgrade gates the websocket route, rejecting plain HTTP requests.
func Upgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// ServeWS returns the websocket handler streaming hub events to the peer.
func ServeWS(hub *Hub) fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		client := hub.Register()
		defer hub.Unregister(client)

		// Drain reads so close frames are noticed.
		go func() {
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					hub.Unregister(client)
					return
				}
			}
		}()

		for change := range client.Events() {
			if err := conn.WriteJSON(change); err != nil {
				return
			}
		}
	})
}
