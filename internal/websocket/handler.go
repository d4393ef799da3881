package websocket

import (
	"github.com/gofiber/websocket/v2"
)

// ServeWs wires an upgraded connection into the hub.
func ServeWs(hub *Hub, c *websocket.Conn, userID string) {
	client := &Client{Hub: hub, Conn: c, UserID: userID, Send: make(chan []byte, 256)}
	client.Hub.register <- client

	go client.writePump()
	client.readPump()
}
