package ws

import (
	"net/http"

	"github.com/gorilla/websocket"
)

// Upgrader handles WebSocket upgrades. Origins are checked by the CORS layer, not here.
var Upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}
