package socket

import (
	"log"

	socketio "github.com/googollee/go-socket.io"
)

// NewSocketServer initializes and returns a new Socket.IO server.
// Dashboard clients join their team's room and receive a pollUpdate event
// whenever a player's availability response is recorded.
func NewSocketServer() *socketio.Server {
	server := socketio.NewServer(nil)

	server.OnConnect("/", func(c socketio.Conn) error {
		log.Println("✅ Socket connected:", c.ID())
		return nil
	})

	server.OnEvent("/", "join", func(c socketio.Conn, teamID string) {
		if teamID == "" {
			log.Println("❌ Invalid teamId in join request")
			return
		}
		log.Printf("👥 Client %s joined team %s\n", c.ID(), teamID)
		c.Join(teamRoom(teamID))
	})

	server.OnError("/", func(c socketio.Conn, err error) {
		log.Println("❌ Socket error:", err)
	})

	server.OnDisconnect("/", func(c socketio.Conn, reason string) {
		log.Println("❌ Socket disconnected:", c.ID(), reason)
	})

	return server
}

func teamRoom(teamID string) string {
	return "team:" + teamID
}

// Hub adapts the Socket.IO server to the poll engine's broadcast hook
type Hub struct {
	Server *socketio.Server
}

// PollUpdated pushes a recorded response to the team's dashboard room
func (h *Hub) PollUpdated(teamID string, payload interface{}) {
	h.Server.BroadcastToRoom("/", teamRoom(teamID), "pollUpdate", payload)
}
