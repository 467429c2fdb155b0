package handler

import (
	"testing"

	"github.com/gofiber/contrib/websocket"
	"github.com/stretchr/testify/assert"
)

func TestSeatRoomBookkeeping(t *testing.T) {
	c1 := &websocket.Conn{}
	c2 := &websocket.Conn{}

	// hai client cùng suất dùng chung một room
	joinRoom(42, c1)
	joinRoom(42, c2)
	mu.Lock()
	room := rooms[42]
	assert.NotNil(t, room)
	assert.Len(t, room.conns, 2)
	mu.Unlock()

	leaveRoom(42, c1)
	mu.Lock()
	assert.Len(t, rooms[42].conns, 1)
	mu.Unlock()

	// client cuối rời đi thì room bị dọn và subscription dừng
	leaveRoom(42, c2)
	mu.Lock()
	assert.Nil(t, rooms[42])
	mu.Unlock()
}
