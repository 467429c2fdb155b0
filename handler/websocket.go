package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"sync"

	"cinema_chain/config"

	"github.com/gofiber/contrib/websocket"
	"github.com/redis/go-redis/v9"
)

var (
	redisClient = redis.NewClient(&redis.Options{
		Addr: config.ConfigDefault("REDIS_ADDR", "localhost:6379"),
	})

	rooms = make(map[uint]*seatRoom)
	mu    sync.Mutex
)

// seatRoom gom các client WS đang xem cùng một suất chiếu. Mỗi room chỉ giữ
// đúng một subscription Redis, client thứ N không mở thêm subscription mới.
type seatRoom struct {
	conns map[*websocket.Conn]bool
	stop  context.CancelFunc
}

func screeningChannel(screeningId uint) string {
	return fmt.Sprintf("screening:%d", screeningId)
}

// joinRoom đăng ký client vào room của suất chiếu; client đầu tiên khởi động
// vòng bơm message từ Redis
func joinRoom(screeningId uint, c *websocket.Conn) {
	mu.Lock()
	defer mu.Unlock()

	room := rooms[screeningId]
	if room == nil {
		ctx, cancel := context.WithCancel(context.Background())
		room = &seatRoom{conns: make(map[*websocket.Conn]bool), stop: cancel}
		rooms[screeningId] = room
		go pumpRoom(ctx, screeningId)
	}
	room.conns[c] = true
}

// leaveRoom gỡ client; client cuối cùng rời đi thì dừng subscription
func leaveRoom(screeningId uint, c *websocket.Conn) {
	mu.Lock()
	defer mu.Unlock()

	room := rooms[screeningId]
	if room == nil {
		return
	}
	delete(room.conns, c)
	if len(room.conns) == 0 {
		room.stop()
		delete(rooms, screeningId)
	}
}

// pumpRoom là subscription Redis duy nhất của room: mỗi message sơ đồ ghế
// được phát đúng một lần tới từng client
func pumpRoom(ctx context.Context, screeningId uint) {
	pubsub := redisClient.Subscribe(ctx, screeningChannel(screeningId))
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			payload := []byte(msg.Payload)

			mu.Lock()
			room := rooms[screeningId]
			if room == nil {
				mu.Unlock()
				return
			}
			for conn := range room.conns {
				// Nếu client lỗi → xoá
				if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
					conn.Close()
					delete(room.conns, conn)
				}
			}
			mu.Unlock()
		}
	}
}

// PublishSeatUpdate đẩy sơ đồ ghế hiện tại của suất chiếu lên Redis để mọi
// client WS đang xem suất đó nhận được. Best-effort: lỗi chỉ log.
func PublishSeatUpdate(screeningId uint) {
	views, err := FetchScreeningSeats(screeningId)
	if err != nil {
		log.Printf("Lỗi lấy sơ đồ ghế suất %d: %v", screeningId, err)
		return
	}
	payload, err := json.Marshal(views)
	if err != nil {
		log.Printf("Lỗi marshal sơ đồ ghế suất %d: %v", screeningId, err)
		return
	}
	if err := redisClient.Publish(context.Background(), screeningChannel(screeningId), payload).Err(); err != nil {
		log.Printf("Lỗi publish sơ đồ ghế suất %d: %v", screeningId, err)
	}
}

// WebSocketConnection xử lý WS connection theo dõi ghế của một suất chiếu
func WebSocketConnection(c *websocket.Conn) {
	// Lấy screeningId từ route
	screeningIdStr := c.Params("id")
	id64, _ := strconv.ParseUint(screeningIdStr, 10, 64)
	screeningId := uint(id64)

	joinRoom(screeningId, c)
	defer func() {
		leaveRoom(screeningId, c)
		c.Close()
	}()

	// Gửi danh sách ghế lần đầu
	seats, _ := FetchScreeningSeats(screeningId)
	c.WriteJSON(seats)

	// Giữ connection tới khi client ngắt
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			return
		}
	}
}
