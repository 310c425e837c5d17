// Command ws_smoke connects to a running server, joins an interview room and
// exercises the realtime events end to end. Useful for manual verification
// against a local instance.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

func main() {
	addr := flag.String("addr", "ws://localhost:8000", "server base address")
	interview := flag.String("interview", "", "interview id to join")
	token := flag.String("token", "", "JWT access token")
	code := flag.String("code", "print('smoke test')", "editor contents to sync")
	message := flag.String("message", "hello from smoke test", "chat message to send")
	timeout := flag.Duration("timeout", 5*time.Second, "total timeout for the run")
	flag.Parse()

	if *interview == "" || *token == "" {
		log.Fatal("both -interview and -token are required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	url := fmt.Sprintf("%s/api/interviews/%s/ws?token=%s", *addr, *interview, *token)
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		log.Fatalf("dial: %v", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	mustSend := func(v any) {
		if err := wsjson.Write(ctx, conn, v); err != nil {
			log.Fatalf("send: %v", err)
		}
	}

	mustSend(map[string]any{"type": "code_update", "code": *code})
	mustSend(map[string]any{"type": "chat_message", "message": *message})
	mustSend(map[string]any{"type": "typing", "is_typing": false})

	// The first frame is the membership snapshot; the chat echo follows.
	for i := 0; i < 2; i++ {
		var frame map[string]any
		if err := wsjson.Read(ctx, conn, &frame); err != nil {
			log.Fatalf("read: %v", err)
		}
		fmt.Printf("received: type=%v frame=%v\n", frame["type"], frame)
	}
}
