package notify

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lab1702/trading-app/pkg/logger"
)

func dialTestHub(t *testing.T, h *Hub) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = h.Serve(w, r)
	}))
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	// The dial can return before Serve has registered the client.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		h.mu.Lock()
		n := len(h.clients)
		h.mu.Unlock()
		if n == 1 {
			return conn
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("client never registered")
	return nil
}

func TestHubBroadcastDelivers(t *testing.T) {
	h := NewHub(logger.Nop())
	conn := dialTestHub(t, h)

	h.Broadcast(Notification{ID: 7, Severity: SeverityError, Message: "fetch failed"})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got Notification
	if err := conn.ReadJSON(&got); err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.ID != 7 || got.Message != "fetch failed" {
		t.Fatalf("unexpected payload: %+v", got)
	}
}

func TestHubConcurrentBroadcast(t *testing.T) {
	h := NewHub(logger.Nop())
	conn := dialTestHub(t, h)

	const writers = 8
	const perWriter = 200

	done := make(chan error, 1)
	go func() {
		for i := 0; i < writers*perWriter; i++ {
			var n Notification
			if err := conn.ReadJSON(&n); err != nil {
				done <- err
				return
			}
			if n.Severity != SeverityError || n.Message != "stage failed" {
				done <- fmt.Errorf("corrupt payload: %+v", n)
				return
			}
		}
		done <- nil
	}()

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				h.Broadcast(Notification{Severity: SeverityError, Message: "stage failed"})
			}
		}()
	}
	wg.Wait()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("read: %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("timed out waiting for broadcasts")
	}
}
