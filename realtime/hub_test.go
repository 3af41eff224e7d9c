package realtime

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func TestHubPushesFullSnapshots(t *testing.T) {
	var mu sync.Mutex
	snapshot := []string{"pothole on main st"}

	hub := NewHub(func(ctx context.Context) (interface{}, error) {
		mu.Lock()
		defer mu.Unlock()
		out := make([]string, len(snapshot))
		copy(out, snapshot)
		return out, nil
	})

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		hub.Serve(conn)
	}))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	// Initial snapshot arrives without any notification
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var first []string
	require.NoError(t, conn.ReadJSON(&first))
	require.Equal(t, []string{"pothole on main st"}, first)

	// Each change delivers a full replacement list, not a diff
	mu.Lock()
	snapshot = []string{"pothole on main st", "streetlight out"}
	mu.Unlock()
	hub.Notify()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var second []string
	require.NoError(t, conn.ReadJSON(&second))
	require.Equal(t, []string{"pothole on main st", "streetlight out"}, second)
}

func TestHubNotifyWithoutSubscribersDoesNotBlock(t *testing.T) {
	hub := NewHub(func(ctx context.Context) (interface{}, error) {
		return nil, nil
	})

	done := make(chan struct{})
	go func() {
		hub.Notify()
		hub.Notify()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Notify blocked with no subscribers")
	}
}
