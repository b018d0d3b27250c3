package live

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wolfman30/autocare-booking/internal/session"
	"github.com/wolfman30/autocare-booking/pkg/logging"
	"golang.org/x/net/websocket"
)

func newTestServer(t *testing.T, h *Hub) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Query().Get("session")
		if id != "" {
			r = r.WithContext(session.WithID(r.Context(), id))
		}
		h.HandleWebSocket(w, r)
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	ws, err := websocket.Dial(url, "", "http://localhost/")
	require.NoError(t, err)
	t.Cleanup(func() { ws.Close() })
	require.NoError(t, ws.SetDeadline(time.Now().Add(5*time.Second)))
	return ws
}

func snapshots(_ context.Context, id string) (any, error) {
	if id != "s1" {
		return nil, errors.New("unknown")
	}
	return map[string]string{"id": id}, nil
}

func TestHubSendsSnapshotAndPong(t *testing.T) {
	h := NewHub(snapshots, logging.New("error"))
	ws := dial(t, newTestServer(t, h)+"/?session=s1")

	var msg struct {
		Type    string            `json:"type"`
		Session map[string]string `json:"session"`
		Seq     uint64            `json:"seq"`
	}
	require.NoError(t, websocket.JSON.Receive(ws, &msg))
	assert.Equal(t, "snapshot", msg.Type)
	assert.Equal(t, "s1", msg.Session["id"])

	require.NoError(t, websocket.JSON.Send(ws, InboundMessage{Type: "ping"}))
	var pong OutboundMessage
	require.NoError(t, websocket.JSON.Receive(ws, &pong))
	assert.Equal(t, "pong", pong.Type)

	h.Publish("s1", map[string]string{"id": "s1", "v": "2"})
	msg.Session = nil
	require.NoError(t, websocket.JSON.Receive(ws, &msg))
	assert.Equal(t, "snapshot", msg.Type)
	assert.Equal(t, "2", msg.Session["v"])
	assert.Equal(t, uint64(1), msg.Seq)
}

func TestHubRejectsUnknownSession(t *testing.T) {
	h := NewHub(snapshots, logging.New("error"))
	_, err := websocket.Dial(newTestServer(t, h)+"/?session=other", "", "http://localhost/")
	assert.Error(t, err)

	_, err = websocket.Dial(newTestServer(t, h)+"/", "", "http://localhost/")
	assert.Error(t, err)
}

func TestHubPublishWithoutSubscribers(t *testing.T) {
	h := NewHub(snapshots, nil)
	h.Publish("nobody", "x")
	assert.Zero(t, h.Subscribers("nobody"))
}
