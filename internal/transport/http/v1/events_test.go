package v1

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/xiaot623/gogo/panel/internal/domain"
)

func TestStreamEventsForwardsBusEvents(t *testing.T) {
	h, svc, _ := newTestHandler(t)

	e := echo.New()
	h.RegisterRoutes(e)
	server := httptest.NewServer(e)
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/v1/events"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	// The subscription is established after the upgrade; keep toggling until
	// an event arrives.
	received := make(chan domain.Event, 1)
	go func() {
		var ev domain.Event
		if err := conn.ReadJSON(&ev); err == nil {
			received <- ev
		}
	}()

	deadline := time.After(2 * time.Second)
	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case ev := <-received:
			require.Equal(t, domain.EventTypeRunState, ev.Type)
			return
		case <-ticker.C:
			svc.Reset()
		case <-deadline:
			t.Fatal("no event received over websocket")
		}
	}
}

func TestStreamEventsWithoutSource(t *testing.T) {
	_, svc, _ := newTestHandler(t)
	h := NewHandler(svc, nil)

	e := echo.New()
	rec := doJSON(t, e, "GET", "/v1/events", "", nil, nil, h.StreamEvents)
	require.Equal(t, 503, rec.Code)
}
