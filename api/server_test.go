package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/hackz-rabuka/room-server/game/room"
	"github.com/hackz-rabuka/room-server/game/service"
	wstransport "github.com/hackz-rabuka/room-server/transport/websocket"
)

// newTestServer wires the full stack: registry, hub, service, HTTP server.
func newTestServer(t *testing.T) (*httptest.Server, service.RoomService, *room.Registry) {
	t.Helper()

	registry := room.NewRegistry()
	hub := wstransport.NewHub()
	go hub.Run()

	svc := service.NewRoomService(registry, hub, service.Options{})
	server := httptest.NewServer(NewServer(svc, hub))
	t.Cleanup(server.Close)

	return server, svc, registry
}

func getJSON(t *testing.T, url string, out interface{}) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
	return resp.StatusCode
}

func TestResultEndpoint(t *testing.T) {
	server, svc, _ := newTestServer(t)
	ctx := context.Background()

	svc.Dispatch(ctx, []byte(`{"message":"create","roomHash":"R1","clientId":"A"}`))
	svc.Dispatch(ctx, []byte(`{"message":"join","roomHash":"R1","clientId":"B"}`))
	svc.Dispatch(ctx, []byte(`{"roomHash":"R1","clientId":"B","value":2.5}`))

	var scores []struct {
		ClientID string  `json:"clientid"`
		Value    float64 `json:"value"`
	}
	status := getJSON(t, server.URL+"/result?roomId=R1", &scores)
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if len(scores) != 2 {
		t.Fatalf("got %d entries, want 2", len(scores))
	}
	if scores[0].ClientID != "A" || scores[0].Value != 0 {
		t.Errorf("entry 0 = %+v, want A/0", scores[0])
	}
	if scores[1].ClientID != "B" || scores[1].Value != 2.5 {
		t.Errorf("entry 1 = %+v, want B/2.5", scores[1])
	}
}

func TestResultRoomNotFound(t *testing.T) {
	server, _, _ := newTestServer(t)

	var body map[string]string
	status := getJSON(t, server.URL+"/result?roomId=nope", &body)
	if status != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", status)
	}
	if body["error"] != "Room not found" {
		t.Errorf("error = %q, want Room not found", body["error"])
	}
}

func TestResultMissingParam(t *testing.T) {
	server, _, _ := newTestServer(t)

	status := getJSON(t, server.URL+"/result", nil)
	if status != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", status)
	}
}

func TestResultInvalidFormat(t *testing.T) {
	server, _, registry := newTestServer(t)

	// An empty client ID violates the response contract.
	registry.Create("broken", "")

	var body map[string]string
	status := getJSON(t, server.URL+"/result?roomId=broken", &body)
	if status != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", status)
	}
	if body["error"] != "Invalid data format" {
		t.Errorf("error = %q, want Invalid data format", body["error"])
	}
}

func TestListRooms(t *testing.T) {
	server, svc, _ := newTestServer(t)
	ctx := context.Background()

	svc.Dispatch(ctx, []byte(`{"message":"create","roomHash":"R1","clientId":"A"}`))
	svc.Dispatch(ctx, []byte(`{"message":"create","roomHash":"R2","clientId":"B"}`))

	var body struct {
		Count int         `json:"count"`
		Rooms []room.Info `json:"rooms"`
	}
	status := getJSON(t, server.URL+"/api/rooms", &body)
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if body.Count != 2 || len(body.Rooms) != 2 {
		t.Errorf("count = %d, rooms = %d; want 2 each", body.Count, len(body.Rooms))
	}
}

func TestHealthz(t *testing.T) {
	server, _, _ := newTestServer(t)

	var body map[string]interface{}
	status := getJSON(t, server.URL+"/healthz", &body)
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if body["status"] != "healthy" {
		t.Errorf("status field = %v, want healthy", body["status"])
	}
}

// dialWS opens a WebSocket against a path of the test server.
func dialWS(t *testing.T, server *httptest.Server, path string) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + path
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", path, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// readEvents collects n broadcast frames, splitting batched writes.
func readEvents(t *testing.T, conn *websocket.Conn, n int) [][]byte {
	t.Helper()
	var events [][]byte
	deadline := time.Now().Add(2 * time.Second)
	for len(events) < n {
		conn.SetReadDeadline(deadline)
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read: have %d/%d events: %v", len(events), n, err)
		}
		for _, part := range bytes.Split(data, []byte{'\n'}) {
			if len(part) > 0 {
				events = append(events, part)
			}
		}
	}
	return events
}

func TestWebSocketBroadcastOrderEndToEnd(t *testing.T) {
	server, _, _ := newTestServer(t)

	observer := dialWS(t, server, "/ws")
	sender := dialWS(t, server, "/ws")

	// Let the hub register both subscribers before play starts.
	time.Sleep(50 * time.Millisecond)

	frames := []string{
		`{"message":"create","roomHash":"R1","clientId":"A"}`,
		`{"message":"join","roomHash":"R1","clientId":"B"}`,
		`{"roomHash":"R1","clientId":"A","value":1.0}`,
		`{"roomHash":"R1","clientId":"B","value":3.5}`,
	}
	for _, frame := range frames {
		if err := sender.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	events := readEvents(t, observer, 4)

	type broadcast struct {
		Type     string  `json:"type"`
		Message  string  `json:"message"`
		RoomHash string  `json:"roomHash"`
		ClientID string  `json:"clientId"`
		Value    float64 `json:"value"`
	}
	var got []broadcast
	for i, ev := range events {
		var b broadcast
		if err := json.Unmarshal(ev, &b); err != nil {
			t.Fatalf("event %d is not JSON: %v", i, err)
		}
		got = append(got, b)
	}

	if got[0].Type != "system" || got[0].Message != "start" {
		t.Errorf("event 0 = %+v, want system/start", got[0])
	}
	if got[1].ClientID != "A" || got[1].Value != 1.0 {
		t.Errorf("event 1 = %+v, want raw update A/1.0", got[1])
	}
	if got[2].ClientID != "B" || got[2].Value != 3.5 {
		t.Errorf("event 2 = %+v, want raw update B/3.5", got[2])
	}
	if got[3].Type != "system" || got[3].Message != "finish" {
		t.Errorf("event 3 = %+v, want system/finish", got[3])
	}

	// The sender is a global topic subscriber too and sees its own
	// traffic echoed back.
	senderEvents := readEvents(t, sender, 4)
	if len(senderEvents) != 4 {
		t.Errorf("sender saw %d events, want 4", len(senderEvents))
	}
}
