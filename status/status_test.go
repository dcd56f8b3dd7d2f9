package status

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func waitHistory(t *testing.T, text string) Message {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		for _, m := range History() {
			if m.Message == text {
				return m
			}
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("message %q never recorded", text)
	return Message{}
}

func TestHistory(t *testing.T) {
	Progress(float32(math.NaN()), "decoding %s", "uel0106_lod0.scm")
	m := waitHistory(t, "decoding uel0106_lod0.scm")
	if m.Type != PROGRESS || m.Progress != 0 {
		t.Errorf("unexpected message %+v", m)
	}

	for i := 0; i < historySize+5; i++ {
		Info("filler %d", i)
	}
	waitHistory(t, "filler 36")
	if n := len(History()); n != historySize {
		t.Errorf("history length %d", n)
	}
}

func TestWebsocket(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(HandlerWebsocket))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	// wait until the client is registered
	deadline := time.Now().Add(2 * time.Second)
	for {
		globalLock.Lock()
		n := len(broadcastList)
		globalLock.Unlock()
		if n != 0 || time.Now().After(deadline) {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	Error("unit %s failed", "xsl0101")

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatal(err)
		}
		var m Message
		if err := json.Unmarshal(data, &m); err != nil {
			t.Fatal(err)
		}
		if m.Message == "unit xsl0101 failed" {
			if m.Type != ERROR {
				t.Errorf("type %d", m.Type)
			}
			return
		}
	}
}
