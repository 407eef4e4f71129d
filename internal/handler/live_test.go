package api

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	core "document-downloader/api/internal/service"
)

func liveTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	r := gin.New()
	r.GET("/ws/downloads", NewLiveHandler(nil, testSecret).Downloads)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func wsURL(srv *httptest.Server, query string) string {
	u := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/downloads"
	if query != "" {
		u += "?" + query
	}
	return u
}

func TestLiveFeed_RejectsUnauthenticatedUpgrade(t *testing.T) {
	srv := liveTestServer(t)

	conn, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, ""), nil)
	if err == nil {
		conn.Close()
		t.Fatal("handshake without a token should not succeed")
	}
	if resp == nil || resp.StatusCode != 401 {
		t.Fatalf("status = %v, want 401", resp)
	}
}

func TestLiveFeed_RejectsForgedToken(t *testing.T) {
	srv := liveTestServer(t)

	forged, err := core.CreateAccessToken(map[string]interface{}{"sub": "admin"}, "wrong-secret", time.Hour)
	if err != nil {
		t.Fatalf("CreateAccessToken() error = %v", err)
	}

	conn, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, "token="+forged), nil)
	if err == nil {
		conn.Close()
		t.Fatal("handshake with a forged token should not succeed")
	}
	if resp == nil || resp.StatusCode != 401 {
		t.Fatalf("status = %v, want 401", resp)
	}
}

func TestLiveFeed_ValidTokenReachesFeed(t *testing.T) {
	srv := liveTestServer(t)

	token, err := core.CreateAccessToken(map[string]interface{}{"sub": "admin", "role": "admin"}, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("CreateAccessToken() error = %v", err)
	}

	// The test handler runs without Redis, so an authenticated request gets
	// past the token check and stops at the 503 backend guard.
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, "token="+token), nil)
	if err == nil {
		conn.Close()
		t.Fatal("handshake should stop at the redis guard")
	}
	if resp == nil || resp.StatusCode != 503 {
		t.Fatalf("status = %v, want 503", resp)
	}
}
