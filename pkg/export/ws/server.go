// Package ws serves a live websocket feed of monitor report lines.
package ws

import (
	"context"
	"net/http"
	"time"

	"github.com/golang/glog"
	"github.com/gorilla/websocket"

	"github.com/jewelux/catmon.go/pkg/monitor"
)

// Server exposes /feed: each connected client receives report lines
// as text messages. Slow clients drop lines or get disconnected; the
// control loop is never blocked on their behalf.
type Server struct {
	Addr string
	Tee  *monitor.Tee
}

const writeTimeout = 5 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

// Name implements framework.Named.
func (s *Server) Name() string { return "ws-feed" }

// Run implements framework.Runnable.
func (s *Server) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/feed", s.handleFeed)
	srv := &http.Server{Addr: s.Addr, Handler: mux}
	go func() {
		<-ctx.Done()
		srv.Shutdown(context.Background())
	}()
	glog.Infof("websocket feed on %s/feed", s.Addr)
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return ctx.Err()
}

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		glog.Warningf("feed upgrade: %v", err)
		return
	}
	defer conn.Close()
	glog.V(1).Infof("feed client %s connected", conn.RemoteAddr())

	ch, cancel := s.Tee.Subscribe(256)
	defer cancel()
	// Drain client frames so closes are noticed; a closed read ends
	// the subscription and thereby the write loop.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()
	for line := range ch {
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteMessage(websocket.TextMessage, []byte(line)); err != nil {
			glog.V(1).Infof("feed client %s dropped: %v", conn.RemoteAddr(), err)
			return
		}
	}
}
