package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/KirkDiggler/partysync/internal/models"
	"github.com/KirkDiggler/partysync/internal/services/channel"
	"github.com/KirkDiggler/partysync/internal/services/presence"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

// Watch message types
const (
	MessageState  = "state"
	MessageRoster = "roster"
)

// WatchMessage is one frame of the watch bridge. Roster frames never carry
// the state.
type WatchMessage struct {
	Type    string                           `json:"type"`
	State   json.RawMessage                  `json:"state,omitempty"`
	Status  models.SessionStatus             `json:"status,omitempty"`
	Players map[string]*models.SessionPlayer `json:"players,omitempty"`
}

// Watch bridges a session's roster and state feeds to a websocket. The
// bridge is read-only; anything the peer sends is discarded.
func (s *Server) Watch(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	ctx := r.Context()

	watcher, err := s.config.Presence.Watch(ctx, &presence.WatchInput{SessionID: sessionID})
	if err != nil {
		if errors.Is(err, presence.ErrSessionNotFound) {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
		log.Printf("Failed to watch session %s: %v", sessionID, err)
		http.Error(w, "watch failed", http.StatusInternalServerError)
		return
	}
	defer watcher.Close()

	sub, err := s.config.Channel.SubscribeState(ctx, &channel.SubscribeStateInput{SessionID: sessionID})
	if err != nil {
		if errors.Is(err, channel.ErrSessionNotFound) {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
		log.Printf("Failed to subscribe to session %s: %v", sessionID, err)
		http.Error(w, "watch failed", http.StatusInternalServerError)
		return
	}
	defer sub.Close()

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Upgrade failed for session %s: %v", sessionID, err)
		return
	}
	defer conn.Close()

	// Reading keeps control frames flowing and tells us when the peer leaves
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	send := func(msg *WatchMessage) bool {
		data, err := json.Marshal(msg)
		if err != nil {
			log.Printf("Failed to marshal %s message for session %s: %v", msg.Type, sessionID, err)
			return true
		}
		conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
		return conn.WriteMessage(websocket.TextMessage, data) == nil
	}

	closeWith := func(reason string) {
		message := websocket.FormatCloseMessage(websocket.CloseNormalClosure, reason)
		conn.WriteControl(websocket.CloseMessage, message, time.Now().Add(s.config.WriteTimeout))
	}

	sessions, states := watcher.Sessions, sub.Updates
	for {
		select {
		case <-gone:
			return

		case session, ok := <-sessions:
			if !ok || session == nil {
				closeWith("session closed")
				return
			}
			if !send(&WatchMessage{Type: MessageRoster, Status: session.Status, Players: session.Players}) {
				return
			}

		case state, ok := <-states:
			if !ok {
				states = nil
				continue
			}
			if !send(&WatchMessage{Type: MessageState, State: state}) {
				return
			}
		}
	}
}
