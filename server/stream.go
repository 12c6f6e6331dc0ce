package server

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/clueloop/codenames/game"
	"github.com/clueloop/codenames/server/containers"
)

// Message is the envelope every spectator frame is wrapped in.
type Message struct {
	Type string      `json:"type"`
	Msg  interface{} `json:"msg"`
}

type turnMarker struct {
	Team game.TeamColor  `json:"team"`
	Role game.PlayerRole `json:"role"`
}

// handleSpectate upgrades the connection and streams live match events
// to the client until the game ends or the client goes away.
func (s *Server) handleSpectate(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if _, err := s.Token.CheckTokenVars(vars); err != nil {
		s.writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	match, ok := s.getMatch(vars["id"])
	if !ok {
		s.writeError(w, http.StatusNotFound, "match not found")
		return
	}

	ws, err := s.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer ws.Close()

	events, cancel := match.state.History().Subscribe(64)
	defer cancel()

	// The reader goroutine only exists to notice the client closing.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}()

	match.mu.Lock()
	lastTurn := match.state.Turn()
	snapshot := Message{Type: "state", Msg: containers.NewMatchState(match.ID, match.state, false, true)}
	match.mu.Unlock()
	if err := ws.WriteJSON(snapshot); err != nil {
		return
	}

	for {
		select {
		case <-closed:
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := ws.WriteJSON(Message{Type: "event", Msg: event}); err != nil {
				return
			}

			match.mu.Lock()
			turn := match.state.Turn()
			over := match.state.IsGameOver()
			winner, _ := match.state.Winner()
			match.mu.Unlock()

			if turn.Team != lastTurn.Team || turn.Role != lastTurn.Role {
				lastTurn = turn
				marker := Message{Type: "turn", Msg: turnMarker{Team: turn.Team, Role: turn.Role}}
				if err := ws.WriteJSON(marker); err != nil {
					return
				}
			}
			if over {
				_ = ws.WriteJSON(Message{Type: "game_over", Msg: winner})
				_ = ws.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "game over"))
				return
			}
		}
	}
}
