package server

import (
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/clueloop/codenames/agents"
	"github.com/clueloop/codenames/boards"
	"github.com/clueloop/codenames/consensus"
	"github.com/clueloop/codenames/game"
	"github.com/clueloop/codenames/server/containers"
)

const (
	defaultBoardSize      = 25
	defaultAssassinAmount = 1
	defaultOperatives     = 3
	defaultMaxRounds      = 25
)

// rejectionStatus maps a state machine rejection to an HTTP status.
func rejectionStatus(err error) int {
	switch {
	case errors.Is(err, game.ErrGameOver):
		return http.StatusConflict
	case errors.Is(err, game.ErrCardNotFound):
		return http.StatusNotFound
	default:
		return http.StatusBadRequest
	}
}

func (s *Server) handleMatchCreate(w http.ResponseWriter, r *http.Request) {
	id, ok := s.userID(r)
	if !ok {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	req, err := containers.ParseCreateMatch(r.Body)
	if err != nil {
		// An empty body means default settings.
		req = &containers.CreateMatch{}
	}
	if req.Language == "" {
		req.Language = string(boards.English)
	}
	if req.BoardSize == 0 {
		req.BoardSize = defaultBoardSize
	}
	assassinAmount := defaultAssassinAmount
	if req.AssassinAmount != nil {
		assassinAmount = *req.AssassinAmount
	}
	seed := rand.Uint64()
	if req.Seed != nil {
		seed = *req.Seed
	}

	board, err := boards.Generate(boards.Language(req.Language), req.BoardSize, assassinAmount, seed)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	state, err := game.NewState(board)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	match := &Match{
		ID:           uuid.NewString(),
		Host:         id,
		state:        state,
		coordinators: make(map[game.TeamColor]*consensus.Coordinator),
	}
	s.Mutex.Lock()
	s.Matches[match.ID] = match
	s.Mutex.Unlock()
	s.log.Info().Str("match", match.ID).Int("board_size", req.BoardSize).Msg("match created")

	s.writeJSON(w, http.StatusCreated, containers.NewMatchState(match.ID, state, true, false))
}

func (s *Server) handleMatchShow(w http.ResponseWriter, r *http.Request) {
	match, ok := s.getMatch(mux.Vars(r)["id"])
	if !ok {
		s.writeError(w, http.StatusNotFound, "match not found")
		return
	}
	showColors := r.URL.Query().Get("show_colors") == "true"
	includeHistory := r.URL.Query().Get("include_history") == "true"

	match.mu.Lock()
	resp := containers.NewMatchState(match.ID, match.state, showColors, includeHistory)
	match.mu.Unlock()
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleMatchEvents(w http.ResponseWriter, r *http.Request) {
	match, ok := s.getMatch(mux.Vars(r)["id"])
	if !ok {
		s.writeError(w, http.StatusNotFound, "match not found")
		return
	}
	history := match.state.History()
	n := history.Len()
	if arg := r.URL.Query().Get("n"); arg != "" {
		parsed, err := strconv.Atoi(arg)
		if err != nil || parsed < 0 {
			s.writeError(w, http.StatusBadRequest, "could not parse query param \"n\"")
			return
		}
		n = parsed
	}
	s.writeJSON(w, http.StatusOK, history.Recent(n))
}

func (s *Server) handleHint(w http.ResponseWriter, r *http.Request) {
	match, ok := s.getMatch(mux.Vars(r)["id"])
	if !ok {
		s.writeError(w, http.StatusNotFound, "match not found")
		return
	}
	actor, ok := s.actor(r)
	if !ok {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	req, err := containers.ParseHintRequest(r.Body)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "bad hint json")
		return
	}

	match.mu.Lock()
	defer match.mu.Unlock()
	given, err := match.state.GiveHint(game.Hint{Word: req.Word, CardAmount: req.CardAmount}, actor)
	if err != nil {
		s.writeError(w, rejectionStatus(err), err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, containers.HintResult{
		Success:     true,
		Hint:        given,
		LeftGuesses: match.state.Turn().LeftGuesses,
	})
}

func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	match, ok := s.getMatch(mux.Vars(r)["id"])
	if !ok {
		s.writeError(w, http.StatusNotFound, "match not found")
		return
	}
	actor, ok := s.actor(r)
	if !ok {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	req, err := containers.ParseGuessRequest(r.Body)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "bad guess json")
		return
	}

	match.mu.Lock()
	defer match.mu.Unlock()
	guess, err := match.state.MakeGuess(req.Word, actor)
	if err != nil {
		s.writeError(w, rejectionStatus(err), err.Error())
		return
	}
	result := containers.GuessResult{
		Success:     true,
		GuessedCard: guess.GuessedCard,
		Correct:     guess.Correct(),
		LeftGuesses: match.state.Turn().LeftGuesses,
		IsGameOver:  match.state.IsGameOver(),
	}
	if winner, ok := match.state.Winner(); ok {
		result.Winner = &winner
	}
	s.maybePersist(match)
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handlePass(w http.ResponseWriter, r *http.Request) {
	match, ok := s.getMatch(mux.Vars(r)["id"])
	if !ok {
		s.writeError(w, http.StatusNotFound, "match not found")
		return
	}
	actor, ok := s.actor(r)
	if !ok {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	match.mu.Lock()
	defer match.mu.Unlock()
	if err := match.state.PassTurn(actor); err != nil {
		s.writeError(w, rejectionStatus(err), err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, containers.PassResult{
		Success:  true,
		Action:   "passed",
		NextTeam: match.state.Turn().Team,
	})
}

func (s *Server) handleResign(w http.ResponseWriter, r *http.Request) {
	match, ok := s.getMatch(mux.Vars(r)["id"])
	if !ok {
		s.writeError(w, http.StatusNotFound, "match not found")
		return
	}
	actor, ok := s.actor(r)
	if !ok {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	match.mu.Lock()
	defer match.mu.Unlock()
	team := match.state.Turn().Team
	if err := match.state.Resign(team, actor); err != nil {
		s.writeError(w, rejectionStatus(err), err.Error())
		return
	}
	s.maybePersist(match)
	winner, _ := match.state.Winner()
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"winner": winner})
}

// newClient builds a completions client for an AI action, honoring a
// per-request model override.
func (s *Server) newClient(model string) *agents.Client {
	if model == "" {
		model = s.LLM.Model
	}
	return agents.NewClient(s.LLM.APIKey, model, s.LLM.BaseURL)
}

func (s *Server) handleAIHint(w http.ResponseWriter, r *http.Request) {
	match, ok := s.getMatch(mux.Vars(r)["id"])
	if !ok {
		s.writeError(w, http.StatusNotFound, "match not found")
		return
	}
	req, err := containers.ParseAIRequest(r.Body)
	if err != nil {
		req = &containers.AIRequest{}
	}

	match.mu.Lock()
	defer match.mu.Unlock()
	turn := match.state.Turn()
	if match.state.IsGameOver() {
		s.writeError(w, http.StatusConflict, game.ErrGameOver.Error())
		return
	}
	if turn.Role != game.Hinter {
		s.writeError(w, http.StatusConflict, "it is not the hinter's turn")
		return
	}

	spymaster := agents.NewSpymaster(fmt.Sprintf("%s-spymaster", turn.Team), s.newClient(req.Model), s.log)
	hint, err := spymaster.GiveHint(r.Context(), consensus.HintPrompt{
		Board:     match.state.HinterView().Board,
		Team:      turn.Team,
		Remaining: match.state.Score().Team(turn.Team).Unrevealed(),
	})
	if err != nil {
		s.writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	given, err := match.state.GiveHint(hint, spymaster.Actor())
	if err != nil {
		s.writeError(w, rejectionStatus(err), err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, containers.HintResult{
		Success:     true,
		Hint:        given,
		LeftGuesses: match.state.Turn().LeftGuesses,
	})
}

func (s *Server) handleAIGuess(w http.ResponseWriter, r *http.Request) {
	match, ok := s.getMatch(mux.Vars(r)["id"])
	if !ok {
		s.writeError(w, http.StatusNotFound, "match not found")
		return
	}
	req, err := containers.ParseAIRequest(r.Body)
	if err != nil {
		req = &containers.AIRequest{}
	}
	if req.Operatives <= 0 {
		req.Operatives = defaultOperatives
	}

	match.mu.Lock()
	defer match.mu.Unlock()
	turn := match.state.Turn()
	if match.state.IsGameOver() {
		s.writeError(w, http.StatusConflict, game.ErrGameOver.Error())
		return
	}
	if turn.Role != game.Guesser {
		s.writeError(w, http.StatusConflict, "it is not the guesser's turn")
		return
	}

	// The coordinator (and its transcript) is created on first use and
	// then reused for the whole match, so the team's discussion carries
	// over between turns.
	coordinator, ok := match.coordinators[turn.Team]
	if !ok {
		guessers := make([]consensus.Guesser, req.Operatives)
		for i := range guessers {
			name := fmt.Sprintf("%s-op-%d", turn.Team, i+1)
			guessers[i] = agents.NewOperative(name, s.newClient(req.Model), s.log)
		}
		coordinator = consensus.NewCoordinator(match.state, turn.Team, guessers, defaultMaxRounds, s.log)
		match.coordinators[turn.Team] = coordinator
	}

	if err := coordinator.GuesserTurn(r.Context()); err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.maybePersist(match)

	result := containers.TurnResult{
		CurrentTurn: match.state.Turn(),
		IsGameOver:  match.state.IsGameOver(),
		Transcript:  coordinator.Transcript(),
	}
	if winner, ok := match.state.Winner(); ok {
		result.Winner = &winner
	}
	s.writeJSON(w, http.StatusOK, result)
}
