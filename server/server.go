package server

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/clueloop/codenames/consensus"
	"github.com/clueloop/codenames/database"
	"github.com/clueloop/codenames/game"
	"github.com/clueloop/codenames/schema"
	"github.com/clueloop/codenames/server/containers"
)

type ctxKey string

const userIDKey ctxKey = "userID"

// Match binds one game state to its match id. All action submissions go
// through mu, which enforces the single-writer discipline the state
// machine requires; coordinators keep per-team discussion transcripts
// across AI turns.
type Match struct {
	ID   string
	Host uint

	mu           sync.Mutex
	state        *game.State
	coordinators map[game.TeamColor]*consensus.Coordinator
	persisted    bool
}

// LLMConfig is the completion endpoint configuration for AI-driven turns.
type LLMConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type Server struct {
	Mux      *mux.Router
	DB       *gorm.DB
	Token    Token
	Matches  map[string]*Match
	Mutex    *sync.RWMutex
	Upgrader websocket.Upgrader
	LLM      LLMConfig

	log zerolog.Logger
}

func New(db *gorm.DB, llm LLMConfig, log zerolog.Logger) *Server {
	return &Server{
		DB:      db,
		Mux:     mux.NewRouter(),
		Token:   NewToken(32),
		Matches: make(map[string]*Match),
		Mutex:   &sync.RWMutex{},
		LLM:     llm,
		Upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			//TODO: restrict the allowed origins.
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		log: log,
	}
}

// Connect registers all routes and serves until the listener fails.
func (s *Server) Connect(address string) error {
	authRouter := s.Mux.NewRoute().Subrouter()
	authRouter.Use(s.authHandler)
	authRouter.HandleFunc("/api/user", s.handleUserGet).Methods("GET")
	authRouter.HandleFunc("/api/user/change", s.handleUserChange).Methods("POST")
	authRouter.HandleFunc("/api/matches", s.handleMatchCreate).Methods("POST")
	authRouter.HandleFunc("/api/matches/{id}", s.handleMatchShow).Methods("GET")
	authRouter.HandleFunc("/api/matches/{id}/events", s.handleMatchEvents).Methods("GET")
	authRouter.HandleFunc("/api/matches/{id}/hint", s.handleHint).Methods("POST")
	authRouter.HandleFunc("/api/matches/{id}/guess", s.handleGuess).Methods("POST")
	authRouter.HandleFunc("/api/matches/{id}/pass", s.handlePass).Methods("POST")
	authRouter.HandleFunc("/api/matches/{id}/resign", s.handleResign).Methods("POST")
	authRouter.HandleFunc("/api/matches/{id}/ai/hint", s.handleAIHint).Methods("POST")
	authRouter.HandleFunc("/api/matches/{id}/ai/guess", s.handleAIGuess).Methods("POST")

	s.Mux.HandleFunc("/api/login", s.handleUserLogin).Methods("POST")
	s.Mux.HandleFunc("/api/register", s.handleUserRegister).Methods("POST")
	s.Mux.HandleFunc("/api/spectate/{sessionToken}/{id}", s.handleSpectate)
	s.Mux.Use(mux.CORSMethodMiddleware(s.Mux))
	s.log.Info().Str("address", address).Msg("starting server")

	allowedOrigins := handlers.AllowedOrigins([]string{"*"})
	allowedMethods := handlers.AllowedMethods([]string{"POST", "OPTIONS", "GET"})
	allowedHeaders := handlers.AllowedHeaders([]string{"X-Requested-With", "Content-Type", "Authorization"})

	return http.ListenAndServe(
		address,
		handlers.LoggingHandler(os.Stderr, handlers.CORS(
			allowedOrigins,
			allowedMethods,
			allowedHeaders)(s.Mux)))
}

func (s *Server) authHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		payload, err := s.Token.CheckTokenRequest(r)
		if err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), userIDKey, payload.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) userID(r *http.Request) (uint, bool) {
	id, ok := r.Context().Value(userIDKey).(uint)
	return id, ok
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.Error().Err(err).Msg("failed to encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

func (s *Server) handleUserLogin(w http.ResponseWriter, r *http.Request) {
	user, err := containers.ParseLoginUser(r.Body)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "bad user json")
		return
	}
	dbUser, derr := database.GetUserByEmail(s.DB, user.Email)
	if derr != nil {
		s.writeError(w, http.StatusUnauthorized, "wrong email or password")
		return
	}
	if err := bcrypt.CompareHashAndPassword(dbUser.Password, []byte(user.Password)); err != nil {
		s.writeError(w, http.StatusUnauthorized, "wrong email or password")
		return
	}

	token, err := s.Token.CreateToken(dbUser.ID, 15*time.Minute)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "could not create authentication token")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"sessionToken": token,
		"user":         dbUser,
	})
}

func (s *Server) handleUserRegister(w http.ResponseWriter, r *http.Request) {
	user, err := containers.ParseLoginUser(r.Body)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "bad user json")
		return
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "could not encode password")
		return
	}
	id, derr := database.AddUser(s.DB, &schema.User{
		Email:    user.Email,
		Password: hashedPassword,
		Username: user.Username,
	})
	if derr != nil {
		if derr.ErrorType == database.ConflictError {
			s.writeError(w, http.StatusConflict, derr.Error())
			return
		}
		s.writeError(w, http.StatusInternalServerError, derr.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]uint{"id": id})
}

func (s *Server) handleUserGet(w http.ResponseWriter, r *http.Request) {
	id, ok := s.userID(r)
	if !ok {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	dbUser, derr := database.GetUserByID(s.DB, id)
	if derr != nil {
		s.writeError(w, http.StatusInternalServerError, "could not fetch user")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"sessionToken": ExtractToken(r),
		"user":         dbUser,
	})
}

func (s *Server) handleUserChange(w http.ResponseWriter, r *http.Request) {
	id, ok := s.userID(r)
	if !ok {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	user, err := containers.ParseLoginUser(r.Body)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "bad user json")
		return
	}
	if user.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, "could not encrypt password")
			return
		}
		if derr := database.UpdateUser(s.DB, id, hashed, user.Username); derr != nil {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	} else if derr := database.UpdateUserUsername(s.DB, id, user.Username); derr != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// getMatch looks up a live match by id.
func (s *Server) getMatch(id string) (*Match, bool) {
	s.Mutex.RLock()
	defer s.Mutex.RUnlock()
	m, ok := s.Matches[id]
	return m, ok
}

// actor builds the ledger attribution for the authenticated human.
func (s *Server) actor(r *http.Request) (game.Actor, bool) {
	id, ok := s.userID(r)
	if !ok {
		return game.Actor{}, false
	}
	user, derr := database.GetUserByID(s.DB, id)
	if derr != nil {
		return game.Actor{}, false
	}
	return game.HumanActor(user.Username), true
}

// maybePersist writes a finished match to the database exactly once.
// Callers hold the match lock.
func (s *Server) maybePersist(m *Match) {
	if m.persisted || !m.state.IsGameOver() || s.DB == nil {
		return
	}
	if derr := database.AddMatch(s.DB, m.ID, m.Host, m.state); derr != nil {
		s.log.Error().Err(derr).Str("match", m.ID).Msg("failed to persist match")
		return
	}
	m.persisted = true
	s.log.Info().Str("match", m.ID).Msg("match persisted")
}
