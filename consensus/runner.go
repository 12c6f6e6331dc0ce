package consensus

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/clueloop/codenames/game"
)

// hintAttempts bounds how often a hinter may submit an illegal hint per
// turn before the match is aborted.
const hintAttempts = 3

// TeamAgents is the full agent lineup of one team.
type TeamAgents struct {
	Hinter   Hinter
	Guessers []Guesser
}

// Runner plays a complete match between two agent teams: hinter turn,
// then the consensus guesser turn, until a winner is set. All state
// submissions happen from the calling goroutine, so the single-writer
// discipline of game.State holds.
type Runner struct {
	state        *game.State
	coordinators map[game.TeamColor]*Coordinator
	hinters      map[game.TeamColor]Hinter
	hinterNotes  map[game.TeamColor][]string
	log          zerolog.Logger
}

func NewRunner(state *game.State, blue, red TeamAgents, maxRounds int, log zerolog.Logger) (*Runner, error) {
	if blue.Hinter == nil || red.Hinter == nil {
		return nil, errors.New("both teams need a hinter")
	}
	if len(blue.Guessers) == 0 || len(red.Guessers) == 0 {
		return nil, errors.New("both teams need at least one guesser")
	}
	return &Runner{
		state: state,
		coordinators: map[game.TeamColor]*Coordinator{
			game.Blue: NewCoordinator(state, game.Blue, blue.Guessers, maxRounds, log),
			game.Red:  NewCoordinator(state, game.Red, red.Guessers, maxRounds, log),
		},
		hinters: map[game.TeamColor]Hinter{
			game.Blue: blue.Hinter,
			game.Red:  red.Hinter,
		},
		hinterNotes: make(map[game.TeamColor][]string),
		log:         log,
	}, nil
}

// Play runs the match to completion and returns the winner.
func (r *Runner) Play(ctx context.Context) (game.Winner, error) {
	for !r.state.IsGameOver() {
		if err := ctx.Err(); err != nil {
			return game.Winner{}, err
		}
		turn := r.state.Turn()
		var err error
		if turn.Role == game.Hinter {
			err = r.hinterTurn(ctx, turn.Team)
		} else {
			err = r.coordinators[turn.Team].GuesserTurn(ctx)
		}
		if err != nil {
			return game.Winner{}, err
		}
		score := r.state.Score()
		r.log.Info().
			Str("team", r.state.Turn().Team.String()).
			Str("role", r.state.Turn().Role.String()).
			Int("blue_remaining", score.Blue.Unrevealed()).
			Int("red_remaining", score.Red.Unrevealed()).
			Msg("turn finished")
	}
	winner, _ := r.state.Winner()
	r.log.Info().Str("winner", winner.Team.String()).Str("reason", string(winner.Reason)).Msg("game over")
	return winner, nil
}

// hinterTurn asks the team's hinter for a clue and applies it, feeding
// rejections back as corrective notices for a bounded number of retries.
func (r *Runner) hinterTurn(ctx context.Context, team game.TeamColor) error {
	hinter := r.hinters[team]
	actor := hinter.Actor()
	for attempt := 0; attempt < hintAttempts; attempt++ {
		prompt := HintPrompt{
			Board:      r.state.HinterView().Board,
			Team:       team,
			Remaining:  r.state.Score().Team(team).Unrevealed(),
			Transcript: r.hinterNotes[team],
		}
		hint, err := hinter.GiveHint(ctx, prompt)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			r.log.Warn().Err(err).Str("agent", actor.Name).Msg("hinter produced no hint")
			r.hinterNotes[team] = append(r.hinterNotes[team],
				"system: no usable hint was produced, give a single clue word and a count")
			continue
		}
		given, err := r.state.GiveHint(hint, actor)
		if err != nil {
			if errors.Is(err, game.ErrInvalidHint) {
				r.log.Warn().Err(err).Str("agent", actor.Name).Msg("hint rejected")
				r.hinterNotes[team] = append(r.hinterNotes[team],
					fmt.Sprintf("system: hint %q was rejected: %s", hint.Word, err))
				continue
			}
			return err
		}
		r.log.Info().Str("word", given.Word).Int("amount", given.CardAmount).
			Str("team", team.String()).Msg("hint accepted")
		return nil
	}
	return fmt.Errorf("%s hinter failed to give a legal hint in %d attempts", team, hintAttempts)
}
