// Package consensus reduces the individual decisions of a team's guessing
// agents to single legal actions and drives full agent-vs-agent matches.
package consensus

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/exp/slices"

	"github.com/clueloop/codenames/game"
)

type ActionKind string

const (
	ActionTalk ActionKind = "talk"
	ActionVote ActionKind = "vote"
	ActionPass ActionKind = "pass"
)

// Action is a single agent's answer to one poll: free-text discussion, a
// vote for a board word, or a vote to pass.
type Action struct {
	Kind    ActionKind
	Word    string
	Message string
}

// Vote is one entry of the live tally shown to agents.
type Vote struct {
	Agent  string
	Choice string
}

// GuessPrompt is everything a guessing agent gets to see when polled.
type GuessPrompt struct {
	Board       *game.Board // censored projection
	Hint        game.GivenHint
	LeftGuesses int
	Votes       []Vote
	Transcript  []string
}

// Guesser is the decision interface of one guessing agent. It may be
// backed by a remote, slow and wrong process; the coordinator treats it as
// an opaque call.
type Guesser interface {
	Actor() game.Actor
	Decide(ctx context.Context, prompt GuessPrompt) (Action, error)
}

// HintPrompt is what a hinting agent gets to see.
type HintPrompt struct {
	Board      *game.Board // uncensored
	Team       game.TeamColor
	Remaining  int
	Transcript []string
}

// Hinter produces exactly one clue per turn.
type Hinter interface {
	Actor() game.Actor
	GiveHint(ctx context.Context, prompt HintPrompt) (game.Hint, error)
}

const passChoice = "pass"

// Coordinator runs the discussion+vote protocol for one team's guessers.
// Agents are polled sequentially in registration order; after every vote
// the plurality is recomputed and polling stops the moment a strict
// majority exists. The shared transcript persists across the team's turns.
type Coordinator struct {
	state      *game.State
	team       game.TeamColor
	guessers   []Guesser
	maxRounds  int
	transcript []string
	log        zerolog.Logger
}

func NewCoordinator(state *game.State, team game.TeamColor, guessers []Guesser, maxRounds int, log zerolog.Logger) *Coordinator {
	if maxRounds <= 0 {
		maxRounds = 25
	}
	return &Coordinator{
		state:     state,
		team:      team,
		guessers:  guessers,
		maxRounds: maxRounds,
		log:       log.With().Str("team", team.String()).Logger(),
	}
}

// Transcript returns the shared team discussion so far.
func (c *Coordinator) Transcript() []string {
	out := make([]string, len(c.transcript))
	copy(out, c.transcript)
	return out
}

// coordActor attributes actions the coordinator takes on its own, like
// the deadlock-breaking pass.
func (c *Coordinator) coordActor() game.Actor {
	return game.AgentActor(fmt.Sprintf("%s-coordinator", c.team), "")
}

// GuesserTurn polls the team's agents over discussion rounds until the
// team's turn is over. If no majority is ever reached within the round
// budget, the coordinator submits a pass itself, so the turn always
// terminates. The round counter spans the whole turn: it is not reset
// between consecutive guesses.
func (c *Coordinator) GuesserTurn(ctx context.Context) error {
	if len(c.guessers) == 0 {
		return errors.New("no guessers registered")
	}
	votes := make(map[string]string)

	for round := 0; round < c.maxRounds; round++ {
		for _, guesser := range c.guessers {
			turn := c.state.Turn()
			if c.state.IsGameOver() || turn.Team != c.team || turn.Role != game.Guesser {
				return nil
			}
			hint, ok := c.state.LastHint()
			if !ok {
				return errors.New("guesser turn without an active hint")
			}

			actor := guesser.Actor()
			prompt := GuessPrompt{
				Board:       c.state.GuesserView().Board,
				Hint:        hint,
				LeftGuesses: turn.LeftGuesses,
				Votes:       c.tally(votes),
				Transcript:  c.Transcript(),
			}
			action, err := guesser.Decide(ctx, prompt)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				c.log.Warn().Err(err).Str("agent", actor.Name).Msg("agent decision failed")
				c.notice(fmt.Sprintf("%s produced no usable action", actor.Name))
				continue
			}
			c.apply(actor, action, votes)

			choice, ok := majority(votes, len(c.guessers))
			if !ok {
				continue
			}
			done, err := c.submit(choice, votes)
			if err != nil {
				return err
			}
			if done {
				return nil
			}
			// Correct guess with guesses left: reset the votes and move
			// to the next guess of the same turn.
			clear(votes)
			break
		}
	}

	// No majority within the round budget: deadlock-breaking pass.
	c.log.Info().Msg("no majority reached, passing turn")
	c.notice("no majority reached, the turn is passed")
	return c.state.PassTurn(c.coordActor())
}

// apply folds one agent action into the tally and transcript. Invalid
// votes are rejected with a corrective notice and never count.
func (c *Coordinator) apply(actor game.Actor, action Action, votes map[string]string) {
	switch action.Kind {
	case ActionTalk:
		if action.Message == "" {
			return
		}
		c.state.RecordChat(actor, c.team, game.Guesser, action.Message)
		c.transcript = append(c.transcript, fmt.Sprintf("%s: %s", actor.Name, action.Message))
	case ActionVote:
		word, err := game.Sanitize(action.Word)
		if err != nil {
			c.notice(fmt.Sprintf("%s voted for %q which is not a valid word", actor.Name, action.Word))
			return
		}
		if !c.isVotable(word) {
			c.notice(fmt.Sprintf("%s voted for %q which is not an unrevealed board word", actor.Name, word))
			return
		}
		votes[actor.Name] = word
	case ActionPass:
		votes[actor.Name] = passChoice
	default:
		c.log.Debug().Str("agent", actor.Name).Str("kind", string(action.Kind)).Msg("ignoring unknown action")
	}
}

// submit turns the winning choice into a state machine action and reports
// whether the team's turn (or the game) is over. Rejections that indicate
// a stale choice clear the offending votes and let polling continue; a
// terminal game state propagates as a hard error.
func (c *Coordinator) submit(choice string, votes map[string]string) (bool, error) {
	if choice == passChoice {
		c.notice(fmt.Sprintf("team decided to pass; votes: %s", formatVotes(c.tally(votes))))
		if err := c.state.PassTurn(c.coordActor()); err != nil {
			return true, err
		}
		return true, nil
	}

	guess, err := c.state.MakeGuess(choice, c.coordActor())
	if err != nil {
		if errors.Is(err, game.ErrGameOver) {
			return true, err
		}
		// The board moved under the vote (e.g. the card was revealed by
		// an earlier guess this turn). Drop the stale votes and keep
		// polling.
		c.notice(fmt.Sprintf("guess %q was rejected: %s", choice, err))
		for agent, vote := range votes {
			if vote == choice {
				delete(votes, agent)
			}
		}
		return false, nil
	}

	outcome := "wrong"
	if guess.Correct() {
		outcome = "correct"
	}
	turn := c.state.Turn()
	c.log.Info().
		Str("word", guess.GuessedCard.Word).
		Str("outcome", outcome).
		Int("left_guesses", turn.LeftGuesses).
		Msg("guess submitted")
	c.notice(fmt.Sprintf("guessed %s -> %s; left guesses: %d; votes: %s",
		strings.ToUpper(guess.GuessedCard.Word), outcome, turn.LeftGuesses, formatVotes(c.tally(votes))))

	if c.state.IsGameOver() {
		return true, nil
	}
	if turn.Team != c.team || turn.Role != game.Guesser {
		return true, nil
	}
	return false, nil
}

// notice broadcasts a system message to the team's shared transcript.
func (c *Coordinator) notice(message string) {
	c.transcript = append(c.transcript, "system: "+message)
}

// tally renders the current votes in registration order so prompts and
// transcripts are reproducible.
func (c *Coordinator) tally(votes map[string]string) []Vote {
	out := make([]Vote, 0, len(votes))
	for _, g := range c.guessers {
		name := g.Actor().Name
		if v, ok := votes[name]; ok {
			out = append(out, Vote{Agent: name, Choice: v})
		}
	}
	return out
}

func (c *Coordinator) isVotable(word string) bool {
	// Pass never arrives here; votes-to-pass use ActionPass.
	board := c.state.GuesserView().Board
	index, err := board.FindIndex(word)
	if err != nil {
		return false
	}
	return !board.Cards[index].Revealed
}

// majority tallies all current votes case-insensitively and returns the
// top choice if its count is a strict majority of the registered voter
// count. With integer division, 2 of 3 wins while 2 of 4 does not.
func majority(votes map[string]string, voters int) (string, bool) {
	if len(votes) == 0 {
		return "", false
	}
	counts := make(map[string]int, len(votes))
	for _, v := range votes {
		counts[strings.ToLower(strings.TrimSpace(v))]++
	}
	choices := make([]string, 0, len(counts))
	for choice := range counts {
		choices = append(choices, choice)
	}
	slices.Sort(choices)

	top, topCount := "", 0
	for _, choice := range choices {
		if counts[choice] > topCount {
			top, topCount = choice, counts[choice]
		}
	}
	if topCount > voters/2 {
		return top, true
	}
	return "", false
}

func formatVotes(votes []Vote) string {
	if len(votes) == 0 {
		return "(none)"
	}
	parts := make([]string, len(votes))
	for i, v := range votes {
		choice := strings.ToUpper(v.Choice)
		parts[i] = fmt.Sprintf("%s: %s", v.Agent, choice)
	}
	return strings.Join(parts, ", ")
}
