package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/clueloop/codenames/consensus"
	"github.com/clueloop/codenames/game"
)

// maxIterations bounds how many completions an agent may burn per
// decision before giving up; it guarantees termination even against a
// model that never produces a parseable directive.
const maxIterations = 8

// Operative is an LLM-backed guessing agent.
type Operative struct {
	name   string
	client *Client
	log    zerolog.Logger
}

func NewOperative(name string, client *Client, log zerolog.Logger) *Operative {
	return &Operative{
		name:   name,
		client: client,
		log:    log.With().Str("agent", name).Logger(),
	}
}

func (o *Operative) Actor() game.Actor {
	return game.AgentActor(o.name, o.client.Model())
}

// Decide polls the model for one talk/vote/pass directive. Unparseable
// replies are fed back with a reminder, up to maxIterations.
func (o *Operative) Decide(ctx context.Context, prompt consensus.GuessPrompt) (consensus.Action, error) {
	messages := []chatMessage{
		{Role: "system", Content: operativeSystemPrompt},
		{Role: "user", Content: fmt.Sprintf(operativeUserPrompt,
			formatBoard(prompt.Board),
			strings.ToUpper(prompt.Hint.Word), prompt.Hint.CardAmount,
			prompt.LeftGuesses,
			formatVotes(prompt.Votes),
			formatTranscript(prompt.Transcript),
		)},
	}

	for i := 0; i < maxIterations; i++ {
		reply, err := o.client.chat(ctx, messages)
		if err != nil {
			return consensus.Action{}, err
		}
		action, ok := parseOperativeReply(reply)
		if ok {
			return action, nil
		}
		o.log.Debug().Str("reply", reply).Msg("unparseable operative reply")
		messages = append(messages,
			chatMessage{Role: "assistant", Content: reply},
			chatMessage{Role: "system", Content: "Respond with exactly one line: TALK <message>, VOTE <word> or PASS."},
		)
	}
	return consensus.Action{}, fmt.Errorf("agent %s produced no directive in %d iterations", o.name, maxIterations)
}

// parseOperativeReply scans the reply for the first directive line.
func parseOperativeReply(reply string) (consensus.Action, bool) {
	for _, line := range strings.Split(reply, "\n") {
		line = strings.TrimSpace(line)
		upper := strings.ToUpper(line)
		switch {
		case upper == "PASS":
			return consensus.Action{Kind: consensus.ActionPass}, true
		case strings.HasPrefix(upper, "VOTE "):
			word := strings.TrimSpace(line[len("VOTE "):])
			if word == "" {
				continue
			}
			return consensus.Action{Kind: consensus.ActionVote, Word: word}, true
		case strings.HasPrefix(upper, "TALK "):
			msg := strings.TrimSpace(line[len("TALK "):])
			if msg == "" {
				continue
			}
			return consensus.Action{Kind: consensus.ActionTalk, Message: msg}, true
		}
	}
	return consensus.Action{}, false
}
