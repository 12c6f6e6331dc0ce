package agents

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/clueloop/codenames/consensus"
	"github.com/clueloop/codenames/game"
)

// Spymaster is an LLM-backed hinting agent.
type Spymaster struct {
	name   string
	client *Client
	log    zerolog.Logger
}

func NewSpymaster(name string, client *Client, log zerolog.Logger) *Spymaster {
	return &Spymaster{
		name:   name,
		client: client,
		log:    log.With().Str("agent", name).Logger(),
	}
}

func (s *Spymaster) Actor() game.Actor {
	return game.AgentActor(s.name, s.client.Model())
}

// GiveHint asks the model for one HINT directive, re-prompting on
// unparseable replies up to maxIterations.
func (s *Spymaster) GiveHint(ctx context.Context, prompt consensus.HintPrompt) (game.Hint, error) {
	user := fmt.Sprintf(spymasterUserPrompt, prompt.Team, formatBoard(prompt.Board), prompt.Remaining)
	if len(prompt.Transcript) > 0 {
		user += "\n\nNotes from earlier attempts:\n" + formatTranscript(prompt.Transcript)
	}
	messages := []chatMessage{
		{Role: "system", Content: spymasterSystemPrompt},
		{Role: "user", Content: user},
	}

	for i := 0; i < maxIterations; i++ {
		reply, err := s.client.chat(ctx, messages)
		if err != nil {
			return game.Hint{}, err
		}
		hint, ok := parseHintReply(reply)
		if ok {
			return hint, nil
		}
		s.log.Debug().Str("reply", reply).Msg("unparseable spymaster reply")
		messages = append(messages,
			chatMessage{Role: "assistant", Content: reply},
			chatMessage{Role: "system", Content: "Respond with exactly one line: HINT <word> <count>."},
		)
	}
	return game.Hint{}, fmt.Errorf("agent %s produced no hint in %d iterations", s.name, maxIterations)
}

// parseHintReply scans the reply for the first "HINT <word> <count>" line.
func parseHintReply(reply string) (game.Hint, bool) {
	for _, line := range strings.Split(reply, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(strings.ToUpper(line), "HINT ") {
			continue
		}
		fields := strings.Fields(line[len("HINT "):])
		if len(fields) < 2 {
			continue
		}
		amount, err := strconv.Atoi(fields[len(fields)-1])
		if err != nil || amount < 0 {
			continue
		}
		word := strings.Join(fields[:len(fields)-1], " ")
		if word == "" {
			continue
		}
		return game.Hint{Word: word, CardAmount: amount}, true
	}
	return game.Hint{}, false
}
