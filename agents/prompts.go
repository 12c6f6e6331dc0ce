package agents

import (
	"fmt"
	"strings"

	"github.com/clueloop/codenames/consensus"
	"github.com/clueloop/codenames/game"
)

const operativeSystemPrompt = `You are an agent playing a word-guessing board game as a guessing Operative on a team of agents.

You will be given the board, the Spymaster's clue with a count, the number of guesses left, the votes cast so far and the team discussion. Your team must agree on which board word matches the clue. You may disagree with your teammates; you do not have to be agreeable.

Cards marked [blue] or [red] are already revealed for that team; [neutral] is a revealed neutral card. Unmarked cards are still face down.

Respond with exactly one line, in one of these forms:
TALK <message to your teammates>
VOTE <board word>
PASS

A vote takes effect once a majority of the operatives vote the same way. Vote only when the discussion is nearing consensus; use PASS when the team should stop guessing.`

const operativeUserPrompt = `The current state of the board is:
%s

The current clue is:
%s %d

The number of guesses left for this clue is:
%d

The current votes are:
%s

The discussion so far:
%s

Respond with one line: TALK, VOTE or PASS.`

const spymasterSystemPrompt = `You are the Spymaster in a word-guessing board game.

You know the hidden color of every card: [blue] and [red] are the team cards, [neutral] does nothing and [assassin] instantly loses the game for whichever team guesses it. An (x) marker means the card is already revealed.

Give a SINGLE WORD clue that connects as many of your team's unrevealed words as possible while avoiding opponent and assassin words. The clue must not be any word on the board and must not repeat an earlier clue.

Respond with exactly one line:
HINT <word> <count>`

const spymasterUserPrompt = `You are on the %s team. Signal your team's words, avoid the opponent's words and the assassin.

The current state of the board is:
%s

The number of remaining words for your team is %d.

Respond with one line: HINT <word> <count>.`

// formatBoard renders a board the way the prompts describe it: one word
// per line, revealed colors in brackets.
func formatBoard(b *game.Board) string {
	var sb strings.Builder
	for _, c := range b.Cards {
		sb.WriteString(c.Word)
		if c.Color != "" {
			fmt.Fprintf(&sb, " [%s]", c.Color)
		}
		if c.Revealed {
			sb.WriteString(" (x)")
		}
		sb.WriteByte('\n')
	}
	return strings.TrimRight(sb.String(), "\n")
}

func formatVotes(votes []consensus.Vote) string {
	if len(votes) == 0 {
		return "(none)"
	}
	parts := make([]string, len(votes))
	for i, v := range votes {
		parts[i] = fmt.Sprintf("%s: %s", v.Agent, strings.ToUpper(v.Choice))
	}
	return strings.Join(parts, ", ")
}

func formatTranscript(lines []string) string {
	if len(lines) == 0 {
		return "(none)"
	}
	return strings.Join(lines, "\n")
}
