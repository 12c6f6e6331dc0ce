package game

import "fmt"

type WinningReason string

const (
	TargetScoreReached  WinningReason = "target score reached"
	OpponentHitAssassin WinningReason = "opponent hit assassin card"
	OpponentQuit        WinningReason = "opponent quit"
)

// Winner is set at most once; after that the game is terminal.
type Winner struct {
	Team   TeamColor     `json:"team"`
	Reason WinningReason `json:"reason"`
}

func (w Winner) String() string {
	return fmt.Sprintf("%s team (%s)", w.Team, w.Reason)
}
