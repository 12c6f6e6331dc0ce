package containers

import (
	"io"

	"github.com/clueloop/codenames/utils"
)

type LoginUser struct {
	Email    string
	Password string
	Username string
}

func ParseLoginUser(data io.ReadCloser) (*LoginUser, error) {
	return utils.Parse[LoginUser](data)
}

// CreateMatch carries the optional board parameters of a new match.
// AssassinAmount and Seed are pointers so that an explicit zero can be
// told apart from an absent field.
type CreateMatch struct {
	Language       string  `json:"language"`
	BoardSize      int     `json:"board_size"`
	AssassinAmount *int    `json:"assassin_amount"`
	Seed           *uint64 `json:"seed"`
}

func ParseCreateMatch(data io.ReadCloser) (*CreateMatch, error) {
	return utils.Parse[CreateMatch](data)
}

type HintRequest struct {
	Word       string `json:"word"`
	CardAmount int    `json:"card_amount"`
}

func ParseHintRequest(data io.ReadCloser) (*HintRequest, error) {
	return utils.Parse[HintRequest](data)
}

type GuessRequest struct {
	Word string `json:"word"`
}

func ParseGuessRequest(data io.ReadCloser) (*GuessRequest, error) {
	return utils.Parse[GuessRequest](data)
}

// AIRequest configures an AI-driven action: which model to use and, for
// guessing, how many operatives deliberate. A team's operative lineup is
// fixed by the first guessing request of the match, so its discussion
// transcript can carry over between turns; Model and Operatives on later
// guessing requests for that team have no effect.
type AIRequest struct {
	Model      string `json:"model"`
	Operatives int    `json:"operatives"`
}

func ParseAIRequest(data io.ReadCloser) (*AIRequest, error) {
	return utils.Parse[AIRequest](data)
}
