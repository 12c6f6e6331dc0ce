package game

import "fmt"

type ActorKind string

const (
	ActorHuman ActorKind = "human"
	ActorAgent ActorKind = "agent"
)

// Actor identifies who performed an action: a named human or an
// autonomous agent carrying its model identity. It is attached to every
// event for ledger attribution and is always caller-supplied, never
// inferred.
type Actor struct {
	Kind  ActorKind `json:"kind"`
	Name  string    `json:"name"`
	Model string    `json:"model,omitempty"`
}

func HumanActor(name string) Actor {
	return Actor{Kind: ActorHuman, Name: name}
}

func AgentActor(name, model string) Actor {
	return Actor{Kind: ActorAgent, Name: name, Model: model}
}

func (a Actor) String() string {
	if a.Kind == ActorAgent && a.Model != "" {
		return fmt.Sprintf("%s (%s)", a.Name, a.Model)
	}
	return a.Name
}
