package session

// Phase is where the learner is in the quiz flow.
type Phase int

const (
	PhaseSetup    Phase = iota // Choosing a topic, or waiting for the first question
	PhaseActive                // Answering questions
	PhaseComplete              // Looking at the result
)

func (p Phase) String() string {
	switch p {
	case PhaseSetup:
		return "setup"
	case PhaseActive:
		return "active"
	case PhaseComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// State is the learner's progress through the current quiz.
type State struct {
	Phase Phase

	// CurrentIndex is the 0-based index of the question being shown. After
	// the last Next it equals the number of questions answered.
	CurrentIndex int

	Score     int
	Streak    int
	MaxStreak int
}
