package acquire

// Event is published to subscribers as an acquisition progresses.
type Event interface {
	isEvent()
}

// QuestionReady means the question at Position (1-based) joined the quiz.
type QuestionReady struct {
	Position int
}

// QuestionFailed means the request for Index (0-based) was skipped.
type QuestionFailed struct {
	Index int
	Err   error
}

// Started means the quiz was started and, if the store accepted it, given ID.
type Started struct {
	ID int64
}

// Finished means no more questions will arrive. Count is how many did.
type Finished struct {
	Count int
}

func (QuestionReady) isEvent()  {}
func (QuestionFailed) isEvent() {}
func (Started) isEvent()        {}
func (Finished) isEvent()       {}

// Failure records a skipped index.
type Failure struct {
	Index int
	Err   error
}
