package controller

import (
	"fmt"

	"wiki-quiz/internal/domain"
)

// DefaultFailureMessage is shown when the quiz service fails without a message.
const DefaultFailureMessage = "Failed to generate quiz"

// ErrorKind tells a local validation failure apart from a service failure.
type ErrorKind int

const (
	KindValidation ErrorKind = iota + 1
	KindService
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindService:
		return "service"
	default:
		return "unknown"
	}
}

// RequestState is one of Idle, InFlight, Succeeded or Failed. Only Succeeded carries
// a quiz and only Failed carries a message, so the two can never be set together.
type RequestState interface {
	requestState()
}

// Idle is the state of a freshly mounted control.
type Idle struct{}

// InFlight means a QuizService call for URL is pending.
type InFlight struct {
	URL string
}

// Succeeded holds the quiz of the last settled submission.
type Succeeded struct {
	Quiz *domain.Quiz
}

// Failed holds the message of the last failed submission.
type Failed struct {
	Message string
	Kind    ErrorKind
}

func (Idle) requestState()      {}
func (InFlight) requestState()  {}
func (Succeeded) requestState() {}
func (Failed) requestState()    {}

// Snapshot is a point-in-time copy of the control's state. Seq grows with every
// transition; a listener that sees a Seq lower than one it already has must drop it.
type Snapshot struct {
	Seq     uint64
	Input   string
	Request RequestState
}

// NewerThan reports whether s was taken after other.
func (s Snapshot) NewerThan(other Snapshot) bool {
	return s.Seq > other.Seq
}

// Busy is true only while a submission is pending.
func (s Snapshot) Busy() bool {
	_, ok := s.Request.(InFlight)
	return ok
}

// ErrorMessage returns the current error and whether there is one.
func (s Snapshot) ErrorMessage() (string, bool) {
	f, ok := s.Request.(Failed)
	if !ok {
		return "", false
	}
	return f.Message, true
}

// Result returns the current quiz, or nil.
func (s Snapshot) Result() *domain.Quiz {
	if st, ok := s.Request.(Succeeded); ok {
		return st.Quiz
	}
	return nil
}

// String renders the state for logs and debugging.
func (s Snapshot) String() string {
	switch st := s.Request.(type) {
	case InFlight:
		return fmt.Sprintf("in-flight(%s)", st.URL)
	case Succeeded:
		if st.Quiz != nil {
			return fmt.Sprintf("succeeded(%s)", st.Quiz.Title)
		}
		return "succeeded"
	case Failed:
		return fmt.Sprintf("failed[%s](%s)", st.Kind, st.Message)
	default:
		return "idle"
	}
}
