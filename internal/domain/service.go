package domain

import "context"

// QuizService generates a quiz for a Wikipedia article URL.
//
// Implementations report failures through the returned error; its message is shown
// to the user as is. Callers do not retry, cancel or time out the call themselves.
type QuizService interface {
	Generate(ctx context.Context, url string) (*Quiz, error)
}
