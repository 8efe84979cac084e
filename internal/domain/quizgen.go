package domain

import "context"

// QuizGenerator turns an article into a quiz with a language model.
type QuizGenerator interface {
	GenerateQuiz(ctx context.Context, article *Article, numQuestions int) (*Quiz, error)
}

// ArticleFetcher retrieves and cleans the article behind a Wikipedia URL.
type ArticleFetcher interface {
	FetchArticle(ctx context.Context, url string) (*Article, error)
}
