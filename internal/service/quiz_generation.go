package service

import (
	"context"
	"errors"
	"time"

	"wiki-quiz/internal/adapter/wikipedia"
	"wiki-quiz/internal/domain"
	"wiki-quiz/internal/logger"
	"wiki-quiz/internal/validation"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// quizGenerationService implements domain.QuizService on the server side:
// validate, consult the cache, scrape, generate, cache.
type quizGenerationService struct {
	fetcher      domain.ArticleFetcher
	generator    domain.QuizGenerator
	quizCache    QuizCacheService
	numQuestions int
	sfGroup      singleflight.Group
}

// NewQuizGenerationService creates the generation pipeline. quizCache may be nil.
func NewQuizGenerationService(
	fetcher domain.ArticleFetcher,
	generator domain.QuizGenerator,
	quizCache QuizCacheService,
	numQuestions int,
) domain.QuizService {
	if quizCache == nil {
		quizCache = &noopQuizCacheService{}
	}
	return &quizGenerationService{
		fetcher:      fetcher,
		generator:    generator,
		quizCache:    quizCache,
		numQuestions: numQuestions,
	}
}

// Generate implements domain.QuizService.
func (s *quizGenerationService) Generate(ctx context.Context, rawURL string) (*domain.Quiz, error) {
	parsed, err := validation.ValidateArticleURL(rawURL)
	if err != nil {
		return nil, domain.NewInvalidInputError(err.Error())
	}
	articleURL := wikipedia.NormalizeArticleURL(parsed).String()
	l := logger.Get().With(zap.String("url", articleURL))

	quiz, err := s.quizCache.Get(ctx, articleURL)
	if err == nil {
		l.Info("Serving quiz from cache", zap.String("quiz_id", quiz.ID))
		return quiz, nil
	}
	if !errors.Is(err, ErrQuizNotCached) {
		l.Warn("Quiz cache lookup failed, generating", zap.Error(err))
	}

	// Concurrent requests for the same article share one scrape and one LLM call.
	// The shared call is detached from any single caller; the scraper and LLM
	// timeouts bound it, and each caller stops waiting when its own ctx ends.
	ch := s.sfGroup.DoChan(articleURL, func() (interface{}, error) {
		return s.generate(context.WithoutCancel(ctx), articleURL, l)
	})

	select {
	case <-ctx.Done():
		l.Info("Caller left before quiz generation finished", zap.Error(ctx.Err()))
		return nil, domain.NewInternalError("Quiz generation was cancelled", ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			l.Debug("Quiz generation result shared between concurrent requests")
		}
		return res.Val.(*domain.Quiz), nil
	}
}

func (s *quizGenerationService) generate(ctx context.Context, articleURL string, l *zap.Logger) (*domain.Quiz, error) {
	start := time.Now()

	article, err := s.fetcher.FetchArticle(ctx, articleURL)
	if err != nil {
		l.Warn("Failed to fetch article", zap.Error(err))
		return nil, asDomainError(err, "Failed to fetch the Wikipedia article")
	}
	l.Info("Fetched article", zap.String("title", article.Title), zap.Int("chars", len(article.Text)))

	quiz, err := s.generator.GenerateQuiz(ctx, article, s.numQuestions)
	if err != nil {
		l.Error("Failed to generate quiz", zap.Error(err))
		return nil, asDomainError(err, "Failed to generate quiz")
	}
	if quiz == nil {
		return nil, domain.NewInternalError("Failed to generate quiz", errors.New("generator returned no quiz"))
	}
	quiz.URL = articleURL

	if err := s.quizCache.Put(ctx, articleURL, quiz); err != nil {
		l.Warn("Failed to cache generated quiz", zap.Error(err))
	}

	l.Info("Generated quiz",
		zap.String("quiz_id", quiz.ID),
		zap.Int("questions", len(quiz.Questions)),
		zap.Duration("duration", time.Since(start)))
	return quiz, nil
}

// asDomainError keeps DomainErrors as they are and wraps anything else as internal.
func asDomainError(err error, message string) error {
	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		return err
	}
	return domain.NewInternalError(message, err)
}
