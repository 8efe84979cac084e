package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"wiki-quiz/internal/cache"
	"wiki-quiz/internal/domain"
	"wiki-quiz/internal/logger"

	"go.uber.org/zap"
)

// ErrQuizNotCached is returned when no generated quiz is cached for a URL.
var ErrQuizNotCached = errors.New("generated quiz not found in cache")

// QuizCacheService memoises generated quizzes by normalised article URL.
type QuizCacheService interface {
	Put(ctx context.Context, articleURL string, quiz *domain.Quiz) error
	Get(ctx context.Context, articleURL string) (*domain.Quiz, error)
}

type quizCacheServiceImpl struct {
	cache domain.Cache
	ttl   time.Duration
}

// NewQuizCacheService returns a cache-backed QuizCacheService, or a no-op one when cache is nil.
func NewQuizCacheService(c domain.Cache, ttl time.Duration) QuizCacheService {
	if c == nil {
		logger.Get().Warn("QuizCacheService initialized with nil cache. Service will be no-op.")
		return &noopQuizCacheService{}
	}
	return &quizCacheServiceImpl{cache: c, ttl: ttl}
}

// QuizCacheKey is the redis key a quiz for articleURL is stored under.
func QuizCacheKey(articleURL string) string {
	return cache.GenerateCacheKey("quiz", "generated", cache.HashIdentifier(articleURL))
}

func (s *quizCacheServiceImpl) Put(ctx context.Context, articleURL string, quiz *domain.Quiz) error {
	if quiz == nil {
		return domain.NewInvalidInputError("cannot cache nil quiz")
	}

	key := QuizCacheKey(articleURL)
	data, err := json.Marshal(quiz)
	if err != nil {
		return domain.NewInternalError("failed to marshal quiz for caching", err)
	}
	if err := s.cache.Set(ctx, key, string(data), s.ttl); err != nil {
		return domain.NewInternalError(fmt.Sprintf("failed to set quiz to cache for key %s", key), err)
	}
	logger.Get().Debug("Cached generated quiz", zap.String("key", key), zap.Duration("ttl", s.ttl))
	return nil
}

func (s *quizCacheServiceImpl) Get(ctx context.Context, articleURL string) (*domain.Quiz, error) {
	key := QuizCacheKey(articleURL)
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			return nil, ErrQuizNotCached
		}
		return nil, domain.NewInternalError(fmt.Sprintf("failed to get quiz from cache for key %s", key), err)
	}
	if data == "" {
		return nil, ErrQuizNotCached
	}

	var quiz domain.Quiz
	if err := json.Unmarshal([]byte(data), &quiz); err != nil {
		s.evict(ctx, key, err)
		return nil, ErrQuizNotCached
	}
	if err := quiz.Validate(); err != nil {
		s.evict(ctx, key, err)
		return nil, ErrQuizNotCached
	}
	return &quiz, nil
}

// evict drops an unusable entry so the next request regenerates it.
func (s *quizCacheServiceImpl) evict(ctx context.Context, key string, reason error) {
	l := logger.Get().With(zap.String("key", key))
	l.Warn("Evicting unusable cached quiz", zap.Error(reason))
	if err := s.cache.Delete(ctx, key); err != nil {
		l.Warn("Failed to evict cached quiz", zap.Error(err))
	}
}

type noopQuizCacheService struct{}

func (s *noopQuizCacheService) Put(ctx context.Context, articleURL string, quiz *domain.Quiz) error {
	return nil
}

func (s *noopQuizCacheService) Get(ctx context.Context, articleURL string) (*domain.Quiz, error) {
	return nil, ErrQuizNotCached
}
