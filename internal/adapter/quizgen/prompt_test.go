package quizgen

import (
	"strings"
	"testing"
	"unicode/utf8"

	"wiki-quiz/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const validQuizJSON = `{
  "title": "Go (programming language)",
  "summary": "Go is a statically typed language designed at Google.",
  "questions": [
    {
      "question": "Where was Go designed?",
      "options": ["Google", "Bell Labs", "Microsoft", "Mozilla"],
      "answer": "Google",
      "difficulty": "easy",
      "explanation": "The article says Go was designed at Google."
    },
    {
      "question": "Which year was Go announced?",
      "options": ["2007", "2009", "2012", "2015"],
      "answer": "2009",
      "difficulty": "Medium",
      "explanation": "Go was publicly announced in November 2009."
    }
  ],
  "related_topics": ["Rob Pike", " ", "Limbo (programming language)"]
}`

func testArticle() *domain.Article {
	return &domain.Article{
		URL:   "https://en.wikipedia.org/wiki/Go_(programming_language)",
		Title: "Go (programming language)",
		Text:  "Go is a statically typed, compiled high-level programming language designed at Google.",
	}
}

func TestBuildPrompt(t *testing.T) {
	article := testArticle()
	prompt := BuildPrompt(article, 7)

	assert.Contains(t, prompt, `"Go (programming language)"`)
	assert.Contains(t, prompt, "exactly 7 multiple choice questions")
	assert.Contains(t, prompt, article.Text)
}

func TestBuildPrompt_TruncatesLongArticles(t *testing.T) {
	article := testArticle()
	article.Text = strings.Repeat("a", maxArticleChars+500)

	prompt := BuildPrompt(article, 5)
	assert.NotContains(t, prompt, strings.Repeat("a", maxArticleChars+1))
	assert.Contains(t, prompt, strings.Repeat("a", maxArticleChars))
}

func TestBuildPrompt_TruncatesOnRuneBoundary(t *testing.T) {
	article := testArticle()
	article.Text = strings.Repeat("é", maxArticleChars+10)

	prompt := BuildPrompt(article, 5)
	assert.True(t, utf8.ValidString(prompt))
	assert.Contains(t, prompt, strings.Repeat("é", maxArticleChars))
	assert.NotContains(t, prompt, strings.Repeat("é", maxArticleChars+1))
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "東京", truncateRunes("東京都", 2))
	assert.Equal(t, "東京都", truncateRunes("東京都", 3))
	assert.Equal(t, "東京都", truncateRunes("東京都", 10))
	assert.Equal(t, "", truncateRunes("東京都", 0))
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "plain", raw: `{"a":1}`, want: `{"a":1}`},
		{name: "think block", raw: "<think>\nlet me plan {not json}\n</think>\n{\"a\":1}", want: `{"a":1}`},
		{name: "code fence", raw: "```json\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "surrounding prose", raw: `Here you go: {"a":{"b":2}} enjoy`, want: `{"a":{"b":2}}`},
		{name: "no object", raw: "sorry, I cannot help", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractJSON(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, errNoJSON)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseQuiz(t *testing.T) {
	article := testArticle()

	quiz, err := ParseQuiz("<think>ok</think>\n"+validQuizJSON, article, 5, zap.NewNop())
	require.NoError(t, err)

	assert.NotEmpty(t, quiz.ID)
	assert.Equal(t, article.URL, quiz.URL)
	assert.Equal(t, "Go (programming language)", quiz.Title)
	require.Len(t, quiz.Questions, 2)
	assert.Equal(t, domain.DifficultyMedium, quiz.Questions[1].Difficulty)
	assert.Equal(t, []string{"Rob Pike", "Limbo (programming language)"}, quiz.RelatedTopics)
	assert.False(t, quiz.GeneratedAt.IsZero())
}

func TestParseQuiz_CapsQuestionCount(t *testing.T) {
	quiz, err := ParseQuiz(validQuizJSON, testArticle(), 1, zap.NewNop())
	require.NoError(t, err)
	assert.Len(t, quiz.Questions, 1)
}

func TestParseQuiz_DropsInvalidQuestions(t *testing.T) {
	raw := `{
	  "title": "",
	  "summary": "s",
	  "questions": [
	    {"question": "Three options?", "options": ["a", "b", "c"], "answer": "a", "difficulty": "easy", "explanation": "e"},
	    {"question": "Answer missing?", "options": ["a", "b", "c", "d"], "answer": "z", "difficulty": "easy", "explanation": "e"},
	    {"question": "Good one?", "options": ["a", "b", "c", "d"], "answer": "d", "difficulty": "unknown", "explanation": "e"}
	  ],
	  "related_topics": []
	}`

	quiz, err := ParseQuiz(raw, testArticle(), 5, zap.NewNop())
	require.NoError(t, err)

	require.Len(t, quiz.Questions, 1)
	assert.Equal(t, "Good one?", quiz.Questions[0].Question)
	assert.Equal(t, domain.DifficultyMedium, quiz.Questions[0].Difficulty)
	// Falls back to the scraped title.
	assert.Equal(t, "Go (programming language)", quiz.Title)
}

func TestParseQuiz_Errors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "no json", raw: "I refuse"},
		{name: "malformed json", raw: `{"title": "x", "questions": [}`},
		{name: "no valid questions", raw: `{"title": "x", "questions": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quiz, err := ParseQuiz(tt.raw, testArticle(), 5, zap.NewNop())
			assert.Nil(t, quiz)

			var domainErr *domain.DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, domain.ErrInvalidQuizShape, domainErr.Code)
		})
	}
}
