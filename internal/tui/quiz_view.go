package tui

import (
	"fmt"
	"strings"

	"wiki-quiz/internal/domain"
)

var optionLabels = []string{"A", "B", "C", "D"}

// RenderQuiz draws a generated quiz: title, summary, every question with its options,
// the correct answer and explanation, then related topics.
func RenderQuiz(q *domain.Quiz) string {
	if q == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(headingStyle.Render(q.Title))
	b.WriteString("\n")
	if q.URL != "" {
		b.WriteString(subtleStyle.Render(q.URL))
		b.WriteString("\n")
	}
	if q.Summary != "" {
		b.WriteString("\n")
		b.WriteString(q.Summary)
		b.WriteString("\n")
	}

	for i, question := range q.Questions {
		b.WriteString("\n")
		b.WriteString(questionStyle.Render(fmt.Sprintf("%d. %s", i+1, question.Question)))
		b.WriteString(" ")
		b.WriteString(renderDifficulty(question.Difficulty))
		b.WriteString("\n")
		for j, opt := range question.Options {
			label := fmt.Sprintf("%d", j+1)
			if j < len(optionLabels) {
				label = optionLabels[j]
			}
			b.WriteString(fmt.Sprintf("   %s) %s\n", label, opt))
		}
		b.WriteString("   ")
		b.WriteString(answerStyle.Render("Answer: " + question.Answer))
		b.WriteString("\n")
		if question.Explanation != "" {
			b.WriteString("   ")
			b.WriteString(subtleStyle.Render(question.Explanation))
			b.WriteString("\n")
		}
	}

	if len(q.RelatedTopics) > 0 {
		b.WriteString("\n")
		b.WriteString(headingStyle.Render("Related topics"))
		b.WriteString("\n")
		for _, topic := range q.RelatedTopics {
			b.WriteString("  • " + topic + "\n")
		}
	}
	return b.String()
}

func renderDifficulty(d domain.Difficulty) string {
	style, ok := difficultyStyles[string(d)]
	if !ok {
		return "[" + string(d) + "]"
	}
	return style.Render("[" + string(d) + "]")
}
