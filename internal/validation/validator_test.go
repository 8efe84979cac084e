package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func messageOf(t *testing.T, err error) string {
	t.Helper()
	if err == nil {
		return ""
	}
	var urlErr *URLError
	require.True(t, errors.As(err, &urlErr), "expected *URLError, got %T", err)
	return urlErr.Message
}

func TestValidateWikipediaURL(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		rule  Rule
	}{
		{"empty", "", MsgEmptyURL, RuleEmpty},
		{"spaces only", "   ", MsgEmptyURL, RuleEmpty},
		{"tabs and newlines", "\t\n ", MsgEmptyURL, RuleEmpty},
		{"ftp scheme", "ftp://en.wikipedia.org/wiki/Cat", MsgBadScheme, RuleScheme},
		{"no scheme", "en.wikipedia.org/wiki/Cat", MsgBadScheme, RuleScheme},
		{"leading space before scheme", " https://en.wikipedia.org/wiki/Cat", MsgBadScheme, RuleScheme},
		{"upper-case scheme", "HTTPS://en.wikipedia.org/wiki/Cat", MsgBadScheme, RuleScheme},
		{"scheme check wins over domain", "gopher://example.com", MsgBadScheme, RuleScheme},
		{"other domain", "https://example.com/wiki/Cat", MsgNotWikipedia, RuleDomain},
		{"http other domain", "http://wikimedia.org/wiki/Cat", MsgNotWikipedia, RuleDomain},
		{"missing wiki path", "https://en.wikipedia.org/Cat", MsgBadPath, RulePath},
		{"main page root", "https://en.wikipedia.org/", MsgBadPath, RulePath},
		{"valid https", "https://en.wikipedia.org/wiki/Cat", "", ""},
		{"valid http", "http://de.wikipedia.org/wiki/Katze", "", ""},
		{"valid trailing space", "https://en.wikipedia.org/wiki/Cat  ", "", ""},
		{"valid mobile host", "https://en.m.wikipedia.org/wiki/Alan_Turing", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateWikipediaURL(tt.input)
			assert.Equal(t, tt.want, messageOf(t, err))
			if tt.want == "" {
				assert.NoError(t, err)
				return
			}
			var urlErr *URLError
			require.True(t, errors.As(err, &urlErr))
			assert.Equal(t, tt.rule, urlErr.Rule)
			assert.Equal(t, tt.want, err.Error())
		})
	}
}

func TestValidateWikipediaURL_Deterministic(t *testing.T) {
	inputs := []string{"", "x", "https://example.com", "https://en.wikipedia.org/Cat", "https://en.wikipedia.org/wiki/Cat"}
	for _, in := range inputs {
		first := messageOf(t, ValidateWikipediaURL(in))
		second := messageOf(t, ValidateWikipediaURL(in))
		assert.Equal(t, first, second, "input %q", in)
	}
}

func TestValidateArticleURL(t *testing.T) {
	t.Run("valid is parsed and trimmed", func(t *testing.T) {
		u, err := ValidateArticleURL("  https://en.wikipedia.org/wiki/Cat ")
		require.NoError(t, err)
		assert.Equal(t, "en.wikipedia.org", u.Host)
		assert.Equal(t, "/wiki/Cat", u.Path)
	})

	t.Run("domain only in query", func(t *testing.T) {
		_, err := ValidateArticleURL("https://example.com/wiki/x?ref=wikipedia.org")
		assert.Equal(t, MsgNotWikipedia, messageOf(t, err))
	})

	t.Run("wiki segment not at path start", func(t *testing.T) {
		_, err := ValidateArticleURL("https://en.wikipedia.org/w/index.php?title=/wiki/Cat")
		assert.Equal(t, MsgBadPath, messageOf(t, err))
	})

	t.Run("client rules still apply first", func(t *testing.T) {
		_, err := ValidateArticleURL("")
		assert.Equal(t, MsgEmptyURL, messageOf(t, err))
	})

	t.Run("unparseable", func(t *testing.T) {
		_, err := ValidateArticleURL("https://en.wikipedia.org/wiki/%zz")
		var urlErr *URLError
		require.True(t, errors.As(err, &urlErr))
		assert.Equal(t, RuleParse, urlErr.Rule)
	})
}
