package validation

import (
	"net/url"
	"strings"
)

// Messages shown to the user when a candidate URL is rejected.
const (
	MsgEmptyURL     = "Please enter a Wikipedia URL"
	MsgBadScheme    = "URL must start with http:// or https://"
	MsgNotWikipedia = "Please provide a valid Wikipedia URL (e.g., https://en.wikipedia.org/wiki/Article_Name)"
	MsgBadPath      = "Invalid Wikipedia URL format. It should be: https://en.wikipedia.org/wiki/Article_Name"
)

// Rule names the check a URL failed.
type Rule string

const (
	RuleEmpty  Rule = "empty"
	RuleScheme Rule = "scheme"
	RuleDomain Rule = "domain"
	RulePath   Rule = "path"
	RuleParse  Rule = "parse"
)

// URLError is returned for a rejected URL. Error() is the user-facing message.
type URLError struct {
	Rule    Rule
	Message string
}

func (e *URLError) Error() string {
	return e.Message
}

// ValidateWikipediaURL checks a candidate article URL before any network call.
// Rules run in order and the first failure wins. Only the emptiness check trims;
// the remaining checks look at raw exactly as typed. A nil result means valid.
func ValidateWikipediaURL(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return &URLError{Rule: RuleEmpty, Message: MsgEmptyURL}
	}
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		return &URLError{Rule: RuleScheme, Message: MsgBadScheme}
	}
	if !strings.Contains(raw, "wikipedia.org") {
		return &URLError{Rule: RuleDomain, Message: MsgNotWikipedia}
	}
	if !strings.Contains(raw, "/wiki/") {
		return &URLError{Rule: RulePath, Message: MsgBadPath}
	}
	return nil
}

// ValidateArticleURL is the server-side check. On top of ValidateWikipediaURL it
// parses the URL and requires the host to be a wikipedia.org host and the path to
// begin with /wiki/, so "https://example.com/?q=wikipedia.org/wiki/" is rejected.
func ValidateArticleURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if err := ValidateWikipediaURL(raw); err != nil {
		return nil, err
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return nil, &URLError{Rule: RuleParse, Message: "Invalid URL format: " + err.Error()}
	}
	if !strings.Contains(parsed.Host, "wikipedia.org") {
		return nil, &URLError{Rule: RuleDomain, Message: MsgNotWikipedia}
	}
	if !strings.HasPrefix(parsed.Path, "/wiki/") {
		return nil, &URLError{Rule: RulePath, Message: MsgBadPath}
	}
	return parsed, nil
}
