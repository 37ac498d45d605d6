// Package commitmsg produces backup commit messages: an explicit message, a
// message generated from the staged diff by a chat-completion provider, or
// a fixed fallback.
package commitmsg

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/billxc/git-file-vault/pkg/logging"
)

const (
	// Fallback is used when no message was given and none could be generated.
	Fallback = "Update vault"

	// MaxDiffChars bounds how much of the diff is sent to a provider.
	MaxDiffChars = 4000
)

// Provider generates a commit message from a diff.
type Provider interface {
	Generate(ctx context.Context, diff string) (string, error)
}

// Source tells where a resolved message came from.
type Source string

const (
	SourceExplicit Source = "explicit"
	SourceProvider Source = "provider"
	SourceFallback Source = "fallback"
)

// Resolve picks the commit message. explicit wins; otherwise provider is
// asked with the output of diff. Every provider or diff failure falls back
// silently (it is only logged).
func Resolve(ctx context.Context, explicit string, provider Provider, diff func() (string, error)) (string, Source) {
	if msg := strings.TrimSpace(explicit); msg != "" {
		return msg, SourceExplicit
	}
	if provider == nil || diff == nil {
		return Fallback, SourceFallback
	}

	logger := logging.GetLogger("commitmsg")
	text, err := diff()
	if err != nil {
		logger.Warn().Err(err).Msg("Could not compute diff for commit message")
		return Fallback, SourceFallback
	}
	if strings.TrimSpace(text) == "" {
		return Fallback, SourceFallback
	}

	msg, err := provider.Generate(ctx, Truncate(text, MaxDiffChars))
	if err != nil {
		logger.Warn().Err(err).Msg("Commit message generation failed, using fallback")
		return Fallback, SourceFallback
	}
	msg = Clean(msg)
	if msg == "" {
		logger.Warn().Msg("Provider returned an empty commit message, using fallback")
		return Fallback, SourceFallback
	}
	return msg, SourceProvider
}

// Truncate cuts s to at most max bytes without splitting a UTF-8 sequence.
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// Clean reduces a generated reply to a single commit subject line.
func Clean(msg string) string {
	for _, line := range strings.Split(msg, "\n") {
		line = strings.TrimSpace(line)
		line = strings.Trim(line, "`\"'")
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "```") {
			continue
		}
		return line
	}
	return ""
}

// Prompt builds the instruction sent along with diff.
func Prompt(diff string) string {
	return fmt.Sprintf(`Generate a git commit message for the following diff of configuration files.
The message must:
- be a single line
- start with a verb in present tense (add, fix, update, remove)
- describe what changed, not how
- have no prefix such as "feat:" and no markdown

Diff:
%s

Respond with only the commit message.`, diff)
}
