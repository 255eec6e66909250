// Package conversation turns console input into pantry commands.
package conversation

import (
	"context"
	"regexp"
	"strings"

	"github.com/hammamikhairi/ottopantry/internal/domain"
	"github.com/hammamikhairi/ottopantry/internal/logger"
)

// Compile-time interface check.
var _ domain.CommandParser = (*KeywordParser)(nil)

// KeywordParser matches the first word of a line against keyword patterns.
// Everything after the keyword becomes the command's arguments; double
// quotes group words, so `show "olive oil"` has one argument.
type KeywordParser struct {
	log      *logger.Logger
	patterns []patternRule
}

type patternRule struct {
	regex *regexp.Regexp
	kind  domain.CommandKind
}

// NewKeywordParser creates a keyword-based command parser.
func NewKeywordParser(log *logger.Logger) *KeywordParser {
	p := &KeywordParser{log: log}
	p.patterns = []patternRule{
		{regexp.MustCompile(`(?i)^(help|h|\?)$`), domain.CommandHelp},
		{regexp.MustCompile(`(?i)^(quit|exit|q|bye)$`), domain.CommandQuit},
		{regexp.MustCompile(`(?i)^(list|ls|pantry|groceries)$`), domain.CommandList},
		{regexp.MustCompile(`(?i)^(show|describe|find)$`), domain.CommandShow},
		{regexp.MustCompile(`(?i)^(add|buy|stock)$`), domain.CommandAdd},
		{regexp.MustCompile(`(?i)^(remove|rm|use|take)$`), domain.CommandRemove},
		{regexp.MustCompile(`(?i)^(purge|clean|bin)$`), domain.CommandPurge},
		{regexp.MustCompile(`(?i)^(expired|old)$`), domain.CommandExpired},
		{regexp.MustCompile(`(?i)^(value|waste)$`), domain.CommandValue},
		{regexp.MustCompile(`(?i)^(recipes|cookbook)$`), domain.CommandRecipes},
		{regexp.MustCompile(`(?i)^(suggest|ideas)$`), domain.CommandSuggest},
		{regexp.MustCompile(`(?i)^(recipe|view)$`), domain.CommandRecipe},
		{regexp.MustCompile(`(?i)^(check|can)$`), domain.CommandCheck},
		{regexp.MustCompile(`(?i)^(cook|prepare|make)$`), domain.CommandCook},
		{regexp.MustCompile(`(?i)^(scale|portions|serves)$`), domain.CommandScale},
	}
	return p
}

// Parse converts user input into a command. Unmatched input yields
// CommandUnknown with the raw text kept for the error message.
func (p *KeywordParser) Parse(ctx context.Context, input string) (*domain.Command, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return &domain.Command{Kind: domain.CommandUnknown}, nil
	}

	p.log.Debug("parsing input: %q", trimmed)

	words := splitArgs(trimmed)
	for _, rule := range p.patterns {
		if rule.regex.MatchString(words[0]) {
			p.log.Debug("matched command: %s", rule.kind)
			return &domain.Command{Kind: rule.kind, Args: words[1:], Raw: trimmed}, nil
		}
	}

	p.log.Debug("no match, returning unknown command")
	return &domain.Command{Kind: domain.CommandUnknown, Raw: trimmed}, nil
}

// splitArgs splits on whitespace, keeping double-quoted runs together.
// An unterminated quote runs to the end of the input.
func splitArgs(s string) []string {
	var (
		out     []string
		cur     strings.Builder
		quoted  bool
		pending bool
	)
	for _, r := range s {
		switch {
		case r == '"':
			quoted = !quoted
			pending = true
		case !quoted && (r == ' ' || r == '\t'):
			if pending {
				out = append(out, cur.String())
				cur.Reset()
				pending = false
			}
		default:
			cur.WriteRune(r)
			pending = true
		}
	}
	if pending {
		out = append(out, cur.String())
	}
	return out
}
