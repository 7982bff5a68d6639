package engine

import (
	"regexp"
	"strings"
)

// Keyword detection for free-text turns. Commands are matched on the
// trimmed, lowercased body; the handoff token may appear anywhere in the
// message since people write things like "quero falar com um atendente".
var (
	resetRegex   = regexp.MustCompile(`^menu$`)
	pauseRegex   = regexp.MustCompile(`^(sair|parar|stop)$`)
	handoffRegex = regexp.MustCompile(`\b(atendente|atendimento humano|falar com alguem|falar com alguém)\b`)
)

var greetings = map[string]struct{}{
	"oi":        {},
	"oie":       {},
	"ola":       {},
	"olá":       {},
	"bom dia":   {},
	"boa tarde": {},
	"boa noite": {},
	"hey":       {},
	"hi":        {},
	"hello":     {},
}

func normalizeText(body string) string {
	return strings.ToLower(strings.TrimSpace(body))
}

func isResetCommand(body string) bool {
	return resetRegex.MatchString(normalizeText(body))
}

func isPauseCommand(body string) bool {
	return pauseRegex.MatchString(normalizeText(body))
}

func isHandoffRequest(body string) bool {
	return handoffRegex.MatchString(normalizeText(body))
}

func isGreeting(body string) bool {
	_, ok := greetings[normalizeText(body)]
	return ok
}
