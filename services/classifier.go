package services

import (
	"strings"

	"squadpoll_server/models"
)

// ClassifyResponse maps raw inbound message text to a response kind.
// Digits match exactly, words match case-insensitively, everything is
// whitespace-trimmed first. No fuzzy matching: anything else is
// unrecognized and must not mutate state.
func ClassifyResponse(body string) (string, bool) {
	trimmed := strings.TrimSpace(body)
	lower := strings.ToLower(trimmed)

	switch {
	case trimmed == "1" || lower == "yes" || lower == "available":
		return models.ResponseAvailable, true
	case trimmed == "2" || lower == "no" || lower == "not available":
		return models.ResponseNotAvailable, true
	case trimmed == "3" || lower == "maybe":
		return models.ResponseMaybe, true
	}
	return "", false
}

// ResponseLabel renders a response kind for player-facing messages
func ResponseLabel(response string) string {
	switch response {
	case models.ResponseAvailable:
		return "Available"
	case models.ResponseNotAvailable:
		return "Not Available"
	case models.ResponseMaybe:
		return "Maybe"
	}
	return response
}
