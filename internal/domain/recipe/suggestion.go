// Package recipe defines the ephemeral recipe suggestion model. Suggestions
// are produced by the AI gateway for the current session only and are never
// merged with inventory state.
package recipe

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Suggestion is a single AI-suggested recipe. It is a value object: replaced
// wholesale on each new generation request, never persisted.
type Suggestion struct {
	Title        string
	Description  string
	Ingredients  []string
	Instructions []string
	PrepTime     string
	Difficulty   Difficulty
	ImageURL     string
}

// Validate checks the minimal shape a usable suggestion must have.
func (s Suggestion) Validate() error {
	if strings.TrimSpace(s.Title) == "" {
		return errors.New("suggestion title is required")
	}
	return nil
}

// Difficulty is the fixed three-value difficulty scale.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// DifficultyFromString maps a raw, possibly localized label onto the closed
// difficulty set, defaulting to medium. The suggestion service answers in the
// active language, so French labels are recognized alongside English ones.
func DifficultyFromString(raw string) Difficulty {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "easy", "facile", "سهل":
		return DifficultyEasy
	case "hard", "difficile", "صعب":
		return DifficultyHard
	default:
		return DifficultyMedium
	}
}

// PlaceholderImageURL derives a deterministic fallback image reference from a
// recipe title. The same title always yields the same reference.
func PlaceholderImageURL(title string) string {
	return fmt.Sprintf("https://picsum.photos/seed/%s/800/450", url.PathEscape(title))
}
