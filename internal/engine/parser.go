package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/yangwenmai/lovenote/internal/model"
)

// ErrParseFailure matches every *ParseError.
var ErrParseFailure = errors.New("unusable model output")

// ParseError reports model output that could not become content.
type ParseError struct {
	Kind   model.Kind
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse %s: %s: %v", e.Kind, e.Reason, e.Err)
	}
	return fmt.Sprintf("parse %s: %s", e.Kind, e.Reason)
}

func (e *ParseError) Is(target error) bool { return target == ErrParseFailure }

func (e *ParseError) Unwrap() error { return e.Err }

// Defaults for card fields the model left out or got the type wrong.
const DefaultPoem = "My heart beats only for you, my love"

// DefaultLoveNotes is substituted when love_notes is missing, not a list
// of strings, or holds a null or blank entry.
var DefaultLoveNotes = []string{
	"I love everything about you",
	"You make my world brighter",
	"Every moment with you is precious",
	"You are my everything",
	"Forever and always, I choose you",
}

// DefaultScratchMessage returns the scratch message used when the model
// omits one.
func DefaultScratchMessage(recipient string) string {
	return fmt.Sprintf("I love you more than words can say, %s!", recipient)
}

// StripFences removes one leading Markdown code fence line (with an optional
// language tag) and one trailing fence, then trims whitespace.
func StripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if rest, ok := strings.CutPrefix(s, "```"); ok {
		tagEnd := 0
		for tagEnd < len(rest) && isTagByte(rest[tagEnd]) {
			tagEnd++
		}
		after := rest[tagEnd:]
		trimmed := strings.TrimLeft(after, " \t")
		if after == "" || after[0] == '\n' || after[0] == '\r' ||
			strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
			rest = after
		}
		s = rest
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func isTagByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' ||
		c == '_' || c == '+' || c == '-'
}

// ParseCard decodes model output into card content. Missing or mistyped
// fields take their defaults; invalid JSON, a non-object document, or a
// love_notes list of the wrong length is a *ParseError.
func ParseCard(raw, recipient string) (model.CardContent, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal([]byte(StripFences(raw)), &doc); err != nil {
		return model.CardContent{}, &ParseError{Kind: model.KindCard, Reason: "invalid JSON object", Err: err}
	}
	if doc == nil {
		return model.CardContent{}, &ParseError{Kind: model.KindCard, Reason: "document is null"}
	}

	content := model.CardContent{
		Poem:           stringField(doc, "poem", DefaultPoem),
		ScratchMessage: stringField(doc, "scratch_message", DefaultScratchMessage(recipient)),
	}

	if notes, ok := noteList(doc); ok {
		if len(notes) != model.LoveNoteCount {
			return model.CardContent{}, &ParseError{
				Kind:   model.KindCard,
				Reason: fmt.Sprintf("love_notes has %d entries, want %d", len(notes), model.LoveNoteCount),
			}
		}
		content.LoveNotes = notes
	} else {
		content.LoveNotes = append([]string(nil), DefaultLoveNotes...)
	}
	return content, nil
}

// noteList reports false unless love_notes is an array of non-blank strings.
func noteList(doc map[string]json.RawMessage) ([]string, bool) {
	raw, ok := doc["love_notes"]
	if !ok {
		return nil, false
	}
	var items []*string
	if err := json.Unmarshal(raw, &items); err != nil || items == nil {
		return nil, false
	}
	notes := make([]string, 0, len(items))
	for _, item := range items {
		if item == nil || strings.TrimSpace(*item) == "" {
			return nil, false
		}
		notes = append(notes, *item)
	}
	return notes, true
}

func stringField(doc map[string]json.RawMessage, key, def string) string {
	raw, ok := doc[key]
	if !ok {
		return def
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil || strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

// ParseLetter accepts any non-blank text.
func ParseLetter(raw string) (model.LetterContent, error) {
	text := StripFences(raw)
	if text == "" {
		return model.LetterContent{}, &ParseError{Kind: model.KindLetter, Reason: "empty text"}
	}
	return model.LetterContent{Content: text}, nil
}
