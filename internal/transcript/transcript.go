package transcript

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mitchellh/mapstructure"
)

// ErrInvalidTranscript is returned for malformed or incomplete transcript input.
var ErrInvalidTranscript = errors.New("invalid transcript")

const (
	roleKey    = "role"
	contentKey = "content"
)

// Turn is a single speaker utterance.
type Turn struct {
	Role    string `json:"role" mapstructure:"role"`
	Content string `json:"content" mapstructure:"content"`
}

// Transcript is the ordered conversation. Order is the conversation order.
type Transcript struct {
	Turns []Turn
}

// Speaker returns the role with its first letter upper-cased.
func (t Turn) Speaker() string {
	return Capitalize(t.Role)
}

// Validate reports whether both fields are present.
func (t Turn) Validate() error {
	if strings.TrimSpace(t.Role) == "" {
		return fmt.Errorf("%w: role is empty", ErrInvalidTranscript)
	}
	if strings.TrimSpace(t.Content) == "" {
		return fmt.Errorf("%w: content is empty", ErrInvalidTranscript)
	}
	return nil
}

func (t *Transcript) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Turns)
}

// Validate fails closed: one bad turn invalidates the whole transcript.
func (t *Transcript) Validate() error {
	if t == nil {
		return fmt.Errorf("%w: transcript is nil", ErrInvalidTranscript)
	}
	for idx, turn := range t.Turns {
		if err := turn.Validate(); err != nil {
			return fmt.Errorf("turn %d: %w", idx, err)
		}
	}
	return nil
}

// Decode reads a JSON array of {"role", "content"} objects.
func Decode(r io.Reader) (*Transcript, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read transcript: %w", err)
	}

	return Parse(data)
}

// Parse validates raw JSON and returns the transcript. Any violation rejects the whole input.
func Parse(data []byte) (*Transcript, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTranscript, err)
	}

	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: expected a JSON array of turns", ErrInvalidTranscript)
	}

	for idx, item := range items {
		if err := checkItem(item); err != nil {
			return nil, fmt.Errorf("turn %d: %w", idx, err)
		}
	}

	turns := make([]Turn, 0, len(items))
	if err := mapstructure.Decode(items, &turns); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTranscript, err)
	}

	t := &Transcript{Turns: turns}
	if err := t.Validate(); err != nil {
		return nil, err
	}

	return t, nil
}

func checkItem(item any) error {
	obj, ok := item.(map[string]any)
	if !ok {
		return fmt.Errorf("%w: expected an object", ErrInvalidTranscript)
	}

	for _, key := range []string{roleKey, contentKey} {
		value, exists := obj[key]
		if !exists {
			return fmt.Errorf("%w: missing %q", ErrInvalidTranscript, key)
		}
		if _, isString := value.(string); !isString {
			return fmt.Errorf("%w: %q must be a string", ErrInvalidTranscript, key)
		}
	}

	return nil
}

// Capitalize upper-cases the first letter and leaves the rest untouched.
func Capitalize(s string) string {
	s = strings.TrimSpace(s)
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
