package scaffold

import "strings"

const (
	TokenName      = "{name}"
	TokenNameTitle = "{Name}"
	TokenTicketID  = "{ticket_id}"
)

// Placeholder is one token and the text it is replaced with.
type Placeholder struct {
	Token string
	Value string
}

// PlaceholderMap is the token table for a single generation request. Tokens
// are applied in a fixed order so output never depends on map iteration.
type PlaceholderMap []Placeholder

// NewPlaceholderMap derives the three recognized tokens from a feature name and
// ticket id. The ticket id is used verbatim.
func NewPlaceholderMap(name, ticketID string) PlaceholderMap {
	lower := strings.ToLower(name)
	return PlaceholderMap{
		{Token: TokenName, Value: lower},
		{Token: TokenNameTitle, Value: Capitalize(lower)},
		{Token: TokenTicketID, Value: ticketID},
	}
}

func (m PlaceholderMap) Value(token string) (string, bool) {
	for _, p := range m {
		if p.Token == token {
			return p.Value, true
		}
	}
	return "", false
}

// Apply replaces every occurrence of every token in s. Unrecognized
// brace-delimited text is left untouched.
func (m PlaceholderMap) Apply(s string) string {
	for _, p := range m {
		s = strings.ReplaceAll(s, p.Token, p.Value)
	}
	return s
}

// Capitalize upper-cases the first byte of s when it is an ASCII lowercase
// letter and leaves the rest unchanged.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	if c := s[0]; c >= 'a' && c <= 'z' {
		return string(c-'a'+'A') + s[1:]
	}
	return s
}
