// Package pagination encodes keyset positions of swipe listings into opaque
// tokens.
package pagination

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
)

var ErrInvalidToken = errors.New("invalid pagination token")

// Cursor is the last row of a page. Recipient binds the token to the
// listing it came from, so it cannot page another profile's likes.
type Cursor struct {
	Recipient int64 `json:"r"`
	ActorID   int64 `json:"a"`
	SwipeUnix int64 `json:"t"` // millis
}

// IsZero reports whether the cursor points at the first page.
func (c Cursor) IsZero() bool { return c.ActorID == 0 }

// Encode turns a Cursor into a URL-safe token.
func Encode(c Cursor) (string, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to marshal cursor: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// Decode parses a token issued for recipient. An empty token is the first page.
func Decode(token string, recipient int64) (Cursor, error) {
	if token == "" {
		return Cursor{}, nil
	}

	b, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, ErrInvalidToken
	}
	var c Cursor
	if err := json.Unmarshal(b, &c); err != nil {
		return Cursor{}, ErrInvalidToken
	}
	if c.ActorID <= 0 || c.Recipient != recipient {
		return Cursor{}, ErrInvalidToken
	}
	return c, nil
}
