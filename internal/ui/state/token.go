package state

import (
	"errors"
	"strings"

	"github.com/gorilla/securecookie"
)

// TokenCodec signs page-instance IDs so the view token carried in URLs and
// forms cannot be forged or replayed against another page.
type TokenCodec struct {
	sc *securecookie.SecureCookie
}

// NewTokenCodec builds a codec from hashKey. An empty key generates a random
// one, which invalidates outstanding tokens on restart. Tokens carry no age
// limit; the Store decides when an instance has gone idle.
func NewTokenCodec(hashKey []byte) (*TokenCodec, error) {
	if len(hashKey) == 0 {
		hashKey = securecookie.GenerateRandomKey(64)
		if hashKey == nil {
			return nil, errors.New("state: generate token key")
		}
	}
	if len(hashKey) < 32 {
		return nil, errors.New("state: token hash key must be at least 32 bytes")
	}
	sc := securecookie.New(hashKey, nil)
	sc.MaxAge(0)
	return &TokenCodec{sc: sc}, nil
}

// Encode signs id for owner.
func (c *TokenCodec) Encode(owner, id string) (string, error) {
	return c.sc.Encode(tokenName(owner), id)
}

// Decode verifies token for owner and returns the instance ID.
func (c *TokenCodec) Decode(owner, token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrNotFound
	}
	var id string
	if err := c.sc.Decode(tokenName(owner), token, &id); err != nil {
		return "", err
	}
	return id, nil
}

func tokenName(owner string) string {
	return "view:" + owner
}
