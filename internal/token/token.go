package token

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
)

const (
	// tokenBytes gives 192 bits of entropy, comfortably above the 128-bit
	// floor for an unguessable bearer credential.
	tokenBytes = 24

	// maxAttempts bounds pathological retry loops, not expected load.
	maxAttempts = 5
)

var (
	// ErrExhausted is returned when every candidate collided.
	ErrExhausted = errors.New("token_exhausted")

	// ErrCollision is how callers report a store-level unique constraint
	// violation back into the retry loop.
	ErrCollision = errors.New("token_collision")
)

// ExistsFunc reports whether a candidate token is already taken.
type ExistsFunc func(ctx context.Context, token string) (bool, error)

// CommitFunc durably stores the candidate. It must return ErrCollision when
// the store's unique constraint rejects it; the constraint, not the
// existence pre-check, is the final authority on uniqueness.
type CommitFunc func(ctx context.Context, token string) error

// Generator issues collision-checked, URL-safe share tokens.
type Generator struct {
	exists ExistsFunc
}

func NewGenerator(exists ExistsFunc) *Generator {
	return &Generator{exists: exists}
}

// Issue generates candidates until one both passes the existence pre-check
// and is accepted by commit, or the attempt budget runs out.
func (g *Generator) Issue(ctx context.Context, commit CommitFunc) (string, error) {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		candidate, err := generate()
		if err != nil {
			return "", err
		}

		if g.exists != nil {
			taken, err := g.exists(ctx, candidate)
			if err != nil {
				return "", err
			}
			if taken {
				continue
			}
		}

		if commit == nil {
			return candidate, nil
		}
		err = commit(ctx, candidate)
		if err == nil {
			return candidate, nil
		}
		if errors.Is(err, ErrCollision) {
			continue
		}
		return "", err
	}
	return "", ErrExhausted
}

func generate() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate share token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
