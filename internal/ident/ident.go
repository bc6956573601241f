// Package ident produces short, URL-safe random identifiers for content
// records. Collision handling against existing ids is the generator's
// responsibility; callers receive an id that was free at generation time.
package ident

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
)

const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// DefaultLength is the content id length in characters.
const DefaultLength = 10

const maxAttempts = 5

// ErrExhausted is returned when repeated collisions prevent id generation.
var ErrExhausted = errors.New("ident: could not generate a unique id")

// Source answers whether an id is already taken.
type Source interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// Generator mints unique ids against a Source.
type Generator struct {
	source Source
	length int
}

// New creates a Generator. A non-positive length falls back to DefaultLength.
func New(source Source, length int) *Generator {
	if length <= 0 {
		length = DefaultLength
	}
	return &Generator{source: source, length: length}
}

// NewID returns a fresh id not present in the source, retrying on collision.
func (g *Generator) NewID(ctx context.Context) (string, error) {
	for i := 0; i < maxAttempts; i++ {
		id, err := Token(g.length)
		if err != nil {
			return "", err
		}
		taken, err := g.source.Exists(ctx, id)
		if err != nil {
			return "", fmt.Errorf("check id: %w", err)
		}
		if !taken {
			return id, nil
		}
	}
	return "", ErrExhausted
}

// Token returns a random alphanumeric string of the given length.
func Token(length int) (string, error) {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random: %w", err)
	}
	for i, b := range buf {
		buf[i] = alphabet[int(b)%len(alphabet)]
	}
	return string(buf), nil
}
