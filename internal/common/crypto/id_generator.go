package crypto

import (
	"fmt"

	"github.com/google/uuid"
)

// IDGenerator hands out primary keys for new users and posts.
type IDGenerator interface {
	NewID() (string, error)
}

// UUIDGenerator issues random v4 ids, the same format path ids are validated
// against.
type UUIDGenerator struct {
	newRandom func() (uuid.UUID, error)
}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{newRandom: uuid.NewRandom}
}

func (g *UUIDGenerator) NewID() (string, error) {
	id, err := g.newRandom()
	if err != nil {
		return "", fmt.Errorf("failed to generate id: %w", err)
	}
	return id.String(), nil
}
