package crypto

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestUUIDGenerator_NewID(t *testing.T) {
	g := NewUUIDGenerator()

	id, err := g.NewID()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		t.Fatalf("expected valid uuid, got %q", id)
	}
	if parsed.Version() != 4 {
		t.Errorf("expected v4 uuid, got version %d", parsed.Version())
	}

	other, _ := g.NewID()
	if id == other {
		t.Error("expected unique ids")
	}
}

func TestUUIDGenerator_EntropyFailure(t *testing.T) {
	boom := errors.New("entropy exhausted")
	g := &UUIDGenerator{newRandom: func() (uuid.UUID, error) { return uuid.Nil, boom }}

	id, err := g.NewID()
	if !errors.Is(err, boom) || id != "" {
		t.Errorf("expected wrapped failure and empty id, got %q %v", id, err)
	}
}
