package idgen

import (
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
)

func TestULIDGeneratorProducesValidIDs(t *testing.T) {
	g := NewULIDGenerator()

	id := g.Generate()
	if _, err := ulid.ParseStrict(id); err != nil {
		t.Fatalf("generated id %q is not a valid ULID: %v", id, err)
	}
}

func TestULIDGeneratorMonotonicWithinMillisecond(t *testing.T) {
	g := NewULIDGenerator()
	fixed := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	g.now = func() time.Time { return fixed }

	prev := g.Generate()
	for i := 0; i < 100; i++ {
		next := g.Generate()
		if next <= prev {
			t.Fatalf("expected %s > %s", next, prev)
		}
		prev = next
	}
}
