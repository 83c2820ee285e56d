package engine

import (
	"math/rand"
	"testing"
)

func countClass(card KeyCard, class CardClass) int {
	n := 0
	for _, c := range card {
		if c == class {
			n++
		}
	}
	return n
}

func TestNewKeyCards_CountInvariants(t *testing.T) {
	for trial := 0; trial < 200; trial++ {
		keyA, keyB := NewKeyCards()

		for name, card := range map[string]KeyCard{"keyA": keyA, "keyB": keyB} {
			if got := countClass(card, CardGreen); got != 9 {
				t.Fatalf("trial %d: %s greens = %d, want 9", trial, name, got)
			}
			if got := countClass(card, CardAssassin); got != 3 {
				t.Fatalf("trial %d: %s assassins = %d, want 3", trial, name, got)
			}
			if got := countClass(card, CardNeutral); got != 13 {
				t.Fatalf("trial %d: %s neutrals = %d, want 13", trial, name, got)
			}
		}

		sharedGreen, sharedAssassin := 0, 0
		for i := 0; i < GridSize; i++ {
			if keyA[i] == CardGreen && keyB[i] == CardGreen {
				sharedGreen++
			}
			if keyA[i] == CardAssassin && keyB[i] == CardAssassin {
				sharedAssassin++
			}
		}
		if sharedGreen != 3 {
			t.Fatalf("trial %d: shared greens = %d, want 3", trial, sharedGreen)
		}
		if sharedAssassin != 1 {
			t.Fatalf("trial %d: shared assassins = %d, want 1", trial, sharedAssassin)
		}
	}
}

func TestNewKeyCards_UnionGreenTarget(t *testing.T) {
	keyA, keyB := NewKeyCards()

	union := 0
	for i := 0; i < GridSize; i++ {
		if keyA[i] == CardGreen || keyB[i] == CardGreen {
			union++
		}
	}
	if union != TargetGreens {
		t.Fatalf("union greens = %d, want %d", union, TargetGreens)
	}
}

func TestNewKeyCards_DeterministicWithSeededPerm(t *testing.T) {
	orig := permFn
	defer func() { permFn = orig }()

	permFn = rand.New(rand.NewSource(7)).Perm
	a1, b1 := NewKeyCards()
	permFn = rand.New(rand.NewSource(7)).Perm
	a2, b2 := NewKeyCards()

	if a1 != a2 || b1 != b2 {
		t.Fatalf("same seed produced different cards")
	}
}
