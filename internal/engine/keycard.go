package engine

import "math/rand"

// GridSize is the number of cells on the shared word grid.
const GridSize = 25

// TargetGreens is how many distinct grid cells are green on at least one
// key card: 3 shared + 6 unique per player. Revealing all of them wins.
const TargetGreens = 15

type CardClass string

const (
	CardNeutral  CardClass = "neutral"
	CardGreen    CardClass = "green"
	CardAssassin CardClass = "assassin"
)

// KeyCard classifies every grid cell from one player's perspective.
type KeyCard [GridSize]CardClass

// permFn is swappable so key-card tests can run against a seeded source.
var permFn = rand.Perm

// NewKeyCards deals the two asymmetric key cards. Draws come off a single
// uniform permutation of the grid, in fixed order: 3 shared greens, 1
// shared assassin, 6 greens unique to A, 6 unique to B, 2 assassins
// unique to A, 2 unique to B. The 5 leftover cells stay neutral on both.
func NewKeyCards() (keyA, keyB KeyCard) {
	for i := range keyA {
		keyA[i] = CardNeutral
		keyB[i] = CardNeutral
	}

	pool := permFn(GridSize)
	draw := func(n int) []int {
		batch := pool[:n]
		pool = pool[n:]
		return batch
	}

	for _, i := range draw(3) {
		keyA[i] = CardGreen
		keyB[i] = CardGreen
	}
	for _, i := range draw(1) {
		keyA[i] = CardAssassin
		keyB[i] = CardAssassin
	}
	for _, i := range draw(6) {
		keyA[i] = CardGreen
	}
	for _, i := range draw(6) {
		keyB[i] = CardGreen
	}
	for _, i := range draw(2) {
		keyA[i] = CardAssassin
	}
	for _, i := range draw(2) {
		keyB[i] = CardAssassin
	}

	return keyA, keyB
}
