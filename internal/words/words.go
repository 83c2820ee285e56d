// Package words loads the embedded word corpus and samples grids for
// new rooms.
package words

import (
	"bufio"
	"bytes"
	_ "embed"
	"fmt"
	"math/rand"
	"strings"

	"github.com/sketchcodes/sketch-codes-backend/internal/engine"
)

//go:embed words.txt
var rawCorpus []byte

// Corpus is an immutable, deduplicated word list.
type Corpus struct {
	words []string
}

// Load parses the embedded corpus: one word per line, blank lines and
// '#' comments skipped, case-folded, duplicates removed in order. It
// fails if fewer than a full grid's worth of words survive.
func Load() (*Corpus, error) {
	seen := make(map[string]bool)
	var words []string

	sc := bufio.NewScanner(bytes.NewReader(rawCorpus))
	for sc.Scan() {
		w := strings.ToLower(strings.TrimSpace(sc.Text()))
		if w == "" || strings.HasPrefix(w, "#") {
			continue
		}
		if seen[w] {
			continue
		}
		seen[w] = true
		words = append(words, w)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scanning word corpus: %w", err)
	}
	if len(words) < engine.GridSize {
		return nil, fmt.Errorf("word corpus too small: have %d, need %d", len(words), engine.GridSize)
	}
	return &Corpus{words: words}, nil
}

func (c *Corpus) Len() int { return len(c.words) }

// Sample returns n distinct words drawn uniformly without replacement.
func (c *Corpus) Sample(n int) []string {
	if n > len(c.words) {
		n = len(c.words)
	}
	out := make([]string, n)
	for i, j := range rand.Perm(len(c.words))[:n] {
		out[i] = c.words[j]
	}
	return out
}

// Grid samples one full 25-word grid.
func (c *Corpus) Grid() [engine.GridSize]string {
	var grid [engine.GridSize]string
	copy(grid[:], c.Sample(engine.GridSize))
	return grid
}
