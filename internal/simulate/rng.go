package simulate

import (
	"crypto/sha256"
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
)

// Stream labels. Each step of the model draws from its own stream so that
// changing one step's consumption leaves the others untouched.
const (
	streamPicks      = "picks"
	streamPopulation = "population"
	streamAssign     = "assign"
	streamBets       = "bets"
)

// Source is a seedable factory of independent random streams. It holds no
// mutable state and is safe for concurrent use.
type Source struct {
	seed uint64
}

// NewSource returns a Source for the given seed.
func NewSource(seed uint64) *Source {
	return &Source{seed: seed}
}

// Seed returns the seed the source was created with.
func (s *Source) Seed() uint64 {
	return s.seed
}

// Stream returns the sub-stream keyed by (seed, label, index). The same key
// always yields the same sequence.
func (s *Source) Stream(label string, index int) *Stream {
	key := sha256.Sum256([]byte(fmt.Sprintf("%d/%s/%d", s.seed, label, index)))
	src := rand.NewChaCha8(key)
	return &Stream{Rand: rand.New(src), src: src}
}

// Stream is a single deterministic random sequence. It is not safe for
// concurrent use.
type Stream struct {
	*rand.Rand
	src *rand.ChaCha8
}

// NewID returns a UUIDv4 built from the stream's own bytes.
func (st *Stream) NewID() (string, error) {
	id, err := uuid.NewRandomFromReader(st.src)
	if err != nil {
		return "", eris.Wrap(err, "simulate: generate id")
	}
	return id.String(), nil
}

// Uniform returns a value drawn uniformly from [lo, hi).
func (st *Stream) Uniform(lo, hi float64) float64 {
	return lo + (hi-lo)*st.Float64()
}
