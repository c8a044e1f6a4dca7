package equity

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash"
)

// Weights are the heuristic term weights. All weights are non-negative;
// terms that penalize (smoothness, monotonicity) are already negative in
// the term itself. A Weights value is immutable for the lifetime of a
// search, since cached node values depend on it.
type Weights struct {
	Mono   float64 `yaml:"mono" mapstructure:"mono"`
	Smooth float64 `yaml:"smooth" mapstructure:"smooth"`
	Corner float64 `yaml:"corner" mapstructure:"corner"`
	Empty  float64 `yaml:"empty" mapstructure:"empty"`
}

// DefaultWeights are the hand-tuned defaults.
func DefaultWeights() Weights {
	return Weights{
		Mono:   1.0,
		Smooth: 0.1,
		Corner: 2.0,
		Empty:  2.5,
	}
}

// Fingerprint hashes the weight values. Search caches use it to detect a
// weight change, which invalidates every cached node value.
func (w Weights) Fingerprint() uint64 {
	var buf [32]byte
	binary.LittleEndian.PutUint64(buf[0:], math.Float64bits(w.Mono))
	binary.LittleEndian.PutUint64(buf[8:], math.Float64bits(w.Smooth))
	binary.LittleEndian.PutUint64(buf[16:], math.Float64bits(w.Corner))
	binary.LittleEndian.PutUint64(buf[24:], math.Float64bits(w.Empty))
	return xxhash.Sum64(buf[:])
}
