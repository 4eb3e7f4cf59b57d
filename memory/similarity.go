package memory

import (
	"hash/fnv"
	"math"

	"github.com/hupe1980/agenthive/internal/textutil"
)

// SimilarityStrategy turns text into embedding vectors and compares them.
// Implementations can back this with a real embedding model; the default is
// a deterministic hashing strategy so retrieval stays reproducible in tests
// and offline deployments.
type SimilarityStrategy interface {
	// Embed converts text into a fixed-dimension vector.
	Embed(text string) []float64
	// Similarity returns the similarity of two embeddings in [0,1].
	Similarity(a, b []float64) float64
}

// HashingStrategy buckets FNV-hashed tokens into a fixed-dimension vector and
// compares with cosine similarity. Identical text always yields identical
// vectors.
type HashingStrategy struct {
	dims int
}

// NewHashingStrategy creates a HashingStrategy. Non-positive dims defaults
// to 64.
func NewHashingStrategy(dims int) *HashingStrategy {
	if dims <= 0 {
		dims = 64
	}
	return &HashingStrategy{dims: dims}
}

// Embed hashes each token into a bucket and L2-normalizes the result. Empty
// text yields the zero vector.
func (s *HashingStrategy) Embed(text string) []float64 {
	vec := make([]float64, s.dims)
	for _, tok := range textutil.Tokenize(text) {
		h := fnv.New32a()
		h.Write([]byte(tok))
		vec[int(h.Sum32())%s.dims]++
	}
	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	if norm == 0 {
		return vec
	}
	norm = math.Sqrt(norm)
	for i := range vec {
		vec[i] /= norm
	}
	return vec
}

// Similarity returns the cosine of the two vectors clamped to [0,1].
// Mismatched or zero vectors score 0.
func (s *HashingStrategy) Similarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	cos := dot / (math.Sqrt(na) * math.Sqrt(nb))
	if cos < 0 {
		return 0
	}
	if cos > 1 {
		return 1
	}
	return cos
}
