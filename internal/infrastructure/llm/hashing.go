package llm

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"

	"rfp_automation/internal/usecase/interfaces"
)

const DefaultHashingDims = 384

// HashingEmbedder is an offline embedding function using signed feature
// hashing over word unigrams and bigrams. Vectors are L2-normalized, and the
// same text always yields the same vector.
type HashingEmbedder struct {
	dims int
}

var _ interfaces.IEmbeddingFunction = (*HashingEmbedder)(nil)

func NewHashingEmbedder(dims int) *HashingEmbedder {
	if dims <= 0 {
		dims = DefaultHashingDims
	}
	return &HashingEmbedder{dims: dims}
}

func (h *HashingEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	vec := make([]float64, h.dims)
	tokens := tokenize(text)
	for i, tok := range tokens {
		h.add(vec, tok, 1)
		if i > 0 {
			h.add(vec, tokens[i-1]+" "+tok, 0.5)
		}
	}
	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec, nil
}

func (h *HashingEmbedder) add(vec []float64, feature string, weight float64) {
	hs := fnv.New64a()
	_, _ = hs.Write([]byte(feature))
	sum := hs.Sum64()
	idx := int(sum % uint64(h.dims))
	if sum>>63 == 1 {
		weight = -weight
	}
	vec[idx] += weight
}

// tokenize lowercases and splits on anything that is not a letter, digit or
// decimal point, so "1.5mm" stays one token. Sentence dots are trimmed.
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '.'
	})
	out := fields[:0]
	for _, f := range fields {
		if f = strings.Trim(f, "."); f != "" {
			out = append(out, f)
		}
	}
	return out
}
