package embedding

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type countingProvider struct {
	calls int
	err   error
}

func (p *countingProvider) Generate(text string, taskType string) (*EmbeddingResponse, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return &EmbeddingResponse{
		Embedding: EmbeddingResponseEmbedding{Values: []float32{1, 0, 0}},
	}, nil
}

func TestCachedProviderReusesResponse(t *testing.T) {
	inner := &countingProvider{}
	p := NewCachedProvider(inner, time.Minute)

	first, err := p.Generate("토마토 재배", "RETRIEVAL_QUERY")
	assert.NoError(t, err)
	second, err := p.Generate("토마토 재배", "RETRIEVAL_QUERY")
	assert.NoError(t, err)

	assert.Equal(t, 1, inner.calls)
	assert.Same(t, first, second)
}

func TestCachedProviderKeysOnTaskType(t *testing.T) {
	inner := &countingProvider{}
	p := NewCachedProvider(inner, time.Minute)

	_, _ = p.Generate("토마토 재배", "RETRIEVAL_QUERY")
	_, _ = p.Generate("토마토 재배", "RETRIEVAL_DOCUMENT")

	assert.Equal(t, 2, inner.calls)
}

func TestCachedProviderDoesNotCacheErrors(t *testing.T) {
	inner := &countingProvider{err: errors.New("boom")}
	p := NewCachedProvider(inner, time.Minute)

	_, err := p.Generate("x", "")
	assert.Error(t, err)
	inner.err = nil
	_, err = p.Generate("x", "")
	assert.NoError(t, err)
	assert.Equal(t, 2, inner.calls)
}

func TestCachedProviderDisabledByZeroTTL(t *testing.T) {
	inner := &countingProvider{}
	p := NewCachedProvider(inner, 0)
	assert.Same(t, inner, p.(*countingProvider))
}

func TestNormalizeVector(t *testing.T) {
	got := normalizeVector([]float32{3, 4})
	var magnitude float64
	for _, v := range got {
		magnitude += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(magnitude), 1e-6)
	assert.InDelta(t, 0.6, float64(got[0]), 1e-6)
	assert.InDelta(t, 0.8, float64(got[1]), 1e-6)

	zero := normalizeVector([]float32{0, 0})
	assert.Equal(t, []float32{0, 0}, zero)
}
