package chat

import (
	"context"
	"io"
	"log"
	"testing"

	"ai-agrichat-be/pkg/embedding"
	"ai-agrichat-be/pkg/expert"
	"ai-agrichat-be/pkg/llm"

	"github.com/stretchr/testify/require"
)

// scriptedLLM answers every prompt with a fixed script and records the
// prompts it saw.
type scriptedLLM struct {
	respond func(prompt string) (string, error)
	prompts []string
}

func (f *scriptedLLM) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.respond(prompt)
}

func (f *scriptedLLM) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	return f.Generate(ctx, history[len(history)-1].Content, opts...)
}

type stubEmbedder struct{}

func (stubEmbedder) Generate(text string, taskType string) (*embedding.EmbeddingResponse, error) {
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: []float32{0.5, 0.5}},
	}, nil
}

// stubSearcher serves fixed passages; Panic makes every search blow up
// to exercise failure isolation.
type stubSearcher struct {
	passages []expert.Passage
	panics   bool
}

func (s *stubSearcher) SearchSimilar(ctx context.Context, collection string, vec []float32, topK int) ([]expert.Passage, error) {
	if s.panics {
		panic("searcher blew up")
	}
	return s.passages, nil
}

func (s *stubSearcher) SearchKeywords(ctx context.Context, collection string, keywords []string, limit int) ([]expert.Passage, error) {
	if s.panics {
		panic("searcher blew up")
	}
	return nil, nil
}

func (s *stubSearcher) CollectionReady(ctx context.Context, collection string) error {
	return nil
}

func discardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

// expertFixture describes one registered test expert.
type expertFixture struct {
	def      expert.Definition
	summary  string // what the expert's generation stage returns
	passages []expert.Passage
	panics   bool
}

func buildRegistry(t *testing.T, fixtures []expertFixture) *expert.Registry {
	t.Helper()
	registry := expert.NewRegistry()
	for _, fx := range fixtures {
		fx := fx
		provider := &scriptedLLM{respond: func(prompt string) (string, error) {
			return fx.summary, nil
		}}
		searcher := &stubSearcher{passages: fx.passages, panics: fx.panics}
		p := expert.NewPipeline(fx.def, provider, stubEmbedder{}, searcher, expert.PipelineOptions{}, discardLogger())
		require.NoError(t, registry.Register(context.Background(), p))
	}
	return registry
}

func defaultFixtures() []expertFixture {
	defs := expert.DefaultDefinitions()
	return []expertFixture{
		{def: defs[0], summary: "감자는 사질토에서 잘 자랍니다", passages: []expert.Passage{{Text: "감자 토양 정보"}}},
		{def: defs[1], summary: "감자전 만드는 법입니다", passages: []expert.Passage{{Text: "감자전 레시피"}}},
		{def: defs[2], summary: "감자의 영양 성분입니다", passages: []expert.Passage{{Text: "감자 영양 정보"}}},
	}
}

func userTurn(text string) []llm.Message {
	return []llm.Message{{Role: "user", Content: text}}
}
