package expert

import (
	"context"
	"log"
	"strings"

	"ai-agrichat-be/pkg/embedding"
	"ai-agrichat-be/pkg/llm"
)

// KeywordStrategy controls when keyword retrieval runs next to vector
// retrieval.
type KeywordStrategy string

const (
	// KeywordAlways runs keyword retrieval on every query (hybrid).
	KeywordAlways KeywordStrategy = "always"
	// KeywordFallback runs keyword retrieval only when vector search
	// returned nothing.
	KeywordFallback KeywordStrategy = "fallback"
)

// RewriteResult is the outcome of the rewrite stage: either a
// search-ready query or an out-of-domain verdict. Exactly one of the
// two is meaningful.
type RewriteResult struct {
	Query       string
	OutOfDomain bool
}

// Relevant wraps a usable search query.
func Relevant(query string) RewriteResult {
	return RewriteResult{Query: query}
}

// NotApplicable marks the latest turn as outside this expert's domain.
func NotApplicable() RewriteResult {
	return RewriteResult{OutOfDomain: true}
}

// PipelineOptions tune retrieval behavior. Zero values fall back to
// defaults.
type PipelineOptions struct {
	TopK            int
	KeywordStrategy KeywordStrategy
	FastModel       string // rewrite stage model
	StrongModel     string // generation stage model
}

// Pipeline runs one expert's rewrite → retrieve → generate sequence.
// All gateway failures degrade to the empty path for their stage so a
// broken backend never aborts the whole turn.
type Pipeline struct {
	def      Definition
	llm      llm.LLMProvider
	embedder embedding.EmbeddingProvider
	searcher PassageSearcher
	opts     PipelineOptions
	logger   *log.Logger
}

func NewPipeline(
	def Definition,
	provider llm.LLMProvider,
	embedder embedding.EmbeddingProvider,
	searcher PassageSearcher,
	opts PipelineOptions,
	logger *log.Logger,
) *Pipeline {
	if opts.TopK <= 0 {
		opts.TopK = 5
	}
	if opts.KeywordStrategy == "" {
		opts.KeywordStrategy = KeywordAlways
	}
	return &Pipeline{
		def:      def,
		llm:      provider,
		embedder: embedder,
		searcher: searcher,
		opts:     opts,
		logger:   logger,
	}
}

// Definition returns the expert's static configuration.
func (p *Pipeline) Definition() Definition {
	return p.def
}

// Run executes the three stages against the conversation history, whose
// last message must be the current user turn. It returns the expert's
// grounded summary, or "" when the turn is out of domain or no evidence
// was found.
func (p *Pipeline) Run(ctx context.Context, history []llm.Message) (string, error) {
	if len(history) == 0 {
		return "", nil
	}
	latest := history[len(history)-1].Content

	rewrite := p.rewrite(ctx, history, latest)
	if rewrite.OutOfDomain {
		p.logger.Printf("[EXPERT:%s] 전문 분야와 관련 없어 검색을 건너뜁니다", p.def.Identifier)
		return "", nil
	}

	passages := p.retrieve(ctx, rewrite.Query)
	if len(passages) == 0 {
		p.logger.Printf("[EXPERT:%s] 검색된 문서가 없어 요약을 건너뜁니다", p.def.Identifier)
		return "", nil
	}

	return p.generate(ctx, history, latest, passages), nil
}

// rewrite turns the latest user turn into a search query, or flags it
// out of domain. On the first turn of a conversation the raw text is
// used directly. A gateway failure falls back to the raw text as well.
func (p *Pipeline) rewrite(ctx context.Context, history []llm.Message, latest string) RewriteResult {
	if len(history) == 1 {
		p.logger.Printf("[EXPERT:%s] 첫 질문이므로 쿼리 재작성을 건너뜁니다", p.def.Identifier)
		return Relevant(latest)
	}

	prompt := buildRewritePrompt(p.def, history[:len(history)-1], latest)
	out, err := p.llm.Generate(ctx, prompt,
		llm.WithTemperature(0),
		llm.WithModel(p.opts.FastModel),
	)
	if err != nil {
		p.logger.Printf("[EXPERT:%s] 쿼리 재작성 실패, 원본 질문으로 검색합니다: %v", p.def.Identifier, err)
		return Relevant(latest)
	}

	rewritten := strings.TrimSpace(out)
	if strings.EqualFold(rewritten, rewriteSentinel) {
		return NotApplicable()
	}
	if rewritten == "" {
		return Relevant(latest)
	}
	p.logger.Printf("[EXPERT:%s] 재작성된 질문: %s", p.def.Identifier, rewritten)
	return Relevant(rewritten)
}

// retrieve performs hybrid retrieval within the bound collection.
// Gateway failures are treated as empty result sets.
func (p *Pipeline) retrieve(ctx context.Context, query string) []Passage {
	var vectorHits []Passage

	resp, err := p.embedder.Generate(query, "RETRIEVAL_QUERY")
	if err != nil {
		p.logger.Printf("[EXPERT:%s] 임베딩 실패, 벡터 검색을 건너뜁니다: %v", p.def.Identifier, err)
	} else {
		vectorHits, err = p.searcher.SearchSimilar(ctx, p.def.Collection, resp.Embedding.Values, p.opts.TopK)
		if err != nil {
			p.logger.Printf("[EXPERT:%s] 벡터 검색 실패: %v", p.def.Identifier, err)
			vectorHits = nil
		}
	}

	var keywordHits []Passage
	if p.opts.KeywordStrategy == KeywordAlways || len(vectorHits) == 0 {
		if keywords := ExtractKeywords(query); len(keywords) > 0 {
			keywordHits, err = p.searcher.SearchKeywords(ctx, p.def.Collection, keywords, p.opts.TopK)
			if err != nil {
				p.logger.Printf("[EXPERT:%s] 키워드 검색 실패: %v", p.def.Identifier, err)
				keywordHits = nil
			}
		}
	}

	merged := mergePassages(vectorHits, keywordHits)
	p.logger.Printf("[EXPERT:%s] 최종 검색된 고유 문서 %d개", p.def.Identifier, len(merged))
	return merged
}

// generate produces the grounded summary. The prompt context is exactly
// the concatenation of the retrieved passage texts; a gateway failure
// degrades to an empty summary.
func (p *Pipeline) generate(ctx context.Context, history []llm.Message, latest string, passages []Passage) string {
	contextBlock := BuildContext(passages)

	prompt := buildGeneratePrompt(p.def, contextBlock, history[:len(history)-1], latest)
	out, err := p.llm.Generate(ctx, prompt,
		llm.WithTemperature(0),
		llm.WithModel(p.opts.StrongModel),
	)
	if err != nil {
		p.logger.Printf("[EXPERT:%s] 요약 생성 실패: %v", p.def.Identifier, err)
		return ""
	}
	return strings.TrimSpace(out)
}

// BuildContext concatenates passage texts into the evidence block fed to
// the generation prompt.
func BuildContext(passages []Passage) string {
	texts := make([]string, len(passages))
	for i, p := range passages {
		texts[i] = p.Text
	}
	return strings.Join(texts, "\n\n")
}
