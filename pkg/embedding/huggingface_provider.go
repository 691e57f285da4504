package embedding

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HuggingFaceProvider implements EmbeddingProvider against the Hugging Face
// Inference API feature-extraction pipeline. The default model is
// jhgan/ko-sroberta-multitask, a Korean sentence encoder.
type HuggingFaceProvider struct {
	ApiKey  string
	BaseURL string
	Model   string
	Client  *http.Client
}

func NewHuggingFaceProvider(apiKey, baseURL, model string) EmbeddingProvider {
	if baseURL == "" {
		baseURL = "https://api-inference.huggingface.co"
	}
	if model == "" {
		model = "jhgan/ko-sroberta-multitask"
	}
	return &HuggingFaceProvider{
		ApiKey:  apiKey,
		BaseURL: baseURL,
		Model:   model,
		Client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type huggingFaceRequest struct {
	Inputs []string `json:"inputs"`
}

func (p *HuggingFaceProvider) Generate(text string, taskType string) (*EmbeddingResponse, error) {
	// TaskType is ignored; sentence-transformers models embed symmetrically.

	reqBody := huggingFaceRequest{Inputs: []string{text}}
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/pipeline/feature-extraction/%s", p.BaseURL, p.Model)
	req, err := http.NewRequest("POST", endpoint, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+p.ApiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("huggingface request failed: %v: %w", err, ErrEmbedding)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("huggingface embedding error: status %d, body %s: %w", resp.StatusCode, string(bodyBytes), ErrEmbedding)
	}

	// Feature extraction returns one vector per input sentence.
	var vectors [][]float32
	if err := json.Unmarshal(bodyBytes, &vectors); err != nil {
		return nil, fmt.Errorf("unmarshal huggingface response: %v: %w", err, ErrEmbedding)
	}
	if len(vectors) == 0 || len(vectors[0]) == 0 {
		return nil, fmt.Errorf("huggingface returned no vector: %w", ErrEmbedding)
	}

	// CRITICAL: Normalize the vector for accurate cosine similarity
	// Cosine distance in pgvector requires normalized vectors (magnitude = 1)
	normalizedValues := normalizeVector(vectors[0])

	return &EmbeddingResponse{
		Embedding: EmbeddingResponseEmbedding{
			Values: normalizedValues,
		},
	}, nil
}
