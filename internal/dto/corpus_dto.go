package dto

type IngestCorpusRequest struct {
	Collection string `json:"collection" validate:"required"`
	Source     string `json:"source" validate:"required"`
	Text       string `json:"text" validate:"required"`
	Page       int    `json:"page"`
}

type IngestCorpusResponse struct {
	Collection string `json:"collection"`
	Chunks     int    `json:"chunks"`
}

// PublishEmbedPassageMessage is the bus payload for one chunk awaiting
// embedding and insertion.
type PublishEmbedPassageMessage struct {
	Collection string `json:"collection"`
	Source     string `json:"source"`
	Page       int    `json:"page"`
	Text       string `json:"text"`
	ChunkIndex int    `json:"chunk_index"`
}

type CollectionStatusResponse struct {
	Collection string `json:"collection"`
	Expert     string `json:"expert"`
	Passages   int64  `json:"passages"`
	Ready      bool   `json:"ready"`
}
