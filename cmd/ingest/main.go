package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"
	"time"

	"ai-agrichat-be/internal/config"
	"ai-agrichat-be/internal/entity"
	"ai-agrichat-be/internal/repository/unitofwork"
	"ai-agrichat-be/pkg/database"
	"ai-agrichat-be/pkg/embedding"
	"ai-agrichat-be/pkg/utils"

	"github.com/google/uuid"
)

const (
	chunkSize    = 1500
	chunkOverlap = 200
	embedBatch   = 50
)

// Bulk-loads a corpus directory into one passage collection, embedding
// each chunk synchronously. Meant for initial seeding; incremental
// updates go through the REST ingest endpoint.
func main() {
	var (
		dir        = flag.String("dir", "", "directory of .txt corpus files")
		collection = flag.String("collection", "", "target passage collection")
		reset      = flag.Bool("reset", false, "delete existing passages in the collection first")
	)
	flag.Parse()

	if *dir == "" || *collection == "" {
		log.Fatal("usage: ingest -dir <corpus dir> -collection <name> [-reset]")
	}

	cfg := config.Load()

	gormDB, err := database.NewGormDB(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	var embedder embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embedder = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaModel)
	} else {
		embedder = embedding.NewHuggingFaceProvider(cfg.Ai.HuggingFaceAPIKey, cfg.Ai.HuggingFaceURL, cfg.Ai.EmbeddingModel)
	}

	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	ctx := context.Background()
	uow := uowFactory.NewUnitOfWork(ctx)

	if err := uow.Begin(ctx); err != nil {
		log.Fatalf("begin: %v", err)
	}
	defer uow.Rollback()

	if *reset {
		if err := uow.PassageRepository().DeleteByCollection(ctx, *collection); err != nil {
			log.Fatalf("reset collection %s: %v", *collection, err)
		}
		log.Printf("[INFO] Cleared collection %s", *collection)
	}

	files, err := filepath.Glob(filepath.Join(*dir, "*.txt"))
	if err != nil {
		log.Fatalf("list corpus files: %v", err)
	}
	if len(files) == 0 {
		log.Fatalf("no .txt files under %s", *dir)
	}

	var (
		passages   []*entity.Passage
		embeddings [][]float32
		total      int
	)

	flush := func() {
		if len(passages) == 0 {
			return
		}
		if err := uow.PassageRepository().CreateBulk(ctx, passages, embeddings); err != nil {
			log.Fatalf("insert batch: %v", err)
		}
		total += len(passages)
		passages = nil
		embeddings = nil
	}

	for _, path := range files {
		raw, err := os.ReadFile(path)
		if err != nil {
			log.Fatalf("read %s: %v", path, err)
		}

		source := filepath.Base(path)
		chunks := utils.SplitText(string(raw), chunkSize, chunkOverlap)
		log.Printf("[INFO] %s: %d chunks", source, len(chunks))

		for i, chunk := range chunks {
			res, err := embedder.Generate(chunk, "RETRIEVAL_DOCUMENT")
			if err != nil {
				log.Fatalf("embed chunk %d of %s: %v", i, source, err)
			}

			passages = append(passages, &entity.Passage{
				Id:         uuid.New(),
				Collection: *collection,
				Text:       chunk,
				Source:     source,
				Metadata:   map[string]interface{}{"chunk_index": i},
				CreatedAt:  time.Now(),
			})
			embeddings = append(embeddings, res.Embedding.Values)

			if len(passages) >= embedBatch {
				flush()
			}
		}
	}
	flush()

	if err := uow.Commit(); err != nil {
		log.Fatalf("commit: %v", err)
	}

	log.Printf("[SUCCESS] Ingested %d passages into collection %s", total, *collection)
}
