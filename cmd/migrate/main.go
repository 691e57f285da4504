package main

import (
	"log"

	"ai-agrichat-be/internal/config"
	"ai-agrichat-be/internal/model"
	"ai-agrichat-be/pkg/database"
)

func main() {
	cfg := config.Load()

	gormDB, err := database.NewGormDB(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// pgvector must exist before the passages table migrates
	if err := gormDB.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
		log.Fatalf("create vector extension: %v", err)
	}

	if err := gormDB.AutoMigrate(
		&model.ChatSession{},
		&model.ChatMessage{},
		&model.Passage{},
	); err != nil {
		log.Fatalf("auto migrate: %v", err)
	}

	// ANN index for cosine search over passages
	if err := gormDB.Exec(
		"CREATE INDEX IF NOT EXISTS idx_passages_embedding ON passages USING hnsw (embedding vector_cosine_ops)",
	).Error; err != nil {
		log.Printf("[WARN] Failed to create hnsw index (pgvector >= 0.5 required): %v", err)
	}

	log.Println("✅ Migration complete")
}
