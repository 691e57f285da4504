package integration

import (
	"context"
	"log"
	"os"
	"testing"

	"ai-agrichat-be/internal/entity"
	"ai-agrichat-be/internal/repository/specification"
	"ai-agrichat-be/internal/repository/unitofwork"
	"ai-agrichat-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCollection = "integration_test"

// fakeVector returns a unit vector pointing mostly along one dimension,
// so cosine ordering between passages is deterministic.
func fakeVector(dim, hot int) []float32 {
	v := make([]float32, dim)
	v[hot] = 1.0
	return v
}

func TestPassageVectorRoundTrip(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDB(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.ChatSessionRepository())
	assert.NotNil(t, uow.ChatMessageRepository())
	assert.NotNil(t, uow.PassageRepository())

	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	require.NoError(t, err)
	t.Log("Successfully connected to DB and initialized UnitOfWork Factory")

	ctx := context.Background()
	passages := uow.PassageRepository()

	// Clean slate for the test collection
	require.NoError(t, passages.DeleteByCollection(ctx, testCollection))
	defer passages.DeleteByCollection(ctx, testCollection)

	t.Run("Store and count passages", func(t *testing.T) {
		near := &entity.Passage{
			Id:         uuid.New(),
			Collection: testCollection,
			Text:       "토마토는 햇빛이 잘 드는 곳에서 재배한다.",
			Source:     "integration.txt",
		}
		far := &entity.Passage{
			Id:         uuid.New(),
			Collection: testCollection,
			Text:       "벼는 물을 댄 논에서 기른다.",
			Source:     "integration.txt",
		}
		require.NoError(t, passages.Create(ctx, near, fakeVector(768, 0)))
		require.NoError(t, passages.Create(ctx, far, fakeVector(768, 1)))

		count, err := passages.Count(ctx, specification.ByCollection{Collection: testCollection})
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("Similarity search orders by cosine distance", func(t *testing.T) {
		found, err := passages.SearchSimilar(ctx, testCollection, fakeVector(768, 0), 2)
		require.NoError(t, err)
		require.Len(t, found, 2)
		assert.Contains(t, found[0].Text, "토마토")
	})

	t.Run("Scored search reports similarity", func(t *testing.T) {
		scored, err := passages.SearchSimilarWithScore(ctx, testCollection, fakeVector(768, 0), 1)
		require.NoError(t, err)
		require.Len(t, scored, 1)
		assert.InDelta(t, 1.0, scored[0].Similarity, 0.001)
	})

	t.Run("Keyword search matches substrings", func(t *testing.T) {
		found, err := passages.SearchKeywords(ctx, testCollection, []string{"토마토"}, 5)
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Contains(t, found[0].Text, "토마토")
	})

	t.Run("Keyword search scoped to collection", func(t *testing.T) {
		found, err := passages.SearchKeywords(ctx, "no_such_collection", []string{"토마토"}, 5)
		require.NoError(t, err)
		assert.Empty(t, found)
	})
}
