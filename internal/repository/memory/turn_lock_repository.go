package memory

import (
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// TurnLockRepository keeps one in-flight turn per chat session. A lock
// expires on its own in case a crashed handler never releases it.
type TurnLockRepository struct {
	cache *cache.Cache
}

func NewTurnLockRepository() *TurnLockRepository {
	// Locks self-expire after 5 minutes, purged every minute
	c := cache.New(5*time.Minute, 1*time.Minute)
	return &TurnLockRepository{
		cache: c,
	}
}

// Acquire returns false when the session already has a turn in flight.
func (r *TurnLockRepository) Acquire(sessionID uuid.UUID) bool {
	err := r.cache.Add(sessionID.String(), struct{}{}, cache.DefaultExpiration)
	return err == nil
}

func (r *TurnLockRepository) Release(sessionID uuid.UUID) {
	r.cache.Delete(sessionID.String())
}
