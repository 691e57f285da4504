package unitofwork

import "context"

// RepositoryFactory creates units of work bound to the shared database
// handle. Services hold the factory, never the raw *gorm.DB.
type RepositoryFactory interface {
	NewUnitOfWork(ctx context.Context) UnitOfWork
}
