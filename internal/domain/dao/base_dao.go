// Package dao declares the storage contracts the repositories delegate to.
// Implementations live in the gorm (MySQL, PostgreSQL, SQLite) and mongo
// subpackages.
package dao

import (
	"context"
	"errors"
)

// ErrDuplicateKey is returned by Create when a unique constraint rejects the row.
var ErrDuplicateKey = errors.New("duplicate key")

// BaseDAO is the CRUD surface shared by entity DAOs. The MongoDB DAOs
// allocate uint IDs from a counter collection so every backend uses uint.
type BaseDAO[T any, ID comparable] interface {
	Create(ctx context.Context, entity *T) error

	// FindByID returns nil, nil when no row matches.
	FindByID(ctx context.Context, id ID) (*T, error)

	Update(ctx context.Context, entity *T) error

	// Delete is a soft delete on SQL backends.
	Delete(ctx context.Context, id ID) error

	// FindAll pages through entities newest first and returns the total count.
	FindAll(ctx context.Context, page, size int) ([]*T, int64, error)

	Count(ctx context.Context) (int64, error)

	ExistsBy(ctx context.Context, field string, value any) (bool, error)
}
