// Package gorm implements the DAOs on GORM for MySQL, PostgreSQL and SQLite.
package gorm

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/fithub/fithub-onboarding/internal/domain/dao"
)

// crud is embedded by the entity DAOs for the generic operations.
type crud[T any] struct {
	db *gorm.DB
}

func newCRUD[T any](db *gorm.DB) *crud[T] {
	return &crud[T]{db: db}
}

func (d *crud[T]) conn(ctx context.Context) *gorm.DB {
	return d.db.WithContext(ctx)
}

func (d *crud[T]) model(ctx context.Context) *gorm.DB {
	var m T
	return d.conn(ctx).Model(&m)
}

// Create maps unique constraint violations to dao.ErrDuplicateKey.
func (d *crud[T]) Create(ctx context.Context, row *T) error {
	return translate(d.conn(ctx).Create(row).Error)
}

func (d *crud[T]) FindByID(ctx context.Context, id uint) (*T, error) {
	return first[T](d.conn(ctx), id)
}

func (d *crud[T]) Update(ctx context.Context, row *T) error {
	return translate(d.conn(ctx).Save(row).Error)
}

// Delete sets deleted_at; soft-deleted rows drop out of every query.
func (d *crud[T]) Delete(ctx context.Context, id uint) error {
	var m T
	return d.conn(ctx).Delete(&m, id).Error
}

func (d *crud[T]) FindAll(ctx context.Context, page, size int) ([]*T, int64, error) {
	var total int64
	if err := d.model(ctx).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []*T
	err := d.conn(ctx).Scopes(paginate(page, size)).Order("id DESC").Find(&rows).Error
	return rows, total, err
}

func (d *crud[T]) Count(ctx context.Context) (int64, error) {
	var n int64
	err := d.model(ctx).Count(&n).Error
	return n, err
}

func (d *crud[T]) ExistsBy(ctx context.Context, field string, value any) (bool, error) {
	var n int64
	err := d.model(ctx).Where(field+" = ?", value).Count(&n).Error
	return n > 0, err
}

func (d *crud[T]) findBy(ctx context.Context, field string, value any) (*T, error) {
	return first[T](d.conn(ctx).Where(field+" = ?", value))
}

// first loads one row or returns nil, nil when nothing matches.
func first[T any](q *gorm.DB, conds ...any) (*T, error) {
	var row T
	err := q.First(&row, conds...).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// paginate limits a query to one page; non-positive values select everything.
func paginate(page, size int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if page <= 0 || size <= 0 {
			return db
		}
		return db.Offset((page - 1) * size).Limit(size)
	}
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return dao.ErrDuplicateKey
	}
	return err
}
