// Package catalog provides read access to the part catalog: the demand,
// stock and geometry of every orderable flat pattern.
package catalog

import (
	"context"
	"errors"

	"github.com/piwi3910/StripCut/internal/model"
)

var ErrNotFound = errors.New("item not found")

// Repository is the data source the optimizer reads parts from.
type Repository interface {
	// All returns every part in catalog order.
	All(ctx context.Context) ([]model.Part, error)
	// ByCode returns the part with the given item code or ErrNotFound.
	ByCode(ctx context.Context, itemCode string) (model.Part, error)
	// ByGroup returns the parts cut from the same raw sheet.
	ByGroup(ctx context.Context, key model.GroupKey) ([]model.Part, error)
}

// MemoryRepository serves a fixed catalog held in memory.
type MemoryRepository struct {
	parts []model.Part
}

func NewMemoryRepository(parts []model.Part) *MemoryRepository {
	copied := make([]model.Part, len(parts))
	copy(copied, parts)
	return &MemoryRepository{parts: copied}
}

func (r *MemoryRepository) All(_ context.Context) ([]model.Part, error) {
	out := make([]model.Part, len(r.parts))
	copy(out, r.parts)
	return out, nil
}

func (r *MemoryRepository) ByCode(_ context.Context, itemCode string) (model.Part, error) {
	if p := model.FindByCode(r.parts, itemCode); p != nil {
		return *p, nil
	}
	return model.Part{}, ErrNotFound
}

func (r *MemoryRepository) ByGroup(_ context.Context, key model.GroupKey) ([]model.Part, error) {
	return model.FilterGroup(r.parts, key), nil
}
