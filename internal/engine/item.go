package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/piwi3910/StripCut/internal/model"
)

var ErrItemNotInGroup = errors.New("item is not part of the group")

// ItemResult is the outcome of optimizing a part group around one selected item.
type ItemResult struct {
	Item       model.Part      `json:"item"`
	GroupSize  int             `json:"group_size"`
	Candidates int             `json:"candidates"` // ranked patterns before filtering
	Patterns   []model.Pattern `json:"patterns"`
}

// FilterContaining keeps the patterns that place itemCode, in their given
// order, up to limit. A non-positive limit keeps every match.
func FilterContaining(patterns []model.Pattern, itemCode string, limit int) []model.Pattern {
	out := []model.Pattern{}
	for _, p := range patterns {
		if limit > 0 && len(out) >= limit {
			break
		}
		if p.Contains(itemCode) {
			out = append(out, p)
		}
	}
	return out
}

// OptimizeForItem ranks the patterns of the whole group, then keeps the best
// ones that contain the selected item.
func (o *Optimizer) OptimizeForItem(ctx context.Context, group []model.Part, itemCode string) (ItemResult, error) {
	item := model.FindByCode(group, itemCode)
	if item == nil {
		return ItemResult{}, fmt.Errorf("%w: %s", ErrItemNotInGroup, itemCode)
	}

	pool := o.Settings.CandidatePool
	if pool <= 0 {
		pool = model.DefaultSettings().CandidatePool
	}
	limit := o.Settings.ItemResultLimit
	if limit <= 0 {
		limit = model.DefaultSettings().ItemResultLimit
	}

	ranked := o.Generate(ctx, group, pool)
	return ItemResult{
		Item:       *item,
		GroupSize:  len(group),
		Candidates: len(ranked),
		Patterns:   FilterContaining(ranked, itemCode, limit),
	}, nil
}
