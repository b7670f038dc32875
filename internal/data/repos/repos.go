package repos

import (
	"gorm.io/gorm"

	"github.com/marwyg/annotation-tool/internal/domain"
)

// conn yields the transaction when one is given, the base handle otherwise.
// Every repo method takes an optional *gorm.DB so services can compose
// multiple calls into a single transaction.
func conn(db *gorm.DB, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return db
}

// scopeList applies the SQL-side part of ListOptions: live rows only,
// modified-since, stable id order. Tag filters and pagination happen in
// filterAndPage because tags live in a JSON column.
func scopeList(q *gorm.DB, opts domain.ListOptions) *gorm.DB {
	q = q.Where("deleted_at IS NULL")
	if opts.Since != nil {
		q = q.Where("updated_at >= ?", *opts.Since)
	}
	return q.Order("id")
}

func filterAndPage[E any](items []*E, res func(*E) domain.Resource, opts domain.ListOptions) []*E {
	out := make([]*E, 0, len(items))
	for _, it := range items {
		if opts.MatchesTags(res(it)) {
			out = append(out, it)
		}
	}
	offset := 0
	if opts.Offset != nil && *opts.Offset > 0 {
		offset = *opts.Offset
	}
	if offset >= len(out) {
		return []*E{}
	}
	out = out[offset:]
	if opts.Limit != nil && *opts.Limit > 0 && *opts.Limit < len(out) {
		out = out[:*opts.Limit]
	}
	return out
}
