package persistence

import (
	"slices"
	"strings"
	"unicode"

	"github.com/crm/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// sortColumns whitelists the columns a listing may be ordered by. The first
// entry is the fallback for unknown or empty fields.
type sortColumns []string

var (
	tenantSort      = sortColumns{"created_at", "updated_at", "organization_name", "slug", "plan_type"}
	leadSort        = sortColumns{"created_at", "updated_at", "first_name", "last_name", "email", "company", "lead_status", "lead_source", "rating", "lead_score"}
	accountSort     = sortColumns{"created_at", "updated_at", "account_number", "account_name", "account_type", "industry", "annual_revenue", "rating"}
	contactSort     = sortColumns{"created_at", "updated_at", "first_name", "last_name", "email", "job_title", "department"}
	opportunitySort = sortColumns{"created_at", "updated_at", "opportunity_name", "amount", "close_date", "stage", "probability"}
	noteSort        = sortColumns{"created_at", "updated_at", "title"}
	activitySort    = sortColumns{"occurred_at", "event_name", "entity_type"}
)

// column resolves a requested field, given in snake_case or camelCase
func (s sortColumns) column(field string) string {
	col := snakeCase(strings.TrimSpace(field))
	if slices.Contains(s, col) {
		return col
	}
	return s[0]
}

// orderClause builds "<column> <dir>, id <dir>". The id tie-breaker keeps
// pages stable when the sort column has duplicates.
func (s sortColumns) orderClause(field, dir string) string {
	d := "DESC"
	if strings.EqualFold(strings.TrimSpace(dir), "asc") {
		d = "ASC"
	}
	return s.column(field) + " " + d + ", id " + d
}

// paginate applies the ordering and the page window of filter
func (s sortColumns) paginate(query *gorm.DB, filter shared.Filter) *gorm.DB {
	filter = filter.Normalize()
	return query.
		Order(s.orderClause(filter.OrderBy, filter.OrderDir)).
		Offset(filter.Offset()).
		Limit(filter.PageSize)
}

func snakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

// likePattern builds a case-insensitive substring pattern for LOWER(col) LIKE ?
func likePattern(search string) string {
	return "%" + strings.ToLower(strings.TrimSpace(search)) + "%"
}
