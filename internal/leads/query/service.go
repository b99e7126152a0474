// Package query turns raw, untrusted paging and filter input into a lead
// store query and shapes the result into a page envelope.
package query

import (
	"context"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"lead_crm_backend/internal/leads/domain"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// Store is the slice of the lead store the query service reads from.
type Store interface {
	Query(ctx context.Context, filter domain.Filter, window domain.Window) ([]domain.Lead, int, error)
}

// Envelope is one page of leads plus the numbers needed to page further.
type Envelope struct {
	Items      []domain.Lead
	ItemCount  int
	TotalCount int
	Page       int
	TotalPages int
}

// Service resolves list requests.
type Service struct {
	store    Store
	maxLimit int
}

// New creates a query service. maxLimit caps the page size; 0 leaves it unbounded.
func New(store Store, maxLimit int) *Service {
	return &Service{store: store, maxLimit: maxLimit}
}

// ListLeads normalizes the raw inputs and returns the requested page. It never
// rejects input; store failures are returned unchanged. A search or status
// term that no stored text can contain matches nothing and skips the store.
func (s *Service) ListLeads(ctx context.Context, rawPage, rawLimit, rawSearch, rawStatus string) (Envelope, error) {
	page := ParsePositive(rawPage, DefaultPage)
	limit := ParsePositive(rawLimit, DefaultLimit)
	if s.maxLimit > 0 && limit > s.maxLimit {
		limit = s.maxLimit
	}

	if !storable(rawSearch) || !storable(rawStatus) {
		return Envelope{Items: []domain.Lead{}, Page: page}, nil
	}

	window := domain.Window{Offset: offset(page, limit), Limit: limit}
	items, total, err := s.store.Query(ctx, domain.Filter{Search: rawSearch, Status: rawStatus}, window)
	if err != nil {
		return Envelope{}, err
	}
	if items == nil {
		items = []domain.Lead{}
	}

	return Envelope{
		Items:      items,
		ItemCount:  len(items),
		TotalCount: total,
		Page:       page,
		TotalPages: TotalPages(total, limit),
	}, nil
}

// storable reports whether s could occur in a stored text column: Postgres
// rejects NUL bytes and invalid UTF-8.
func storable(s string) bool {
	return utf8.ValidString(s) && !strings.ContainsRune(s, 0)
}

// ParsePositive reads a decimal integer prefix the way a lenient parseInt
// does ("3abc" is 3) and falls back when nothing parses or the value is not
// positive.
func ParsePositive(raw string, fallback int) int {
	s := strings.TrimSpace(raw)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digitsStart := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return fallback
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func offset(page, limit int) int {
	if page-1 > math.MaxInt/limit {
		return math.MaxInt
	}
	return (page - 1) * limit
}

// TotalPages is ceil(total/limit), and 0 when there is nothing to page.
func TotalPages(total, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return (total-1)/limit + 1
}
