package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"lead_crm_backend/internal/leads/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/sync/errgroup"
)

// maxPrealloc bounds the slice capacity reserved for one page.
const maxPrealloc = 100

// activeLeadPredicate is the visibility rule shared by every statement.
const activeLeadPredicate = "is_active = true"

const leadColumns = "id, name, email, phone, status, source, is_active, created_at, updated_at"

const createLeadQuery = `
	INSERT INTO leads (id, name, email, phone, status, source, is_active, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, true, now(), now())
	RETURNING ` + leadColumns

const getLeadByIDQuery = "SELECT " + leadColumns + " FROM leads WHERE id = $1 AND " + activeLeadPredicate

const softDeleteLeadQuery = "UPDATE leads SET is_active = false, updated_at = now() WHERE id = $1 AND " + activeLeadPredicate

// DB is the subset of *pgxpool.Pool the repository uses.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository stores leads in Postgres.
type Repository struct {
	db DB
}

func New(db DB) *Repository {
	return &Repository{db: db}
}

func scanLead(row pgx.Row) (domain.Lead, error) {
	var lead domain.Lead
	var status, source string
	err := row.Scan(
		&lead.ID, &lead.Name, &lead.Email, &lead.Phone, &status, &source,
		&lead.IsActive, &lead.CreatedAt, &lead.UpdatedAt,
	)
	if err != nil {
		return domain.Lead{}, err
	}
	lead.Status = domain.Status(status)
	lead.Source = domain.Source(source)
	return lead, nil
}

func (r *Repository) Create(ctx context.Context, params CreateParams) (domain.Lead, error) {
	f := params.Fields
	return scanLead(r.db.QueryRow(ctx, createLeadQuery,
		params.ID, f.Name, f.Email, f.Phone, string(f.Status), string(f.Source),
	))
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (domain.Lead, error) {
	lead, err := scanLead(r.db.QueryRow(ctx, getLeadByIDQuery, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Lead{}, ErrNotFound
	}
	return lead, err
}

// Update overwrites every editable column of an active lead with fields and
// refreshes updated_at.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, fields domain.Fields) (domain.Lead, error) {
	query, args := buildLeadUpdate(id, fields)
	lead, err := scanLead(r.db.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Lead{}, ErrNotFound
	}
	return lead, err
}

func (r *Repository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, softDeleteLeadQuery, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Query returns one window of the active leads matching filter, newest first,
// and the total number of matches. The count and the page run concurrently.
func (r *Repository) Query(ctx context.Context, filter domain.Filter, window domain.Window) ([]domain.Lead, int, error) {
	whereClause, args, argIdx := buildLeadQueryWhere(filter)

	var total int
	var leads []domain.Lead

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return r.db.QueryRow(gctx, buildLeadCountQuery(whereClause), args...).Scan(&total)
	})
	g.Go(func() error {
		pageArgs := append(append([]interface{}{}, args...), window.Limit, window.Offset)
		rows, err := r.db.Query(gctx, buildLeadPageQuery(whereClause, argIdx), pageArgs...)
		if err != nil {
			return err
		}
		defer rows.Close()

		items := make([]domain.Lead, 0, min(window.Limit, maxPrealloc))
		for rows.Next() {
			lead, err := scanLead(rows)
			if err != nil {
				return err
			}
			items = append(items, lead)
		}
		if rows.Err() != nil {
			return rows.Err()
		}
		leads = items
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	return leads, total, nil
}

// buildLeadUpdate returns the UPDATE statement for id and its arguments. The
// five editable columns take $1 through $5 and id comes last.
func buildLeadUpdate(id uuid.UUID, fields domain.Fields) (string, []interface{}) {
	setClauses := []string{}
	args := []interface{}{}
	argIdx := 1

	columns := []struct {
		column string
		value  interface{}
	}{
		{"name", fields.Name},
		{"email", fields.Email},
		{"phone", fields.Phone},
		{"status", string(fields.Status)},
		{"source", string(fields.Source)},
	}
	for _, col := range columns {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", col.column, argIdx))
		args = append(args, col.value)
		argIdx++
	}
	setClauses = append(setClauses, "updated_at = now()")
	args = append(args, id)

	query := fmt.Sprintf(`
		UPDATE leads SET %s
		WHERE id = $%d AND %s
		RETURNING %s
	`, strings.Join(setClauses, ", "), argIdx, activeLeadPredicate, leadColumns)
	return query, args
}

func buildLeadCountQuery(whereClause string) string {
	return "SELECT COUNT(*) FROM leads WHERE " + whereClause
}

// buildLeadPageQuery numbers LIMIT and OFFSET from argIdx, the first
// placeholder after the filter arguments.
func buildLeadPageQuery(whereClause string, argIdx int) string {
	return fmt.Sprintf(`
		SELECT %s FROM leads
		WHERE %s
		ORDER BY created_at DESC, id DESC
		LIMIT $%d OFFSET $%d
	`, leadColumns, whereClause, argIdx, argIdx+1)
}

func buildLeadQueryWhere(filter domain.Filter) (string, []interface{}, int) {
	whereClauses := []string{activeLeadPredicate}
	args := []interface{}{}
	argIdx := 1

	if filter.Search != "" {
		whereClauses = append(whereClauses, fmt.Sprintf(
			"(name ILIKE $%d OR email ILIKE $%d OR phone ILIKE $%d)",
			argIdx, argIdx, argIdx,
		))
		args = append(args, "%"+escapeLike(filter.Search)+"%")
		argIdx++
	}
	if filter.Status != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, filter.Status)
		argIdx++
	}

	return strings.Join(whereClauses, " AND "), args, argIdx
}

// escapeLike makes term match literally inside an ILIKE pattern using the
// default backslash escape.
func escapeLike(term string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(term)
}

var _ LeadRepository = (*Repository)(nil)
