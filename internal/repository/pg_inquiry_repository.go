package repository

import (
	"context"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kvbuilders/site/internal/model"
)

// PgInquiryRepository is the PostgreSQL implementation of InquiryRepository.
type PgInquiryRepository struct {
	pool *pgxpool.Pool
}

// NewPgInquiryRepository creates a PgInquiryRepository backed by the given pool.
func NewPgInquiryRepository(pool *pgxpool.Pool) *PgInquiryRepository {
	return &PgInquiryRepository{pool: pool}
}

var _ InquiryRepository = (*PgInquiryRepository)(nil)

func (r *PgInquiryRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// Save inserts a new inquiries row.
func (r *PgInquiryRepository) Save(ctx context.Context, inq *model.Inquiry) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO inquiries (id, name, email, phone, service, message, status, created_at)
		 VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8)`,
		inq.ID, inq.Name, inq.Email, inq.Phone, inq.Service, inq.Message, string(inq.Status), inq.Timestamp,
	)
	return err
}

// List returns inquiries filtered by status and paginated by limit/offset.
func (r *PgInquiryRepository) List(ctx context.Context, opts model.InquiryListOptions) ([]*model.Inquiry, error) {
	var conditions []string
	var args []any

	if opts.Filter != "" && opts.Filter != model.FilterAll {
		args = append(args, string(opts.Filter))
		conditions = append(conditions, "status = $"+strconv.Itoa(len(args)))
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	args = append(args, opts.Limit, opts.Offset)
	query := `SELECT id, name, email, COALESCE(phone, ''), service, message, status, created_at
	          FROM inquiries ` + where +
		` ORDER BY created_at DESC
		  LIMIT $` + strconv.Itoa(len(args)-1) + ` OFFSET $` + strconv.Itoa(len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var inquiries []*model.Inquiry
	for rows.Next() {
		var inq model.Inquiry
		var status string
		if err := rows.Scan(&inq.ID, &inq.Name, &inq.Email, &inq.Phone, &inq.Service, &inq.Message, &status, &inq.Timestamp); err != nil {
			return nil, err
		}
		inq.Status = model.Status(status)
		inquiries = append(inquiries, &inq)
	}
	return inquiries, rows.Err()
}

// UpdateStatus sets the status column. Setting the current status again still
// counts as a match, so only a missing id yields ErrNotFound.
func (r *PgInquiryRepository) UpdateStatus(ctx context.Context, id string, status model.Status) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE inquiries SET status = $2, updated_at = NOW() WHERE id = $1`,
		id, string(status),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
