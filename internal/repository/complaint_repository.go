package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// ComplaintRepository defines persistence access for complaints and
// their internal notes.
type ComplaintRepository interface {
	Create(ctx context.Context, complaint *domain.Complaint) error
	CreateBatch(ctx context.Context, complaints []*domain.Complaint) error
	FindByID(ctx context.Context, id string) (*domain.Complaint, error)
	ListAll(ctx context.Context) ([]domain.Complaint, error)
	ListByCustomer(ctx context.Context, customerID string) ([]domain.Complaint, error)
	ListByAssignee(ctx context.Context, assigneeID string) ([]domain.Complaint, error)
	ListSince(ctx context.Context, since time.Time) ([]domain.Complaint, error)
	CountSince(ctx context.Context, since time.Time) (int64, error)
	Update(ctx context.Context, complaint *domain.Complaint) error
	SoftDelete(ctx context.Context, id string) (*domain.Complaint, error)
	Assign(ctx context.Context, id, assigneeID string) (*domain.Complaint, error)
	AddNote(ctx context.Context, note *domain.InternalNote) error
	ListNotes(ctx context.Context, complaintID string) ([]domain.InternalNote, error)
}

type complaintRepository struct {
	pool *pgxpool.Pool
}

// NewComplaintRepository returns a Postgres-backed implementation.
func NewComplaintRepository(pool *pgxpool.Pool) ComplaintRepository {
	return &complaintRepository{pool: pool}
}

const complaintColumns = `id, customer_id, subject, complaint_against, description, assigned_to, priority, status, attachments, terms_and_conditions, is_deleted, created_at, updated_at`

func scanComplaint(row pgx.Row) (*domain.Complaint, error) {
	var c domain.Complaint
	err := row.Scan(
		&c.ID,
		&c.CustomerID,
		&c.Subject,
		&c.ComplaintAgainst,
		&c.Description,
		&c.AssignedTo,
		&c.Priority,
		&c.Status,
		&c.Attachments,
		&c.TermsAndConditions,
		&c.IsDeleted,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func collectComplaints(rows pgx.Rows) ([]domain.Complaint, error) {
	defer rows.Close()

	complaints := make([]domain.Complaint, 0)
	for rows.Next() {
		c, err := scanComplaint(rows)
		if err != nil {
			return nil, err
		}
		complaints = append(complaints, *c)
	}
	return complaints, rows.Err()
}

const insertComplaintQuery = `
        INSERT INTO complaints (customer_id, subject, complaint_against, description, priority, status, attachments, terms_and_conditions)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at, updated_at`

func (r *complaintRepository) Create(ctx context.Context, complaint *domain.Complaint) error {
	return r.pool.QueryRow(ctx, insertComplaintQuery,
		complaint.CustomerID,
		complaint.Subject,
		complaint.ComplaintAgainst,
		complaint.Description,
		complaint.Priority,
		complaint.Status,
		complaint.Attachments,
		complaint.TermsAndConditions,
	).Scan(&complaint.ID, &complaint.CreatedAt, &complaint.UpdatedAt)
}

func (r *complaintRepository) CreateBatch(ctx context.Context, complaints []*domain.Complaint) error {
	batch := &pgx.Batch{}
	for _, c := range complaints {
		batch.Queue(insertComplaintQuery,
			c.CustomerID,
			c.Subject,
			c.ComplaintAgainst,
			c.Description,
			c.Priority,
			c.Status,
			c.Attachments,
			c.TermsAndConditions,
		)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for _, c := range complaints {
		if err := results.QueryRow().Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return err
		}
	}
	return results.Close()
}

func (r *complaintRepository) FindByID(ctx context.Context, id string) (*domain.Complaint, error) {
	const query = `SELECT ` + complaintColumns + ` FROM complaints WHERE id=$1 AND NOT is_deleted`
	return scanComplaint(r.pool.QueryRow(ctx, query, id))
}

func (r *complaintRepository) ListAll(ctx context.Context) ([]domain.Complaint, error) {
	const query = `SELECT ` + complaintColumns + ` FROM complaints WHERE NOT is_deleted ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	return collectComplaints(rows)
}

func (r *complaintRepository) ListByCustomer(ctx context.Context, customerID string) ([]domain.Complaint, error) {
	const query = `SELECT ` + complaintColumns + ` FROM complaints WHERE customer_id=$1 AND NOT is_deleted ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, customerID)
	if err != nil {
		return nil, err
	}
	return collectComplaints(rows)
}

func (r *complaintRepository) ListByAssignee(ctx context.Context, assigneeID string) ([]domain.Complaint, error) {
	const query = `SELECT ` + complaintColumns + ` FROM complaints WHERE assigned_to=$1 AND NOT is_deleted ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, assigneeID)
	if err != nil {
		return nil, err
	}
	return collectComplaints(rows)
}

func (r *complaintRepository) ListSince(ctx context.Context, since time.Time) ([]domain.Complaint, error) {
	const query = `SELECT ` + complaintColumns + ` FROM complaints WHERE created_at >= $1 AND NOT is_deleted ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, since)
	if err != nil {
		return nil, err
	}
	return collectComplaints(rows)
}

func (r *complaintRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	const query = `SELECT COUNT(*) FROM complaints WHERE created_at >= $1 AND NOT is_deleted`
	var count int64
	err := r.pool.QueryRow(ctx, query, since).Scan(&count)
	return count, err
}

func (r *complaintRepository) Update(ctx context.Context, complaint *domain.Complaint) error {
	const query = `
        UPDATE complaints SET description=$1, status=$2, priority=$3, updated_at=NOW()
        WHERE id=$4 AND NOT is_deleted`

	cmd, err := r.pool.Exec(ctx, query,
		complaint.Description,
		complaint.Status,
		complaint.Priority,
		complaint.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *complaintRepository) SoftDelete(ctx context.Context, id string) (*domain.Complaint, error) {
	const query = `
        UPDATE complaints SET is_deleted=TRUE, updated_at=NOW()
        WHERE id=$1 AND NOT is_deleted
        RETURNING ` + complaintColumns
	return scanComplaint(r.pool.QueryRow(ctx, query, id))
}

func (r *complaintRepository) Assign(ctx context.Context, id, assigneeID string) (*domain.Complaint, error) {
	const query = `
        UPDATE complaints SET assigned_to=$1, updated_at=NOW()
        WHERE id=$2 AND NOT is_deleted
        RETURNING ` + complaintColumns
	return scanComplaint(r.pool.QueryRow(ctx, query, assigneeID, id))
}

func (r *complaintRepository) AddNote(ctx context.Context, note *domain.InternalNote) error {
	const query = `
        INSERT INTO complaint_notes (complaint_id, sender_id, note)
        VALUES ($1,$2,$3)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		note.ComplaintID,
		note.SenderID,
		note.Note,
	).Scan(&note.ID, &note.CreatedAt)
}

func (r *complaintRepository) ListNotes(ctx context.Context, complaintID string) ([]domain.InternalNote, error) {
	const query = `
        SELECT id, complaint_id, sender_id, note, created_at
        FROM complaint_notes WHERE complaint_id=$1 ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, complaintID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notes := make([]domain.InternalNote, 0)
	for rows.Next() {
		var n domain.InternalNote
		if err := rows.Scan(&n.ID, &n.ComplaintID, &n.SenderID, &n.Note, &n.CreatedAt); err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}
