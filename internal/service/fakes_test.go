package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/mail"
	"github.com/spec-kit/complaint-service/internal/repository"
)

type fakeAccountRepo struct {
	mu        sync.Mutex
	byID      map[string]*domain.Account
	byEmail   map[string]*domain.Account
	nextID    int
	createErr error
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{
		byID:    make(map[string]*domain.Account),
		byEmail: make(map[string]*domain.Account),
	}
}

func (r *fakeAccountRepo) Create(_ context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	if _, ok := r.byEmail[account.Email]; ok {
		return repository.ErrDuplicate
	}
	r.nextID++
	account.ID = fmt.Sprintf("acct-%d", r.nextID)
	account.CreatedAt = time.Now()
	account.UpdatedAt = account.CreatedAt
	copied := *account
	r.byID[account.ID] = &copied
	r.byEmail[account.Email] = &copied
	return nil
}

func (r *fakeAccountRepo) FindByID(_ context.Context, id string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *account
	return &copied, nil
}

func (r *fakeAccountRepo) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.byEmail[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *account
	return &copied, nil
}

func (r *fakeAccountRepo) UpdateStatusByEmail(_ context.Context, email string, status domain.Status) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.byEmail[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	account.Status = status
	account.UpdatedAt = time.Now()
	copied := *account
	return &copied, nil
}

func (r *fakeAccountRepo) UpdatePasswordByEmail(_ context.Context, email, passwordHash string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.byEmail[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	account.PasswordHash = passwordHash
	account.UpdatedAt = time.Now()
	copied := *account
	return &copied, nil
}

func (r *fakeAccountRepo) UpdateRole(_ context.Context, id string, role domain.Role) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	account.Role = role
	account.UpdatedAt = time.Now()
	copied := *account
	return &copied, nil
}

type fakeComplaintRepo struct {
	mu     sync.Mutex
	byID   map[string]*domain.Complaint
	notes  []domain.InternalNote
	nextID int
}

func newFakeComplaintRepo() *fakeComplaintRepo {
	return &fakeComplaintRepo{byID: make(map[string]*domain.Complaint)}
}

func (r *fakeComplaintRepo) Create(_ context.Context, complaint *domain.Complaint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	complaint.ID = fmt.Sprintf("cmp-%d", r.nextID)
	complaint.CreatedAt = time.Now()
	complaint.UpdatedAt = complaint.CreatedAt
	copied := *complaint
	r.byID[complaint.ID] = &copied
	return nil
}

func (r *fakeComplaintRepo) CreateBatch(ctx context.Context, complaints []*domain.Complaint) error {
	for _, c := range complaints {
		if err := r.Create(ctx, c); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeComplaintRepo) FindByID(_ context.Context, id string) (*domain.Complaint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	complaint, ok := r.byID[id]
	if !ok || complaint.IsDeleted {
		return nil, repository.ErrNotFound
	}
	copied := *complaint
	return &copied, nil
}

func (r *fakeComplaintRepo) list(filter func(*domain.Complaint) bool) []domain.Complaint {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Complaint, 0)
	for _, c := range r.byID {
		if c.IsDeleted || !filter(c) {
			continue
		}
		out = append(out, *c)
	}
	return out
}

func (r *fakeComplaintRepo) ListAll(context.Context) ([]domain.Complaint, error) {
	return r.list(func(*domain.Complaint) bool { return true }), nil
}

func (r *fakeComplaintRepo) ListByCustomer(_ context.Context, customerID string) ([]domain.Complaint, error) {
	return r.list(func(c *domain.Complaint) bool { return c.CustomerID == customerID }), nil
}

func (r *fakeComplaintRepo) ListByAssignee(_ context.Context, assigneeID string) ([]domain.Complaint, error) {
	return r.list(func(c *domain.Complaint) bool {
		return c.AssignedTo != nil && *c.AssignedTo == assigneeID
	}), nil
}

func (r *fakeComplaintRepo) ListSince(_ context.Context, since time.Time) ([]domain.Complaint, error) {
	return r.list(func(c *domain.Complaint) bool { return !c.CreatedAt.Before(since) }), nil
}

func (r *fakeComplaintRepo) CountSince(ctx context.Context, since time.Time) (int64, error) {
	complaints, _ := r.ListSince(ctx, since)
	return int64(len(complaints)), nil
}

func (r *fakeComplaintRepo) Update(_ context.Context, complaint *domain.Complaint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.byID[complaint.ID]
	if !ok || stored.IsDeleted {
		return repository.ErrNotFound
	}
	stored.Description = complaint.Description
	stored.Status = complaint.Status
	stored.Priority = complaint.Priority
	stored.UpdatedAt = time.Now()
	return nil
}

func (r *fakeComplaintRepo) SoftDelete(_ context.Context, id string) (*domain.Complaint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.byID[id]
	if !ok || stored.IsDeleted {
		return nil, repository.ErrNotFound
	}
	stored.IsDeleted = true
	copied := *stored
	return &copied, nil
}

func (r *fakeComplaintRepo) Assign(_ context.Context, id, assigneeID string) (*domain.Complaint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.byID[id]
	if !ok || stored.IsDeleted {
		return nil, repository.ErrNotFound
	}
	stored.AssignedTo = &assigneeID
	stored.UpdatedAt = time.Now()
	copied := *stored
	return &copied, nil
}

func (r *fakeComplaintRepo) AddNote(_ context.Context, note *domain.InternalNote) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	note.ID = fmt.Sprintf("note-%d", len(r.notes)+1)
	note.CreatedAt = time.Now()
	r.notes = append(r.notes, *note)
	return nil
}

func (r *fakeComplaintRepo) ListNotes(_ context.Context, complaintID string) ([]domain.InternalNote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.InternalNote, 0)
	for _, n := range r.notes {
		if n.ComplaintID == complaintID {
			out = append(out, n)
		}
	}
	return out, nil
}

type fakeMessageRepo struct {
	mu       sync.Mutex
	messages []domain.ComplaintMessage
}

func (r *fakeMessageRepo) Create(_ context.Context, message *domain.ComplaintMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	message.ID = fmt.Sprintf("msg-%d", len(r.messages)+1)
	message.CreatedAt = time.Now()
	r.messages = append(r.messages, *message)
	return nil
}

func (r *fakeMessageRepo) ListByComplaint(_ context.Context, complaintID string) ([]domain.ComplaintMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.ComplaintMessage, 0)
	for _, m := range r.messages {
		if m.ComplaintID == complaintID {
			out = append(out, m)
		}
	}
	return out, nil
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []mail.Message
	fail bool
}

func (m *fakeMailer) Send(_ context.Context, msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("smtp unavailable")
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *fakeMailer) last() (mail.Message, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return mail.Message{}, false
	}
	return m.sent[len(m.sent)-1], true
}
