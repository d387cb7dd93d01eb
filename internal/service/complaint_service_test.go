package service

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/events"
)

type complaintFixture struct {
	svc        *ComplaintService
	complaints *fakeComplaintRepo
	messages   *fakeMessageRepo
	accounts   *fakeAccountRepo
	published  *[]events.Event
}

func newComplaintFixture(t *testing.T) *complaintFixture {
	t.Helper()
	complaints := newFakeComplaintRepo()
	messages := &fakeMessageRepo{}
	accounts := newFakeAccountRepo()
	dispatcher := events.NewInMemoryDispatcher()

	published := &[]events.Event{}
	record := func(_ context.Context, e events.Event) error {
		*published = append(*published, e)
		return nil
	}
	dispatcher.Subscribe(events.EventComplaintCreated, record)
	dispatcher.Subscribe(events.EventComplaintAssigned, record)
	dispatcher.Subscribe(events.EventComplaintReplied, record)
	dispatcher.Subscribe(events.EventComplaintStatusChanged, record)

	svc := NewComplaintService(complaints, messages, accounts, dispatcher, zap.NewNop())
	return &complaintFixture{
		svc:        svc,
		complaints: complaints,
		messages:   messages,
		accounts:   accounts,
		published:  published,
	}
}

func (f *complaintFixture) addAccount(t *testing.T, email string, role domain.Role) *domain.Account {
	t.Helper()
	account := &domain.Account{
		FirstName: "Test",
		LastName:  "Account",
		Email:     email,
		Role:      role,
		Status:    domain.StatusActive,
	}
	require.NoError(t, f.accounts.Create(context.Background(), account))
	return account
}

func TestCreateComplaintDefaults(t *testing.T) {
	f := newComplaintFixture(t)
	customer := f.addAccount(t, "cust@example.com", domain.RoleCustomer)

	complaint, err := f.svc.Create(context.Background(), customer.ID, CreateComplaintInput{
		Subject:            "Broken delivery",
		Description:        "Package arrived damaged",
		TermsAndConditions: true,
	})
	require.NoError(t, err)
	require.Equal(t, domain.ComplaintStatusOpen, complaint.Status)
	require.Equal(t, domain.ComplaintPriorityLow, complaint.Priority)
	require.Equal(t, customer.ID, complaint.CustomerID)
	require.Len(t, *f.published, 1)
	require.Equal(t, events.EventComplaintCreated, (*f.published)[0].Type)
}

func TestCreateComplaintRejectsUnknownPriority(t *testing.T) {
	f := newComplaintFixture(t)
	customer := f.addAccount(t, "cust@example.com", domain.RoleCustomer)

	_, err := f.svc.Create(context.Background(), customer.ID, CreateComplaintInput{
		Subject:     "Subject",
		Description: "Description",
		Priority:    "critical",
	})
	require.ErrorIs(t, err, ErrInvalidPriority)
}

func TestBulkCreateRejectsWholeBatchOnBadRow(t *testing.T) {
	f := newComplaintFixture(t)
	customer := f.addAccount(t, "cust@example.com", domain.RoleCustomer)

	_, err := f.svc.BulkCreate(context.Background(), customer.ID, []CreateComplaintInput{
		{Subject: "ok", Description: "ok"},
		{Subject: "bad", Description: "bad", Priority: "critical"},
	})
	require.ErrorIs(t, err, ErrInvalidPriority)

	all, err := f.complaints.ListAll(context.Background())
	require.NoError(t, err)
	require.Empty(t, all)
}

func TestListForScopesByRole(t *testing.T) {
	f := newComplaintFixture(t)
	ctx := context.Background()
	customer := f.addAccount(t, "cust@example.com", domain.RoleCustomer)
	other := f.addAccount(t, "other@example.com", domain.RoleCustomer)
	officer := f.addAccount(t, "officer@example.com", domain.RoleOfficer)
	admin := f.addAccount(t, "admin@example.com", domain.RoleAdmin)

	mine, err := f.svc.Create(ctx, customer.ID, CreateComplaintInput{Subject: "a", Description: "a"})
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, other.ID, CreateComplaintInput{Subject: "b", Description: "b"})
	require.NoError(t, err)

	_, err = f.svc.Assign(ctx, admin.ID, mine.ID, officer.ID, "")
	require.NoError(t, err)

	customerView, err := f.svc.ListFor(ctx, customer)
	require.NoError(t, err)
	require.Len(t, customerView, 1)
	require.Equal(t, mine.ID, customerView[0].ID)

	officerView, err := f.svc.ListFor(ctx, officer)
	require.NoError(t, err)
	require.Len(t, officerView, 1)
	require.Equal(t, mine.ID, officerView[0].ID)

	adminView, err := f.svc.ListFor(ctx, admin)
	require.NoError(t, err)
	require.Len(t, adminView, 2)
}

func TestAssignUnknownAssignee(t *testing.T) {
	f := newComplaintFixture(t)
	ctx := context.Background()
	customer := f.addAccount(t, "cust@example.com", domain.RoleCustomer)
	admin := f.addAccount(t, "admin@example.com", domain.RoleAdmin)

	complaint, err := f.svc.Create(ctx, customer.ID, CreateComplaintInput{Subject: "a", Description: "a"})
	require.NoError(t, err)

	_, err = f.svc.Assign(ctx, admin.ID, complaint.ID, "acct-404", "")
	require.ErrorIs(t, err, ErrAssigneeNotFound)
}

func TestAssignRecordsNote(t *testing.T) {
	f := newComplaintFixture(t)
	ctx := context.Background()
	customer := f.addAccount(t, "cust@example.com", domain.RoleCustomer)
	officer := f.addAccount(t, "officer@example.com", domain.RoleOfficer)
	admin := f.addAccount(t, "admin@example.com", domain.RoleAdmin)

	complaint, err := f.svc.Create(ctx, customer.ID, CreateComplaintInput{Subject: "a", Description: "a"})
	require.NoError(t, err)

	assigned, err := f.svc.Assign(ctx, admin.ID, complaint.ID, officer.ID, "handle with care")
	require.NoError(t, err)
	require.NotNil(t, assigned.AssignedTo)
	require.Equal(t, officer.ID, *assigned.AssignedTo)

	notes, err := f.complaints.ListNotes(ctx, complaint.ID)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	require.Equal(t, "handle with care", notes[0].Note)
	require.Equal(t, admin.ID, notes[0].SenderID)
}

func TestReplyMarksAnswered(t *testing.T) {
	f := newComplaintFixture(t)
	ctx := context.Background()
	customer := f.addAccount(t, "cust@example.com", domain.RoleCustomer)
	officer := f.addAccount(t, "officer@example.com", domain.RoleOfficer)

	complaint, err := f.svc.Create(ctx, customer.ID, CreateComplaintInput{Subject: "a", Description: "a"})
	require.NoError(t, err)

	message, err := f.svc.Reply(ctx, officer.ID, complaint.ID, "we are on it")
	require.NoError(t, err)
	require.Equal(t, officer.ID, message.SenderID)

	refreshed, err := f.svc.GetByID(ctx, complaint.ID)
	require.NoError(t, err)
	require.Equal(t, domain.ComplaintStatusAnswered, refreshed.Status)
}

func TestSoftDeleteHidesComplaint(t *testing.T) {
	f := newComplaintFixture(t)
	ctx := context.Background()
	customer := f.addAccount(t, "cust@example.com", domain.RoleCustomer)

	complaint, err := f.svc.Create(ctx, customer.ID, CreateComplaintInput{Subject: "a", Description: "a"})
	require.NoError(t, err)

	_, err = f.svc.SoftDelete(ctx, complaint.ID)
	require.NoError(t, err)

	_, err = f.svc.GetByID(ctx, complaint.ID)
	require.ErrorIs(t, err, ErrComplaintNotFound)

	_, err = f.svc.SoftDelete(ctx, complaint.ID)
	require.ErrorIs(t, err, ErrComplaintNotFound)
}

func TestUpdatePublishesStatusChange(t *testing.T) {
	f := newComplaintFixture(t)
	ctx := context.Background()
	customer := f.addAccount(t, "cust@example.com", domain.RoleCustomer)
	admin := f.addAccount(t, "admin@example.com", domain.RoleAdmin)

	complaint, err := f.svc.Create(ctx, customer.ID, CreateComplaintInput{Subject: "a", Description: "a"})
	require.NoError(t, err)

	closed := domain.ComplaintStatusClosed
	updated, err := f.svc.Update(ctx, admin.ID, complaint.ID, UpdateComplaintInput{Status: &closed})
	require.NoError(t, err)
	require.Equal(t, domain.ComplaintStatusClosed, updated.Status)

	var statusEvents int
	for _, e := range *f.published {
		if e.Type == events.EventComplaintStatusChanged {
			statusEvents++
		}
	}
	require.Equal(t, 1, statusEvents)
}

func TestPostMessageAndList(t *testing.T) {
	f := newComplaintFixture(t)
	ctx := context.Background()
	customer := f.addAccount(t, "cust@example.com", domain.RoleCustomer)

	complaint, err := f.svc.Create(ctx, customer.ID, CreateComplaintInput{Subject: "a", Description: "a"})
	require.NoError(t, err)

	_, err = f.svc.PostMessage(ctx, customer.ID, complaint.ID, "any update?")
	require.NoError(t, err)

	messages, err := f.svc.ListMessages(ctx, complaint.ID)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	require.Equal(t, "any update?", messages[0].Text)

	_, err = f.svc.PostMessage(ctx, customer.ID, "cmp-404", "hello?")
	require.ErrorIs(t, err, ErrComplaintNotFound)
}

func TestPreviewKeepsRuneBoundaries(t *testing.T) {
	ascii := strings.Repeat("a", 200)
	require.Equal(t, 120, len(preview(ascii, 120)))
	require.Equal(t, "short", preview("short", 120))

	// Multibyte text must never be cut mid-rune.
	wide := strings.Repeat("ü", 100)
	cut := preview(wide, 119)
	require.True(t, utf8.ValidString(cut))
	require.LessOrEqual(t, len(cut), 119)
	require.Equal(t, 118, len(cut))
}
