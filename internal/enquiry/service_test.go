package enquiry

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"dp-catalog/internal/model"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeMailer struct {
	mu    sync.Mutex
	sent  []Message
	errAt int // 1-based call number that fails; 0 never fails
	err   error
}

func (f *fakeMailer) Send(_ context.Context, msg Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, msg)
	if f.errAt == len(f.sent) {
		return f.err
	}
	return nil
}

func (f *fakeMailer) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

type fakeNotifier struct {
	texts []string
	err   error
}

func (f *fakeNotifier) Notify(_ context.Context, text string) error {
	f.texts = append(f.texts, text)
	return f.err
}

type fakeEvents struct {
	events []model.EnquirySubmitted
	err    error
}

func (f *fakeEvents) PublishEnquirySubmitted(_ context.Context, evt model.EnquirySubmitted) error {
	f.events = append(f.events, evt)
	return f.err
}

type fakeFailed struct {
	ids      []string
	payloads []model.EnquiryPayload
}

func (f *fakeFailed) WriteFailed(_ context.Context, id string, p model.EnquiryPayload, _ error) error {
	f.ids = append(f.ids, id)
	f.payloads = append(f.payloads, p)
	return nil
}

var fixedNow = func() time.Time { return time.Date(2026, 10, 17, 9, 10, 0, 0, time.UTC) }

func validProduct() model.ProductEnquiryRequest {
	return model.ProductEnquiryRequest{
		Email:        "a@b.com",
		Mobile:       "+919876543210",
		Requirements: "need a quote",
		ProductName:  "Milton Roy mRoy",
	}
}

func newTestService(m Mailer, n Notifier, e EventPublisher, f FailedStore) *Service {
	opts := Options{BusinessEmail: "sales@example.com", Now: fixedNow}
	if n != nil {
		opts.Notifier = n
	}
	if e != nil {
		opts.Events = e
	}
	if f != nil {
		opts.Failed = f
	}
	return NewService(m, opts)
}

func TestSubmit_EmptyEmailRejectedWithoutTransport(t *testing.T) {
	mailer := &fakeMailer{}
	notifier := &fakeNotifier{}
	svc := newTestService(mailer, notifier, nil, nil)

	req := validProduct()
	req.Email = ""
	out := svc.Submit(context.Background(), NewProductEnquiry(req))

	assert.Equal(t, Rejected, out.State)
	assert.Equal(t, msgProductRequired, out.Message)
	assert.Zero(t, mailer.calls())
	assert.Empty(t, notifier.texts)

	var ve *ValidationError
	require.ErrorAs(t, out.Err, &ve)
	assert.Equal(t, "email", ve.Field)
	assert.Equal(t, []State{Validating, Rejected}, out.Trail)
}

func TestSubmit_MalformedEmailRejectedWithoutTransport(t *testing.T) {
	mailer := &fakeMailer{}
	svc := newTestService(mailer, nil, nil, nil)

	req := validProduct()
	req.Email = "not-an-email"
	out := svc.Submit(context.Background(), NewProductEnquiry(req))

	assert.Equal(t, Rejected, out.State)
	assert.Equal(t, msgInvalidEmail, out.Message)
	assert.Zero(t, mailer.calls())
}

func TestSubmit_ContactMissingFieldsRejected(t *testing.T) {
	mailer := &fakeMailer{}
	svc := newTestService(mailer, nil, nil, nil)

	out := svc.Submit(context.Background(), NewContact(model.ContactRequest{
		Name:   "Ravi",
		Email:  "ravi@example.com",
		Mobile: "9876543210",
	}))

	assert.Equal(t, Rejected, out.State)
	assert.Equal(t, msgContactRequired, out.Message)
	assert.Zero(t, mailer.calls())
}

func TestSubmit_ValidSendsTwoMailsAndOneWebhook(t *testing.T) {
	mailer := &fakeMailer{}
	notifier := &fakeNotifier{}
	events := &fakeEvents{}
	svc := newTestService(mailer, notifier, events, nil)

	out := svc.Submit(context.Background(), NewProductEnquiry(validProduct()))

	require.Equal(t, Sent, out.State, "err: %v", out.Err)
	assert.NoError(t, out.Err)
	assert.Equal(t, msgSent, out.Message)
	assert.Equal(t, ResetDelay, out.ResetAfter)
	assert.Equal(t, []State{Validating, Dispatching, Sent}, out.Trail)

	require.Equal(t, 2, mailer.calls())
	assert.Equal(t, "sales@example.com", mailer.sent[0].To)
	assert.Contains(t, mailer.sent[0].Subject, "Milton Roy mRoy")
	assert.Equal(t, "a@b.com", mailer.sent[1].To)

	require.Len(t, notifier.texts, 1)
	assert.Contains(t, notifier.texts[0], "*Product:* Milton Roy mRoy")

	require.Len(t, events.events, 1)
	assert.Equal(t, out.ID, events.events[0].EnquiryID)
	assert.Equal(t, model.EnquiryProduct, events.events[0].Type)
	assert.Equal(t, "2026-10-17T09:10:00Z", events.events[0].Timestamp)
}

func TestSubmit_WebhookFailureDoesNotFail(t *testing.T) {
	mailer := &fakeMailer{}
	notifier := &fakeNotifier{err: errors.New("webhook down")}
	events := &fakeEvents{err: errors.New("broker down")}
	svc := newTestService(mailer, notifier, events, nil)

	out := svc.Submit(context.Background(), NewProductEnquiry(validProduct()))

	assert.Equal(t, Sent, out.State)
	assert.NoError(t, out.Err)
	assert.Len(t, notifier.texts, 1)
}

func TestSubmit_NoNotifierConfigured(t *testing.T) {
	mailer := &fakeMailer{}
	svc := newTestService(mailer, nil, nil, nil)

	out := svc.Submit(context.Background(), NewProductEnquiry(validProduct()))
	assert.Equal(t, Sent, out.State)
	assert.Equal(t, 2, mailer.calls())
}

func TestSubmit_TransportFailureKeepsRequest(t *testing.T) {
	boom := errors.New("535 authentication failed")

	tests := []struct {
		name  string
		errAt int
		step  string
		calls int
	}{
		{"business mail fails", 1, "business mail", 1},
		{"customer mail fails", 2, "customer mail", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mailer := &fakeMailer{errAt: tt.errAt, err: boom}
			notifier := &fakeNotifier{}
			failed := &fakeFailed{}
			svc := newTestService(mailer, notifier, nil, failed)

			req := NewProductEnquiry(validProduct())
			out := svc.Submit(context.Background(), req)

			assert.Equal(t, Failed, out.State)
			assert.Equal(t, msgFailed, out.Message)
			assert.Zero(t, out.ResetAfter)
			assert.Equal(t, tt.calls, mailer.calls())
			assert.Empty(t, notifier.texts, "webhook must not fire after a mail failure")

			var te *TransportError
			require.ErrorAs(t, out.Err, &te)
			assert.Equal(t, tt.step, te.Step)
			assert.ErrorIs(t, out.Err, boom)

			require.NotNil(t, out.Request.Product)
			assert.Equal(t, validProduct(), *out.Request.Product)

			require.Len(t, failed.ids, 1)
			assert.Equal(t, out.ID, failed.ids[0])
			assert.Equal(t, "a@b.com", failed.payloads[0].Email)
		})
	}
}

func TestSubmit_ContactSent(t *testing.T) {
	mailer := &fakeMailer{}
	notifier := &fakeNotifier{}
	svc := newTestService(mailer, notifier, nil, nil)

	out := svc.Submit(context.Background(), NewContact(model.ContactRequest{
		Name:    "Ravi",
		Email:   "ravi@example.com",
		Mobile:  "9876543210",
		Subject: "Dosing pump",
		Message: "Line one\nLine two",
	}))

	require.Equal(t, Sent, out.State)
	require.Equal(t, 2, mailer.calls())
	assert.Equal(t, "🔔 New Contact Form Submission - Dosing pump", mailer.sent[0].Subject)
	assert.Contains(t, mailer.sent[0].HTML, "Line one<br>Line two")
	assert.Contains(t, mailer.sent[1].HTML, "Thank You, Ravi!")
	require.Len(t, notifier.texts, 1)
	assert.True(t, strings.HasPrefix(notifier.texts[0], "🔔 *NEW CONTACT FORM SUBMISSION*"))
}

func TestNewService_Defaults(t *testing.T) {
	svc := NewService(&fakeMailer{}, Options{})
	assert.Equal(t, DefaultBrand(), svc.brand)
	assert.Equal(t, DefaultBrand().Email, svc.businessEmail)
	assert.NotNil(t, svc.logger)
	assert.NotNil(t, svc.now)
}

type fakeSenders struct {
	denied map[string]bool
	err    error
}

func (f fakeSenders) Denied(_ context.Context, email string) (bool, error) {
	return f.denied[email], f.err
}

func TestSubmit_DeniedSenderRejected(t *testing.T) {
	mailer := &fakeMailer{}
	svc := NewService(mailer, Options{Senders: fakeSenders{denied: map[string]bool{"a@b.com": true}}})

	out := svc.Submit(context.Background(), NewProductEnquiry(validProduct()))

	assert.Equal(t, Rejected, out.State)
	assert.ErrorIs(t, out.Err, ErrSenderDenied)
	assert.Equal(t, msgDenied, out.Message)
	assert.Zero(t, mailer.calls())
	assert.Equal(t, []State{Validating, Rejected}, out.Trail)
}

func TestSubmit_SenderPolicyErrorFailsOpen(t *testing.T) {
	mailer := &fakeMailer{}
	svc := NewService(mailer, Options{Senders: fakeSenders{err: errors.New("redis down")}})

	out := svc.Submit(context.Background(), NewProductEnquiry(validProduct()))

	assert.Equal(t, Sent, out.State)
	assert.Equal(t, 2, mailer.calls())
}
