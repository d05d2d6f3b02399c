// Package enquiry validates contact and product enquiries and relays them to
// the business by mail, with a best-effort chat notification on top.
package enquiry

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"dp-catalog/internal/model"
)

const (
	msgSent   = "Form submitted successfully! We will contact you soon."
	msgFailed = "There was an error processing your request. Please try again."
	msgDenied = "We are unable to accept submissions from this email address."

	// ResetDelay is how long a client shows the success state before
	// clearing the form.
	ResetDelay = 3 * time.Second
)

// Mailer delivers one message through the mail relay.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// Notifier posts a plain-text notification to a chat webhook.
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// EventPublisher announces successfully relayed enquiries.
type EventPublisher interface {
	PublishEnquirySubmitted(ctx context.Context, evt model.EnquirySubmitted) error
}

// FailedStore keeps enquiries whose mails could not be delivered.
type FailedStore interface {
	WriteFailed(ctx context.Context, enquiryID string, p model.EnquiryPayload, cause error) error
}

// SenderPolicy reports senders whose enquiries must not be relayed.
type SenderPolicy interface {
	Denied(ctx context.Context, email string) (bool, error)
}

// Options carries the optional collaborators of a Service. Nil fields are
// skipped.
type Options struct {
	BusinessEmail string
	Brand         Brand
	Notifier      Notifier
	Events        EventPublisher
	Failed        FailedStore
	Senders       SenderPolicy
	Logger        *zap.Logger
	Now           func() time.Time
}

// Service runs submissions through validation and dispatch.
type Service struct {
	mailer        Mailer
	notifier      Notifier
	events        EventPublisher
	failed        FailedStore
	senders       SenderPolicy
	businessEmail string
	brand         Brand
	logger        *zap.Logger
	now           func() time.Time
}

func NewService(mailer Mailer, opts Options) *Service {
	s := &Service{
		mailer:        mailer,
		notifier:      opts.Notifier,
		events:        opts.Events,
		failed:        opts.Failed,
		senders:       opts.Senders,
		businessEmail: opts.BusinessEmail,
		brand:         opts.Brand,
		logger:        opts.Logger,
		now:           opts.Now,
	}
	if s.brand == (Brand{}) {
		s.brand = DefaultBrand()
	}
	if s.businessEmail == "" {
		s.businessEmail = s.brand.Email
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Outcome is the result of one submission.
type Outcome struct {
	ID      string
	State   State // Rejected, Sent or Failed
	Message string
	// Request is kept on every outcome so a Failed or Rejected form can be
	// resubmitted as is.
	Request    Request
	Err        error
	ResetAfter time.Duration // non-zero only when Sent
	Trail      []State
}

// Submit validates req and, when valid, sends the business and customer
// mails. Only a mail failure produces Failed; webhook and event errors are
// logged and dropped.
func (s *Service) Submit(ctx context.Context, req Request) Outcome {
	sub := &Submission{}
	out := Outcome{ID: uuid.NewString(), Request: req}
	log := s.logger.With(zap.String("enquiry_id", out.ID), zap.String("type", string(req.Type)))

	finish := func(state State, msg string, err error) Outcome {
		out.State, out.Message, out.Err = state, msg, err
		out.Trail = sub.Trail()
		return out
	}

	s.must(sub.transition(Validating))
	if err := Validate(req); err != nil {
		s.must(sub.transition(Rejected))
		msg := msgFailed
		var ve *ValidationError
		if errors.As(err, &ve) {
			msg = ve.Message
		} else if errors.Is(err, ErrUnknownVariant) {
			msg = "Invalid form data"
		}
		log.Info("enquiry rejected", zap.Error(err))
		out = finish(Rejected, msg, err)
		s.must(sub.transition(Idle))
		return out
	}

	payload := req.Payload()
	if s.denied(ctx, log, payload.Email) {
		s.must(sub.transition(Rejected))
		log.Info("enquiry from denied sender")
		out = finish(Rejected, msgDenied, ErrSenderDenied)
		s.must(sub.transition(Idle))
		return out
	}

	s.must(sub.transition(Dispatching))
	submittedAt := s.now()
	timestamp := formatTimestamp(submittedAt)

	business, customer, err := composeMails(payload, timestamp, s.businessEmail, s.brand)
	if err != nil {
		return s.fail(ctx, sub, finish, log, payload, out.ID, &TransportError{Step: "compose", Err: err})
	}
	if err := s.mailer.Send(ctx, business); err != nil {
		return s.fail(ctx, sub, finish, log, payload, out.ID, &TransportError{Step: "business mail", Err: err})
	}
	if err := s.mailer.Send(ctx, customer); err != nil {
		return s.fail(ctx, sub, finish, log, payload, out.ID, &TransportError{Step: "customer mail", Err: err})
	}

	s.must(sub.transition(Sent))
	log.Info("enquiry sent", zap.String("to", business.To))

	if s.notifier != nil {
		text := composeNotification(payload, timestamp, s.brand)
		if err := s.notifier.Notify(ctx, text); err != nil {
			log.Warn("webhook notification failed", zap.Error(&TransportError{Step: "webhook", Err: err}))
		}
	}

	if s.events != nil {
		evt := model.EnquirySubmitted{
			EnquiryID:   out.ID,
			Type:        payload.Type,
			ProductName: payload.ProductName,
			Email:       payload.Email,
			Timestamp:   submittedAt.UTC().Format(time.RFC3339Nano),
		}
		if err := s.events.PublishEnquirySubmitted(ctx, evt); err != nil {
			log.Warn("publish enquiry event failed", zap.Error(err))
		}
	}

	out.ResetAfter = ResetDelay
	return finish(Sent, msgSent, nil)
}

// denied consults the sender policy. Lookup errors let the enquiry through.
func (s *Service) denied(ctx context.Context, log *zap.Logger, email string) bool {
	if s.senders == nil {
		return false
	}
	denied, err := s.senders.Denied(ctx, email)
	if err != nil {
		log.Warn("sender policy lookup failed", zap.Error(err))
		return false
	}
	return denied
}

func (s *Service) fail(ctx context.Context, sub *Submission, finish func(State, string, error) Outcome,
	log *zap.Logger, p model.EnquiryPayload, id string, err error) Outcome {
	s.must(sub.transition(Failed))
	log.Error("enquiry dispatch failed", zap.Error(err))

	if s.failed != nil {
		if werr := s.failed.WriteFailed(ctx, id, p, err); werr != nil {
			log.Error("store failed enquiry", zap.Error(werr))
		}
	}
	return finish(Failed, msgFailed, err)
}

// must logs transitions that the pipeline itself should never attempt.
func (s *Service) must(err error) {
	if err != nil {
		s.logger.DPanic("enquiry state machine", zap.Error(err))
	}
}
