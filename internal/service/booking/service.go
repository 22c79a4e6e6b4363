// Package booking validates and forwards submissions of the consultation
// booking form.
package booking

import (
	"context"
	"net/mail"
	"net/url"
	"strings"
	"sync/atomic"

	"github.com/rs/zerolog/log"

	model "github.com/adelvo/website/backend/internal/model/booking"
)

// Submitter delivers a validated submission.
type Submitter interface {
	Submit(ctx context.Context, fields url.Values) error
}

// Service checks a submission and hands it to the submitter.
type Service struct {
	submitter Submitter
	required  []string
}

// NewService creates a booking service. required lists the field names that
// must be present and non-blank.
func NewService(submitter Submitter, required []string) *Service {
	return &Service{
		submitter: submitter,
		required:  append([]string(nil), required...),
	}
}

// Submit validates fields and, if they pass, sends them. Failures never
// escape as errors; they are reported through the returned status.
func (s *Service) Submit(ctx context.Context, fields url.Values) model.Status {
	if missing := s.Validate(fields); len(missing) > 0 {
		return model.Status{State: model.StateInvalid, Message: model.MessageInvalid, Missing: missing}
	}

	if err := s.submitter.Submit(ctx, fields); err != nil {
		log.Warn().Str("component", "booking").Err(err).Msg("booking submission failed")
		return model.Status{State: model.StateError, Message: model.MessageError}
	}

	log.Info().Str("component", "booking").Msg("booking submitted")
	return model.Status{State: model.StateSuccess, Message: model.MessageSuccess}
}

// Validate returns the names of fields that are missing or malformed, in
// the order they were checked.
func (s *Service) Validate(fields url.Values) []string {
	var invalid []string
	for _, name := range s.required {
		if strings.TrimSpace(fields.Get(name)) == "" {
			invalid = append(invalid, name)
		}
	}

	if email := strings.TrimSpace(fields.Get("email")); email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			invalid = append(invalid, "email")
		}
	}
	return invalid
}

// Form is one instance of the booking form. While a submission is in
// flight further submits are refused, like a disabled submit button.
type Form struct {
	service  *Service
	inFlight atomic.Bool
}

// NewForm returns a form backed by service.
func NewForm(service *Service) *Form {
	return &Form{service: service}
}

// Submit sends fields unless another submission from this form is pending.
func (f *Form) Submit(ctx context.Context, fields url.Values) model.Status {
	if !f.inFlight.CompareAndSwap(false, true) {
		return model.Status{State: model.StateBusy, Message: model.MessageBusy}
	}
	defer f.inFlight.Store(false)

	return f.service.Submit(ctx, fields)
}
