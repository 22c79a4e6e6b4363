package booking

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	model "github.com/adelvo/website/backend/internal/model/booking"
)

type fakeSubmitter struct {
	mu    sync.Mutex
	calls []url.Values
	err   error
	gate  chan struct{}
	enter chan struct{}
}

func (f *fakeSubmitter) Submit(_ context.Context, fields url.Values) error {
	f.mu.Lock()
	f.calls = append(f.calls, fields)
	f.mu.Unlock()
	if f.enter != nil {
		f.enter <- struct{}{}
	}
	if f.gate != nil {
		<-f.gate
	}
	return f.err
}

func (f *fakeSubmitter) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func validFields() url.Values {
	return url.Values{
		"name":    {"Ada Lovelace"},
		"email":   {"ada@example.com"},
		"message": {"Tuesday afternoon works"},
	}
}

func TestSubmitSuccess(t *testing.T) {
	sub := &fakeSubmitter{}
	svc := NewService(sub, []string{"name", "email"})

	status := svc.Submit(context.Background(), validFields())

	assert.Equal(t, model.StateSuccess, status.State)
	assert.Equal(t, "Thank you, we will get back to you.", status.Message)
	assert.True(t, status.OK())
	require.Equal(t, 1, sub.count())
	assert.Equal(t, "Ada Lovelace", sub.calls[0].Get("name"))
}

func TestSubmitFailure(t *testing.T) {
	sub := &fakeSubmitter{err: errors.New("status 500")}
	svc := NewService(sub, []string{"name", "email"})

	status := svc.Submit(context.Background(), validFields())

	assert.Equal(t, model.StateError, status.State)
	assert.Equal(t, "Submission failed. Please try again.", status.Message)
	assert.False(t, status.OK())
}

func TestSubmitInvalidSendsNothing(t *testing.T) {
	cases := []struct {
		name    string
		fields  url.Values
		missing []string
	}{
		{"empty", url.Values{}, []string{"name", "email"}},
		{"blank name", url.Values{"name": {"   "}, "email": {"a@b.co"}}, []string{"name"}},
		{"bad email", url.Values{"name": {"Ada"}, "email": {"not-an-address"}}, []string{"email"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sub := &fakeSubmitter{}
			svc := NewService(sub, []string{"name", "email"})

			status := svc.Submit(context.Background(), tc.fields)

			assert.Equal(t, model.StateInvalid, status.State)
			assert.Equal(t, "Please fill in all required fields.", status.Message)
			assert.Equal(t, tc.missing, status.Missing)
			assert.Zero(t, sub.count())
		})
	}
}

func TestValidateOptionalEmail(t *testing.T) {
	svc := NewService(&fakeSubmitter{}, []string{"phone"})
	assert.Empty(t, svc.Validate(url.Values{"phone": {"+49 30 1234"}}))
	assert.Equal(t, []string{"email"}, svc.Validate(url.Values{"phone": {"1"}, "email": {"@@"}}))
}

func TestFormRejectsSecondSubmitWhileInFlight(t *testing.T) {
	sub := &fakeSubmitter{gate: make(chan struct{}), enter: make(chan struct{})}
	form := NewForm(NewService(sub, []string{"name", "email"}))

	first := make(chan model.Status, 1)
	go func() { first <- form.Submit(context.Background(), validFields()) }()
	<-sub.enter

	second := form.Submit(context.Background(), validFields())
	assert.Equal(t, model.StateBusy, second.State)

	close(sub.gate)
	assert.Equal(t, model.StateSuccess, (<-first).State)
	assert.Equal(t, 1, sub.count())

	// Re-enabled once the first submission settled.
	sub.enter = nil
	assert.Equal(t, model.StateSuccess, form.Submit(context.Background(), validFields()).State)
}
