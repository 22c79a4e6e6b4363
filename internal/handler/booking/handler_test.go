package booking

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	model "github.com/adelvo/website/backend/internal/model/booking"
	bookingservice "github.com/adelvo/website/backend/internal/service/booking"
	"github.com/adelvo/website/backend/internal/service/webhook"
)

func setupRouter(t *testing.T, upstreamStatus int) (*chi.Mux, *int) {
	t.Helper()

	calls := 0
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(upstreamStatus)
	}))
	t.Cleanup(upstream.Close)

	svc := bookingservice.NewService(webhook.NewBookingClient(upstream.URL, upstream.Client()), []string{"name", "email"})
	r := chi.NewRouter()
	New(svc).RegisterRoutes(r)
	return r, &calls
}

func post(r http.Handler, form url.Values) (*httptest.ResponseRecorder, model.Status) {
	req := httptest.NewRequest(http.MethodPost, "/booking", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	var status model.Status
	_ = json.Unmarshal(resp.Body.Bytes(), &status)
	return resp, status
}

func TestSubmitBookingSuccess(t *testing.T) {
	r, calls := setupRouter(t, http.StatusOK)

	resp, status := post(r, url.Values{"name": {"Ada"}, "email": {"ada@example.com"}})

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if status.State != model.StateSuccess || status.Message != model.MessageSuccess {
		t.Fatalf("unexpected status %+v", status)
	}
	if *calls != 1 {
		t.Fatalf("expected 1 upstream call, got %d", *calls)
	}
}

func TestSubmitBookingInvalid(t *testing.T) {
	r, calls := setupRouter(t, http.StatusOK)

	resp, status := post(r, url.Values{"name": {"Ada"}})

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	if status.State != model.StateInvalid || len(status.Missing) != 1 || status.Missing[0] != "email" {
		t.Fatalf("unexpected status %+v", status)
	}
	if *calls != 0 {
		t.Fatalf("invalid form must not be sent, got %d calls", *calls)
	}
}

func TestSubmitBookingUpstreamFailure(t *testing.T) {
	r, _ := setupRouter(t, http.StatusInternalServerError)

	resp, status := post(r, url.Values{"name": {"Ada"}, "email": {"ada@example.com"}})

	if resp.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", resp.Code)
	}
	if status.State != model.StateError || status.Message != model.MessageError {
		t.Fatalf("unexpected status %+v", status)
	}
}
