package webhook

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingClientPostsFormEncoded(t *testing.T) {
	var got url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		assert.NoError(t, r.ParseForm())
		got = r.PostForm
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	fields := url.Values{"name": {"Ada"}, "email": {"ada@example.com"}}
	require.NoError(t, NewBookingClient(srv.URL, srv.Client()).Submit(context.Background(), fields))
	assert.Equal(t, "Ada", got.Get("name"))
	assert.Equal(t, "ada@example.com", got.Get("email"))
}

func TestBookingClientRejectsNonSuccessStatus(t *testing.T) {
	for _, status := range []int{http.StatusMultipleChoices, http.StatusBadRequest, http.StatusInternalServerError} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))

		err := NewBookingClient(srv.URL, srv.Client()).Submit(context.Background(), url.Values{})
		srv.Close()

		require.Error(t, err, "status %d", status)
		assert.True(t, errors.Is(err, ErrStatus))
	}
}
