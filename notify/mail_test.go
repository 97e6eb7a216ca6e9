package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xdares/auth"
)

func TestMailerSend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer id-token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body mailRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "new dare", body.Subject)
		assert.Equal(t, `{"dareNumber":1}`, body.Text)
		w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	ok, err := NewMailer(srv.URL, auth.Static("id-token"), 0).Send(context.Background(), "new dare", `{"dareNumber":1}`)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMailerNotAcknowledged(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false}`))
	}))
	defer srv.Close()

	ok, err := NewMailer(srv.URL, auth.Static("t"), 0).Send(context.Background(), "s", "t")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMailerErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := NewMailer(srv.URL, auth.Static("t"), 0).Send(context.Background(), "s", "t")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")

	_, err = NewMailer(srv.URL, auth.Static(""), 0).Send(context.Background(), "s", "t")
	assert.ErrorIs(t, err, auth.ErrEmptyToken)
}
