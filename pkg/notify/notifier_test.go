package notify

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNotify_PostsNotification(t *testing.T) {
	var got Notification
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true,"sentTo":1,"succeeded":1,"failed":0}`))
	}))
	defer server.Close()

	notifier := New(server.URL, testLogger())
	notifier.Notify(context.Background(), &Notification{
		RecipientID: "u1",
		Type:        "note",
		Content:     "hi",
		FromName:    "Alex",
	})

	assert.Equal(t, "u1", got.RecipientID)
	assert.Equal(t, "note", got.Type)
	assert.Equal(t, "hi", got.Content)
}

func TestNotify_SwallowsServerErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	notifier := New(server.URL, testLogger())

	// Must not panic or propagate anything.
	notifier.Notify(context.Background(), &Notification{RecipientID: "u1", Type: "note"})
}

func TestNotify_SwallowsConnectionErrors(t *testing.T) {
	notifier := New("http://127.0.0.1:1/send-push", testLogger())

	notifier.Notify(context.Background(), &Notification{RecipientID: "u1", Type: "note"})
}
