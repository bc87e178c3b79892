package telegram

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lumiforge/kinoteka-backend/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_SendAlert_NotConfigured(t *testing.T) {
	c := NewClient(&config.Config{})
	assert.False(t, c.IsConfigured())
	assert.NoError(t, c.SendAlert("ignored"))
}

func TestClient_SendAlert_PostsMessage(t *testing.T) {
	var gotChat, gotText, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotPath = r.URL.Path
		gotChat = r.PostForm.Get("chat_id")
		gotText = r.PostForm.Get("text")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(&config.Config{TelegramBotToken: "tok", TelegramAdminChatID: "42", Env: "staging"})
	c.baseURL = srv.URL

	require.NoError(t, c.SendAlert("ydb is down"))
	assert.Equal(t, "/bottok/sendMessage", gotPath)
	assert.Equal(t, "42", gotChat)
	assert.Contains(t, gotText, "[staging]")
	assert.Contains(t, gotText, "ydb is down")
}

func TestClient_SendAlert_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(&config.Config{TelegramBotToken: "tok", TelegramAdminChatID: "42"})
	c.baseURL = srv.URL

	assert.Error(t, c.SendAlert("boom"))
}
