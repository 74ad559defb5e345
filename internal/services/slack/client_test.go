package slack

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/indago/internal/common"
)

func testClient(apiURL string) *Client {
	return NewClient(common.SlackConfig{
		BotToken:       "xoxb-test",
		APIURL:         apiURL,
		RequestTimeout: 5 * time.Second,
	}, common.GetLogger())
}

func TestPostMessage_SendsAuthAndThread(t *testing.T) {
	var got map[string]any
	var auth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat.postMessage", r.URL.Path)
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		io.WriteString(w, `{"ok":true}`)
	}))
	defer server.Close()

	err := testClient(server.URL).PostMessage(context.Background(), "C123", "hello", "1700.0001")
	require.NoError(t, err)

	assert.Equal(t, "Bearer xoxb-test", auth)
	assert.Equal(t, "C123", got["channel"])
	assert.Equal(t, "hello", got["text"])
	assert.Equal(t, "1700.0001", got["thread_ts"])
}

func TestPostMessage_APIErrorSurfaces(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"ok":false,"error":"channel_not_found"}`)
	}))
	defer server.Close()

	err := testClient(server.URL).PostMessage(context.Background(), "C404", "hi", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "channel_not_found")
}

func TestPostBlocks_IncludesFallbackText(t *testing.T) {
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		io.WriteString(w, `{"ok":true}`)
	}))
	defer server.Close()

	blocks := []map[string]any{
		{"type": "section", "text": map[string]any{"type": "mrkdwn", "text": "*Acme* briefing ready"}},
	}
	err := testClient(server.URL).PostBlocks(context.Background(), "C123", blocks, "")
	require.NoError(t, err)

	assert.Equal(t, "*Acme* briefing ready", got["text"])
	assert.NotEmpty(t, got["blocks"])
}

func TestUploadFile_ThreeStepFlow(t *testing.T) {
	var completed map[string]any
	var uploadedBody []byte

	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/files.getUploadURLExternal", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "chart.png", r.URL.Query().Get("filename"))
		io.WriteString(w, `{"ok":true,"upload_url":"`+server.URL+`/upload","file_id":"F42"}`)
	})
	mux.HandleFunc("/upload", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		file, _, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		uploadedBody, err = io.ReadAll(file)
		require.NoError(t, err)
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/files.completeUploadExternal", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&completed))
		io.WriteString(w, `{"ok":true}`)
	})

	err := testClient(server.URL).UploadFile(context.Background(), "C123", "chart.png", "Revenue", []byte("png-bytes"))
	require.NoError(t, err)

	assert.Equal(t, []byte("png-bytes"), uploadedBody)
	assert.Equal(t, "C123", completed["channel_id"])
	files := completed["files"].([]any)
	require.Len(t, files, 1)
	assert.Equal(t, "F42", files[0].(map[string]any)["id"])
	assert.Equal(t, "Revenue", files[0].(map[string]any)["title"])
}

func TestUploadFile_ReserveFailureAborts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"ok":false,"error":"invalid_auth"}`)
	}))
	defer server.Close()

	err := testClient(server.URL).UploadFile(context.Background(), "C1", "a.pdf", "A", []byte("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid_auth")
}

func TestFallbackText(t *testing.T) {
	assert.Equal(t, "New message", fallbackText(nil))
	assert.Equal(t, "hi", fallbackText([]map[string]any{
		{"type": "divider"},
		{"type": "section", "text": map[string]any{"type": "mrkdwn", "text": "hi"}},
	}))
}
