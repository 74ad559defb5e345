package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/indago/internal/common"
)

func TestDownloads_ServesArtifact(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "acme-briefing.pdf"), []byte("%PDF-1.4 data"), 0o644))
	h := NewDownloadsHandler(dir, common.GetLogger())

	req := httptest.NewRequest(http.MethodGet, "/downloads/acme-briefing.pdf", nil)
	rec := httptest.NewRecorder()
	h.ServeHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "%PDF"))
}

func TestDownloads_RejectsTraversal(t *testing.T) {
	h := NewDownloadsHandler(t.TempDir(), common.GetLogger())

	req := httptest.NewRequest(http.MethodGet, "/downloads/"+url.PathEscape("../etc/passwd"), nil)
	rec := httptest.NewRecorder()
	h.ServeHandler(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDownloads_MissingFileIs404(t *testing.T) {
	h := NewDownloadsHandler(t.TempDir(), common.GetLogger())

	req := httptest.NewRequest(http.MethodGet, "/downloads/absent.pdf", nil)
	rec := httptest.NewRecorder()
	h.ServeHandler(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCommand_EmptyTextReturnsUsage(t *testing.T) {
	bot, _ := newTestBot(&fakeResearch{}, &recordingSlack{})
	h := NewSlackCommandHandler(bot, common.GetLogger())

	form := url.Values{"text": {"  "}, "channel_id": {"C1"}}
	req := httptest.NewRequest(http.MethodPost, "/slack/command", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.CommandHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ephemeral")
	assert.Contains(t, rec.Body.String(), "Usage")
}

func TestCommand_AcknowledgesInChannel(t *testing.T) {
	research := &fakeResearch{err: assert.AnError}
	bot, _ := newTestBot(research, &recordingSlack{})
	h := NewSlackCommandHandler(bot, common.GetLogger())

	form := url.Values{"text": {"Acme Corp"}, "channel_id": {"C1"}}
	req := httptest.NewRequest(http.MethodPost, "/slack/command", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.CommandHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "in_channel")
	assert.Contains(t, rec.Body.String(), "Researching Acme Corp")
}
