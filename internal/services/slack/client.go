package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/indago/internal/common"
	"github.com/ternarybob/indago/internal/httpclient"
)

// Client is a minimal Slack Web API client covering the three calls the bot
// needs: chat.postMessage (text and blocks) and file upload.
type Client struct {
	config common.SlackConfig
	client *http.Client
	logger arbor.ILogger
}

func NewClient(config common.SlackConfig, logger arbor.ILogger) *Client {
	return &Client{
		config: config,
		client: httpclient.NewDefaultHTTPClient(config.RequestTimeout),
		logger: logger.WithPrefix("slack"),
	}
}

// apiResponse is the envelope every Web API method returns. Slack reports
// failures with HTTP 200 and ok=false, so the body must always be checked.
type apiResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

func (c *Client) PostMessage(ctx context.Context, channel, text, threadTS string) error {
	payload := map[string]any{
		"channel": channel,
		"text":    text,
	}
	if threadTS != "" {
		payload["thread_ts"] = threadTS
	}
	return c.postJSON(ctx, "chat.postMessage", payload)
}

func (c *Client) PostBlocks(ctx context.Context, channel string, blocks []map[string]any, threadTS string) error {
	payload := map[string]any{
		"channel": channel,
		"blocks":  blocks,
		"text":    fallbackText(blocks),
	}
	if threadTS != "" {
		payload["thread_ts"] = threadTS
	}
	return c.postJSON(ctx, "chat.postMessage", payload)
}

// UploadFile sends a file through the external-upload flow: reserve an
// upload URL, stream the bytes to it, then complete against the channel.
func (c *Client) UploadFile(ctx context.Context, channel, filename, title string, data []byte) error {
	uploadURL, fileID, err := c.getUploadURL(ctx, filename, len(data))
	if err != nil {
		return err
	}
	if err := c.uploadBytes(ctx, uploadURL, filename, data); err != nil {
		return err
	}
	return c.completeUpload(ctx, channel, fileID, title)
}

func (c *Client) getUploadURL(ctx context.Context, filename string, length int) (string, string, error) {
	endpoint := fmt.Sprintf("%s/files.getUploadURLExternal?filename=%s&length=%d",
		strings.TrimSuffix(c.config.APIURL, "/"), filename, length)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.config.BotToken)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("files.getUploadURLExternal failed: %w", err)
	}
	defer resp.Body.Close()

	var result struct {
		apiResponse
		UploadURL string `json:"upload_url"`
		FileID    string `json:"file_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", "", fmt.Errorf("failed to decode upload URL response: %w", err)
	}
	if !result.OK {
		return "", "", fmt.Errorf("files.getUploadURLExternal returned %s", result.Error)
	}
	return result.UploadURL, result.FileID, nil
}

func (c *Client) uploadBytes(ctx context.Context, uploadURL, filename string, data []byte) error {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return fmt.Errorf("failed to write file data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, &body)
	if err != nil {
		return fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("file upload failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("file upload returned status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) completeUpload(ctx context.Context, channel, fileID, title string) error {
	return c.postJSON(ctx, "files.completeUploadExternal", map[string]any{
		"files":      []map[string]string{{"id": fileID, "title": title}},
		"channel_id": channel,
	})
}

func (c *Client) postJSON(ctx context.Context, method string, payload map[string]any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", method, err)
	}

	endpoint := strings.TrimSuffix(c.config.APIURL, "/") + "/" + method
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", method, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.config.BotToken)
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s failed: %w", method, err)
	}
	defer resp.Body.Close()

	var result apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", method, err)
	}
	if !result.OK {
		c.logger.Warn().Str("method", method).Str("error", result.Error).Msg("Slack API call rejected")
		return fmt.Errorf("%s returned %s", method, result.Error)
	}
	return nil
}

// fallbackText builds the notification text from the first section block.
func fallbackText(blocks []map[string]any) string {
	for _, block := range blocks {
		text, ok := block["text"].(map[string]any)
		if !ok {
			continue
		}
		if value, ok := text["text"].(string); ok && value != "" {
			return common.Truncate(value, 200)
		}
	}
	return "New message"
}
