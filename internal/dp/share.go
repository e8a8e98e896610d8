package dp

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"time"
)

// SharePayload is what a native share sheet would receive.
type SharePayload struct {
	Title    string
	Text     string
	MIMEType string
	Filename string
	Data     []byte
}

// Sharer hands an exported picture to the host's share mechanism.
type Sharer interface {
	Share(ctx context.Context, p SharePayload) error
}

// WebhookSharer posts the payload as multipart/form-data to a relay URL.
type WebhookSharer struct {
	URL    string
	Client *http.Client
}

// NewSharer returns a webhook sharer, or nil when no URL is configured.
func NewSharer(url string, timeout time.Duration) Sharer {
	if url == "" {
		return nil
	}
	return &WebhookSharer{URL: url, Client: &http.Client{Timeout: timeout}}
}

func (w *WebhookSharer) Share(ctx context.Context, p SharePayload) error {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("title", p.Title); err != nil {
		return err
	}
	if err := mw.WriteField("text", p.Text); err != nil {
		return err
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, p.Filename))
	h.Set("Content-Type", p.MIMEType)
	part, err := mw.CreatePart(h)
	if err != nil {
		return err
	}
	if _, err := part.Write(p.Data); err != nil {
		return err
	}
	if err := mw.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.URL, &body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := w.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("share relay returned %s", resp.Status)
	}
	return nil
}
