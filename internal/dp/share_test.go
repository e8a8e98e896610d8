package dp

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebhookSharer(t *testing.T) {
	var gotTitle, gotType, gotName string
	var gotData []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		gotTitle = r.FormValue("title")
		f, hdr, err := r.FormFile("image")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer f.Close()
		gotData, _ = io.ReadAll(f)
		gotType = hdr.Header.Get("Content-Type")
		gotName = hdr.Filename
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	sh := NewSharer(srv.URL, time.Second)
	require.NotNil(t, sh)
	err := sh.Share(context.Background(), SharePayload{
		Title:    "t",
		Text:     "x",
		MIMEType: "image/png",
		Filename: "orozo-dp-1.png",
		Data:     []byte{1, 2, 3},
	})
	require.NoError(t, err)
	assert.Equal(t, "t", gotTitle)
	assert.Equal(t, "image/png", gotType)
	assert.Equal(t, "orozo-dp-1.png", gotName)
	assert.Equal(t, []byte{1, 2, 3}, gotData)
}

func TestWebhookSharerStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	err := NewSharer(srv.URL, time.Second).Share(context.Background(), SharePayload{MIMEType: "image/png"})
	assert.Error(t, err)
}
