package util

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetBytes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			w.Write([]byte("hello"))
		case "/big":
			w.Write([]byte(strings.Repeat("x", 64)))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()
	client := srv.Client()

	b, err := GetBytes(context.Background(), client, srv.URL+"/ok", 16)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(b))

	_, err = GetBytes(context.Background(), client, srv.URL+"/big", 16)
	assert.Error(t, err)

	_, err = GetBytes(context.Background(), client, srv.URL+"/missing", 16)
	assert.Error(t, err)
}

func TestGetBytesRejectsScheme(t *testing.T) {
	for _, u := range []string{"file:///etc/passwd", "gopher://x/", "ftp://example.com/a.png"} {
		_, err := GetBytes(context.Background(), PublicClient(time.Second), u, 16)
		assert.ErrorIs(t, err, ErrUnsupportedURL, u)
	}
}

func TestPublicClientRefusesLoopback(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte("secret"))
	}))
	defer srv.Close()

	_, err := GetBytes(context.Background(), PublicClient(time.Second), srv.URL+"/latest/meta-data/iam", 16)
	assert.ErrorIs(t, err, ErrForbiddenAddress)
	assert.Zero(t, hits.Load())
}

func TestRefusePrivate(t *testing.T) {
	for _, addr := range []string{
		"127.0.0.1:80", "[::1]:80", "10.1.2.3:80", "192.168.0.10:443",
		"172.16.5.4:80", "169.254.169.254:80", "0.0.0.0:80", "[fe80::1]:80",
	} {
		assert.ErrorIs(t, refusePrivate("tcp", addr, nil), ErrForbiddenAddress, addr)
	}
	assert.NoError(t, refusePrivate("tcp", "93.184.216.34:443", nil))
}

func TestWriteFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	path, err := WriteFile(dir, "a.png", []byte{1, 2, 3})
	require.NoError(t, err)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, b)
}
