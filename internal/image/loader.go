package imagepkg

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/webp"

	"github.com/dlcf-orozo/orozo-dp/internal/util"
)

const (
	// DefaultMaxBytes matches the "PNG, JPG up to 10MB" upload hint.
	DefaultMaxBytes     = 10 << 20
	DefaultFetchTimeout = 10 * time.Second
	// DefaultMaxPixels bounds the decoded size of an upload (40 MP).
	DefaultMaxPixels = 40_000_000
)

var (
	ErrDecode   = errors.New("image could not be decoded")
	ErrTooLarge = errors.New("image exceeds upload limit")
)

// Photo is a decoded user image together with its data URL encoding.
type Photo struct {
	Image   image.Image
	MIME    string
	DataURL string
}

// Loader turns uploaded bytes, data URLs or remote URLs into photos.
type Loader struct {
	MaxBytes     int64
	MaxPixels    int64
	FetchTimeout time.Duration
	// Client fetches remote images. NewLoader sets one that refuses
	// loopback, private and link-local addresses.
	Client *http.Client
}

func NewLoader(maxBytes int64, fetchTimeout time.Duration) *Loader {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if fetchTimeout <= 0 {
		fetchTimeout = DefaultFetchTimeout
	}
	return &Loader{
		MaxBytes:     maxBytes,
		MaxPixels:    DefaultMaxPixels,
		FetchTimeout: fetchTimeout,
		Client:       util.PublicClient(fetchTimeout),
	}
}

// LoadImage reads a single selected file and decodes it.
func (l *Loader) LoadImage(r io.Reader) (*Photo, error) {
	b, err := io.ReadAll(io.LimitReader(r, l.MaxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return l.LoadBytes(b)
}

// LoadBytes decodes an in-memory file.
func (l *Loader) LoadBytes(b []byte) (*Photo, error) {
	if int64(len(b)) > l.MaxBytes {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, l.MaxBytes)
	}
	if len(b) == 0 {
		return nil, fmt.Errorf("%w: empty file", ErrDecode)
	}
	mt := mimetype.Detect(b)
	if !strings.HasPrefix(mt.String(), "image/") {
		return nil, fmt.Errorf("%w: not image data (%s)", ErrDecode, mt.String())
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if l.MaxPixels > 0 && int64(cfg.Width)*int64(cfg.Height) > l.MaxPixels {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrTooLarge, cfg.Width, cfg.Height, l.MaxPixels)
	}
	img, err := imaging.Decode(bytes.NewReader(b), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("%w: zero-sized image", ErrDecode)
	}
	return &Photo{
		Image:   img,
		MIME:    mt.String(),
		DataURL: "data:" + mt.String() + ";base64," + base64.StdEncoding.EncodeToString(b),
	}, nil
}

// LoadDataURL decodes a base64 data URL such as a browser FileReader produces.
func (l *Loader) LoadDataURL(s string) (*Photo, error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return nil, fmt.Errorf("%w: not a data URL", ErrDecode)
	}
	header, payload, ok := strings.Cut(rest, ",")
	if !ok || !strings.HasSuffix(header, ";base64") {
		return nil, fmt.Errorf("%w: data URL is not base64 encoded", ErrDecode)
	}
	if int64(base64.StdEncoding.DecodedLen(len(payload))) > l.MaxBytes+2 {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, l.MaxBytes)
	}
	b, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return l.LoadBytes(b)
}

// LoadURL fetches a remote image, e.g. a stored profile avatar.
func (l *Loader) LoadURL(ctx context.Context, url string) (*Photo, error) {
	b, err := util.GetBytes(ctx, l.Client, url, l.MaxBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return l.LoadBytes(b)
}
