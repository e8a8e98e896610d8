package dp

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"time"

	"github.com/rs/zerolog/log"

	imagepkg "github.com/dlcf-orozo/orozo-dp/internal/image"
	"github.com/dlcf-orozo/orozo-dp/internal/templates"
)

const (
	// ExportScale is the supersampling multiplier applied at export time.
	ExportScale = 2.0

	DefaultFilePrefix = "orozo-dp"
	DefaultShareTitle = "My DLCF OROZO Display Picture"
	DefaultShareText  = "Check out my display picture for the DLCF OROZO retreat!"

	qrSourceSize = 256
)

type Options struct {
	EventLabel string
	Badge      string
	FilePrefix string
	ShareTitle string
	ShareText  string
}

// Bitmap is an exported PNG. It is not retained after delivery.
type Bitmap struct {
	PNG    []byte
	Width  int
	Height int
}

// Download is an exported bitmap with its client file name.
type Download struct {
	Filename string
	Bitmap
}

type rasterizer func(l imagepkg.Layout, scale float64) ([]byte, image.Rectangle, error)

// Compositor resolves forms into layouts and renders them.
type Compositor struct {
	templates *templates.Registry
	opts      Options
	now       func() time.Time
	rasterize rasterizer
}

func NewCompositor(reg *templates.Registry, opts Options) *Compositor {
	if opts.FilePrefix == "" {
		opts.FilePrefix = DefaultFilePrefix
	}
	if opts.ShareTitle == "" {
		opts.ShareTitle = DefaultShareTitle
	}
	if opts.ShareText == "" {
		opts.ShareText = DefaultShareText
	}
	return &Compositor{
		templates: reg,
		opts:      opts,
		now:       time.Now,
		rasterize: imagepkg.EncodePNG,
	}
}

// Templates returns the registry the compositor resolves against.
func (c *Compositor) Templates() *templates.Registry {
	return c.templates
}

func (c *Compositor) layout(f Form) (imagepkg.Layout, error) {
	theme, err := c.templates.Resolve(f.Template)
	if err != nil {
		return imagepkg.Layout{}, err
	}
	start, end, err := theme.Colors()
	if err != nil {
		return imagepkg.Layout{}, err
	}
	l := imagepkg.Layout{
		Name:       f.FullName,
		Branch:     f.ChurchBranch,
		Start:      start,
		End:        end,
		Frame:      f.Frame,
		EventLabel: c.opts.EventLabel,
		Badge:      c.opts.Badge,
	}
	if f.Photo != nil {
		l.Photo = f.Photo.Image
	}
	if f.QRText != "" {
		q, err := imagepkg.GenerateQRImage(f.QRText, qrSourceSize)
		if err != nil {
			return imagepkg.Layout{}, fmt.Errorf("qr badge: %w", err)
		}
		l.QR = q
	}
	return l, nil
}

// Preview renders f at on-screen scale.
func (c *Compositor) Preview(f Form) (image.Image, error) {
	l, err := c.layout(f)
	if err != nil {
		return nil, err
	}
	return imagepkg.Render(l, 1)
}

// PreviewPNG renders f at on-screen scale and encodes it.
func (c *Compositor) PreviewPNG(f Form) ([]byte, error) {
	img, err := c.Preview(f)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// export rasterizes f at ExportScale. Every failure is reported as ErrExportFailed.
func (c *Compositor) export(ctx context.Context, f Form) (bm *Bitmap, err error) {
	defer func() {
		if r := recover(); r != nil {
			bm, err = nil, fmt.Errorf("%w: %v", ErrExportFailed, r)
		}
	}()
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExportFailed, err)
	}
	l, err := c.layout(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExportFailed, err)
	}
	start := time.Now()
	b, bounds, err := c.rasterize(l, ExportScale)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExportFailed, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExportFailed, err)
	}
	log.Debug().
		Int("width", bounds.Dx()).
		Int("bytes", len(b)).
		Dur("took", time.Since(start)).
		Msg("bitmap exported")
	return &Bitmap{PNG: b, Width: bounds.Dx(), Height: bounds.Dy()}, nil
}

func (c *Compositor) filename() string {
	return fmt.Sprintf("%s-%d.png", c.opts.FilePrefix, c.now().UnixMilli())
}
