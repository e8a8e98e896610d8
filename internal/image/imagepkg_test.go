package imagepkg

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dlcf-orozo/orozo-dp/internal/util"
)

func samplePNG(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := imaging.New(w, h, c)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func baseLayout() Layout {
	return Layout{
		Start: color.NRGBA{0x3b, 0x82, 0xf6, 0xff},
		End:   color.NRGBA{0x1d, 0x4e, 0xd8, 0xff},
		Frame: FrameCircle,
	}
}

func samePixels(a, b image.Image) bool {
	if a.Bounds() != b.Bounds() {
		return false
	}
	na, nb := imaging.Clone(a), imaging.Clone(b)
	return bytes.Equal(na.Pix, nb.Pix)
}

func TestLoadImage(t *testing.T) {
	l := NewLoader(0, 0)
	p, err := l.LoadImage(bytes.NewReader(samplePNG(t, 8, 6, color.White)))
	require.NoError(t, err)
	assert.Equal(t, "image/png", p.MIME)
	assert.True(t, strings.HasPrefix(p.DataURL, "data:image/png;base64,"))
	assert.Equal(t, image.Rect(0, 0, 8, 6), p.Image.Bounds())
}

func TestLoadImageDecodeErrors(t *testing.T) {
	l := NewLoader(0, 0)

	_, err := l.LoadBytes([]byte("definitely not an image"))
	assert.ErrorIs(t, err, ErrDecode)

	_, err = l.LoadBytes(nil)
	assert.ErrorIs(t, err, ErrDecode)

	// PNG signature followed by garbage sniffs as image/png but cannot decode.
	corrupt := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0xff}, 32)...)
	_, err = l.LoadBytes(corrupt)
	assert.ErrorIs(t, err, ErrDecode)
}

func TestLoadImageTooLarge(t *testing.T) {
	l := NewLoader(16, 0)
	_, err := l.LoadImage(bytes.NewReader(samplePNG(t, 32, 32, color.Black)))
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestLoadDataURLRoundTrip(t *testing.T) {
	l := NewLoader(0, 0)
	raw := samplePNG(t, 4, 4, color.Black)
	p, err := l.LoadDataURL("data:image/png;base64," + base64.StdEncoding.EncodeToString(raw))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 4, 4), p.Image.Bounds())

	for _, bad := range []string{"", "http://x/y.png", "data:image/png,plain", "data:image/png;base64,!!!"} {
		_, err := l.LoadDataURL(bad)
		assert.ErrorIs(t, err, ErrDecode, bad)
	}
}

func TestLoadURL(t *testing.T) {
	raw := samplePNG(t, 10, 10, color.White)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/avatar.png" {
			w.Write(raw)
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	l := NewLoader(0, 0)
	l.Client = srv.Client()
	p, err := l.LoadURL(context.Background(), srv.URL+"/avatar.png")
	require.NoError(t, err)
	assert.Equal(t, 10, p.Image.Bounds().Dx())

	_, err = l.LoadURL(context.Background(), srv.URL+"/missing.png")
	assert.ErrorIs(t, err, ErrDecode)
}

func TestLoadURLRefusesInternalHosts(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))
	defer srv.Close()

	l := NewLoader(0, 0)
	_, err := l.LoadURL(context.Background(), srv.URL+"/latest/meta-data/iam")
	assert.ErrorIs(t, err, ErrDecode)
	assert.ErrorIs(t, err, util.ErrForbiddenAddress)
	assert.Zero(t, hits)

	_, err = l.LoadURL(context.Background(), "file:///etc/passwd")
	assert.ErrorIs(t, err, util.ErrUnsupportedURL)
}

// pngHeader returns a PNG that declares w x h pixels but carries only its
// IHDR chunk, enough for DecodeConfig.
func pngHeader(w, h uint32) []byte {
	var buf bytes.Buffer
	buf.WriteString("\x89PNG\r\n\x1a\n")
	chunk := make([]byte, 0, 17)
	chunk = append(chunk, "IHDR"...)
	chunk = binary.BigEndian.AppendUint32(chunk, w)
	chunk = binary.BigEndian.AppendUint32(chunk, h)
	chunk = append(chunk, 8, 0, 0, 0, 0) // 8-bit grayscale
	binary.Write(&buf, binary.BigEndian, uint32(13))
	buf.Write(chunk)
	binary.Write(&buf, binary.BigEndian, crc32.ChecksumIEEE(chunk))
	return buf.Bytes()
}

func TestLoadImagePixelLimit(t *testing.T) {
	l := NewLoader(0, 0)
	huge := pngHeader(12000, 12000)
	require.Less(t, len(huge), 64)

	_, err := l.LoadBytes(huge)
	assert.ErrorIs(t, err, ErrTooLarge)

	l.MaxPixels = 100
	_, err = l.LoadBytes(samplePNG(t, 16, 16, color.Black))
	assert.ErrorIs(t, err, ErrTooLarge)

	_, err = l.LoadBytes(samplePNG(t, 10, 10, color.Black))
	assert.NoError(t, err)
}

func TestRenderDimensions(t *testing.T) {
	img, err := Render(baseLayout(), 1)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, PreviewSize, PreviewSize), img.Bounds())

	img, err = Render(baseLayout(), 2)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 2*PreviewSize, 2*PreviewSize), img.Bounds())
}

func TestRenderIsDeterministic(t *testing.T) {
	l := baseLayout()
	l.Name = "Grace Okafor"
	l.Branch = "Abuja"
	l.Photo = imaging.New(40, 30, color.NRGBA{200, 10, 10, 255})

	a, err := Render(l, 1)
	require.NoError(t, err)
	b, err := Render(l, 1)
	require.NoError(t, err)
	assert.True(t, samePixels(a, b))
}

func TestRenderPlaceholders(t *testing.T) {
	empty, err := Render(baseLayout(), 1)
	require.NoError(t, err)

	explicit := baseLayout()
	explicit.Name = PlaceholderName
	explicit.Branch = PlaceholderBranch
	explicit.EventLabel = DefaultEventLabel
	withText, err := Render(explicit, 1)
	require.NoError(t, err)
	assert.True(t, samePixels(empty, withText))

	withPhoto := baseLayout()
	withPhoto.Photo = imaging.New(20, 20, color.Black)
	photo, err := Render(withPhoto, 1)
	require.NoError(t, err)
	assert.False(t, samePixels(empty, photo), "placeholder glyph should differ from an uploaded photo")
}

func TestRenderFrameShapes(t *testing.T) {
	circle := baseLayout()
	circle.Photo = imaging.New(20, 20, color.Black)
	square := circle
	square.Frame = FrameSquare

	a, err := Render(circle, 1)
	require.NoError(t, err)
	b, err := Render(square, 1)
	require.NoError(t, err)
	assert.False(t, samePixels(a, b))

	// Just inside the slot corner: covered by the square, outside the circle.
	top := (PreviewSize - (photoSize + photoGap + nameLine + nameGap + branchLine + branchGap + pillHeight)) / 2
	x := int(PreviewSize/2 - photoSize/2 + 12)
	y := int(top + 12)
	sr, sg, sb, _ := b.At(x, y).RGBA()
	assert.Equal(t, [3]uint32{0, 0, 0}, [3]uint32{sr >> 8, sg >> 8, sb >> 8})
	cr, _, _, _ := a.At(x, y).RGBA()
	assert.NotZero(t, cr>>8)
}

func TestRenderRejectsBadInput(t *testing.T) {
	_, err := Render(baseLayout(), 0)
	assert.Error(t, err)

	l := baseLayout()
	l.Frame = "hexagon"
	_, err = Render(l, 1)
	assert.Error(t, err)
}

func TestEncodePNG(t *testing.T) {
	b, bounds, err := EncodePNG(baseLayout(), 2)
	require.NoError(t, err)
	assert.Equal(t, 2*PreviewSize, bounds.Dx())

	img, err := png.Decode(bytes.NewReader(b))
	require.NoError(t, err)
	assert.Equal(t, bounds, img.Bounds())
}

func TestRenderWithQR(t *testing.T) {
	q, err := GenerateQRImage("https://dlcf.example/orozo", 128)
	require.NoError(t, err)

	l := baseLayout()
	plain, err := Render(l, 1)
	require.NoError(t, err)
	l.QR = q
	withQR, err := Render(l, 1)
	require.NoError(t, err)
	assert.False(t, samePixels(plain, withQR))
}

func TestGenerateQRPNG(t *testing.T) {
	b, err := GenerateQRPNG("deck:example", 200)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(b))
	require.NoError(t, err)
	assert.Equal(t, 200, img.Bounds().Dx())
}

func TestFitEllipsizes(t *testing.T) {
	face, err := newFace(true, nameSize)
	require.NoError(t, err)
	defer face.Close()
	dc := gg.NewContext(10, 10)
	dc.SetFontFace(face)

	assert.Equal(t, "Ada", fit(dc, "Ada", 200))

	long := strings.Repeat("Oluwaseun ", 10)
	got := fit(dc, long, 200)
	assert.True(t, strings.HasSuffix(got, "…"))
	w, _ := dc.MeasureString(got)
	assert.LessOrEqual(t, w, 200.0)
}
