package imagepkg

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"
)

// Frame is the clipping shape applied to the photo.
type Frame string

const (
	FrameCircle Frame = "circle"
	FrameSquare Frame = "square"
)

func (f Frame) Valid() bool {
	return f == FrameCircle || f == FrameSquare
}

const (
	// PreviewSize is the edge of the square canvas at scale 1.
	PreviewSize = 540

	PlaceholderName   = "Your Name"
	PlaceholderBranch = "Church Branch"
	DefaultEventLabel = "DECEMBER RETREAT 2024"
	DefaultBadge      = "DEEPER LIFE"
)

// layout constants, in preview pixels
const (
	padding     = 32.0
	photoSize   = 192.0
	photoGap    = 24.0
	nameSize    = 24.0
	nameLine    = 32.0
	nameGap     = 8.0
	branchSize  = 16.0
	branchLine  = 24.0
	branchGap   = 16.0
	pillHeight  = 40.0
	pillPadX    = 24.0
	pillText    = 16.0
	badgeInset  = 16.0
	badgeBox    = 32.0
	badgeText   = 12.0
	qrBox       = 72.0
	qrPad       = 6.0
	squareRound = 24.0
	borderWidth = 4.0
)

// Layout is everything the compositor draws. It carries resolved values
// only, so rendering has no lookups and no hidden state.
type Layout struct {
	Name       string
	Branch     string
	Start      color.Color
	End        color.Color
	Photo      image.Image
	Frame      Frame
	EventLabel string
	Badge      string
	QR         image.Image
}

// Render draws the layout onto a square canvas of PreviewSize*scale pixels.
func Render(l Layout, scale float64) (image.Image, error) {
	if scale <= 0 {
		return nil, fmt.Errorf("invalid scale %v", scale)
	}
	if !l.Frame.Valid() {
		return nil, fmt.Errorf("invalid frame %q", l.Frame)
	}
	px := func(v float64) float64 { return v * scale }
	size := int(px(PreviewSize))
	dc := gg.NewContext(size, size)
	full := float64(size)

	grad := gg.NewLinearGradient(0, 0, full, full)
	grad.AddColorStop(0, l.Start)
	grad.AddColorStop(1, l.End)
	dc.SetFillStyle(grad)
	dc.DrawRectangle(0, 0, full, full)
	dc.Fill()

	total := photoSize + photoGap + nameLine + nameGap + branchLine + branchGap + pillHeight
	top := (PreviewSize - total) / 2
	cx := PreviewSize / 2.0
	photoCY := top + photoSize/2
	nameCY := top + photoSize + photoGap + nameLine/2
	branchCY := nameCY + nameLine/2 + nameGap + branchLine/2
	pillCY := branchCY + branchLine/2 + branchGap + pillHeight/2

	drawPhoto(dc, l, px(cx), px(photoCY), px(photoSize), scale)

	faces, err := openFaces(scale)
	if err != nil {
		return nil, err
	}
	defer faces.close()

	maxText := px(PreviewSize - 2*padding)
	dc.SetColor(color.White)
	dc.SetFontFace(faces.name)
	dc.DrawStringAnchored(fit(dc, fallback(l.Name, PlaceholderName), maxText), px(cx), px(nameCY), 0.5, 0.35)

	dc.SetRGBA(1, 1, 1, 0.9)
	dc.SetFontFace(faces.branch)
	dc.DrawStringAnchored(fit(dc, fallback(l.Branch, PlaceholderBranch), maxText), px(cx), px(branchCY), 0.5, 0.35)

	label := fallback(l.EventLabel, DefaultEventLabel)
	dc.SetFontFace(faces.pill)
	lw, _ := dc.MeasureString(label)
	pw := lw + px(2*pillPadX)
	dc.SetRGBA(1, 1, 1, 0.2)
	dc.DrawRoundedRectangle(px(cx)-pw/2, px(pillCY-pillHeight/2), pw, px(pillHeight), px(pillHeight/2))
	dc.Fill()
	dc.SetColor(color.White)
	dc.DrawStringAnchored(label, px(cx), px(pillCY), 0.5, 0.35)

	drawBadge(dc, fallback(l.Badge, DefaultBadge), faces.badge, scale)

	if l.QR != nil {
		x := px(PreviewSize - badgeInset - qrBox)
		y := x
		dc.SetColor(color.White)
		dc.DrawRoundedRectangle(x, y, px(qrBox), px(qrBox), px(qrPad))
		dc.Fill()
		inner := int(px(qrBox - 2*qrPad))
		q := imaging.Resize(l.QR, inner, inner, imaging.NearestNeighbor)
		dc.DrawImage(q, int(x+px(qrPad)), int(y+px(qrPad)))
	}

	return dc.Image(), nil
}

// EncodePNG renders the layout and encodes it as PNG.
func EncodePNG(l Layout, scale float64) ([]byte, image.Rectangle, error) {
	img, err := Render(l, scale)
	if err != nil {
		return nil, image.Rectangle{}, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, image.Rectangle{}, err
	}
	return buf.Bytes(), img.Bounds(), nil
}

func framePath(dc *gg.Context, frame Frame, cx, cy, side, scale float64) {
	if frame == FrameCircle {
		dc.DrawCircle(cx, cy, side/2)
		return
	}
	dc.DrawRoundedRectangle(cx-side/2, cy-side/2, side, side, squareRound*scale)
}

func drawPhoto(dc *gg.Context, l Layout, cx, cy, side, scale float64) {
	if l.Photo != nil {
		n := int(side)
		fitted := imaging.Fill(l.Photo, n, n, imaging.Center, imaging.Lanczos)
		framePath(dc, l.Frame, cx, cy, side, scale)
		dc.Clip()
		dc.DrawImageAnchored(fitted, int(cx), int(cy), 0.5, 0.5)
		dc.ResetClip()
	} else {
		framePath(dc, l.Frame, cx, cy, side, scale)
		dc.SetRGBA(1, 1, 1, 0.2)
		dc.Fill()
		drawCamera(dc, cx, cy, scale)
	}
	framePath(dc, l.Frame, cx, cy, side, scale)
	dc.SetRGBA(1, 1, 1, 0.3)
	dc.SetLineWidth(borderWidth * scale)
	dc.Stroke()
}

// drawCamera draws the placeholder glyph shown until a photo is uploaded.
func drawCamera(dc *gg.Context, cx, cy, scale float64) {
	w, h := 56*scale, 40*scale
	dc.SetRGBA(1, 1, 1, 0.6)
	dc.SetLineWidth(4 * scale)
	dc.DrawRoundedRectangle(cx-w/2, cy-h/2+4*scale, w, h, 6*scale)
	dc.Stroke()
	dc.DrawRectangle(cx-10*scale, cy-h/2-2*scale, 20*scale, 6*scale)
	dc.Fill()
	dc.DrawCircle(cx, cy+4*scale, 10*scale)
	dc.Stroke()
}

func drawBadge(dc *gg.Context, text string, face font.Face, scale float64) {
	x, y, box := badgeInset*scale, badgeInset*scale, badgeBox*scale
	dc.SetColor(color.White)
	dc.DrawRoundedRectangle(x, y, box, box, 4*scale)
	dc.Fill()
	dc.SetRGB255(0xef, 0x44, 0x44)
	dc.SetLineWidth(2 * scale)
	dc.DrawCircle(x+box/2, y+box/2, 11*scale)
	dc.Stroke()
	dc.SetColor(color.White)
	dc.SetFontFace(face)
	dc.DrawStringAnchored(text, x+box+8*scale, y+box/2, 0, 0.35)
}

type faceSet struct {
	name, branch, pill, badge font.Face
}

func openFaces(scale float64) (*faceSet, error) {
	var fs faceSet
	specs := []struct {
		dst  *font.Face
		bold bool
		size float64
	}{
		{&fs.name, true, nameSize},
		{&fs.branch, false, branchSize},
		{&fs.pill, true, pillText},
		{&fs.badge, true, badgeText},
	}
	for _, s := range specs {
		f, err := newFace(s.bold, s.size*scale)
		if err != nil {
			fs.close()
			return nil, fmt.Errorf("font face: %w", err)
		}
		*s.dst = f
	}
	return &fs, nil
}

func (fs *faceSet) close() {
	for _, f := range []font.Face{fs.name, fs.branch, fs.pill, fs.badge} {
		if f != nil {
			f.Close()
		}
	}
}

func fallback(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// fit shortens s with an ellipsis until it is no wider than limit.
func fit(dc *gg.Context, s string, limit float64) string {
	if w, _ := dc.MeasureString(s); w <= limit {
		return s
	}
	r := []rune(s)
	for len(r) > 1 {
		r = r[:len(r)-1]
		t := string(r) + "…"
		if w, _ := dc.MeasureString(t); w <= limit {
			return t
		}
	}
	return string(r)
}
