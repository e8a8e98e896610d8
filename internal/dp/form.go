package dp

import (
	"strings"

	imagepkg "github.com/dlcf-orozo/orozo-dp/internal/image"
)

// Prefill carries profile values used to seed a new form. It is passed in
// explicitly; nothing is read from ambient session state.
type Prefill struct {
	FullName     string          `json:"full_name" validate:"max=80"`
	ChurchBranch string          `json:"church_branch" validate:"max=80"`
	Avatar       *imagepkg.Photo `json:"-"`
}

// Form is the state of one display-picture editing session.
type Form struct {
	FullName     string          `json:"full_name"`
	ChurchBranch string          `json:"church_branch"`
	Template     int             `json:"template"`
	Frame        imagepkg.Frame  `json:"frame"`
	QRText       string          `json:"qr_text,omitempty"`
	Photo        *imagepkg.Photo `json:"-"`
}

// NewForm returns a form seeded from p with the first template and a circle frame.
func NewForm(p Prefill) Form {
	return Form{
		FullName:     strings.TrimSpace(p.FullName),
		ChurchBranch: strings.TrimSpace(p.ChurchBranch),
		Template:     0,
		Frame:        imagepkg.FrameCircle,
		Photo:        p.Avatar,
	}
}

// HasPhoto reports whether an image has been uploaded.
func (f Form) HasPhoto() bool {
	return f.Photo != nil
}

// Patch is a set of field edits. Nil fields are left unchanged.
type Patch struct {
	FullName     *string         `json:"full_name" validate:"omitempty,max=80"`
	ChurchBranch *string         `json:"church_branch" validate:"omitempty,max=80"`
	Template     *int            `json:"template" validate:"omitempty,min=0"`
	Frame        *imagepkg.Frame `json:"frame" validate:"omitempty,oneof=circle square"`
	QRText       *string         `json:"qr_text" validate:"omitempty,max=512"`
}

func (p Patch) apply(f Form) Form {
	if p.FullName != nil {
		f.FullName = strings.TrimSpace(*p.FullName)
	}
	if p.ChurchBranch != nil {
		f.ChurchBranch = strings.TrimSpace(*p.ChurchBranch)
	}
	if p.Template != nil {
		f.Template = *p.Template
	}
	if p.Frame != nil {
		f.Frame = *p.Frame
	}
	if p.QRText != nil {
		f.QRText = strings.TrimSpace(*p.QRText)
	}
	return f
}
