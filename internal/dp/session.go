package dp

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	imagepkg "github.com/dlcf-orozo/orozo-dp/internal/image"
)

// State is the export state of a session.
type State int

const (
	Idle State = iota
	Exporting
)

func (s State) String() string {
	if s == Exporting {
		return "exporting"
	}
	return "idle"
}

// Session owns one Form. Edits apply immediately; at most one export runs
// at a time and works on a snapshot of the form taken when it starts.
type Session struct {
	ID string

	comp  *Compositor
	mu    sync.Mutex
	form  Form
	state State
}

// NewSession validates the prefill and returns an idle session.
func NewSession(id string, comp *Compositor, p Prefill) (*Session, error) {
	if err := validateStruct(p); err != nil {
		return nil, err
	}
	return &Session{ID: id, comp: comp, form: NewForm(p)}, nil
}

// Form returns a copy of the current form.
func (s *Session) Form() Form {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Apply validates and applies field edits. A rejected patch leaves the form unchanged.
func (s *Session) Apply(p Patch) (Form, error) {
	if err := validateStruct(p); err != nil {
		return Form{}, err
	}
	if p.Template != nil {
		if _, err := s.comp.templates.Resolve(*p.Template); err != nil {
			return Form{}, err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form = p.apply(s.form)
	return s.form, nil
}

// SetPhoto replaces the uploaded photo. Nil clears it.
func (s *Session) SetPhoto(p *imagepkg.Photo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form.Photo = p
}

// Preview renders the current form as a 1x PNG.
func (s *Session) Preview() ([]byte, error) {
	return s.comp.PreviewPNG(s.Form())
}

func (s *Session) begin() (Form, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == Exporting {
		return Form{}, ErrExportInProgress
	}
	s.state = Exporting
	return s.form, nil
}

func (s *Session) finish() {
	s.mu.Lock()
	s.state = Idle
	s.mu.Unlock()
}

// Export rasterizes the current form at 2x.
func (s *Session) Export(ctx context.Context) (*Bitmap, error) {
	f, err := s.begin()
	if err != nil {
		return nil, err
	}
	defer s.finish()
	bm, err := s.comp.export(ctx, f)
	if err != nil {
		log.Warn().Err(err).Str("session", s.ID).Msg("export failed")
	}
	return bm, err
}

// Download exports the form and names the file <prefix>-<unix millis>.png.
func (s *Session) Download(ctx context.Context) (*Download, error) {
	bm, err := s.Export(ctx)
	if err != nil {
		return nil, err
	}
	return &Download{Filename: s.comp.filename(), Bitmap: *bm}, nil
}

// Share exports the form and hands it to sh. A nil sharer means the host
// has no share capability.
func (s *Session) Share(ctx context.Context, sh Sharer) error {
	if sh == nil {
		return ErrShareUnsupported
	}
	d, err := s.Download(ctx)
	if err != nil {
		return err
	}
	payload := SharePayload{
		Title:    s.comp.opts.ShareTitle,
		Text:     s.comp.opts.ShareText,
		MIMEType: "image/png",
		Filename: d.Filename,
		Data:     d.PNG,
	}
	if err := sh.Share(ctx, payload); err != nil {
		return fmt.Errorf("share: %w", err)
	}
	return nil
}
