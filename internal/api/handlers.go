package api

import (
	"errors"
	"mime"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/dlcf-orozo/orozo-dp/internal/branches"
	"github.com/dlcf-orozo/orozo-dp/internal/dp"
	imagepkg "github.com/dlcf-orozo/orozo-dp/internal/image"
	"github.com/dlcf-orozo/orozo-dp/internal/templates"
)

// Handler serves the display-picture API.
type Handler struct {
	Store    *dp.Store
	Loader   *imagepkg.Loader
	Sharer   dp.Sharer
	Branches []branches.Branch
}

type sessionView struct {
	ID           string  `json:"id"`
	State        string  `json:"state"`
	Form         dp.Form `json:"form"`
	HasPhoto     bool    `json:"has_photo"`
	PhotoDataURL string  `json:"photo_data_url,omitempty"`
}

func viewOf(s *dp.Session) sessionView {
	f := s.Form()
	v := sessionView{ID: s.ID, State: s.State().String(), Form: f, HasPhoto: f.HasPhoto()}
	if f.Photo != nil {
		v.PhotoDataURL = f.Photo.DataURL
	}
	return v
}

// writeError maps domain errors onto HTTP statuses.
func writeError(c *gin.Context, err error) {
	_ = c.Error(err)
	var verr *dp.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "fields": verr.Fields})
	case errors.Is(err, templates.ErrOutOfRange):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, dp.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, imagepkg.ErrTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
	case errors.Is(err, imagepkg.ErrDecode):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, dp.ErrExportInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, dp.ErrShareUnsupported):
		c.JSON(http.StatusNotImplemented, gin.H{"error": err.Error()})
	case errors.Is(err, dp.ErrExportFailed):
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "retry": true})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func (h *Handler) session(c *gin.Context) (*dp.Session, bool) {
	s, err := h.Store.Get(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return nil, false
	}
	return s, true
}

// health
func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) listTemplates(c *gin.Context) {
	type item struct {
		Index int `json:"index"`
		templates.Theme
	}
	list := h.Store.Compositor().Templates().List()
	out := make([]item, len(list))
	for i, t := range list {
		out[i] = item{Index: i, Theme: t}
	}
	c.JSON(http.StatusOK, gin.H{"count": len(out), "templates": out})
}

func (h *Handler) listBranches(c *gin.Context) {
	var opt branches.FilterOptions
	if err := c.ShouldBindQuery(&opt); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	out := branches.Filter(h.Branches, opt)
	c.JSON(http.StatusOK, gin.H{"count": len(out), "branches": out})
}

func (h *Handler) createSession(c *gin.Context) {
	var req struct {
		dp.Prefill
		AvatarURL string `json:"avatar_url"`
	}
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}
	}
	// avatar prefill is best-effort
	if req.AvatarURL != "" {
		p, err := h.Loader.LoadURL(c.Request.Context(), req.AvatarURL)
		if err != nil {
			log.Warn().Err(err).Str("url", req.AvatarURL).Msg("avatar prefill skipped")
		} else {
			req.Avatar = p
		}
	}
	s, err := h.Store.Create(req.Prefill)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, viewOf(s))
}

func (h *Handler) getSession(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, viewOf(s))
}

func (h *Handler) patchSession(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var p dp.Patch
	if err := c.ShouldBindJSON(&p); err != nil {
		bindError(c, err)
		return
	}
	if _, err := s.Apply(p); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, viewOf(s))
}

func (h *Handler) deleteSession(c *gin.Context) {
	if !h.Store.Delete(c.Param("id")) {
		writeError(c, dp.ErrSessionNotFound)
		return
	}
	c.Status(http.StatusNoContent)
}

// uploadPhoto accepts a multipart "photo" file or a JSON {"data_url": ...}.
func (h *Handler) uploadPhoto(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var (
		photo *imagepkg.Photo
		err   error
	)
	fh, ferr := c.FormFile("photo")
	switch {
	case ferr == nil:
		f, oerr := fh.Open()
		if oerr != nil {
			writeError(c, oerr)
			return
		}
		defer f.Close()
		photo, err = h.Loader.LoadImage(f)
	case isTooLarge(ferr):
		bindError(c, ferr)
		return
	case errors.Is(ferr, http.ErrNotMultipart):
		var req struct {
			DataURL string `json:"data_url" binding:"required"`
		}
		if berr := c.ShouldBindJSON(&req); berr != nil {
			if isTooLarge(berr) {
				bindError(c, berr)
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": "expected multipart field \"photo\" or JSON data_url"})
			return
		}
		photo, err = h.Loader.LoadDataURL(req.DataURL)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": ferr.Error()})
		return
	}
	if err != nil {
		// the previous photo stays in place
		writeError(c, err)
		return
	}
	s.SetPhoto(photo)
	c.JSON(http.StatusOK, viewOf(s))
}

func (h *Handler) clearPhoto(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	s.SetPhoto(nil)
	c.JSON(http.StatusOK, viewOf(s))
}

func (h *Handler) preview(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	b, err := s.Preview()
	if err != nil {
		writeError(c, err)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", b)
}

func (h *Handler) download(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	d, err := s.Download(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": d.Filename}))
	c.Data(http.StatusOK, "image/png", d.PNG)
}

func (h *Handler) share(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	if err := s.Share(c.Request.Context(), h.Sharer); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "shared"})
}

// qr endpoint returns a PNG of a QR for "text" query param
func qrHandler(c *gin.Context) {
	text := c.Query("text")
	if text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}
	size := 400
	if sizeStr := c.Query("size"); sizeStr != "" {
		v, err := strconv.Atoi(sizeStr)
		if err != nil || v < 64 || v > 2048 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "size must be between 64 and 2048"})
			return
		}
		size = v
	}
	b, err := imagepkg.GenerateQRPNG(text, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "image/png", b)
}
