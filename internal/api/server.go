package api

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/dlcf-orozo/orozo-dp/internal/branches"
	"github.com/dlcf-orozo/orozo-dp/internal/config"
	"github.com/dlcf-orozo/orozo-dp/internal/dp"
	imagepkg "github.com/dlcf-orozo/orozo-dp/internal/image"
	"github.com/dlcf-orozo/orozo-dp/internal/logging"
	"github.com/dlcf-orozo/orozo-dp/internal/templates"
)

// NewHandler wires the stores and sinks described by cfg.
func NewHandler(cfg config.Config) (*Handler, error) {
	reg, err := templates.LoadFile(cfg.TemplatesFile)
	if err != nil {
		return nil, fmt.Errorf("templates: %w", err)
	}
	bs, err := branches.Load(cfg.BranchesFile)
	if err != nil {
		return nil, fmt.Errorf("branches: %w", err)
	}
	comp := dp.NewCompositor(reg, cfg.CompositorOptions())
	return &Handler{
		Store:    dp.NewStore(comp, cfg.MaxSessions, cfg.SessionTTL),
		Loader:   imagepkg.NewLoader(cfg.MaxUploadBytes, cfg.FetchTimeout),
		Sharer:   dp.NewSharer(cfg.ShareWebhookURL, cfg.FetchTimeout),
		Branches: bs,
	}, nil
}

// NewEngine returns a gin engine with logging, recovery and all routes.
func NewEngine(cfg config.Config) (*gin.Engine, error) {
	h, err := NewHandler(cfg)
	if err != nil {
		return nil, err
	}
	r := gin.New()
	r.Use(logging.Middleware(), gin.Recovery())
	// multipart overhead on top of the upload limit
	r.MaxMultipartMemory = cfg.MaxUploadBytes + 1<<20
	RegisterRoutes(r, h)
	return r, nil
}
