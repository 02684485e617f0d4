// Package server exposes lead magnet generation over HTTP.
package server

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/singleflight"

	"github.com/lvillar/leadmagnet/autofill"
	"github.com/lvillar/leadmagnet/form"
	"github.com/lvillar/leadmagnet/gate"
	"github.com/lvillar/leadmagnet/internal/logger"
	"github.com/lvillar/leadmagnet/render"
	"github.com/lvillar/leadmagnet/whop"
)

const (
	maxBodyBytes    = 1 << 20
	autofillTimeout = 60 * time.Second
)

// Deps are the collaborators a Server is built from. Autofill may be nil,
// in which case the autofill route reports the service as not configured.
type Deps struct {
	Registry     *render.Registry
	Autofill     *autofill.Client
	Usage        gate.Consumer
	Verifier     whop.Verifier
	Log          *logger.Logger
	AllowOrigins []string
}

// Server is the HTTP API.
type Server struct {
	engine   *gin.Engine
	registry *render.Registry
	autofill *autofill.Client
	usage    gate.Consumer
	log      *logger.Logger
	group    singleflight.Group
}

// New builds the router.
func New(d Deps) *Server {
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	s := &Server{
		engine:   gin.New(),
		registry: d.Registry,
		autofill: d.Autofill,
		usage:    d.Usage,
		log:      d.Log,
	}

	r := s.engine
	r.Use(gin.Recovery())
	r.Use(corsMiddleware(d.AllowOrigins))
	r.Use(session())
	r.Use(requestLogger(d.Log))

	r.GET("/", s.health)

	api := r.Group("/api")
	{
		api.GET("/magnets", s.listTypes)
		api.GET("/session", s.sessionStatus)
		api.POST("/magnets/:type/validate", s.validate)
		api.POST("/magnets/:type/autofill", s.autofillForm)
		api.POST("/magnets/:type/generate", s.generate)

		unlock := func(c *gin.Context, _ string) error {
			return s.usage.MarkPaid(c.Request.Context(), sessionID(c))
		}
		api.POST("/verify-whop", whop.NewHandler(d.Verifier, unlock, d.Log).Verify)
	}
	return s
}

// Handler returns the server as an http.Handler.
func (s *Server) Handler() http.Handler { return s.engine }

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		s.log.Info("server listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "BuildLead API running",
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
	})
}

type typeInfo struct {
	ID            form.Type       `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Formats       []render.Format `json:"formats"`
	DefaultFormat render.Format   `json:"defaultFormat"`
}

func (s *Server) listTypes(c *gin.Context) {
	types := make([]typeInfo, 0, len(form.Types))
	for _, t := range form.Types {
		types = append(types, typeInfo{
			ID:            t,
			Name:          t.Name(),
			Description:   t.Description(),
			Formats:       s.registry.Formats(t),
			DefaultFormat: render.DefaultFormat(t),
		})
	}
	c.JSON(http.StatusOK, gin.H{"types": types, "niches": form.Niches})
}

func (s *Server) sessionStatus(c *gin.Context) {
	st, err := s.usage.Status(c.Request.Context(), sessionID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"sessionId":     sessionID(c),
		"usesRemaining": st.Remaining,
		"paid":          st.Paid,
	})
}

// readForm decodes the request body into a form of the path's type.
func readForm(c *gin.Context) (form.State, bool) {
	t, err := form.ParseType(c.Param("type"))
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes))
	if err != nil {
		badRequest(c, fmt.Errorf("reading body: %w", err))
		return nil, false
	}
	st, err := form.Unmarshal(t, body)
	if err != nil {
		badRequest(c, err)
		return nil, false
	}
	return st, true
}

func (s *Server) validate(c *gin.Context) {
	st, ok := readForm(c)
	if !ok {
		return
	}
	if err := form.Validate(st); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": true})
}

func (s *Server) autofillForm(c *gin.Context) {
	st, ok := readForm(c)
	if !ok {
		return
	}
	if s.autofill == nil {
		respondErrorWithForm(c, autofill.ErrUnavailable, st)
		return
	}
	key, err := autofillKey(sessionID(c), st)
	if err != nil {
		respondErrorWithForm(c, err, st)
		return
	}
	v, err, shared := s.group.Do(key, func() (any, error) {
		// callers sharing this result must not fail because the first one left
		ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request.Context()), autofillTimeout)
		defer cancel()
		return s.autofill.Autofill(ctx, st)
	})
	if err != nil {
		respondErrorWithForm(c, err, st)
		return
	}
	if shared {
		s.log.Debug("autofill result shared", "session_id", sessionID(c), "type", st.Type())
	}
	c.JSON(http.StatusOK, gin.H{"form": v.(form.State)})
}

// autofillKey identifies one autofill request: the session, the type and a
// digest of the submitted form. Only identical submissions share a result.
func autofillKey(session string, st form.State) (string, error) {
	data, err := json.Marshal(st)
	if err != nil {
		return "", fmt.Errorf("encoding form: %w", err)
	}
	sum := sha256.Sum256(data)
	return session + "/" + string(st.Type()) + "/" + hex.EncodeToString(sum[:]), nil
}

func (s *Server) generate(c *gin.Context) {
	st, ok := readForm(c)
	if !ok {
		return
	}
	format, err := render.ParseFormat(c.DefaultQuery("format", string(render.DefaultFormat(st.Type()))))
	if err != nil {
		respondError(c, err)
		return
	}

	var artifact *render.Artifact
	err = gate.Spend(c.Request.Context(), s.usage, sessionID(c), func() error {
		a, err := s.registry.Render(st, format)
		artifact = a
		return err
	})
	if err != nil {
		respondError(c, err)
		return
	}
	s.log.Info("artifact generated",
		"session_id", sessionID(c),
		"type", st.Type(),
		"format", format,
		"bytes", len(artifact.Data))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", artifact.Filename))
	c.Data(http.StatusOK, artifact.ContentType, artifact.Data)
}
