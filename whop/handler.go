package whop

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/singleflight"

	leadmagnet "github.com/lvillar/leadmagnet"
	"github.com/lvillar/leadmagnet/internal/logger"
)

// verifyTimeout bounds one shared upstream check.
const verifyTimeout = 15 * time.Second

type verifyRequest struct {
	UserID string `json:"userId"`
}

// VerifyResponse is the body of every verify reply.
type VerifyResponse struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// Handler serves POST /api/verify-whop.
type Handler struct {
	verifier Verifier
	onValid  func(c *gin.Context, userID string) error
	log      *logger.Logger
	group    singleflight.Group
}

// NewHandler creates a Handler. onValid runs after a successful
// verification, typically to unlock the caller's session; it may be nil.
func NewHandler(v Verifier, onValid func(c *gin.Context, userID string) error, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	return &Handler{verifier: v, onValid: onValid, log: log}
}

// Verify checks the posted user id. Concurrent checks for the same user
// share one upstream request.
func (h *Handler) Verify(c *gin.Context) {
	var req verifyRequest
	_ = c.ShouldBindJSON(&req)
	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		c.JSON(http.StatusOK, VerifyResponse{Error: "No user ID provided"})
		return
	}

	v, err, shared := h.group.Do(userID, func() (any, error) {
		// the first caller leaving must not fail the ones waiting on it
		ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request.Context()), verifyTimeout)
		defer cancel()
		return h.verifier.Verify(ctx, userID)
	})
	if shared {
		h.log.Debug("whop verification shared", "user_id", userID)
	}
	if err != nil {
		if errors.Is(err, leadmagnet.ErrNotConfigured) {
			h.log.Error("whop verification not configured")
			c.JSON(http.StatusInternalServerError, VerifyResponse{Error: "Server configuration error"})
			return
		}
		h.log.Error("whop verification failed", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, VerifyResponse{Error: "Verification failed"})
		return
	}

	valid := v.(bool)
	if valid && h.onValid != nil {
		if err := h.onValid(c, userID); err != nil {
			h.log.Error("unlocking session failed", "user_id", userID, "error", err)
			c.JSON(http.StatusInternalServerError, VerifyResponse{Error: "Verification failed"})
			return
		}
	}
	h.log.Info("whop verification", "user_id", userID, "valid", valid)
	c.JSON(http.StatusOK, VerifyResponse{Valid: valid})
}
