package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/discipleshipbydesign/blueprint/internal/blueprint"
	"github.com/discipleshipbydesign/blueprint/internal/ctxutil"
	"github.com/discipleshipbydesign/blueprint/internal/intake"
	"github.com/discipleshipbydesign/blueprint/internal/logger"
	"github.com/discipleshipbydesign/blueprint/internal/pipeline"
	"github.com/discipleshipbydesign/blueprint/internal/store"
)

// maxIntakeBytes bounds a generate request body.
const maxIntakeBytes = 64 << 10

type handlers struct {
	gen        Generator
	blueprints store.BlueprintRepo
	envCheck   func() map[string]bool
	ready      func(context.Context) error
	log        *logger.Logger
}

type failureBody struct {
	Error         string              `json:"error"`
	Stage         pipeline.Stage      `json:"stage"`
	RequestID     string              `json:"requestId,omitempty"`
	Details       map[string][]string `json:"details,omitempty"`
	Raw           string              `json:"raw,omitempty"`
	CandidateKeys []string            `json:"candidateKeys,omitempty"`
	// Attempts holds every model call in order, each with its own raw output.
	Attempts []pipeline.Attempt `json:"attempts,omitempty"`
}

type blueprintBody struct {
	ID            string               `json:"id"`
	Title         string               `json:"title"`
	Role          intake.Role          `json:"role"`
	GroupName     string               `json:"groupName"`
	CreatedAt     time.Time            `json:"createdAt"`
	SchemaVersion string               `json:"schemaVersion"`
	Blueprint     *blueprint.Blueprint `json:"blueprint"`
}

func writeFailure(c *gin.Context, f *pipeline.Failure) {
	body := failureBody{
		Error:         f.Message,
		Stage:         f.Stage,
		RequestID:     f.RequestID,
		Raw:           f.Raw,
		CandidateKeys: f.CandidateKeys,
		Attempts:      f.Attempts,
	}
	if len(f.Violations) > 0 {
		body.Details = f.Violations.Map()
	}
	c.JSON(statusFor(f.Stage), body)
}

func (h *handlers) generate(c *gin.Context) {
	ctx := c.Request.Context()
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxIntakeBytes))
	if err != nil {
		writeFailure(c, &pipeline.Failure{
			Stage:     pipeline.StageIntakeValidate,
			Message:   "Invalid intake.",
			RequestID: ctxutil.RequestID(ctx),
			Err:       err,
		})
		return
	}

	res, err := h.gen.RunJSON(ctx, ctxutil.UserID(ctx), body)
	if err != nil {
		var f *pipeline.Failure
		if !errors.As(err, &f) {
			f = &pipeline.Failure{
				Stage:     pipeline.StageUnhandled,
				Message:   err.Error(),
				RequestID: ctxutil.RequestID(ctx),
				Err:       err,
			}
		}
		writeFailure(c, f)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": res.ID})
}

func (h *handlers) get(c *gin.Context) {
	ctx := c.Request.Context()
	rec, err := h.blueprints.Get(ctx, c.Param("id"))
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	case err != nil:
		h.log.Error("fetch blueprint failed", "id", c.Param("id"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load blueprint."})
		return
	}
	// Someone else's blueprint looks exactly like a missing one.
	if rec.OwnerID != ctxutil.UserID(ctx) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}
	c.JSON(http.StatusOK, blueprintBody{
		ID:            rec.ID,
		Title:         rec.Title,
		Role:          rec.Role,
		GroupName:     rec.GroupName,
		CreatedAt:     rec.CreatedAt,
		SchemaVersion: rec.SchemaVersion,
		Blueprint:     rec.Blueprint,
	})
}

func (h *handlers) list(c *gin.Context) {
	ctx := c.Request.Context()
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		limit = n
	}
	items, err := h.blueprints.ListByOwner(ctx, ctxutil.UserID(ctx), limit)
	if err != nil {
		h.log.Error("list blueprints failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list blueprints."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *handlers) envCheckHandler(c *gin.Context) {
	out := map[string]bool{}
	if h.envCheck != nil {
		out = h.envCheck()
	}
	c.JSON(http.StatusOK, out)
}

func (h *handlers) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *handlers) readyCheck(c *gin.Context) {
	if h.ready != nil {
		if err := h.ready(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
