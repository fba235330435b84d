package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zulandar/launchpad/internal/app"
	"github.com/zulandar/launchpad/internal/auth"
	"github.com/zulandar/launchpad/internal/models"
	"github.com/zulandar/launchpad/internal/pipeline"
)

type handlers struct {
	reg *app.Registry
}

func registerRoutes(router *gin.Engine, h *handlers, user auth.Provider) {
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api", auth.Middleware(user))
	api.GET("/data", h.data)
	api.GET("/stages", h.stages)

	api.POST("/ideas", h.createIdea)
	api.PATCH("/ideas/:id", h.updateIdea)
	api.DELETE("/ideas/:id", h.deleteIdea)
	api.POST("/ideas/:id/promote", h.promote)
	api.POST("/ideas/:id/complete", h.completePipeline)
	api.POST("/ideas/:id/archive", h.archiveIdea)

	api.POST("/pipelines/:id/advance", h.advance)
	api.PATCH("/pipelines/:id", h.updateNotes)

	api.POST("/repeated", h.createRepeated)
	api.POST("/repeated/:id/complete", h.completeRepeated)
	api.PATCH("/repeated/:id", h.setRepeatedActive)
	api.DELETE("/repeated/:id", h.deleteRepeated)

	api.POST("/office", h.createOffice)
	api.POST("/office/:id/toggle", h.toggleOffice)
	api.DELETE("/office/:id", h.deleteOffice)

	api.POST("/regular", h.createRegular)
	api.POST("/regular/:id/toggle", h.toggleRegular)
	api.DELETE("/regular/:id", h.deleteRegular)

	api.GET("/sync/pending", h.pending)
	api.POST("/sync", h.sync)
}

// session returns the App for the request user.
func (h *handlers) session(c *gin.Context) *app.App {
	return h.reg.Get(c.Request.Context(), auth.CurrentUser(c))
}

// statusFor maps the error taxonomy to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrInvalidState), errors.Is(err, models.ErrOutOfRange), errors.Is(err, models.ErrConflict):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func writeError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}

// bind decodes the JSON body into v, reporting decode failures as
// validation errors.
func bind(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		writeError(c, fmt.Errorf("api: %w: %v", models.ErrValidation, err))
		return false
	}
	return true
}

func (h *handlers) data(c *gin.Context) {
	c.JSON(http.StatusOK, h.session(c).Snapshot())
}

func (h *handlers) stages(c *gin.Context) {
	c.JSON(http.StatusOK, models.StageCatalog)
}

type ideaRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    string   `json:"priority"`
	Tags        []string `json:"tags"`
}

func (r ideaRequest) fields() pipeline.IdeaFields {
	return pipeline.IdeaFields{Title: r.Title, Description: r.Description, Priority: r.Priority, Tags: r.Tags}
}

func (h *handlers) createIdea(c *gin.Context) {
	var req ideaRequest
	if !bind(c, &req) {
		return
	}
	idea, err := h.session(c).CreateIdea(c.Request.Context(), req.fields())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, idea)
}

func (h *handlers) updateIdea(c *gin.Context) {
	var req ideaRequest
	if !bind(c, &req) {
		return
	}
	idea, err := h.session(c).UpdateIdea(c.Request.Context(), c.Param("id"), req.fields())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, idea)
}

func (h *handlers) deleteIdea(c *gin.Context) {
	h.session(c).DeleteIdea(c.Request.Context(), c.Param("id"))
	c.Status(http.StatusNoContent)
}

func (h *handlers) promote(c *gin.Context) {
	idea, p, err := h.session(c).PromoteToPipeline(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"idea": idea, "pipeline": p})
}

func (h *handlers) completePipeline(c *gin.Context) {
	idea, err := h.session(c).CompletePipeline(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, idea)
}

func (h *handlers) archiveIdea(c *gin.Context) {
	idea, err := h.session(c).ArchiveIdea(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, idea)
}

func (h *handlers) advance(c *gin.Context) {
	var req struct {
		Direction int `json:"direction"`
	}
	if !bind(c, &req) {
		return
	}
	p, err := h.session(c).AdvanceStage(c.Request.Context(), c.Param("id"), req.Direction)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *handlers) updateNotes(c *gin.Context) {
	var req struct {
		Notes string `json:"notes"`
	}
	if !bind(c, &req) {
		return
	}
	p, err := h.session(c).UpdatePipelineNotes(c.Request.Context(), c.Param("id"), req.Notes)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *handlers) createRepeated(c *gin.Context) {
	var t models.RepeatedTask
	if !bind(c, &t) {
		return
	}
	t, err := h.session(c).CreateRepeatedTask(c.Request.Context(), t)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

func (h *handlers) completeRepeated(c *gin.Context) {
	t, err := h.session(c).CompleteRepeatedTask(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *handlers) setRepeatedActive(c *gin.Context) {
	var req struct {
		IsActive *bool `json:"isActive"`
	}
	if !bind(c, &req) {
		return
	}
	if req.IsActive == nil {
		writeError(c, fmt.Errorf("api: %w: isActive is required", models.ErrValidation))
		return
	}
	t, err := h.session(c).SetRepeatedActive(c.Request.Context(), c.Param("id"), *req.IsActive)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *handlers) deleteRepeated(c *gin.Context) {
	h.session(c).DeleteRepeatedTask(c.Request.Context(), c.Param("id"))
	c.Status(http.StatusNoContent)
}

func (h *handlers) createOffice(c *gin.Context) {
	var t models.OfficeTask
	if !bind(c, &t) {
		return
	}
	t, err := h.session(c).CreateOfficeTask(c.Request.Context(), t)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

func (h *handlers) toggleOffice(c *gin.Context) {
	t, err := h.session(c).ToggleOfficeTask(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *handlers) deleteOffice(c *gin.Context) {
	h.session(c).DeleteOfficeTask(c.Request.Context(), c.Param("id"))
	c.Status(http.StatusNoContent)
}

func (h *handlers) createRegular(c *gin.Context) {
	var t models.RegularTask
	if !bind(c, &t) {
		return
	}
	t, err := h.session(c).CreateRegularTask(c.Request.Context(), t)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

func (h *handlers) toggleRegular(c *gin.Context) {
	t, err := h.session(c).ToggleRegularTask(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *handlers) deleteRegular(c *gin.Context) {
	h.session(c).DeleteRegularTask(c.Request.Context(), c.Param("id"))
	c.Status(http.StatusNoContent)
}

func (h *handlers) pending(c *gin.Context) {
	c.JSON(http.StatusOK, h.session(c).Pending())
}

func (h *handlers) sync(c *gin.Context) {
	remaining := h.session(c).Sync(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"pending": remaining})
}
