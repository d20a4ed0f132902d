package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"kenyamusic/internal/models"
	"kenyamusic/internal/service"
)

type DiscoveryHandler struct {
	Service *service.DiscoveryService
	Logger  *zap.Logger
}

func (h *DiscoveryHandler) Register(r *gin.Engine) {
	group := r.Group("/api/discovery")
	group.POST("/update", h.update)
	group.GET("/runs", h.listRuns)
}

func (h *DiscoveryHandler) update(c *gin.Context) {
	if h.Service == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	result, err := h.Service.UpdateLibrary(c.Request.Context())
	if err != nil {
		if h.Logger != nil {
			h.Logger.Warn("discovery update failed", zap.Error(err))
		}
		Error(c, updateStatus(err), err.Error(), nil)
		return
	}
	Ok(c, result, nil)
}

// updateStatus maps an UpdateLibrary error to a response code: a run already
// in flight is a conflict, everything else is a server-side failure.
func updateStatus(err error) int {
	if errors.Is(err, service.ErrRunInProgress) {
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

type runView struct {
	ID              string     `json:"id"`
	Status          string     `json:"status"`
	StartedAt       time.Time  `json:"started_at"`
	FinishedAt      *time.Time `json:"finished_at,omitempty"`
	VideosFound     int        `json:"videos_found"`
	VideosSaved     int        `json:"videos_saved"`
	ImagesGenerated int        `json:"images_generated"`
	LastError       *string    `json:"last_error,omitempty"`
}

func toRunView(run models.DiscoveryRun) runView {
	return runView{
		ID:              run.ID.String(),
		Status:          string(run.Status),
		StartedAt:       run.StartedAt,
		FinishedAt:      run.FinishedAt,
		VideosFound:     run.VideosFound,
		VideosSaved:     run.VideosSaved,
		ImagesGenerated: run.ImagesGenerated,
		LastError:       run.LastError,
	}
}

func (h *DiscoveryHandler) listRuns(c *gin.Context) {
	if h.Service == nil || h.Service.Store == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	limit := intQuery(c, "limit", 20)
	runs, err := h.Service.Store.ListDiscoveryRuns(c.Request.Context(), limit)
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	views := make([]runView, 0, len(runs))
	for _, run := range runs {
		views = append(views, toRunView(run))
	}
	Ok(c, views, nil)
}
