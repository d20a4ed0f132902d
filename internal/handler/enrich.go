package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"kenyamusic/internal/service"
)

type EnrichHandler struct {
	Service *service.EnrichService
	Logger  *zap.Logger
}

func (h *EnrichHandler) Register(r *gin.Engine) {
	group := r.Group("/api/catalog")
	group.POST("/artists/:name/description", h.describeArtist)
	group.POST("/songs/:youtube_id/description", h.describeSong)
	group.POST("/images", h.generateImages)
}

func (h *EnrichHandler) describeArtist(c *gin.Context) {
	if h.Service == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	bio, err := h.Service.DescribeArtist(c.Request.Context(), c.Param("name"))
	if err != nil {
		h.reportError(c, err)
		return
	}
	Ok(c, gin.H{"description": bio}, nil)
}

func (h *EnrichHandler) describeSong(c *gin.Context) {
	if h.Service == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	blurb, err := h.Service.DescribeSong(c.Request.Context(), c.Param("youtube_id"))
	if err != nil {
		h.reportError(c, err)
		return
	}
	Ok(c, gin.H{"description": blurb}, nil)
}

func (h *EnrichHandler) generateImages(c *gin.Context) {
	if h.Service == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	if !h.Service.Enabled() {
		Error(c, http.StatusServiceUnavailable, service.ErrEnrichmentDisabled.Error(), nil)
		return
	}
	limit := intQuery(c, "limit", 10)
	generated, err := h.Service.GenerateMissingImages(c.Request.Context(), limit)
	if err != nil {
		if h.Logger != nil {
			h.Logger.Warn("image generation failed", zap.Error(err))
		}
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, gin.H{"generated": generated}, nil)
}

func (h *EnrichHandler) reportError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrEnrichmentDisabled) {
		Error(c, http.StatusServiceUnavailable, err.Error(), nil)
		return
	}
	if h.Logger != nil {
		h.Logger.Warn("enrichment failed", zap.Error(err))
	}
	Error(c, http.StatusBadGateway, err.Error(), nil)
}
