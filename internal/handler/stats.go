package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"kenyamusic/internal/service"
)

type StatsHandler struct {
	Service *service.StatsService
}

func (h *StatsHandler) Register(r *gin.Engine) {
	r.GET("/api/stats", h.current)
}

func (h *StatsHandler) current(c *gin.Context) {
	if h.Service == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	stats, err := h.Service.Current(c.Request.Context())
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	Ok(c, gin.H{
		"total_songs":         stats.TotalSongs,
		"total_artists":       stats.TotalArtists,
		"total_views":         stats.TotalViews,
		"most_popular_artist": stats.MostPopularArtist,
		"most_viewed_song":    stats.MostViewedSong,
		"last_updated":        stats.LastUpdated,
	}, nil)
}
