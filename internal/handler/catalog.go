package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"kenyamusic/internal/models"
	"kenyamusic/internal/repository"
	"kenyamusic/internal/service"
)

type CatalogHandler struct {
	Catalog *service.CatalogService
	Logger  *zap.Logger

	// RetentionDays bounds the cleanup endpoint; zero falls back to the
	// service default.
	RetentionDays int
}

func (h *CatalogHandler) Register(r *gin.Engine) {
	group := r.Group("/api/catalog")
	group.GET("/songs", h.listSongs)
	group.GET("/songs/:youtube_id", h.getSong)
	group.GET("/search", h.listSongs)
	group.POST("/songs", h.addSong)
	group.POST("/songs/bulk", h.addSongs)
	group.POST("/cleanup", h.cleanup)
	group.GET("/artists", h.listArtists)
	group.GET("/artists/:name", h.artistDetail)
}

type songView struct {
	ID           uint       `json:"id"`
	ArtistID     uint       `json:"artist_id"`
	Title        string     `json:"title"`
	ReleaseDate  time.Time  `json:"release_date"`
	YoutubeID    string     `json:"youtube_id"`
	YoutubeURL   string     `json:"youtube_url"`
	EmbedURL     string     `json:"embed_url"`
	ThumbnailURL string     `json:"thumbnail_url"`
	ImageURL     string     `json:"image_url,omitempty"`
	Description  *string    `json:"description,omitempty"`
	ViewCount    int64      `json:"view_count"`
	LikeCount    int64      `json:"like_count"`
	Genre        *string    `json:"genre,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

func toSongView(s models.Song) songView {
	return songView{
		ID:           s.ID,
		ArtistID:     s.ArtistID,
		Title:        s.Title,
		ReleaseDate:  s.ReleaseDate,
		YoutubeID:    s.YoutubeID,
		YoutubeURL:   s.YoutubeURL,
		EmbedURL:     s.EmbedURL(),
		ThumbnailURL: s.ThumbnailURL,
		ImageURL:     s.ImageURL,
		Description:  s.Description,
		ViewCount:    s.ViewCount,
		LikeCount:    s.LikeCount,
		Genre:        s.Genre,
		CreatedAt:    s.CreatedAt,
	}
}

func toSongViews(songs []models.Song) []songView {
	out := make([]songView, 0, len(songs))
	for _, s := range songs {
		out = append(out, toSongView(s))
	}
	return out
}

type artistView struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Genre       *string `json:"genre,omitempty"`
	Location    *string `json:"location,omitempty"`
	IsVerified  bool    `json:"is_verified"`
	SongCount   int64   `json:"song_count"`
}

func toArtistView(a models.Artist, songCount int64) artistView {
	return artistView{
		ID:          a.ID,
		Name:        a.Name,
		Description: a.Description,
		Genre:       a.Genre,
		Location:    a.Location,
		IsVerified:  a.IsVerified,
		SongCount:   songCount,
	}
}

func (h *CatalogHandler) listSongs(c *gin.Context) {
	if h.Catalog == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	limit := intQuery(c, "limit", 50)
	offset := intQuery(c, "offset", 0)
	params := repository.ListSongsParams{
		Search:   c.Query("q"),
		ArtistID: uintQueryPtr(c, "artist_id"),
		OrderBy:  c.Query("order_by"),
		Limit:    limit,
		Offset:   offset,
	}
	if days := intQuery(c, "days", 0); days > 0 {
		since := time.Now().UTC().AddDate(0, 0, -days)
		params.Since = &since
	}

	songs, total, err := h.Catalog.ListSongs(c.Request.Context(), params)
	if err != nil {
		if h.Logger != nil {
			h.Logger.Warn("list songs failed", zap.Error(err))
		}
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	Ok(c, toSongViews(songs), paginationMeta(limit, offset, total))
}

func (h *CatalogHandler) getSong(c *gin.Context) {
	if h.Catalog == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	song, err := h.Catalog.Store.GetSongByYoutubeID(c.Request.Context(), c.Param("youtube_id"))
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	if song == nil {
		Error(c, http.StatusNotFound, "song not found", nil)
		return
	}
	Ok(c, toSongView(*song), nil)
}

func (h *CatalogHandler) addSong(c *gin.Context) {
	if h.Catalog == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	var input service.ManualSongInput
	if err := c.ShouldBindJSON(&input); err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	song, err := h.Catalog.AddSong(c.Request.Context(), input)
	if err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	Ok(c, toSongView(*song), nil)
}

func (h *CatalogHandler) addSongs(c *gin.Context) {
	if h.Catalog == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	var inputs []service.ManualSongInput
	if err := c.ShouldBindJSON(&inputs); err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	result, err := h.Catalog.AddSongs(c.Request.Context(), inputs)
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	Ok(c, result, nil)
}

func (h *CatalogHandler) cleanup(c *gin.Context) {
	if h.Catalog == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	days := intQuery(c, "days", h.RetentionDays)
	removed, err := h.Catalog.Cleanup(c.Request.Context(), days)
	if err != nil {
		if h.Logger != nil {
			h.Logger.Warn("cleanup failed", zap.Error(err))
		}
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	Ok(c, gin.H{"removed": removed}, nil)
}

func (h *CatalogHandler) listArtists(c *gin.Context) {
	if h.Catalog == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	limit := intQuery(c, "limit", 100)
	offset := intQuery(c, "offset", 0)
	artists, total, err := h.Catalog.ListArtists(c.Request.Context(), limit, offset)
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	views := make([]artistView, 0, len(artists))
	for _, a := range artists {
		views = append(views, toArtistView(a.Artist, a.SongCount))
	}
	Ok(c, views, paginationMeta(limit, offset, total))
}

func (h *CatalogHandler) artistDetail(c *gin.Context) {
	if h.Catalog == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	artist, songs, err := h.Catalog.ArtistDetail(c.Request.Context(), c.Param("name"))
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	if artist == nil {
		Error(c, http.StatusNotFound, "artist not found", nil)
		return
	}
	Ok(c, gin.H{
		"artist": toArtistView(*artist, int64(len(songs))),
		"songs":  toSongViews(songs),
	}, nil)
}
