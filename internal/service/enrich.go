package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"kenyamusic/internal/config"
	"kenyamusic/internal/repository"
)

// ErrEnrichmentDisabled is returned when no LLM credential is configured.
var ErrEnrichmentDisabled = errors.New("enrichment is disabled")

// EnrichService generates artist bios, song blurbs and cover art through the
// OpenAI API. Everything here is best-effort decoration on top of the
// catalog; the discovery pipeline never depends on it succeeding.
type EnrichService struct {
	Store  repository.Repository
	Logger *zap.Logger

	client *openai.Client
	model  string
}

func NewEnrichService(store repository.Repository, cfg config.EnrichConfig, logger *zap.Logger) *EnrichService {
	s := &EnrichService{Store: store, Logger: logger, model: cfg.Model}
	if s.model == "" {
		s.model = openai.GPT4oMini
	}
	if cfg.Enabled && cfg.APIKey != "" {
		s.client = openai.NewClient(cfg.APIKey)
	}
	return s
}

// Enabled reports whether a credential is configured.
func (s *EnrichService) Enabled() bool {
	return s != nil && s.client != nil
}

func (s *EnrichService) complete(ctx context.Context, prompt string) (string, error) {
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens: 300,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("empty completion")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// DescribeArtist writes a short generated bio onto the artist row, using
// their recent song titles as context.
func (s *EnrichService) DescribeArtist(ctx context.Context, name string) (string, error) {
	if !s.Enabled() {
		return "", ErrEnrichmentDisabled
	}
	artist, err := s.Store.GetArtistByName(ctx, name)
	if err != nil {
		return "", err
	}
	if artist == nil {
		return "", fmt.Errorf("artist not found: %s", name)
	}
	titles, err := s.Store.ListSongTitlesByArtist(ctx, artist.ID, 5)
	if err != nil {
		return "", err
	}

	prompt := fmt.Sprintf(
		"Write a two-sentence biography of the Kenyan musician %q for a music discovery site. Recent releases: %s. Plain prose, no markdown.",
		artist.Name, strings.Join(titles, "; "))
	bio, err := s.complete(ctx, prompt)
	if err != nil {
		return "", err
	}
	if err := s.Store.UpdateArtistDescription(ctx, artist.ID, bio); err != nil {
		return "", err
	}
	return bio, nil
}

// DescribeSong writes a one-sentence generated blurb onto the song row.
func (s *EnrichService) DescribeSong(ctx context.Context, youtubeID string) (string, error) {
	if !s.Enabled() {
		return "", ErrEnrichmentDisabled
	}
	song, err := s.Store.GetSongByYoutubeID(ctx, youtubeID)
	if err != nil {
		return "", err
	}
	if song == nil {
		return "", fmt.Errorf("song not found: %s", youtubeID)
	}

	prompt := fmt.Sprintf(
		"Write one sentence introducing the Kenyan song %q released on %s, for a music discovery site. Plain prose, no markdown.",
		song.Title, song.ReleaseDate.Format("2 January 2006"))
	blurb, err := s.complete(ctx, prompt)
	if err != nil {
		return "", err
	}
	if err := s.Store.UpdateSongDescription(ctx, song.ID, blurb); err != nil {
		return "", err
	}
	return blurb, nil
}

// GenerateMissingImages creates cover art for up to limit songs that have no
// image yet, returning how many were generated. Individual failures are
// logged and skipped.
func (s *EnrichService) GenerateMissingImages(ctx context.Context, limit int) (int, error) {
	if !s.Enabled() {
		return 0, nil
	}
	songs, err := s.Store.ListSongsMissingImages(ctx, limit)
	if err != nil {
		return 0, err
	}

	generated := 0
	for _, song := range songs {
		resp, err := s.client.CreateImage(ctx, openai.ImageRequest{
			Prompt: fmt.Sprintf(
				"Album cover art for the Kenyan song %q. Vibrant East African aesthetic, no text.",
				song.Title),
			Model:          openai.CreateImageModelDallE3,
			N:              1,
			Size:           openai.CreateImageSize1024x1024,
			ResponseFormat: openai.CreateImageResponseFormatURL,
		})
		if err != nil {
			s.Logger.Warn("cover art generation failed",
				zap.String("youtube_id", song.YoutubeID), zap.Error(err))
			continue
		}
		if len(resp.Data) == 0 || resp.Data[0].URL == "" {
			continue
		}
		if err := s.Store.UpdateSongImage(ctx, song.ID, resp.Data[0].URL); err != nil {
			s.Logger.Warn("cover art save failed",
				zap.String("youtube_id", song.YoutubeID), zap.Error(err))
			continue
		}
		generated++
	}
	return generated, nil
}
