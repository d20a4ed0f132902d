package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"kenyamusic/internal/config"
)

func TestEnrichDisabledWithoutCredential(t *testing.T) {
	repo := newStubRepo()
	svc := NewEnrichService(repo, config.EnrichConfig{Enabled: true}, zap.NewNop())
	if svc.Enabled() {
		t.Fatalf("enabled without api key")
	}
	if _, err := svc.DescribeArtist(context.Background(), "Sauti Sol"); !errors.Is(err, ErrEnrichmentDisabled) {
		t.Fatalf("err=%v", err)
	}
	if _, err := svc.DescribeSong(context.Background(), "abc"); !errors.Is(err, ErrEnrichmentDisabled) {
		t.Fatalf("err=%v", err)
	}
	generated, err := svc.GenerateMissingImages(context.Background(), 10)
	if err != nil || generated != 0 {
		t.Fatalf("generated=%d err=%v", generated, err)
	}
}
