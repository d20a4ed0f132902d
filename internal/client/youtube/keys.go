package youtube

import (
	"context"
	"fmt"
	"sync/atomic"

	"google.golang.org/api/option"
	ytapi "google.golang.org/api/youtube/v3"
)

// KeyRotator holds one API-backed service per configured credential and hands
// out the current one. Rotation is an atomic counter so concurrent query
// workers can advance it without coordination.
type KeyRotator struct {
	services []*ytapi.Service
	idx      atomic.Uint64
}

func NewKeyRotator(ctx context.Context, apiKeys []string) (*KeyRotator, error) {
	if len(apiKeys) == 0 {
		return nil, fmt.Errorf("youtube: no API keys configured")
	}
	services := make([]*ytapi.Service, 0, len(apiKeys))
	for _, key := range apiKeys {
		svc, err := ytapi.NewService(ctx, option.WithAPIKey(key))
		if err != nil {
			return nil, fmt.Errorf("youtube: create service: %w", err)
		}
		services = append(services, svc)
	}
	return &KeyRotator{services: services}, nil
}

// Current returns the service for the active credential.
func (r *KeyRotator) Current() *ytapi.Service {
	return r.services[r.idx.Load()%uint64(len(r.services))]
}

// Rotate advances to the next credential circularly and returns its service.
func (r *KeyRotator) Rotate() *ytapi.Service {
	next := r.idx.Add(1)
	return r.services[next%uint64(len(r.services))]
}

func (r *KeyRotator) Len() int {
	return len(r.services)
}
