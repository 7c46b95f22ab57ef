// Package roster fetches and holds the user roster shown in the UI.
package roster

import (
	"context"

	"conduit/pkg/apiclient"
)

// Entry is an opaque summary record. The roster feature passes entries
// through to the display without inspecting them.
type Entry map[string]interface{}

// Fetcher is what the store needs from the transport layer.
type Fetcher interface {
	GetRoster(ctx context.Context) ([]Entry, error)
}

type Service struct {
	api *apiclient.Client
}

func NewService(api *apiclient.Client) *Service {
	return &Service{api: api}
}

func (s *Service) GetRoster(ctx context.Context) ([]Entry, error) {
	var entries []Entry
	if err := s.api.Get(ctx, "/api/users/roster", &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
