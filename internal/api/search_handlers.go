package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	apperrors "github.com/polyphonyapp/polyphony-server/internal/errors"
	"github.com/polyphonyapp/polyphony-server/internal/search"
)

func (s *Server) registerSearchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "searchSongs",
		Method:      http.MethodGet,
		Path:        "/api/v1/search",
		Summary:     "Search songs",
		Description: "Full-text search over titles, artists, and lyrics",
		Tags:        []string{"Search"},
	}, s.handleSearchSongs)
}

// SearchInput contains query parameters for song search.
type SearchInput struct {
	Query      string `query:"q" doc:"Search query"`
	Language   string `query:"language" doc:"Filter by language code"`
	Difficulty string `query:"difficulty" doc:"Filter by difficulty level"`
	Limit      int    `query:"limit" doc:"Maximum hits to return"`
	Offset     int    `query:"offset" doc:"Number of hits to skip"`
}

// SearchOutput wraps the search result for Huma.
type SearchOutput struct {
	Body search.SearchResult
}

func (s *Server) handleSearchSongs(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	if s.search == nil {
		return nil, apperrors.Internal("search index not configured")
	}

	params := search.DefaultSearchParams()
	params.Query = input.Query
	params.Language = input.Language
	params.Difficulty = input.Difficulty
	if input.Limit > 0 {
		params.Limit = input.Limit
	}
	if input.Offset > 0 {
		params.Offset = input.Offset
	}

	result, err := s.search.Search(ctx, params)
	if err != nil {
		return nil, err
	}

	return &SearchOutput{Body: *result}, nil
}
