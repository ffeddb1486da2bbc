package service

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, time.August, 15, 12, 0, 0, 0, time.UTC)

func resolve(t *testing.T, path, rawQuery string) (*Route, *RouteError) {
	t.Helper()
	query, err := url.ParseQuery(rawQuery)
	require.NoError(t, err)
	return ResolveRoute(path, query, testNow)
}

func TestResolveRouteTrending(t *testing.T) {
	t.Parallel()

	route, rerr := resolve(t, "/v1/animes/trending", "")
	require.Nil(t, rerr)
	assert.Equal(t, RouteTrending, route.Kind)
	assert.Equal(t, 1, route.Page)
	assert.Equal(t, 20, route.Limit)
}

func TestResolveRoutePaging(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		rawQuery  string
		wantPage  int
		wantLimit int
	}{
		{name: "explicit values", rawQuery: "page=3&limit=10", wantPage: 3, wantLimit: 10},
		{name: "invalid falls back to defaults", rawQuery: "page=abc&limit=xyz", wantPage: 1, wantLimit: 20},
		{name: "zero falls back to defaults", rawQuery: "page=0&limit=0", wantPage: 1, wantLimit: 20},
		{name: "negative falls back to defaults", rawQuery: "page=-1&limit=-5", wantPage: 1, wantLimit: 20},
		{name: "limit clamped to ceiling", rawQuery: "limit=5000", wantPage: 1, wantLimit: 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			route, rerr := resolve(t, "/v1/animes/popular", tt.rawQuery)
			require.Nil(t, rerr)
			assert.Equal(t, tt.wantPage, route.Page)
			assert.Equal(t, tt.wantLimit, route.Limit)
		})
	}
}

func TestResolveRouteSeasonDefaults(t *testing.T) {
	t.Parallel()

	// testNow 是 8 月，默认应落到当年夏季
	route, rerr := resolve(t, "/v1/animes/season", "")
	require.Nil(t, rerr)
	assert.Equal(t, RouteSeason, route.Kind)
	assert.Equal(t, "SUMMER", route.Season)
	assert.Equal(t, 2025, route.Year)
}

func TestResolveRouteSeasonExplicit(t *testing.T) {
	t.Parallel()

	route, rerr := resolve(t, "/v1/animes/season", "season=WINTER&year=2021")
	require.Nil(t, rerr)
	assert.Equal(t, "WINTER", route.Season)
	assert.Equal(t, 2021, route.Year)
}

func TestResolveRouteSearch(t *testing.T) {
	t.Parallel()

	route, rerr := resolve(t, "/v1/animes/search", "q=naruto&genre=Action&year=2020&status=FINISHED")
	require.Nil(t, rerr)
	assert.Equal(t, RouteSearch, route.Kind)
	assert.Equal(t, "naruto", route.Query)
	assert.Equal(t, "Action", route.Genre)
	assert.Equal(t, "FINISHED", route.Status)
	assert.True(t, route.HasYear)
	assert.Equal(t, 2020, route.SearchYear)
}

func TestResolveRouteSearchOptionalAbsent(t *testing.T) {
	t.Parallel()

	route, rerr := resolve(t, "/v1/animes/search", "")
	require.Nil(t, rerr)
	assert.Equal(t, "", route.Query)
	assert.Equal(t, "", route.Genre)
	assert.Equal(t, "", route.Status)
	assert.False(t, route.HasYear)
}

func TestResolveRouteGenre(t *testing.T) {
	t.Parallel()

	route, rerr := resolve(t, "/v1/animes/genre/Slice%20of%20Life", "")
	require.Nil(t, rerr)
	assert.Equal(t, RouteGenre, route.Kind)
	assert.Equal(t, "Slice of Life", route.Genre)
}

func TestResolveRouteGenreMissingParam(t *testing.T) {
	t.Parallel()

	_, rerr := resolve(t, "/v1/animes/genre/", "")
	require.NotNil(t, rerr)
	assert.Equal(t, 400, rerr.Status)
	assert.Equal(t, "Genre parameter required", rerr.Message)
	assert.False(t, rerr.ListEndpoints)
}

func TestResolveRouteStudio(t *testing.T) {
	t.Parallel()

	route, rerr := resolve(t, "/v1/animes/studio/MAPPA", "")
	require.Nil(t, rerr)
	assert.Equal(t, RouteStudio, route.Kind)
	assert.Equal(t, "MAPPA", route.Studio)
}

func TestResolveRouteStudioMissingParam(t *testing.T) {
	t.Parallel()

	_, rerr := resolve(t, "/v1/animes/studio", "")
	require.NotNil(t, rerr)
	assert.Equal(t, 400, rerr.Status)
	assert.Equal(t, "Studio parameter required", rerr.Message)
}

func TestResolveRouteByID(t *testing.T) {
	t.Parallel()

	route, rerr := resolve(t, "/v1/animes/42", "")
	require.Nil(t, rerr)
	assert.Equal(t, RouteByID, route.Kind)
	assert.Equal(t, 42, route.ID)
}

func TestResolveRouteUnknownEndpoint(t *testing.T) {
	t.Parallel()

	_, rerr := resolve(t, "/v1/animes/whatever", "")
	require.NotNil(t, rerr)
	assert.Equal(t, 404, rerr.Status)
	assert.Equal(t, "Unknown endpoint", rerr.Message)
	assert.True(t, rerr.ListEndpoints)
}

func TestResolveRouteInvalidPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		path string
	}{
		{name: "wrong version", path: "/v2/animes/trending"},
		{name: "wrong resource", path: "/v1/movies/trending"},
		{name: "bare root", path: "/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, rerr := resolve(t, tt.path, "")
			require.NotNil(t, rerr)
			assert.Equal(t, 400, rerr.Status)
			assert.Equal(t, "Invalid API path", rerr.Message)
			assert.Equal(t, "API paths should start with /v1/animes/", rerr.Detail)
			assert.True(t, rerr.ListEndpoints)
		})
	}
}
