package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// capturedRequest 记录上游收到的 GraphQL 请求
type capturedRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

// fakeAniList 可编程的假上游
type fakeAniList struct {
	mu       sync.Mutex
	requests []capturedRequest
	response string
}

func (f *fakeAniList) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req capturedRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		f.mu.Lock()
		f.requests = append(f.requests, req)
		f.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(f.response))
	}
}

func (f *fakeAniList) lastRequest(t *testing.T) capturedRequest {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.requests)
	return f.requests[len(f.requests)-1]
}

const trendingResponse = `{
  "data": {
    "Page": {
      "pageInfo": {"total": 100, "currentPage": 1, "lastPage": 5, "hasNextPage": true, "perPage": 2},
      "media": [
        {"id": 1, "title": {"romaji": "One"}, "popularity": 10},
        {"id": 2, "title": {"romaji": "Two"}, "popularity": 20}
      ]
    }
  }
}`

func newTestClient(t *testing.T, fake *fakeAniList) *AniListClient {
	t.Helper()
	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)
	return NewAniListClient(srv.URL, 5*time.Second)
}

func TestTrending(t *testing.T) {
	t.Parallel()

	fake := &fakeAniList{response: trendingResponse}
	client := newTestClient(t, fake)

	result, err := client.Trending(context.Background(), 1, 2)
	require.NoError(t, err)

	assert.Len(t, result.Data, 2)
	assert.Equal(t, 1, result.Data[0].ID)
	assert.Equal(t, "One", result.Data[0].Title.Romaji)
	assert.Equal(t, 1, result.PageInfo.CurrentPage)
	assert.True(t, result.PageInfo.HasNextPage)

	req := fake.lastRequest(t)
	assert.Contains(t, req.Query, "TRENDING_DESC")
	assert.Contains(t, req.Query, "fragment MediaFields on Media")
	assert.EqualValues(t, 1, req.Variables["page"])
	assert.EqualValues(t, 2, req.Variables["perPage"])
}

func TestUpstreamErrorPropagatesFirstMessage(t *testing.T) {
	t.Parallel()

	fake := &fakeAniList{response: `{
		"data": null,
		"errors": [{"message": "Too Many Requests."}, {"message": "second"}]
	}`}
	client := newTestClient(t, fake)

	_, err := client.Popular(context.Background(), 1, 20)
	require.Error(t, err)
	assert.Equal(t, "Too Many Requests.", err.Error())
}

func TestSearchOmitsAbsentVariables(t *testing.T) {
	t.Parallel()

	fake := &fakeAniList{response: trendingResponse}
	client := newTestClient(t, fake)

	_, err := client.Search(context.Background(), SearchParams{Page: 1, PerPage: 20})
	require.NoError(t, err)

	// 可选变量缺省时不能以空值出现在请求里
	req := fake.lastRequest(t)
	assert.NotContains(t, req.Variables, "search")
	assert.NotContains(t, req.Variables, "genre")
	assert.NotContains(t, req.Variables, "year")
	assert.NotContains(t, req.Variables, "status")
}

func TestSearchSendsPresentVariables(t *testing.T) {
	t.Parallel()

	fake := &fakeAniList{response: trendingResponse}
	client := newTestClient(t, fake)

	_, err := client.Search(context.Background(), SearchParams{
		Query: "naruto", Genre: "Action", Status: "FINISHED",
		Year: 2020, HasYear: true, Page: 2, PerPage: 10,
	})
	require.NoError(t, err)

	req := fake.lastRequest(t)
	assert.Equal(t, "naruto", req.Variables["search"])
	assert.Equal(t, "Action", req.Variables["genre"])
	assert.Equal(t, "FINISHED", req.Variables["status"])
	assert.EqualValues(t, 2020, req.Variables["year"])
}

func TestByStudioFound(t *testing.T) {
	t.Parallel()

	fake := &fakeAniList{response: `{
	  "data": {
	    "Studio": {
	      "name": "MAPPA",
	      "media": {
	        "pageInfo": {"total": 1, "currentPage": 1, "lastPage": 1, "hasNextPage": false, "perPage": 20},
	        "nodes": [{"id": 9, "title": {"romaji": "Nine"}}]
	      }
	    }
	  }
	}`}
	client := newTestClient(t, fake)

	result, name, err := client.ByStudio(context.Background(), "mappa", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, "MAPPA", name)
	assert.Len(t, result.Data, 1)
	assert.Equal(t, 1, result.PageInfo.Total)
}

func TestByStudioNotFoundReturnsEmpty(t *testing.T) {
	t.Parallel()

	fake := &fakeAniList{response: `{"data": {"Studio": null}}`}
	client := newTestClient(t, fake)

	// 未命中时给空列表和零值分页，不报错
	result, name, err := client.ByStudio(context.Background(), "nonexistent", 1, 15)
	require.NoError(t, err)
	assert.Empty(t, name)
	assert.Empty(t, result.Data)
	assert.NotNil(t, result.Data)
	assert.Equal(t, 0, result.PageInfo.Total)
	assert.Equal(t, 15, result.PageInfo.PerPage)
}

func TestByID(t *testing.T) {
	t.Parallel()

	fake := &fakeAniList{response: `{
	  "data": {
	    "Media": {"id": 42, "title": {"romaji": "Forty Two", "english": "42"}, "status": "FINISHED"}
	  }
	}`}
	client := newTestClient(t, fake)

	media, err := client.ByID(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, 42, media.ID)
	assert.Equal(t, "Forty Two", media.Title.Romaji)
	require.NotNil(t, media.Title.English)
	assert.Equal(t, "42", *media.Title.English)

	req := fake.lastRequest(t)
	assert.EqualValues(t, 42, req.Variables["id"])
}
