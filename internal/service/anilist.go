package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/user/aniview/internal/model"
	"golang.org/x/sync/singleflight"
)

// AniListClient AniList GraphQL 客户端
// 每个业务操作对应一份固定的查询文档，字段集合统一用 MediaFields fragment
type AniListClient struct {
	endpoint   string
	httpClient *http.Client
	group      singleflight.Group
}

// NewAniListClient 创建客户端
func NewAniListClient(endpoint string, timeout time.Duration) *AniListClient {
	return &AniListClient{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// mediaFragment 所有番剧查询共用的字段集合
const mediaFragment = `
  fragment MediaFields on Media {
    id
    title {
      romaji
      english
      native
    }
    coverImage {
      large
      extraLarge
      color
    }
    bannerImage
    description(asHtml: false)
    episodes
    status
    format
    genres
    averageScore
    popularity
    season
    seasonYear
    startDate {
      year
      month
      day
    }
    nextAiringEpisode {
      airingAt
      episode
      timeUntilAiring
    }
    trailer {
      id
      site
      thumbnail
    }
    studios(isMain: true) {
      nodes {
        name
      }
    }
  }
`

// pageQuery 标准分页查询的公共骨架，%s 处填 media 的过滤条件
const pageQueryFormat = mediaFragment + `
  query ($page: Int, $perPage: Int%s) {
    Page(page: $page, perPage: $perPage) {
      pageInfo {
        total
        currentPage
        lastPage
        hasNextPage
        perPage
      }
      media(type: ANIME, %s, isAdult: false) {
        ...MediaFields
      }
    }
  }
`

type graphQLError struct {
	Message string `json:"message"`
}

type graphQLEnvelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors"`
}

// call 发送 GraphQL 请求并解包响应
// 响应中带 errors 列表时返回第一条错误信息
func (c *AniListClient) call(ctx context.Context, query string, variables map[string]interface{}, out interface{}) error {
	body, err := json.Marshal(map[string]interface{}{
		"query":     query,
		"variables": variables,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("请求 AniList 失败: %w", err)
	}
	defer resp.Body.Close()

	var envelope graphQLEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("解析 AniList 响应失败: %w", err)
	}

	if len(envelope.Errors) > 0 {
		log.Printf("[AniList] 上游返回错误: %s", envelope.Errors[0].Message)
		msg := envelope.Errors[0].Message
		if msg == "" {
			msg = "Error fetching data from AniList"
		}
		return fmt.Errorf("%s", msg)
	}

	if out != nil {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("解析 AniList 数据失败: %w", err)
		}
	}
	return nil
}

// PageResult 分页查询结果，字段名与对外响应保持一致
type PageResult struct {
	Data     []model.Media  `json:"data"`
	PageInfo model.PageInfo `json:"pageInfo"`
}

type pageData struct {
	Page struct {
		PageInfo model.PageInfo `json:"pageInfo"`
		Media    []model.Media  `json:"media"`
	} `json:"Page"`
}

// Trending 热门趋势榜单
func (c *AniListClient) Trending(ctx context.Context, page, perPage int) (*PageResult, error) {
	query := fmt.Sprintf(pageQueryFormat, "", "sort: TRENDING_DESC")
	return c.callPage(ctx, query, map[string]interface{}{"page": page, "perPage": perPage})
}

// Popular 人气榜单
func (c *AniListClient) Popular(ctx context.Context, page, perPage int) (*PageResult, error) {
	query := fmt.Sprintf(pageQueryFormat, "", "sort: POPULARITY_DESC")
	return c.callPage(ctx, query, map[string]interface{}{"page": page, "perPage": perPage})
}

// Season 指定季度的番剧
func (c *AniListClient) Season(ctx context.Context, season string, year, page, perPage int) (*PageResult, error) {
	query := fmt.Sprintf(pageQueryFormat,
		", $season: MediaSeason, $year: Int",
		"season: $season, seasonYear: $year, sort: POPULARITY_DESC")
	return c.callPage(ctx, query, map[string]interface{}{
		"page": page, "perPage": perPage, "season": season, "year": year,
	})
}

// SearchParams 搜索条件，可选项为空时不会发给上游
type SearchParams struct {
	Query   string
	Genre   string
	Status  string
	Year    int
	HasYear bool
	Page    int
	PerPage int
}

// Search 自由搜索
func (c *AniListClient) Search(ctx context.Context, p SearchParams) (*PageResult, error) {
	query := fmt.Sprintf(pageQueryFormat,
		", $search: String, $genre: String, $year: Int, $status: MediaStatus",
		"search: $search, genre: $genre, seasonYear: $year, status: $status")

	// 可选变量缺省时整个不传，不能用空字符串占位
	variables := map[string]interface{}{"page": p.Page, "perPage": p.PerPage}
	if p.Query != "" {
		variables["search"] = p.Query
	}
	if p.Genre != "" {
		variables["genre"] = p.Genre
	}
	if p.HasYear {
		variables["year"] = p.Year
	}
	if p.Status != "" {
		variables["status"] = p.Status
	}
	return c.callPage(ctx, query, variables)
}

// ByGenre 按类型查询
func (c *AniListClient) ByGenre(ctx context.Context, genre string, page, perPage int) (*PageResult, error) {
	query := fmt.Sprintf(pageQueryFormat,
		", $genre: String",
		"genre: $genre, sort: POPULARITY_DESC")
	return c.callPage(ctx, query, map[string]interface{}{
		"page": page, "perPage": perPage, "genre": genre,
	})
}

func (c *AniListClient) callPage(ctx context.Context, query string, variables map[string]interface{}) (*PageResult, error) {
	var data pageData
	if err := c.call(ctx, query, variables, &data); err != nil {
		return nil, err
	}
	media := data.Page.Media
	if media == nil {
		media = []model.Media{}
	}
	return &PageResult{Data: media, PageInfo: data.Page.PageInfo}, nil
}

// ByID 按 AniList ID 查询单部番剧
// singleflight 避免同一 ID 的并发重复请求
func (c *AniListClient) ByID(ctx context.Context, id int) (*model.Media, error) {
	val, err, _ := c.group.Do(fmt.Sprintf("anime:%d", id), func() (interface{}, error) {
		query := mediaFragment + `
  query ($id: Int) {
    Media(id: $id, type: ANIME) {
      ...MediaFields
    }
  }
`
		var data struct {
			Media model.Media `json:"Media"`
		}
		if err := c.call(ctx, query, map[string]interface{}{"id": id}, &data); err != nil {
			return nil, err
		}
		return &data.Media, nil
	})
	if err != nil {
		return nil, err
	}
	return val.(*model.Media), nil
}

// ByStudio 按制作公司名称搜索
// 结构与其他分页查询不同：先按名字匹配 Studio，再取其嵌套的番剧分页；
// 未命中时返回空列表和零值分页，不算错误
func (c *AniListClient) ByStudio(ctx context.Context, studioName string, page, perPage int) (*PageResult, string, error) {
	query := mediaFragment + `
  query ($page: Int, $perPage: Int, $search: String) {
    Studio(search: $search) {
      name
      media(page: $page, perPage: $perPage, sort: POPULARITY_DESC) {
        pageInfo {
          total
          currentPage
          lastPage
          hasNextPage
          perPage
        }
        nodes {
          ...MediaFields
        }
      }
    }
  }
`
	var data struct {
		Studio *struct {
			Name  string `json:"name"`
			Media struct {
				PageInfo model.PageInfo `json:"pageInfo"`
				Nodes    []model.Media  `json:"nodes"`
			} `json:"media"`
		} `json:"Studio"`
	}
	if err := c.call(ctx, query, map[string]interface{}{
		"page": page, "perPage": perPage, "search": studioName,
	}, &data); err != nil {
		return nil, "", err
	}

	if data.Studio == nil {
		return &PageResult{
			Data:     []model.Media{},
			PageInfo: model.PageInfo{CurrentPage: 1, LastPage: 1, PerPage: perPage},
		}, "", nil
	}

	nodes := data.Studio.Media.Nodes
	if nodes == nil {
		nodes = []model.Media{}
	}
	return &PageResult{Data: nodes, PageInfo: data.Studio.Media.PageInfo}, data.Studio.Name, nil
}

// airingQuery 播出日程查询文档
const airingQuery = `
  query ($page: Int, $perPage: Int, $airingAtGreater: Int, $airingAtLesser: Int) {
    Page(page: $page, perPage: $perPage) {
      airingSchedules(airingAt_greater: $airingAtGreater, airingAt_lesser: $airingAtLesser, sort: %s) {
        id
        airingAt
        episode
        mediaId
        media {
          id
          title {
            romaji
            english
          }
          coverImage {
            large
            extraLarge
          }
          bannerImage
          format
          episodes
          genres
          averageScore
          studios(isMain: true) {
            nodes {
              name
            }
          }
        }
      }
    }
  }
`

type airingData struct {
	Page struct {
		AiringSchedules []model.AiringSchedule `json:"airingSchedules"`
	} `json:"Page"`
}

// RecentlyAired 过去 24 小时内播出的剧集，新的在前
func (c *AniListClient) RecentlyAired(ctx context.Context, page, perPage int) ([]model.AiringSchedule, error) {
	now := time.Now().Unix()
	var data airingData
	err := c.call(ctx, fmt.Sprintf(airingQuery, "TIME_DESC"), map[string]interface{}{
		"page": page, "perPage": perPage,
		"airingAtGreater": now - 86400,
		"airingAtLesser":  now,
	}, &data)
	if err != nil {
		return nil, err
	}
	return data.Page.AiringSchedules, nil
}

// Upcoming 未来 7 天内即将播出的剧集
func (c *AniListClient) Upcoming(ctx context.Context, page, perPage int) ([]model.AiringSchedule, error) {
	now := time.Now().Unix()
	var data airingData
	err := c.call(ctx, fmt.Sprintf(airingQuery, "TIME"), map[string]interface{}{
		"page": page, "perPage": perPage,
		"airingAtGreater": now,
		"airingAtLesser":  now + 7*86400,
	}, &data)
	if err != nil {
		return nil, err
	}
	return data.Page.AiringSchedules, nil
}
