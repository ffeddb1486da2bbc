package service

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

// RouteKind 网关路由类型，封闭枚举，每种类型携带各自已校验的参数
type RouteKind int

const (
	RouteTrending RouteKind = iota
	RoutePopular
	RouteSeason
	RouteSearch
	RouteGenre
	RouteStudio
	RouteByID
)

// 分页默认值与上限，AniList 单页上限是 50
const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 50
)

// AvailableEndpoints 错误响应中返回的固定端点列表
var AvailableEndpoints = []string{
	"/v1/animes/trending",
	"/v1/animes/popular",
	"/v1/animes/season",
	"/v1/animes/search",
	"/v1/animes/genre/:genre",
	"/v1/animes/studio/:studio",
	"/v1/animes/:id",
}

// Route 解析后的网关路由
type Route struct {
	Kind  RouteKind
	Page  int
	Limit int

	// season
	Season string
	Year   int

	// search
	Query      string
	Genre      string // search 的可选过滤，或 genre 路由的必填参数
	Status     string
	SearchYear int
	HasYear    bool

	// studio
	Studio string

	// by-id
	ID int
}

// RouteError 路由解析错误，携带响应状态码和报文内容
type RouteError struct {
	Status        int
	Message       string // error 字段
	Detail        string // message 字段，可为空
	ListEndpoints bool   // 是否附带端点列表
}

func (e *RouteError) Error() string {
	return e.Message
}

// ResolveRoute 把请求路径和查询参数解析成唯一一条路由
// 路径形如 /v1/animes/<endpoint>[/<param>]，大小写敏感、精确匹配
func ResolveRoute(path string, query url.Values, now time.Time) (*Route, *RouteError) {
	segments := splitPath(path)

	if len(segments) < 2 || segments[0] != "v1" || segments[1] != "animes" {
		return nil, &RouteError{
			Status:        400,
			Message:       "Invalid API path",
			Detail:        "API paths should start with /v1/animes/",
			ListEndpoints: true,
		}
	}

	var endpoint, param string
	if len(segments) > 2 {
		endpoint = segments[2]
	}
	if len(segments) > 3 {
		param = segments[3]
	}

	page := parsePositiveInt(query.Get("page"), DefaultPage)
	limit := parsePositiveInt(query.Get("limit"), DefaultLimit)
	if limit > MaxLimit {
		limit = MaxLimit
	}

	route := &Route{Page: page, Limit: limit}

	switch endpoint {
	case "trending":
		route.Kind = RouteTrending
		return route, nil

	case "popular":
		route.Kind = RoutePopular
		return route, nil

	case "season":
		route.Kind = RouteSeason
		defaultSeason, defaultYear := CurrentSeason(now)
		route.Season = query.Get("season")
		if route.Season == "" {
			route.Season = defaultSeason
		}
		route.Year = defaultYear
		if y, err := strconv.Atoi(query.Get("year")); err == nil {
			route.Year = y
		}
		return route, nil

	case "search":
		route.Kind = RouteSearch
		route.Query = query.Get("q")
		route.Genre = query.Get("genre")
		route.Status = query.Get("status")
		if y, err := strconv.Atoi(query.Get("year")); err == nil {
			route.SearchYear = y
			route.HasYear = true
		}
		return route, nil

	case "genre":
		if param == "" {
			return nil, &RouteError{Status: 400, Message: "Genre parameter required"}
		}
		route.Kind = RouteGenre
		route.Genre = decodeParam(param)
		return route, nil

	case "studio":
		if param == "" {
			return nil, &RouteError{Status: 400, Message: "Studio parameter required"}
		}
		route.Kind = RouteStudio
		route.Studio = decodeParam(param)
		return route, nil

	default:
		// 纯数字端点视为按 ID 查询
		if id, err := strconv.Atoi(endpoint); err == nil {
			route.Kind = RouteByID
			route.ID = id
			return route, nil
		}
		return nil, &RouteError{
			Status:        404,
			Message:       "Unknown endpoint",
			ListEndpoints: true,
		}
	}
}

// splitPath 拆分路径并去掉空段
func splitPath(path string) []string {
	parts := strings.Split(path, "/")
	segments := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			segments = append(segments, p)
		}
	}
	return segments
}

// parsePositiveInt 解析正整数，非法或小于 1 时返回默认值
func parsePositiveInt(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return def
	}
	return n
}

// decodeParam URL 解码路径参数，失败时原样返回
func decodeParam(s string) string {
	decoded, err := url.PathUnescape(s)
	if err != nil {
		return s
	}
	return decoded
}
