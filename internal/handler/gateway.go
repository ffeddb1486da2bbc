package handler

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/user/aniview/internal/service"
)

// Gateway 对外 API 网关，挂载在 /v1/ 下
// 流程：提取 Bearer 密钥 → 校验 → 限流 → 路由解析 → 调用 AniList → 统一封装
// OPTIONS 预检已被 CORS 中间件拦截，不会走到这里
func (h *Handler) Gateway(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	apiKey := strings.TrimPrefix(authHeader, "Bearer ")

	if apiKey == "" {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "API key required",
			"message": "Please provide your API key in the Authorization header as: Bearer ak_your_api_key",
		})
		return
	}

	validation := h.Validator.Validate(apiKey)
	if !validation.Valid {
		c.JSON(http.StatusUnauthorized, gin.H{"error": validation.Reason})
		return
	}

	if !h.Validator.Allow(validation.KeyID) {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded"})
		return
	}

	route, rerr := service.ResolveRoute(c.Request.URL.Path, c.Request.URL.Query(), time.Now())
	if rerr != nil {
		payload := gin.H{"error": rerr.Message}
		if rerr.Detail != "" {
			payload["message"] = rerr.Detail
		}
		if rerr.ListEndpoints {
			payload["available_endpoints"] = service.AvailableEndpoints
		}
		c.JSON(rerr.Status, payload)
		return
	}

	result, err := h.dispatch(c.Request.Context(), route)
	if err != nil {
		log.Printf("[Gateway] 上游调用失败: %v", err)
		msg := err.Error()
		if msg == "" {
			msg = "Unknown error occurred"
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal server error",
			"message": msg,
		})
		return
	}

	c.JSON(http.StatusOK, result)
}

// dispatch 按路由类型调用对应的上游操作并组装响应体
func (h *Handler) dispatch(ctx context.Context, route *service.Route) (interface{}, error) {
	switch route.Kind {
	case service.RouteTrending:
		return h.AniList.Trending(ctx, route.Page, route.Limit)

	case service.RoutePopular:
		return h.AniList.Popular(ctx, route.Page, route.Limit)

	case service.RouteSeason:
		return h.AniList.Season(ctx, route.Season, route.Year, route.Page, route.Limit)

	case service.RouteSearch:
		return h.AniList.Search(ctx, service.SearchParams{
			Query:   route.Query,
			Genre:   route.Genre,
			Status:  route.Status,
			Year:    route.SearchYear,
			HasYear: route.HasYear,
			Page:    route.Page,
			PerPage: route.Limit,
		})

	case service.RouteGenre:
		return h.AniList.ByGenre(ctx, route.Genre, route.Page, route.Limit)

	case service.RouteStudio:
		result, studioName, err := h.AniList.ByStudio(ctx, route.Studio, route.Page, route.Limit)
		if err != nil {
			return nil, err
		}
		payload := gin.H{"data": result.Data, "pageInfo": result.PageInfo}
		if studioName != "" {
			payload["studio"] = studioName
		}
		return payload, nil

	default: // RouteByID
		media, err := h.AniList.ByID(ctx, route.ID)
		if err != nil {
			return nil, err
		}
		return gin.H{"data": media}, nil
	}
}
