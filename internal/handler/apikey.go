package handler

import (
	"errors"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/user/aniview/internal/middleware"
	"github.com/user/aniview/internal/model"
	"github.com/user/aniview/internal/service"
	"github.com/user/aniview/internal/utils"
	"gorm.io/gorm"
)

// ListAPIKeys 获取当前用户的密钥列表（不含完整密钥）
func (h *Handler) ListAPIKeys(c *gin.Context) {
	userID := middleware.GetUserID(c)
	keys, err := h.Repos.APIKey.ListByUser(userID)
	if err != nil {
		utils.InternalServerError(c, "")
		return
	}
	utils.Success(c, keys)
}

// CreateAPIKeyRequest 创建密钥请求
type CreateAPIKeyRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

// CreateAPIKey 创建密钥
// 完整密钥只在这次响应里出现一次，之后无法再次获取
func (h *Handler) CreateAPIKey(c *gin.Context) {
	var req CreateAPIKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "参数不合法")
		return
	}

	userID := middleware.GetUserID(c)

	fullKey, err := service.GenerateKey()
	if err != nil {
		log.Printf("[APIKey] 生成密钥失败: %v", err)
		utils.InternalServerError(c, "")
		return
	}

	prefix := service.KeyPrefix(fullKey)
	record := &model.APIKey{
		UserID:        userID,
		Name:          req.Name,
		KeyHash:       service.HashKey(fullKey),
		KeyPrefix:     prefix,
		DisplayPrefix: prefix + "...",
		IsActive:      true,
		CreatedAt:     time.Now(),
	}

	if err := h.Repos.APIKey.Create(record); err != nil {
		log.Printf("[APIKey] 保存密钥失败: %v", err)
		utils.InternalServerError(c, "")
		return
	}

	utils.SuccessWithMessage(c, "密钥只显示这一次，请妥善保存", gin.H{
		"key":      record,
		"full_key": fullKey,
	})
}

// ToggleAPIKeyRequest 启停密钥请求
type ToggleAPIKeyRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// ToggleAPIKey 启用/停用密钥
func (h *Handler) ToggleAPIKey(c *gin.Context) {
	var req ToggleAPIKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "参数不合法")
		return
	}

	userID := middleware.GetUserID(c)
	err := h.Repos.APIKey.SetActive(userID, c.Param("id"), *req.IsActive)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.NotFound(c, "密钥不存在")
		return
	}
	if err != nil {
		utils.InternalServerError(c, "")
		return
	}
	utils.Success(c, nil)
}

// DeleteAPIKey 删除密钥
func (h *Handler) DeleteAPIKey(c *gin.Context) {
	userID := middleware.GetUserID(c)
	err := h.Repos.APIKey.Delete(userID, c.Param("id"))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.NotFound(c, "密钥不存在")
		return
	}
	if err != nil {
		utils.InternalServerError(c, "")
		return
	}
	utils.Success(c, nil)
}
