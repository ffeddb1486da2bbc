package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/user/aniview/internal/model"
	"gorm.io/gorm"
)

type APIKeyRepository struct {
	db *gorm.DB
}

func NewAPIKeyRepository(db *gorm.DB) *APIKeyRepository {
	return &APIKeyRepository{db: db}
}

// Create 创建 API 密钥记录（调用方负责生成完整密钥并计算哈希/前缀）
func (r *APIKeyRepository) Create(key *model.APIKey) error {
	if key.ID == "" {
		key.ID = uuid.NewString()
	}
	if key.CreatedAt.IsZero() {
		key.CreatedAt = time.Now()
	}
	return r.db.Create(key).Error
}

// ListByUser 获取用户的全部密钥，新的在前
func (r *APIKeyRepository) ListByUser(userID int) ([]*model.APIKey, error) {
	var keys []*model.APIKey
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&keys).Error
	return keys, err
}

// FindActiveByPrefix 根据前缀查找处于启用状态的密钥
// 未找到和已停用不作区分，统一返回 nil
func (r *APIKeyRepository) FindActiveByPrefix(prefix string) (*model.APIKey, error) {
	var key model.APIKey
	err := r.db.Where("key_prefix = ? AND is_active = ?", prefix, true).First(&key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &key, nil
}

// RecordUsage 记录一次使用：原子自增计数并刷新最后使用时间
func (r *APIKeyRepository) RecordUsage(id string) error {
	return r.db.Model(&model.APIKey{}).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"requests_count": gorm.Expr("requests_count + 1"),
			"last_used_at":   time.Now(),
		}).Error
}

// SetActive 启用/停用密钥，只能操作属于自己的记录
func (r *APIKeyRepository) SetActive(userID int, id string, active bool) error {
	result := r.db.Model(&model.APIKey{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_active", active)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete 删除密钥，只能操作属于自己的记录
func (r *APIKeyRepository) Delete(userID int, id string) error {
	result := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&model.APIKey{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
