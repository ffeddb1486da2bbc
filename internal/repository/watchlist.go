package repository

import (
	"errors"
	"time"

	"github.com/user/aniview/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WatchlistRepository struct {
	db *gorm.DB
}

func NewWatchlistRepository(db *gorm.DB) *WatchlistRepository {
	return &WatchlistRepository{db: db}
}

// Upsert 添加追番记录，已存在时更新状态和展示字段
// (user_id, anime_id) 唯一，依赖 ON CONFLICT
func (r *WatchlistRepository) Upsert(item *model.WatchlistItem) error {
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
	}
	item.UpdatedAt = time.Now()
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "anime_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"anime_title", "anime_cover_image", "status", "updated_at"}),
	}).Create(item).Error
}

// SetStatus 更新追番状态
func (r *WatchlistRepository) SetStatus(userID, animeID int, status string) error {
	result := r.db.Model(&model.WatchlistItem{}).
		Where("user_id = ? AND anime_id = ?", userID, animeID).
		UpdateColumns(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Remove 移除追番记录
func (r *WatchlistRepository) Remove(userID, animeID int) error {
	return r.db.Where("user_id = ? AND anime_id = ?", userID, animeID).Delete(&model.WatchlistItem{}).Error
}

// GetByUserAndAnime 查询单条追番记录
func (r *WatchlistRepository) GetByUserAndAnime(userID, animeID int) (*model.WatchlistItem, error) {
	var item model.WatchlistItem
	err := r.db.Where("user_id = ? AND anime_id = ?", userID, animeID).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// ListByUser 获取用户追番列表，status 为空时返回全部
func (r *WatchlistRepository) ListByUser(userID int, status string, limit, offset int) ([]*model.WatchlistItem, error) {
	var items []*model.WatchlistItem
	query := r.db.Where("user_id = ?", userID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&items).Error
	return items, err
}

// CountByUser 统计用户追番数量
func (r *WatchlistRepository) CountByUser(userID int, status string) (int, error) {
	var count int64
	query := r.db.Model(&model.WatchlistItem{}).Where("user_id = ?", userID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Count(&count).Error
	return int(count), err
}
