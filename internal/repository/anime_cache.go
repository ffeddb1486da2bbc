package repository

import (
	"errors"
	"time"

	"github.com/user/aniview/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AnimeCacheRepository struct {
	db *gorm.DB
}

func NewAnimeCacheRepository(db *gorm.DB) *AnimeCacheRepository {
	return &AnimeCacheRepository{db: db}
}

// Upsert 落库番剧信息，按 anime_id 冲突更新
// embedding 单独由 UpdateEmbedding 写入，避免覆盖已有向量
func (r *AnimeCacheRepository) Upsert(anime *model.AnimeCache) error {
	anime.UpdatedAt = time.Now()
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "anime_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"title", "title_english", "title_native", "cover_image", "banner_image",
			"description", "episodes", "status", "format", "genres",
			"average_score", "popularity", "season", "season_year", "studio_name",
			"updated_at",
		}),
	}).Create(anime).Error
}

// FindByAnimeID 根据 AniList ID 查找
func (r *AnimeCacheRepository) FindByAnimeID(animeID int) (*model.AnimeCache, error) {
	var anime model.AnimeCache
	err := r.db.Where("anime_id = ?", animeID).First(&anime).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &anime, nil
}

// UpdateEmbedding 写入向量和原始拼接内容
func (r *AnimeCacheRepository) UpdateEmbedding(animeID int, content string, embedding interface{}) error {
	return r.db.Model(&model.AnimeCache{}).
		Where("anime_id = ?", animeID).
		UpdateColumns(map[string]interface{}{
			"embedding_content": content,
			"embedding":         embedding,
		}).Error
}

// FindSimilar 根据向量余弦距离查找相似番剧
func (r *AnimeCacheRepository) FindSimilar(animeID, limit int) ([]model.AnimeCache, error) {
	var results []model.AnimeCache
	err := r.db.Raw(`
		SELECT * FROM anime_caches
		WHERE anime_id <> ? AND embedding IS NOT NULL
		ORDER BY embedding <=> (SELECT embedding FROM anime_caches WHERE anime_id = ?)
		LIMIT ?`, animeID, animeID, limit).
		Scan(&results).Error
	return results, err
}
