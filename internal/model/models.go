package model

import (
	"time"

	"github.com/pgvector/pgvector-go"
)

// User 用户模型
type User struct {
	ID           int       `json:"id" db:"id"`
	Email        string    `json:"email" db:"email" gorm:"unique"`
	Username     string    `json:"username" db:"username" gorm:"unique"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         string    `json:"role" db:"role"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// APIKey API 密钥模型
// 完整密钥只在创建时返回一次，库里只存 SHA-256 哈希和用于查找的前缀
type APIKey struct {
	ID            string     `json:"id" db:"id" gorm:"primaryKey;size:36"`
	UserID        int        `json:"user_id" db:"user_id" gorm:"index;not null"`
	Name          string     `json:"name" db:"name" gorm:"size:100;not null"`
	KeyHash       string     `json:"-" db:"key_hash" gorm:"size:64;not null"`
	KeyPrefix     string     `json:"-" db:"key_prefix" gorm:"size:10;index;not null"`
	DisplayPrefix string     `json:"key_prefix" db:"display_prefix" gorm:"size:16"`
	IsActive      bool       `json:"is_active" db:"is_active" gorm:"default:true"`
	RequestsCount int64      `json:"requests_count" db:"requests_count" gorm:"default:0"`
	LastUsedAt    *time.Time `json:"last_used_at" db:"last_used_at"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
}

// 追番状态
const (
	StatusWantToWatch = "want_to_watch"
	StatusWatching    = "watching"
	StatusCompleted   = "completed"
	StatusDropped     = "dropped"
)

// WatchStatuses 所有合法的追番状态
var WatchStatuses = []string{StatusWantToWatch, StatusWatching, StatusCompleted, StatusDropped}

// WatchlistItem 追番记录，(user_id, anime_id) 唯一
type WatchlistItem struct {
	ID              int       `json:"id" db:"id"`
	UserID          int       `json:"user_id" db:"user_id" gorm:"uniqueIndex:idx_user_anime;not null"`
	AnimeID         int       `json:"anime_id" db:"anime_id" gorm:"uniqueIndex:idx_user_anime;not null"`
	AnimeTitle      string    `json:"anime_title" db:"anime_title"`
	AnimeCoverImage string    `json:"anime_cover_image" db:"anime_cover_image"`
	Status          string    `json:"status" db:"status" gorm:"size:20;default:want_to_watch"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// AnimeCache 番剧缓存模型（AniList 信息落库，仅作展示与推荐用，不是权威数据源）
type AnimeCache struct {
	ID               int              `json:"id" db:"id"`
	AnimeID          int              `json:"anime_id" db:"anime_id" gorm:"unique"`
	Title            string           `json:"title" db:"title"`
	TitleEnglish     string           `json:"title_english" db:"title_english"`
	TitleNative      string           `json:"title_native" db:"title_native"`
	CoverImage       string           `json:"cover_image" db:"cover_image"`
	BannerImage      string           `json:"banner_image" db:"banner_image"`
	Description      string           `json:"description" db:"description"`
	Episodes         int              `json:"episodes" db:"episodes"`
	Status           string           `json:"status" db:"status"`
	Format           string           `json:"format" db:"format"`
	Genres           string           `json:"genres" db:"genres"` // 逗号分隔
	AverageScore     int              `json:"average_score" db:"average_score" gorm:"index"`
	Popularity       int              `json:"popularity" db:"popularity"`
	Season           string           `json:"season" db:"season"`
	SeasonYear       int              `json:"season_year" db:"season_year"`
	StudioName       string           `json:"studio_name" db:"studio_name"`
	EmbeddingContent string           `json:"embedding_content" db:"embedding_content"`
	Embedding        *pgvector.Vector `json:"-" db:"embedding" gorm:"type:vector(768)"`
	UpdatedAt        time.Time        `json:"updated_at" db:"updated_at" gorm:"index"`
}
