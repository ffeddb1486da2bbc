package service

import (
	"fmt"
	"log"
	"strings"

	"github.com/pgvector/pgvector-go"
	"github.com/user/aniview/internal/model"
	"github.com/user/aniview/internal/repository"
	"github.com/user/aniview/internal/utils"
)

// SimilarService 相似番剧推荐服务
// 基于番剧缓存表里的向量做余弦距离检索
type SimilarService struct {
	cacheRepo *repository.AnimeCacheRepository
}

// NewSimilarService 创建推荐服务
func NewSimilarService(cacheRepo *repository.AnimeCacheRepository) *SimilarService {
	return &SimilarService{cacheRepo: cacheRepo}
}

// FindSimilar 查找相似番剧
func (s *SimilarService) FindSimilar(animeID, limit int) ([]model.AnimeCache, error) {
	source, err := s.cacheRepo.FindByAnimeID(animeID)
	if err != nil {
		return nil, err
	}
	if source == nil || source.Embedding == nil {
		return nil, fmt.Errorf("番剧 %d 尚未生成向量", animeID)
	}

	return s.cacheRepo.FindSimilar(animeID, limit)
}

// CacheAndEnrich 落库番剧信息并补全向量
// 详情页每次访问都会走到这里，向量生成放在后台，失败只记日志
func (s *SimilarService) CacheAndEnrich(media *model.Media) {
	anime := toAnimeCache(media)
	if err := s.cacheRepo.Upsert(anime); err != nil {
		log.Printf("[Similar] 番剧落库失败 (ID: %d): %v", media.ID, err)
		return
	}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("[Similar] 向量生成发生恐慌 (ID: %d): %v", anime.AnimeID, r)
			}
		}()
		if err := s.enrichEmbedding(anime); err != nil {
			log.Printf("[Similar] 向量生成失败 (ID: %d): %v", anime.AnimeID, err)
		}
	}()
}

// enrichEmbedding 拼接文本内容、调用 Ollama 生成向量并写库
func (s *SimilarService) enrichEmbedding(anime *model.AnimeCache) error {
	existing, err := s.cacheRepo.FindByAnimeID(anime.AnimeID)
	if err != nil {
		return err
	}
	// 已有向量就不重复生成
	if existing != nil && existing.Embedding != nil {
		return nil
	}

	content := fmt.Sprintf("标题: %s | 类型: %s | 简介: %s",
		anime.Title,
		anime.Genres,
		anime.Description,
	)
	content = utils.Truncate(content, 1000)

	vec, err := utils.GenerateEmbedding(content)
	if err != nil {
		return err
	}
	if len(vec) == 0 {
		return fmt.Errorf("Ollama 返回了空向量")
	}
	if len(vec) != 768 {
		return fmt.Errorf("向量维度不匹配: 期望 768, 实际 %d", len(vec))
	}

	v := pgvector.NewVector(vec)
	return s.cacheRepo.UpdateEmbedding(anime.AnimeID, content, &v)
}

// toAnimeCache 把上游番剧结构拍平成缓存行
func toAnimeCache(m *model.Media) *model.AnimeCache {
	anime := &model.AnimeCache{
		AnimeID:    m.ID,
		Title:      m.Title.Romaji,
		CoverImage: m.CoverImage.Large,
		Status:     m.Status,
		Format:     m.Format,
		Genres:     strings.Join(m.Genres, ","),
		Popularity: m.Popularity,
	}
	if m.Title.English != nil {
		anime.TitleEnglish = *m.Title.English
	}
	if m.Title.Native != nil {
		anime.TitleNative = *m.Title.Native
	}
	if m.BannerImage != nil {
		anime.BannerImage = *m.BannerImage
	}
	if m.Description != nil {
		anime.Description = utils.StripHTML(*m.Description)
	}
	if m.Episodes != nil {
		anime.Episodes = *m.Episodes
	}
	if m.AverageScore != nil {
		anime.AverageScore = *m.AverageScore
	}
	if m.Season != nil {
		anime.Season = *m.Season
	}
	if m.SeasonYear != nil {
		anime.SeasonYear = *m.SeasonYear
	}
	if len(m.Studios.Nodes) > 0 {
		anime.StudioName = m.Studios.Nodes[0].Name
	}
	return anime
}
