package model

// AniList 返回结构的映射，json tag 与上游 GraphQL 字段保持一致，
// 网关原样回传时不改变字段名

// MediaTitle 番剧标题（三种写法）
type MediaTitle struct {
	Romaji  string  `json:"romaji"`
	English *string `json:"english"`
	Native  *string `json:"native"`
}

// MediaCoverImage 封面图
type MediaCoverImage struct {
	Large      string  `json:"large"`
	ExtraLarge string  `json:"extraLarge"`
	Color      *string `json:"color"`
}

// FuzzyDate AniList 的模糊日期（年月日均可缺失）
type FuzzyDate struct {
	Year  *int `json:"year"`
	Month *int `json:"month"`
	Day   *int `json:"day"`
}

// NextAiringEpisode 下一集播出信息
type NextAiringEpisode struct {
	AiringAt        int64 `json:"airingAt"`
	Episode         int   `json:"episode"`
	TimeUntilAiring int64 `json:"timeUntilAiring"`
}

// MediaTrailer 预告片引用
type MediaTrailer struct {
	ID        string `json:"id"`
	Site      string `json:"site"`
	Thumbnail string `json:"thumbnail"`
}

// StudioNode 制作公司
type StudioNode struct {
	Name string `json:"name"`
}

// StudioConnection 制作公司列表
type StudioConnection struct {
	Nodes []StudioNode `json:"nodes"`
}

// Media 番剧条目（与 MediaFields fragment 一一对应）
type Media struct {
	ID                int                `json:"id"`
	Title             MediaTitle         `json:"title"`
	CoverImage        MediaCoverImage    `json:"coverImage"`
	BannerImage       *string            `json:"bannerImage"`
	Description       *string            `json:"description"`
	Episodes          *int               `json:"episodes"`
	Status            string             `json:"status"`
	Format            string             `json:"format"`
	Genres            []string           `json:"genres"`
	AverageScore      *int               `json:"averageScore"`
	Popularity        int                `json:"popularity"`
	Season            *string            `json:"season"`
	SeasonYear        *int               `json:"seasonYear"`
	StartDate         FuzzyDate          `json:"startDate"`
	NextAiringEpisode *NextAiringEpisode `json:"nextAiringEpisode"`
	Trailer           *MediaTrailer      `json:"trailer"`
	Studios           StudioConnection   `json:"studios"`
}

// PageInfo 分页信息
type PageInfo struct {
	Total       int  `json:"total"`
	CurrentPage int  `json:"currentPage"`
	LastPage    int  `json:"lastPage"`
	HasNextPage bool `json:"hasNextPage"`
	PerPage     int  `json:"perPage"`
}

// AiringSchedule 播出日程条目
type AiringSchedule struct {
	ID       int   `json:"id"`
	AiringAt int64 `json:"airingAt"`
	Episode  int   `json:"episode"`
	MediaID  int   `json:"mediaId"`
	Media    Media `json:"media"`
}
