package service

import "time"

// CurrentSeason 根据给定时间计算番剧季度和年份
// 1-3月 WINTER，4-6月 SPRING，7-9月 SUMMER，10-12月 FALL
// 时间作为显式参数传入，方便测试
func CurrentSeason(now time.Time) (string, int) {
	month := int(now.Month())
	var season string
	switch {
	case month <= 3:
		season = "WINTER"
	case month <= 6:
		season = "SPRING"
	case month <= 9:
		season = "SUMMER"
	default:
		season = "FALL"
	}
	return season, now.Year()
}
