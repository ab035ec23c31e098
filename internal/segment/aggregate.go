package segment

import (
	"sort"

	"crm-segments/internal/domain"
)

// TileCounts 汇总 tile：对全量（未过滤）集合按固定 slug 计数
// 这些计数不随当前过滤条件变化
type TileCounts struct {
	HighValue     int `json:"high_value"`
	NeedsFollowUp int `json:"needs_follow_up"`
	BirthdayWeek  int `json:"birthday_week"`
	NewLeads      int `json:"new_leads"`
}

// SummaryTiles 统计带有各 tile slug 的记录数
func SummaryTiles(all []domain.CustomerRecord) TileCounts {
	var tiles TileCounts
	for _, rec := range all {
		if rec.HasTagSlug(domain.SlugHighValue) {
			tiles.HighValue++
		}
		if rec.HasTagSlug(domain.SlugNeedsFollowUp) {
			tiles.NeedsFollowUp++
		}
		if rec.HasTagSlug(domain.SlugBirthdayWeek) {
			tiles.BirthdayWeek++
		}
		if rec.HasTagSlug(domain.SlugNewLead) {
			tiles.NewLeads++
		}
	}
	return tiles
}

// TagCount 分段直方图的一个桶
type TagCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Histogram 对当前过滤后的序列统计 标签名 → 出现次数
// 一条带 k 个标签的记录累加 k 个桶（按标签实例计数，不是按记录）
// 桶顺序 = 标签名首次出现的顺序
func Histogram(filtered []domain.CustomerRecord) []TagCount {
	index := make(map[string]int)
	out := make([]TagCount, 0)
	for _, rec := range filtered {
		for _, t := range rec.Tags {
			if i, ok := index[t.Name]; ok {
				out[i].Count++
				continue
			}
			index[t.Name] = len(out)
			out = append(out, TagCount{Name: t.Name, Count: 1})
		}
	}
	return out
}

// DistinctTagNames 全量集合中出现过的标签名去重后升序排列（区分大小写）
// 用于填充单选过滤器的候选列表
func DistinctTagNames(all []domain.CustomerRecord) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, rec := range all {
		for _, t := range rec.Tags {
			if _, ok := seen[t.Name]; ok {
				continue
			}
			seen[t.Name] = struct{}{}
			out = append(out, t.Name)
		}
	}
	sort.Strings(out)
	return out
}
