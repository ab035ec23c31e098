package segment

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"crm-segments/internal/domain"
)

// SortKey 列表排序键
type SortKey string

const (
	SortNone    SortKey = "none"
	SortName    SortKey = "name"
	SortCreated SortKey = "created"
	SortCity    SortKey = "city"
)

// ParseSortKey 把请求参数映射为排序键；未知值按 none 处理
func ParseSortKey(s string) SortKey {
	switch SortKey(s) {
	case SortName, SortCreated, SortCity:
		return SortKey(s)
	default:
		return SortNone
	}
}

// Sort 返回按指定键排序的新序列，输入不被修改
// 排序是稳定的：键相等的记录保持原相对顺序
// 字符串键缺失（空值）的记录排在所有有值记录之后
func Sort(records []domain.CustomerRecord, key SortKey) []domain.CustomerRecord {
	out := make([]domain.CustomerRecord, len(records))
	copy(out, records)
	if key == SortNone {
		return out
	}

	// collate.Collator 不保证并发安全，按调用新建
	col := collate.New(language.English)

	switch key {
	case SortName:
		sort.SliceStable(out, func(i, j int) bool {
			return lessStringNullsLast(col, out[i].Name, out[j].Name)
		})
	case SortCity:
		sort.SliceStable(out, func(i, j int) bool {
			return lessStringNullsLast(col, out[i].City, out[j].City)
		})
	case SortCreated:
		// 最近的在前；零值时间自然排在最后
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		})
	}
	return out
}

func lessStringNullsLast(col *collate.Collator, a, b string) bool {
	switch {
	case a == "" && b == "":
		return false
	case a == "":
		return false
	case b == "":
		return true
	default:
		return col.CompareString(a, b) < 0
	}
}
