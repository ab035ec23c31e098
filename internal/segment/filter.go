package segment

import (
	"strings"

	"crm-segments/internal/domain"
)

// SingleTagAll 单选过滤器的"不过滤"哨兵值
const SingleTagAll = "All"

// FilterState 一次会话的过滤条件
// SelectedTags 非空时完全覆盖 SingleTagFilter（AND 语义优先于单选 OR 语义）
type FilterState struct {
	SearchText      string
	SelectedTags    map[string]struct{} // 按标签展示名，子集语义
	SingleTagFilter string
	SearchInTags    bool // 可选增强：搜索词同时匹配标签名
}

// NewFilterState 返回不过滤任何记录的初始状态
func NewFilterState() FilterState {
	return FilterState{
		SelectedTags:    make(map[string]struct{}),
		SingleTagFilter: SingleTagAll,
	}
}

// ToggleSelectedTag 增删一个 AND 过滤标签
func (f *FilterState) ToggleSelectedTag(name string) {
	if f.SelectedTags == nil {
		f.SelectedTags = make(map[string]struct{})
	}
	if _, ok := f.SelectedTags[name]; ok {
		delete(f.SelectedTags, name)
	} else {
		f.SelectedTags[name] = struct{}{}
	}
}

// Filter 对已归一化的集合应用过滤条件，保持原相对顺序
// 空集合或零匹配返回空序列，不是错误
func Filter(records []domain.CustomerRecord, st FilterState) []domain.CustomerRecord {
	out := make([]domain.CustomerRecord, 0, len(records))
	for _, rec := range records {
		if matchesText(rec, st) && matchesTags(rec, st) {
			out = append(out, rec)
		}
	}
	return out
}

func matchesText(rec domain.CustomerRecord, st FilterState) bool {
	q := strings.ToLower(strings.TrimSpace(st.SearchText))
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(rec.Name), q) ||
		strings.Contains(strings.ToLower(rec.Email), q) ||
		strings.Contains(strings.ToLower(rec.City), q) {
		return true
	}
	if st.SearchInTags {
		for _, t := range rec.Tags {
			if strings.Contains(strings.ToLower(t.Name), q) {
				return true
			}
		}
	}
	return false
}

func matchesTags(rec domain.CustomerRecord, st FilterState) bool {
	if len(st.SelectedTags) > 0 {
		// AND / 子集语义：每个选中标签名都必须出现在记录上
		for name := range st.SelectedTags {
			if !rec.HasTagName(name) {
				return false
			}
		}
		return true
	}
	if st.SingleTagFilter != "" && st.SingleTagFilter != SingleTagAll {
		return rec.HasTagName(st.SingleTagFilter)
	}
	return true
}
