package segment

import "crm-segments/internal/domain"

// SelectionSet 已选记录 id 集合
// 作用域约定：整页切换只影响当前页的 id，但跨页导航后已选 id 保持不变
type SelectionSet map[int64]struct{}

// NewSelectionSet 空选择集
func NewSelectionSet() SelectionSet {
	return make(SelectionSet)
}

// Has 判断 id 是否已选
func (s SelectionSet) Has(id int64) bool {
	_, ok := s[id]
	return ok
}

// Toggle 单条翻转
func (s SelectionSet) Toggle(id int64) {
	if _, ok := s[id]; ok {
		delete(s, id)
	} else {
		s[id] = struct{}{}
	}
}

// TogglePage 整页切换：当前页 id 已全选则仅清除这些 id，否则补选全部
// 其它页已选的 id 不受影响
func (s SelectionSet) TogglePage(pageIDs []int64) {
	if len(pageIDs) == 0 {
		return
	}
	all := true
	for _, id := range pageIDs {
		if !s.Has(id) {
			all = false
			break
		}
	}
	for _, id := range pageIDs {
		if all {
			delete(s, id)
		} else {
			s[id] = struct{}{}
		}
	}
}

// Clear 清空全部选择
func (s SelectionSet) Clear() {
	for id := range s {
		delete(s, id)
	}
}

// EffectiveRows 选择集与当前页行的交集，保持页内顺序
// 导出只作用于这个交集（跨页选择不在导出范围内）
func (s SelectionSet) EffectiveRows(pageRows []domain.CustomerRecord) []domain.CustomerRecord {
	out := make([]domain.CustomerRecord, 0, len(pageRows))
	for _, rec := range pageRows {
		if s.Has(rec.ID) {
			out = append(out, rec)
		}
	}
	return out
}
