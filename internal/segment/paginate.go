package segment

import "crm-segments/internal/domain"

// DefaultPageSize 列表页默认条数
const DefaultPageSize = 10

// ViewState 分页视图状态（page 从 1 开始）
type ViewState struct {
	Page     int
	PageSize int
}

// NewViewState 返回第一页、默认页大小的视图状态
func NewViewState() ViewState {
	return ViewState{Page: 1, PageSize: DefaultPageSize}
}

// TotalPages 总页数 = ceil(count/pageSize)；空集合为 0（不渲染分页控件）
func TotalPages(count, pageSize int) int {
	if count <= 0 || pageSize <= 0 {
		return 0
	}
	return (count + pageSize - 1) / pageSize
}

// ClampPage 把页号夹在 [1, max(totalPages,1)] 内
// 过滤结果变化后调用方必须重新夹紧，否则会得到越界的空页且无任何报错
func ClampPage(page, totalPages int) int {
	maxPage := totalPages
	if maxPage < 1 {
		maxPage = 1
	}
	if page < 1 {
		return 1
	}
	if page > maxPage {
		return maxPage
	}
	return page
}

// Slice 取出 [(page-1)*pageSize, page*pageSize) 区间
// 越界时返回空序列（夹紧由 ClampPage 负责）
func Slice(records []domain.CustomerRecord, vs ViewState) []domain.CustomerRecord {
	if vs.PageSize <= 0 || vs.Page < 1 {
		return []domain.CustomerRecord{}
	}
	start := (vs.Page - 1) * vs.PageSize
	if start >= len(records) {
		return []domain.CustomerRecord{}
	}
	end := start + vs.PageSize
	if end > len(records) {
		end = len(records)
	}
	return records[start:end]
}
