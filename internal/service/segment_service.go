package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"crm-segments/internal/client"
	"crm-segments/internal/domain"
	"crm-segments/internal/models"
	"crm-segments/internal/segment"
	"crm-segments/internal/store"
	"crm-segments/internal/tagedit"
)

// SnapshotKey 最近一次有效集合在 KV 里的键
const SnapshotKey = "crm:customers:snapshot"

// PageView 一次列表查询的完整返回
type PageView struct {
	Items      []CustomerRow            `json:"items"`
	Pagination models.BackendPagination `json:"pagination"`
	Histogram  []segment.TagCount       `json:"histogram"`
}

// CustomerRow 按列可见性物化后的展示行
// 隐藏列的字段不被物化（omitempty 使其不出现在响应里）
type CustomerRow struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name,omitempty"`
	Email       string   `json:"email,omitempty"`
	Demographic string   `json:"demographic,omitempty"`
	Community   string   `json:"community,omitempty"`
	Status      string   `json:"status,omitempty"`
	Product     string   `json:"product,omitempty"`
	Intent      string   `json:"intent,omitempty"`
	Revenue     string   `json:"revenue,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Selected    bool     `json:"selected"`
}

// SegmentService 客户分段会话服务
// 过滤/排序/分页/聚合都是对最近一次已提交集合的同步纯计算；
// 唯一的异步操作是集合重拉和标签更新提交
type SegmentService struct {
	mu sync.Mutex

	fetcher client.Fetcher
	updater client.TagUpdater
	kv      store.KV
	logger  *zap.Logger

	records   []domain.CustomerRecord // 已提交集合，整体替换，从不增量修补
	filter    segment.FilterState
	sortKey   segment.SortKey
	view      segment.ViewState
	columns   segment.ColumnVisibility
	selection segment.SelectionSet
	session   *tagedit.Session
}

// NewSegmentService 创建分段服务
func NewSegmentService(fetcher client.Fetcher, updater client.TagUpdater, kv store.KV, logger *zap.Logger) *SegmentService {
	return &SegmentService{
		fetcher:   fetcher,
		updater:   updater,
		kv:        kv,
		logger:    logger,
		records:   []domain.CustomerRecord{},
		filter:    segment.NewFilterState(),
		sortKey:   segment.SortNone,
		view:      segment.NewViewState(),
		columns:   segment.NewColumnVisibility(),
		selection: segment.NewSelectionSet(),
	}
}

// Bootstrap 启动时先用 KV 快照出数据，再做一次全量拉取
// 过滤/视图状态不随数据重载重置（仅由显式用户操作重置）
func (s *SegmentService) Bootstrap(ctx context.Context) {
	if raw, err := s.kv.Get(ctx, SnapshotKey); err == nil {
		s.commit(segment.Normalize([]byte(raw)), false)
	} else if err != store.ErrMiss {
		s.logger.Warn("snapshot read failed, starting empty", zap.Error(err))
	}
	s.Refresh(ctx)
}

// Refresh 全量重拉并整体替换已提交集合
// 拉取失败按约定退化为空集合，下游计算无需特判
func (s *SegmentService) Refresh(ctx context.Context) {
	raw, err := s.fetcher.FetchCollection(ctx)
	if err != nil {
		s.logger.Warn("collection fetch failed, committing empty collection", zap.Error(err))
		s.commit([]domain.CustomerRecord{}, false)
		return
	}
	s.commit(segment.Normalize(raw), true)
}

// commit 整体替换集合；writeThrough 时把快照写穿到 KV
func (s *SegmentService) commit(records []domain.CustomerRecord, writeThrough bool) {
	s.mu.Lock()
	s.records = records
	s.clampLocked()
	s.mu.Unlock()

	if !writeThrough {
		return
	}
	if data, err := json.Marshal(records); err == nil {
		if err := s.kv.Set(context.Background(), SnapshotKey, string(data), 24*time.Hour); err != nil {
			s.logger.Warn("snapshot write failed", zap.Error(err))
		}
	}
}

// clampLocked 过滤结果数量变化后把页号夹回合法区间（必须持锁调用）
func (s *SegmentService) clampLocked() {
	filtered := segment.Filter(s.records, s.filter)
	total := segment.TotalPages(len(filtered), s.view.PageSize)
	s.view.Page = segment.ClampPage(s.view.Page, total)
}

// SetSearch 更新搜索词
func (s *SegmentService) SetSearch(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter.SearchText = text
	s.clampLocked()
}

// SetSearchInTags 开关标签名搜索增强
func (s *SegmentService) SetSearchInTags(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter.SearchInTags = enabled
	s.clampLocked()
}

// ToggleSelectedTag 增删一个 AND 过滤标签
func (s *SegmentService) ToggleSelectedTag(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter.ToggleSelectedTag(name)
	s.clampLocked()
}

// ReplaceSelectedTags 整体替换 AND 过滤标签集合
func (s *SegmentService) ReplaceSelectedTags(names map[string]struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if names == nil {
		names = make(map[string]struct{})
	}
	s.filter.SelectedTags = names
	s.clampLocked()
}

// SetSingleTagFilter 设置单选过滤（"All" 为不过滤）
func (s *SegmentService) SetSingleTagFilter(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if name == "" {
		name = segment.SingleTagAll
	}
	s.filter.SingleTagFilter = name
	s.clampLocked()
}

// ResetFilter 显式重置过滤条件（回到第一页）
// 标签名搜索增强属于部署配置而非过滤条件，重置时保留
func (s *SegmentService) ResetFilter() {
	s.mu.Lock()
	defer s.mu.Unlock()
	inTags := s.filter.SearchInTags
	s.filter = segment.NewFilterState()
	s.filter.SearchInTags = inTags
	s.view.Page = 1
}

// SetSortKey 设置排序键
func (s *SegmentService) SetSortKey(key segment.SortKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sortKey = key
}

// SetPage 翻页（夹紧后生效）
func (s *SegmentService) SetPage(page int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view.Page = page
	s.clampLocked()
}

// SetPageSize 改页大小并重新夹紧页号
func (s *SegmentService) SetPageSize(size int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if size <= 0 {
		size = segment.DefaultPageSize
	}
	s.view.PageSize = size
	s.clampLocked()
}

// View 计算当前页视图：filter → sort → clamp → slice → 列投影 + 直方图
func (s *SegmentService) View() PageView {
	s.mu.Lock()
	defer s.mu.Unlock()

	filtered := segment.Filter(s.records, s.filter)
	ordered := segment.Sort(filtered, s.sortKey)
	total := segment.TotalPages(len(ordered), s.view.PageSize)
	s.view.Page = segment.ClampPage(s.view.Page, total)
	page := segment.Slice(ordered, s.view)

	items := make([]CustomerRow, 0, len(page))
	for _, rec := range page {
		items = append(items, s.projectLocked(rec))
	}

	return PageView{
		Items: items,
		Pagination: models.BackendPagination{
			Size:       s.view.PageSize,
			Page:       s.view.Page,
			Count:      len(ordered),
			TotalPages: total,
			Sort:       string(s.sortKey),
		},
		Histogram: segment.Histogram(filtered),
	}
}

// projectLocked 按列可见性物化一行（必须持锁调用）
func (s *SegmentService) projectLocked(rec domain.CustomerRecord) CustomerRow {
	row := CustomerRow{ID: rec.ID, Selected: s.selection.Has(rec.ID)}
	if s.columns[segment.ColName] {
		row.Name = rec.Name
	}
	if s.columns[segment.ColEmail] {
		row.Email = rec.Email
	}
	if s.columns[segment.ColDemographic] {
		row.Demographic, _ = rec.FirstTagInCategory(domain.CategoryKeywordDemographic)
	}
	if s.columns[segment.ColCommunity] {
		row.Community = rec.Community
	}
	if s.columns[segment.ColStatus] {
		row.Status, _ = rec.FirstTagInCategory(domain.CategoryKeywordStatus)
	}
	if s.columns[segment.ColProduct] {
		row.Product, _ = rec.FirstTagInCategory(domain.CategoryKeywordProduct)
	}
	if s.columns[segment.ColIntent] {
		row.Intent, _ = rec.FirstTagInCategory(domain.CategoryKeywordIntent)
	}
	if s.columns[segment.ColRevenue] {
		row.Revenue, _ = rec.FirstTagInCategory(domain.CategoryKeywordRevenue)
	}
	if s.columns[segment.ColTags] {
		row.Tags = rec.TagNames()
	}
	return row
}

// Summary 汇总 tile（对全量集合，不受过滤影响）
func (s *SegmentService) Summary() segment.TileCounts {
	s.mu.Lock()
	defer s.mu.Unlock()
	return segment.SummaryTiles(s.records)
}

// Histogram 当前过滤集的标签直方图
func (s *SegmentService) Histogram() []segment.TagCount {
	s.mu.Lock()
	defer s.mu.Unlock()
	return segment.Histogram(segment.Filter(s.records, s.filter))
}

// DistinctTagNames 全量集合的去重标签名（单选过滤候选项）
func (s *SegmentService) DistinctTagNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return segment.DistinctTagNames(s.records)
}

// ToggleColumn 翻转一列可见性
func (s *SegmentService) ToggleColumn(key segment.ColumnKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.columns.Toggle(key)
}

// VisibleColumns 当前可见列（目录顺序）
func (s *SegmentService) VisibleColumns() []segment.ColumnKey {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.columns.Visible()
}

// ToggleSelect 单条选择翻转
func (s *SegmentService) ToggleSelect(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection.Toggle(id)
}

// ToggleSelectPage 整页选择切换：只作用于当前页 id，跨页已选保持
func (s *SegmentService) ToggleSelectPage() {
	s.mu.Lock()
	defer s.mu.Unlock()
	page := s.currentPageLocked()
	ids := make([]int64, 0, len(page))
	for _, rec := range page {
		ids = append(ids, rec.ID)
	}
	s.selection.TogglePage(ids)
}

// ClearSelection 清空全部选择（显式用户操作）
func (s *SegmentService) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection.Clear()
}

func (s *SegmentService) currentPageLocked() []domain.CustomerRecord {
	filtered := segment.Filter(s.records, s.filter)
	ordered := segment.Sort(filtered, s.sortKey)
	total := segment.TotalPages(len(ordered), s.view.PageSize)
	s.view.Page = segment.ClampPage(s.view.Page, total)
	return segment.Slice(ordered, s.view)
}

// ExportCSV 选择集 ∩ 当前页行 → CSV；交集为空返回 nil（不产文件）
// 注意这是与前端行为对齐的选择：其它页已选的行不进导出
func (s *SegmentService) ExportCSV() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return segment.ExportCSV(s.currentPageLocked(), s.selection)
}

// ExportXLSX 与 ExportCSV 相同行集合的 Excel 变体
func (s *SegmentService) ExportXLSX() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return segment.ExportXLSX(s.currentPageLocked(), s.selection)
}

// OpenTagEditor 对指定客户打开标签编辑会话（快照其当前 slug 集）
// 已有会话被新会话替换；目标不存在返回 false
func (s *SegmentService) OpenTagEditor(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range s.records {
		if rec.ID == id {
			s.session = tagedit.Open(rec, s.updater, s.logger, func(ctx context.Context) {
				s.Refresh(ctx)
			})
			return true
		}
	}
	return false
}

// TagEditor 当前编辑会话（可能为 nil）
func (s *SegmentService) TagEditor() *tagedit.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}
