package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"crm-segments/internal/domain"
	"crm-segments/internal/segment"
	"crm-segments/internal/service"
	"crm-segments/internal/tagedit"
)

// CustomerHandler 客户分段 API
type CustomerHandler struct {
	svc    *service.SegmentService
	logger *zap.Logger
}

func NewCustomerHandler(svc *service.SegmentService, logger *zap.Logger) *CustomerHandler {
	return &CustomerHandler{svc: svc, logger: logger}
}

// GET /crm/api/v1/customers
// params:
// - search? string
// - searchInTags? "true"|"false"
// - tags? 逗号分隔的标签名（AND 过滤，覆盖 tag 参数）
// - tag? 单选过滤（"All" 为不过滤）
// - sort? name|created|city|none
// - page? number (default 1)
// - pageSize? number (default 10)
func (h *CustomerHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if q.Has("search") {
		h.svc.SetSearch(q.Get("search"))
	}
	if q.Has("searchInTags") {
		h.svc.SetSearchInTags(q.Get("searchInTags") == "true")
	}
	if q.Has("tags") {
		h.applySelectedTags(q.Get("tags"))
	}
	if q.Has("tag") {
		h.svc.SetSingleTagFilter(q.Get("tag"))
	}
	if q.Has("sort") {
		h.svc.SetSortKey(segment.ParseSortKey(q.Get("sort")))
	}
	if q.Has("pageSize") {
		h.svc.SetPageSize(parseInt(q.Get("pageSize"), segment.DefaultPageSize))
	}
	if q.Has("page") {
		h.svc.SetPage(parseInt(q.Get("page"), 1))
	}

	writeJSON(w, http.StatusOK, Ok(h.svc.View()))
}

// applySelectedTags 把逗号分隔的标签名集合同步到会话过滤状态
func (h *CustomerHandler) applySelectedTags(raw string) {
	want := make(map[string]struct{})
	for _, name := range strings.Split(raw, ",") {
		if name = strings.TrimSpace(name); name != "" {
			want[name] = struct{}{}
		}
	}
	h.svc.ReplaceSelectedTags(want)
}

// GET /crm/api/v1/customers/summary
func (h *CustomerHandler) Summary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Ok(h.svc.Summary()))
}

// GET /crm/api/v1/customers/histogram
func (h *CustomerHandler) Histogram(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Ok(h.svc.Histogram()))
}

// GET /crm/api/v1/tags
// 静态目录 + 全量集合里实际出现过的标签名（单选候选）
func (h *CustomerHandler) Tags(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Ok(map[string]any{
		"taxonomy": domain.Taxonomy,
		"distinct": h.svc.DistinctTagNames(),
	}))
}

// POST /crm/api/v1/customers/refresh
func (h *CustomerHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	h.svc.Refresh(r.Context())
	writeJSON(w, http.StatusOK, Ok(map[string]any{"refreshed": true}))
}

// POST /crm/api/v1/customers/reset
// 清空搜索词与标签过滤并回到第一页，返回重置后的页面视图
func (h *CustomerHandler) ResetFilter(w http.ResponseWriter, r *http.Request) {
	h.svc.ResetFilter()
	writeJSON(w, http.StatusOK, Ok(h.svc.View()))
}

type selectionRequest struct {
	// id 缺省时表示整页切换
	ID    *int64 `json:"id"`
	Clear bool   `json:"clear"`
}

// POST /crm/api/v1/customers/selection
func (h *CustomerHandler) Selection(w http.ResponseWriter, r *http.Request) {
	var req selectionRequest
	if err := readBodyJSON(r, 1<<16, &req); err != nil {
		writeJSON(w, http.StatusOK, Fail("invalid selection request"))
		return
	}
	switch {
	case req.Clear:
		h.svc.ClearSelection()
	case req.ID != nil:
		h.svc.ToggleSelect(*req.ID)
	default:
		h.svc.ToggleSelectPage()
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{"success": true}))
}

type columnsRequest struct {
	Key string `json:"key"`
}

// POST /crm/api/v1/customers/columns
func (h *CustomerHandler) Columns(w http.ResponseWriter, r *http.Request) {
	var req columnsRequest
	if err := readBodyJSON(r, 1<<16, &req); err != nil || req.Key == "" {
		writeJSON(w, http.StatusOK, Fail("column key is required"))
		return
	}
	h.svc.ToggleColumn(segment.ColumnKey(req.Key))
	writeJSON(w, http.StatusOK, Ok(map[string]any{
		"visible": h.svc.VisibleColumns(),
	}))
}

// GET /crm/api/v1/customers/export
// 选择集与当前页的交集为空时返回 204（不生成空文件）
func (h *CustomerHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	data := h.svc.ExportCSV()
	if data == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("Content-Type", segment.ExportMIME+"; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+segment.ExportFilename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// GET /crm/api/v1/customers/export.xlsx
func (h *CustomerHandler) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	data, err := h.svc.ExportXLSX()
	if err != nil {
		h.logger.Warn("xlsx export failed", zap.Error(err))
		writeJSON(w, http.StatusOK, Fail(fmt.Sprintf("failed to export: %v", err)))
		return
	}
	if data == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+segment.ExcelFilename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

type tagEditRequest struct {
	Slug string `json:"slug"`
}

// TagEdit POST /crm/api/v1/customers/{id}/tags/{op}
// op: open | toggle | save | cancel
func (h *CustomerHandler) TagEdit(w http.ResponseWriter, r *http.Request, idRaw, op string) {
	id, err := strconv.ParseInt(idRaw, 10, 64)
	if err != nil {
		writeJSON(w, http.StatusOK, Fail("invalid customer id"))
		return
	}

	switch op {
	case "open":
		if !h.svc.OpenTagEditor(id) {
			writeJSON(w, http.StatusOK, Fail("customer not found"))
			return
		}
		sess := h.svc.TagEditor()
		writeJSON(w, http.StatusOK, Ok(map[string]any{
			"session_id": sess.ID,
			"status":     sess.Status(),
			"slugs":      sess.Slugs(),
		}))

	case "toggle":
		sess, ok := h.editorFor(w, id)
		if !ok {
			return
		}
		var req tagEditRequest
		if err := readBodyJSON(r, 1<<16, &req); err != nil || req.Slug == "" {
			writeJSON(w, http.StatusOK, Fail("slug is required"))
			return
		}
		if err := sess.Toggle(req.Slug); err != nil {
			writeJSON(w, http.StatusOK, Fail(err.Error()))
			return
		}
		writeJSON(w, http.StatusOK, Ok(map[string]any{"slugs": sess.Slugs()}))

	case "save":
		sess, ok := h.editorFor(w, id)
		if !ok {
			return
		}
		if err := sess.Save(r.Context()); err != nil {
			if err == tagedit.ErrSaveInFlight {
				// 在途保存不算错误：重复请求被忽略
				writeJSON(w, http.StatusOK, Ok(map[string]any{"status": sess.Status()}))
				return
			}
			writeJSON(w, http.StatusOK, Fail(err.Error()))
			return
		}
		writeJSON(w, http.StatusOK, Ok(map[string]any{"status": sess.Status()}))

	case "cancel":
		sess, ok := h.editorFor(w, id)
		if !ok {
			return
		}
		sess.Cancel()
		writeJSON(w, http.StatusOK, Ok(map[string]any{"status": sess.Status()}))

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *CustomerHandler) editorFor(w http.ResponseWriter, id int64) (*tagedit.Session, bool) {
	sess := h.svc.TagEditor()
	if sess == nil || sess.TargetID != id {
		writeJSON(w, http.StatusOK, Fail("no open tag edit session for customer"))
		return nil, false
	}
	return sess, true
}
