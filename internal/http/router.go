package httpapi

import (
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// Router 使用标准库 http.ServeMux（避免引入第三方路由依赖）
type Router struct {
	mux    *http.ServeMux
	logger *zap.Logger
}

func NewRouter(logger *zap.Logger) *Router {
	return &Router{
		mux:    http.NewServeMux(),
		logger: logger,
	}
}

func (r *Router) Handle(pattern string, h http.HandlerFunc) {
	r.mux.HandleFunc(pattern, h)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// RegisterCustomerRoutes 注册与 crmFront 对齐的分段路由
func (r *Router) RegisterCustomerRoutes(h *CustomerHandler) {
	r.Handle("/crm/api/v1/customers", requireMethod(http.MethodGet, h.ListCustomers))
	r.Handle("/crm/api/v1/customers/summary", requireMethod(http.MethodGet, h.Summary))
	r.Handle("/crm/api/v1/customers/histogram", requireMethod(http.MethodGet, h.Histogram))
	r.Handle("/crm/api/v1/tags", requireMethod(http.MethodGet, h.Tags))
	r.Handle("/crm/api/v1/customers/refresh", requireMethod(http.MethodPost, h.Refresh))
	r.Handle("/crm/api/v1/customers/reset", requireMethod(http.MethodPost, h.ResetFilter))
	r.Handle("/crm/api/v1/customers/selection", requireMethod(http.MethodPost, h.Selection))
	r.Handle("/crm/api/v1/customers/columns", requireMethod(http.MethodPost, h.Columns))
	r.Handle("/crm/api/v1/customers/export", requireMethod(http.MethodGet, h.ExportCSV))
	r.Handle("/crm/api/v1/customers/export.xlsx", requireMethod(http.MethodGet, h.ExportXLSX))

	// customers/{id}/tags/{op}（open/toggle/save/cancel）
	r.Handle("/crm/api/v1/customers/", func(w http.ResponseWriter, req *http.Request) {
		rest := strings.TrimPrefix(req.URL.Path, "/crm/api/v1/customers/")
		parts := strings.Split(rest, "/")
		if len(parts) != 3 || parts[1] != "tags" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if req.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.TagEdit(w, req, parts[0], parts[2])
	})
}

func requireMethod(method string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if req.Method != method {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h(w, req)
	}
}
