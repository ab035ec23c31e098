package segment

import (
	"strings"

	"crm-segments/internal/domain"
)

// CSV 导出约定
const (
	ExportFilename = "selected_customers.csv"
	ExportMIME     = "text/csv"
)

// ExportHeader 固定表头顺序
var ExportHeader = []string{
	"Name", "Email", "Demographic", "Community", "Status",
	"Product", "Intent", "Revenue", "Tags",
}

// ExportCSV 把选择集与当前页行的交集序列化为 CSV（UTF-8）
// 没有任何行入选时返回 nil（不生成空文件，也不生成只有表头的文件）
func ExportCSV(pageRows []domain.CustomerRecord, sel SelectionSet) []byte {
	rows := sel.EffectiveRows(pageRows)
	if len(rows) == 0 {
		return nil
	}

	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, csvLine(ExportHeader))
	for _, rec := range rows {
		lines = append(lines, csvLine(ExportRow(rec)))
	}
	return []byte(strings.Join(lines, "\n"))
}

// ExportRow 记录到导出行的映射
// Demographic/Status/Product/Intent/Revenue 取第一个 category 命中
// 对应关键字的标签名，无命中补 "-"；Tags 为全部标签名以 "; " 连接
func ExportRow(rec domain.CustomerRecord) []string {
	return []string{
		rec.Name,
		rec.Email,
		categoryOrDash(rec, domain.CategoryKeywordDemographic),
		rec.Community,
		categoryOrDash(rec, domain.CategoryKeywordStatus),
		categoryOrDash(rec, domain.CategoryKeywordProduct),
		categoryOrDash(rec, domain.CategoryKeywordIntent),
		categoryOrDash(rec, domain.CategoryKeywordRevenue),
		strings.Join(rec.TagNames(), "; "),
	}
}

func categoryOrDash(rec domain.CustomerRecord, keyword string) string {
	if name, ok := rec.FirstTagInCategory(keyword); ok {
		return name
	}
	return "-"
}

// csvLine 每个字段都裹双引号（空值得到空引号对，不是字面 "undefined"）
// 内嵌引号按 CSV 规则翻倍
func csvLine(fields []string) string {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
	}
	return strings.Join(quoted, ",")
}
