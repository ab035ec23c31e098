package domain

import "strings"

// Tag 客户标签领域模型（对应 CRM 后端 tag catalog）
// slug 是全局唯一的规范标识（机器标识）；name 仅用于展示，
// 理论上可跨 category 重复，不能当作身份使用
type Tag struct {
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	Category string `json:"category,omitempty"`
}

// 导出列投影使用的 category 关键字（大小写不敏感子串匹配）
const (
	CategoryKeywordDemographic = "demographic"
	CategoryKeywordStatus      = "crm status"
	CategoryKeywordProduct     = "product interest"
	CategoryKeywordIntent      = "purchase intent"
	CategoryKeywordRevenue     = "revenue"
)

// InCategory 判断标签 category 是否包含指定关键字（大小写不敏感）
func (t Tag) InCategory(keyword string) bool {
	if t.Category == "" || keyword == "" {
		return false
	}
	return strings.Contains(strings.ToLower(t.Category), strings.ToLower(keyword))
}
