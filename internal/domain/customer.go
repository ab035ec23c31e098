package domain

import "time"

// CustomerRecord 客户记录领域模型
// tags 语义上是集合（按 slug 去重由 ingestion 层负责）
type CustomerRecord struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	City      string    `json:"city"`
	Address   string    `json:"address"`
	Community string    `json:"community"`
	CreatedAt time.Time `json:"created_at"`
	Tags      []Tag     `json:"tags"`
}

// TagNames 返回记录所有标签的展示名（保持原顺序）
func (c CustomerRecord) TagNames() []string {
	names := make([]string, 0, len(c.Tags))
	for _, t := range c.Tags {
		names = append(names, t.Name)
	}
	return names
}

// HasTagName 判断记录是否带有指定展示名的标签
func (c CustomerRecord) HasTagName(name string) bool {
	for _, t := range c.Tags {
		if t.Name == name {
			return true
		}
	}
	return false
}

// HasTagSlug 判断记录是否带有指定 slug 的标签
func (c CustomerRecord) HasTagSlug(slug string) bool {
	for _, t := range c.Tags {
		if t.Slug == slug {
			return true
		}
	}
	return false
}

// FirstTagInCategory 返回第一个 category 包含关键字的标签名；无匹配返回 ok=false
func (c CustomerRecord) FirstTagInCategory(keyword string) (string, bool) {
	for _, t := range c.Tags {
		if t.InCategory(keyword) {
			return t.Name, true
		}
	}
	return "", false
}
