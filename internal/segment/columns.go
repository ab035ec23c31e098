package segment

// ColumnKey 列表列标识
type ColumnKey string

const (
	ColName        ColumnKey = "name"
	ColEmail       ColumnKey = "email"
	ColDemographic ColumnKey = "demographic"
	ColCommunity   ColumnKey = "community"
	ColStatus      ColumnKey = "status"
	ColProduct     ColumnKey = "product"
	ColIntent      ColumnKey = "intent"
	ColRevenue     ColumnKey = "revenue"
	ColTags        ColumnKey = "tags"
	ColExpand      ColumnKey = "expand"
)

// ColumnCatalog 固定列目录（展示顺序）
var ColumnCatalog = []ColumnKey{
	ColName, ColEmail, ColDemographic, ColCommunity, ColStatus,
	ColProduct, ColIntent, ColRevenue, ColTags, ColExpand,
}

// ColumnVisibility 列可见性，纯展示状态，与过滤/排序/分页完全正交
// 不强制最小可见列数（全部隐藏是合法的退化状态）
type ColumnVisibility map[ColumnKey]bool

// NewColumnVisibility 默认全部可见
func NewColumnVisibility() ColumnVisibility {
	v := make(ColumnVisibility, len(ColumnCatalog))
	for _, k := range ColumnCatalog {
		v[k] = true
	}
	return v
}

// Toggle 翻转一列的可见性；目录外的 key 忽略
func (v ColumnVisibility) Toggle(key ColumnKey) {
	if _, ok := v[key]; !ok {
		return
	}
	v[key] = !v[key]
}

// Visible 按目录顺序返回当前可见列
func (v ColumnVisibility) Visible() []ColumnKey {
	out := make([]ColumnKey, 0, len(ColumnCatalog))
	for _, k := range ColumnCatalog {
		if v[k] {
			out = append(out, k)
		}
	}
	return out
}
