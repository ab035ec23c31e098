package domain

// 汇总 tile 使用的 slug（对全量集合计数）
const (
	SlugHighValue     = "high-value"
	SlugNeedsFollowUp = "needs-follow-up"
	SlugBirthdayWeek  = "birthday-week"
	SlugNewLead       = "new-lead"
)

// Taxonomy 静态标签目录（配置数据，非计算结果）
// 覆盖 demographic / community / CRM status / product interest /
// purchase intent / revenue / behavioral 七类
var Taxonomy = []Tag{
	// Demographic
	{Name: "Young Professional", Slug: "young-professional", Category: "Demographic"},
	{Name: "Family Shopper", Slug: "family-shopper", Category: "Demographic"},
	{Name: "Senior Citizen", Slug: "senior-citizen", Category: "Demographic"},
	{Name: "Student", Slug: "student", Category: "Demographic"},
	{Name: "NRI Customer", Slug: "nri-customer", Category: "Demographic"},

	// Community
	{Name: "Wedding Community", Slug: "wedding-community", Category: "Community"},
	{Name: "Temple Community", Slug: "temple-community", Category: "Community"},
	{Name: "Business Circle", Slug: "business-circle", Category: "Community"},
	{Name: "Social Club", Slug: "social-club", Category: "Community"},

	// CRM status
	{Name: "New Lead", Slug: SlugNewLead, Category: "CRM Status"},
	{Name: "Contacted", Slug: "contacted", Category: "CRM Status"},
	{Name: "Needs Follow-up", Slug: SlugNeedsFollowUp, Category: "CRM Status"},
	{Name: "Converted", Slug: "converted", Category: "CRM Status"},
	{Name: "Dormant", Slug: "dormant", Category: "CRM Status"},

	// Product interest
	{Name: "Gold Interested", Slug: "gold-interested", Category: "Product Interest"},
	{Name: "Diamond Interested", Slug: "diamond-interested", Category: "Product Interest"},
	{Name: "Silver Interested", Slug: "silver-interested", Category: "Product Interest"},
	{Name: "Platinum Interested", Slug: "platinum-interested", Category: "Product Interest"},
	{Name: "Wedding Buyer", Slug: "wedding-buyer", Category: "Product Interest"},

	// Purchase intent
	{Name: "Ready to Buy", Slug: "ready-to-buy", Category: "Purchase Intent"},
	{Name: "Hot Prospect", Slug: "hot-prospect", Category: "Purchase Intent"},
	{Name: "Warm Prospect", Slug: "warm-prospect", Category: "Purchase Intent"},
	{Name: "Window Shopper", Slug: "window-shopper", Category: "Purchase Intent"},

	// Revenue
	{Name: "High-Spending Customer", Slug: SlugHighValue, Category: "Revenue"},
	{Name: "Mid-Tier Spender", Slug: "mid-tier-spender", Category: "Revenue"},
	{Name: "Budget Conscious", Slug: "budget-conscious", Category: "Revenue"},

	// Behavioral
	{Name: "Birthday Week", Slug: SlugBirthdayWeek, Category: "Behavioral"},
	{Name: "Anniversary Month", Slug: "anniversary-month", Category: "Behavioral"},
	{Name: "Festival Shopper", Slug: "festival-shopper", Category: "Behavioral"},
	{Name: "Repeat Visitor", Slug: "repeat-visitor", Category: "Behavioral"},
	{Name: "Referral Source", Slug: "referral-source", Category: "Behavioral"},
}

// TaxonomyBySlug 按 slug 查目录项；未收录返回 ok=false
func TaxonomyBySlug(slug string) (Tag, bool) {
	for _, t := range Taxonomy {
		if t.Slug == slug {
			return t, true
		}
	}
	return Tag{}, false
}
