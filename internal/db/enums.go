package db

// 各内容字段的可选取值；空值时的默认取值见服务层规则。
var (
	ProductStatuses       = []string{"Live", "Beta", "Development", "Planning", "Archived"}
	ProjectStatuses       = []string{"completed", "in-progress", "planning", "on-hold"}
	CaseStudyStatuses     = []string{"published", "draft"}
	CertificationStatuses = []string{"active", "expired"}
	MessageStatuses       = []string{MessageStatusUnread, MessageStatusRead, MessageStatusReplied, MessageStatusArchived}
	SkillCategories       = []string{"core", "technical", "analytical", "leadership", "creative", "business"}
	TextAlignments        = []string{"left", "center", "right"}
	AboutLayouts          = []string{"side-by-side", "image-left", "image-right", "centered"}
)
