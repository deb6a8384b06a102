package view

import "github.com/folio/internal/db"

// 编辑器种类
const (
	KindSection    = "section"
	KindCollection = "collection"
)

// Field 描述编辑表单中的一个字段，前端脚本据此生成输入控件。
type Field struct {
	Name     string   `json:"name"`
	Label    string   `json:"label"`
	Type     string   `json:"type"` // text, textarea, markdown, number, url, email, color, date, select, checkbox, list, file
	Required bool     `json:"required,omitempty"`
	Options  []string `json:"options,omitempty"`
	Min      *int     `json:"min,omitempty"`
	Max      *int     `json:"max,omitempty"`
	Bucket   string   `json:"bucket,omitempty"`
	Accept   string   `json:"accept,omitempty"`
	Help     string   `json:"help,omitempty"`
}

// Editor 描述后台的一个内容编辑器。
type Editor struct {
	Key      string                 `json:"key"`
	Title    string                 `json:"title"`
	Kind     string                 `json:"kind"`
	Endpoint string                 `json:"endpoint"`
	Summary  []string               `json:"summary,omitempty"`
	Fields   []Field                `json:"fields"`
	NewItem  map[string]interface{} `json:"new_item,omitempty"`
}

func intPtr(v int) *int { return &v }

func text(name, label string) Field     { return Field{Name: name, Label: label, Type: "text"} }
func textarea(name, label string) Field { return Field{Name: name, Label: label, Type: "textarea"} }
func link(name, label string) Field     { return Field{Name: name, Label: label, Type: "url"} }
func list(name, label string) Field     { return Field{Name: name, Label: label, Type: "list"} }
func color(name, label string) Field    { return Field{Name: name, Label: label, Type: "color"} }

func required(f Field) Field {
	f.Required = true
	return f
}

func choice(name, label string, options []string) Field {
	return Field{Name: name, Label: label, Type: "select", Options: options}
}

func number(name, label string, min, max *int) Field {
	return Field{Name: name, Label: label, Type: "number", Min: min, Max: max}
}

func percent(name, label string) Field {
	return number(name, label, intPtr(0), intPtr(100))
}

func counter(name, label string) Field {
	return number(name, label, intPtr(0), nil)
}

func image(name, label string) Field {
	return Field{Name: name, Label: label, Type: "file", Bucket: "images", Accept: "image/*"}
}

func document(name, label string) Field {
	return Field{Name: name, Label: label, Type: "file", Bucket: "documents", Accept: ".pdf,.doc,.docx,.ppt,.pptx"}
}

func video(name, label string) Field {
	return Field{Name: name, Label: label, Type: "file", Bucket: "videos", Accept: "video/*"}
}

func orderField() Field {
	return Field{Name: "order_index", Label: "Order", Type: "number", Min: intPtr(0), Help: "Lower numbers show first"}
}

// Editors 返回后台全部编辑器定义，顺序即标签页顺序。
func Editors() []Editor {
	return []Editor{
		{
			Key: "site-settings", Title: "Site Settings", Kind: KindSection, Endpoint: "/superadmin/api/site-settings",
			Fields: []Field{
				text("site_title", "Site title"),
				textarea("site_description", "Site description"),
				image("favicon_url", "Favicon"),
				image("logo_url", "Logo"),
				color("primary_color", "Primary color"),
				color("secondary_color", "Secondary color"),
				color("background_color", "Background color"),
				color("text_color", "Text color"),
				text("font_family", "Font family"),
				textarea("custom_css", "Custom CSS"),
				text("google_analytics_id", "Google Analytics ID"),
			},
		},
		{
			Key: "hero-section", Title: "Hero", Kind: KindSection, Endpoint: "/superadmin/api/hero-section",
			Fields: []Field{
				text("main_heading", "Main heading"),
				text("sub_heading", "Sub heading"),
				textarea("description", "Description"),
				image("background_image_url", "Background image"),
				image("profile_image_url", "Profile image"),
				text("cta_button_text", "Button text"),
				link("cta_button_url", "Button URL"),
				{Name: "show_animated_text", Label: "Animate words", Type: "checkbox"},
				list("animated_words", "Animated words"),
				video("background_video_url", "Background video"),
				percent("overlay_opacity", "Overlay opacity"),
				choice("text_alignment", "Text alignment", db.TextAlignments),
			},
			NewItem: map[string]interface{}{"overlay_opacity": 50, "text_alignment": "center", "animated_words": []string{}},
		},
		{
			Key: "about-section", Title: "About", Kind: KindSection, Endpoint: "/superadmin/api/about-section",
			Fields: []Field{
				text("section_title", "Section title"),
				{Name: "main_content", Label: "Content", Type: "markdown"},
				list("highlights", "Highlights"),
				image("image_url", "Image"),
				counter("years_experience", "Years of experience"),
				counter("projects_completed", "Projects completed"),
				counter("clients_served", "Clients served"),
				counter("awards_won", "Awards won"),
				{Name: "show_stats", Label: "Show stats", Type: "checkbox"},
				choice("layout_type", "Layout", db.AboutLayouts),
			},
			NewItem: map[string]interface{}{"section_title": "About Me", "layout_type": "side-by-side", "highlights": []string{}},
		},
		{
			Key: "personal-info", Title: "Personal Info", Kind: KindSection, Endpoint: "/superadmin/api/personal-info",
			Fields: []Field{
				required(text("name", "Name")),
				text("title", "Title"),
				textarea("description", "Description"),
				{Name: "email", Label: "Email", Type: "email"},
				text("phone", "Phone"),
				link("linkedin_url", "LinkedIn URL"),
				link("github_url", "GitHub URL"),
				image("profile_image_url", "Profile image"),
				document("resume_url", "Resume"),
			},
		},
		{
			Key: "skills", Title: "Skills", Kind: KindCollection, Endpoint: "/superadmin/api/skills",
			Summary: []string{"name", "level", "category"},
			Fields: []Field{
				required(text("name", "Name")),
				percent("level", "Proficiency"),
				text("icon_name", "Icon name"),
				choice("category", "Category", db.SkillCategories),
				orderField(),
			},
			NewItem: map[string]interface{}{"level": 50, "icon_name": "Target", "category": "core"},
		},
		{
			Key: "tools", Title: "Tools", Kind: KindCollection, Endpoint: "/superadmin/api/tools",
			Summary: []string{"name"},
			Fields: []Field{
				required(text("name", "Name")),
				text("color", "Background class"),
				text("text_color", "Text class"),
				orderField(),
			},
			NewItem: map[string]interface{}{"color": "bg-blue-500", "text_color": "text-blue-100"},
		},
		{
			Key: "experiences", Title: "Experience", Kind: KindCollection, Endpoint: "/superadmin/api/experiences",
			Summary: []string{"title", "company", "period"},
			Fields: []Field{
				required(text("title", "Title")),
				required(text("company", "Company")),
				text("period", "Period"),
				textarea("description", "Description"),
				list("achievements", "Achievements"),
				orderField(),
			},
		},
		{
			Key: "products", Title: "Products", Kind: KindCollection, Endpoint: "/superadmin/api/products",
			Summary: []string{"title", "status"},
			Fields: []Field{
				required(text("title", "Title")),
				textarea("description", "Description"),
				choice("status", "Status", db.ProductStatuses),
				text("users", "Users"),
				text("impact", "Impact"),
				text("icon", "Icon name"),
				orderField(),
			},
			NewItem: map[string]interface{}{"status": "Development", "icon": "Rocket"},
		},
		{
			Key: "projects", Title: "Projects", Kind: KindCollection, Endpoint: "/superadmin/api/projects",
			Summary: []string{"title", "status"},
			Fields: []Field{
				required(text("title", "Title")),
				textarea("description", "Description"),
				list("tech", "Tech stack"),
				text("duration", "Duration"),
				text("role", "Role"),
				image("image_url", "Image"),
				link("project_url", "Project URL"),
				link("github_url", "GitHub URL"),
				choice("status", "Status", db.ProjectStatuses),
				orderField(),
			},
			NewItem: map[string]interface{}{"status": "completed", "tech": []string{}},
		},
		{
			Key: "case-studies", Title: "Case Studies", Kind: KindCollection, Endpoint: "/superadmin/api/case-studies",
			Summary: []string{"title", "company", "status"},
			Fields: []Field{
				required(text("title", "Title")),
				textarea("description", "Description"),
				text("company", "Company"),
				text("industry", "Industry"),
				textarea("challenge", "Challenge"),
				textarea("solution", "Solution"),
				textarea("results", "Results"),
				list("metrics", "Metrics"),
				list("tools_used", "Tools used"),
				text("duration", "Duration"),
				text("team_size", "Team size"),
				image("image_url", "Cover image"),
				document("document_url", "Document"),
				link("external_url", "External URL"),
				choice("status", "Status", db.CaseStudyStatuses),
				orderField(),
			},
			NewItem: map[string]interface{}{"status": "published", "metrics": []string{}, "tools_used": []string{}},
		},
		{
			Key: "education", Title: "Education", Kind: KindCollection, Endpoint: "/superadmin/api/education",
			Summary: []string{"degree", "school", "period"},
			Fields: []Field{
				required(text("degree", "Degree")),
				required(text("school", "School")),
				text("period", "Period"),
				text("focus", "Focus"),
				list("achievements", "Achievements"),
				orderField(),
			},
		},
		{
			Key: "certifications", Title: "Certifications", Kind: KindCollection, Endpoint: "/superadmin/api/certifications",
			Summary: []string{"name", "issuing_organization", "status"},
			Fields: []Field{
				required(text("name", "Name")),
				required(text("issuing_organization", "Issuing organization")),
				{Name: "issue_date", Label: "Issue date", Type: "date"},
				{Name: "expiration_date", Label: "Expiration date", Type: "date"},
				text("credential_id", "Credential ID"),
				link("credential_url", "Credential URL"),
				textarea("description", "Description"),
				list("skills", "Skills"),
				image("image_url", "Badge image"),
				choice("status", "Status", db.CertificationStatuses),
				orderField(),
			},
			NewItem: map[string]interface{}{"status": "active", "skills": []string{}},
		},
		{
			Key: "animated-stats", Title: "Stats", Kind: KindCollection, Endpoint: "/superadmin/api/animated-stats",
			Summary: []string{"label", "value"},
			Fields: []Field{
				required(text("label", "Label")),
				counter("value", "Value"),
				text("prefix", "Prefix"),
				text("suffix", "Suffix"),
				text("icon", "Icon name"),
				text("color", "Gradient classes"),
				textarea("description", "Description"),
				orderField(),
			},
			NewItem: map[string]interface{}{"icon": "Rocket", "color": "from-purple-500 to-pink-500"},
		},
	}
}

// EditorByKey 查找编辑器定义
func EditorByKey(key string) (Editor, bool) {
	for _, e := range Editors() {
		if e.Key == key {
			return e, true
		}
	}
	return Editor{}, false
}
