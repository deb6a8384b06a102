package db

// Skill 技能条目，Level 取值 0-100。
type Skill struct {
	Model
	Ordering
	Name     string `gorm:"size:120;not null" json:"name"`
	Level    int    `json:"level"`
	IconName string `gorm:"size:50" json:"icon_name"`
	Category string `gorm:"size:50" json:"category"`
}

// TableName 返回自定义表名。
func (Skill) TableName() string {
	return "skills"
}

// Tool 工具标签，Color/TextColor 为前端主题类名。
type Tool struct {
	Model
	Ordering
	Name      string `gorm:"size:120;not null" json:"name"`
	Color     string `gorm:"size:64" json:"color"`
	TextColor string `gorm:"size:64" json:"text_color"`
}

// TableName 返回自定义表名。
func (Tool) TableName() string {
	return "tools"
}

// Experience 工作经历。
type Experience struct {
	Model
	Ordering
	Title        string   `gorm:"size:200;not null" json:"title"`
	Company      string   `gorm:"size:200;not null" json:"company"`
	Period       string   `gorm:"size:100" json:"period"`
	Description  string   `gorm:"type:text" json:"description"`
	Achievements []string `gorm:"serializer:json" json:"achievements"`
}

// TableName 返回自定义表名。
func (Experience) TableName() string {
	return "experiences"
}

// Product 产品条目，Status 取值见 ProductStatuses。
type Product struct {
	Model
	Ordering
	Title       string `gorm:"size:200;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	Status      string `gorm:"size:32" json:"status"`
	Users       string `gorm:"size:100" json:"users"`
	Impact      string `gorm:"size:200" json:"impact"`
	Icon        string `gorm:"size:50" json:"icon"`
}

// TableName 返回自定义表名。
func (Product) TableName() string {
	return "products"
}

// Project 项目条目。
type Project struct {
	Model
	Ordering
	Title       string   `gorm:"size:200;not null" json:"title"`
	Description string   `gorm:"type:text" json:"description"`
	Tech        []string `gorm:"serializer:json" json:"tech"`
	Duration    string   `gorm:"size:100" json:"duration"`
	Role        string   `gorm:"size:120" json:"role"`
	ImageURL    string   `gorm:"size:500" json:"image_url"`
	ProjectURL  string   `gorm:"size:500" json:"project_url"`
	GithubURL   string   `gorm:"size:500" json:"github_url"`
	Status      string   `gorm:"size:32" json:"status"`
}

// TableName 返回自定义表名。
func (Project) TableName() string {
	return "projects"
}

// CaseStudy 案例研究，可附带封面图与文档。
type CaseStudy struct {
	Model
	Ordering
	Title       string   `gorm:"size:200;not null" json:"title"`
	Description string   `gorm:"type:text" json:"description"`
	Company     string   `gorm:"size:200" json:"company"`
	Industry    string   `gorm:"size:120" json:"industry"`
	Challenge   string   `gorm:"type:text" json:"challenge"`
	Solution    string   `gorm:"type:text" json:"solution"`
	Results     string   `gorm:"type:text" json:"results"`
	Metrics     []string `gorm:"serializer:json" json:"metrics"`
	ToolsUsed   []string `gorm:"serializer:json" json:"tools_used"`
	Duration    string   `gorm:"size:100" json:"duration"`
	TeamSize    string   `gorm:"size:50" json:"team_size"`
	ImageURL    string   `gorm:"size:500" json:"image_url"`
	DocumentURL string   `gorm:"size:500" json:"document_url"`
	ExternalURL string   `gorm:"size:500" json:"external_url"`
	Status      string   `gorm:"size:32" json:"status"`
}

// TableName 返回自定义表名。
func (CaseStudy) TableName() string {
	return "case_studies"
}

// Education 教育经历。
type Education struct {
	Model
	Ordering
	Degree       string   `gorm:"size:200;not null" json:"degree"`
	School       string   `gorm:"size:200;not null" json:"school"`
	Period       string   `gorm:"size:100" json:"period"`
	Focus        string   `gorm:"size:200" json:"focus"`
	Achievements []string `gorm:"serializer:json" json:"achievements"`
}

// TableName 返回自定义表名。
func (Education) TableName() string {
	return "education"
}

// Certification 证书与徽章。
type Certification struct {
	Model
	Ordering
	Name                string   `gorm:"size:200;not null" json:"name"`
	IssuingOrganization string   `gorm:"size:200;not null" json:"issuing_organization"`
	IssueDate           string   `gorm:"size:32" json:"issue_date"`
	ExpirationDate      string   `gorm:"size:32" json:"expiration_date"`
	CredentialID        string   `gorm:"size:120" json:"credential_id"`
	CredentialURL       string   `gorm:"size:500" json:"credential_url"`
	Description         string   `gorm:"type:text" json:"description"`
	Skills              []string `gorm:"serializer:json" json:"skills"`
	ImageURL            string   `gorm:"size:500" json:"image_url"`
	Status              string   `gorm:"size:32" json:"status"`
}

// TableName 返回自定义表名。
func (Certification) TableName() string {
	return "certifications"
}

// AnimatedStat 首页动画数字卡片。
type AnimatedStat struct {
	Model
	Ordering
	Label       string `gorm:"size:120;not null" json:"label"`
	Value       int    `json:"value"`
	Prefix      string `gorm:"size:16" json:"prefix"`
	Suffix      string `gorm:"size:16" json:"suffix"`
	Icon        string `gorm:"size:50" json:"icon"`
	Color       string `gorm:"size:100" json:"color"`
	Description string `gorm:"type:text" json:"description"`
}

// TableName 返回自定义表名。
func (AnimatedStat) TableName() string {
	return "animated_stats"
}
