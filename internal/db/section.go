package db

// SiteSettings 保存站点级外观与统计配置，单例表。
type SiteSettings struct {
	Model
	SiteTitle         string `gorm:"size:200" json:"site_title"`
	SiteDescription   string `gorm:"type:text" json:"site_description"`
	FaviconURL        string `gorm:"size:500" json:"favicon_url"`
	LogoURL           string `gorm:"size:500" json:"logo_url"`
	PrimaryColor      string `gorm:"size:32" json:"primary_color"`
	SecondaryColor    string `gorm:"size:32" json:"secondary_color"`
	BackgroundColor   string `gorm:"size:32" json:"background_color"`
	TextColor         string `gorm:"size:32" json:"text_color"`
	FontFamily        string `gorm:"size:100" json:"font_family"`
	CustomCSS         string `gorm:"type:text" json:"custom_css"`
	GoogleAnalyticsID string `gorm:"size:64" json:"google_analytics_id"`
}

// TableName 返回自定义表名。
func (SiteSettings) TableName() string {
	return "site_settings"
}

// HeroSection 为首页首屏内容，单例表。
type HeroSection struct {
	Model
	MainHeading        string   `gorm:"size:200" json:"main_heading"`
	SubHeading         string   `gorm:"size:200" json:"sub_heading"`
	Description        string   `gorm:"type:text" json:"description"`
	BackgroundImageURL string   `gorm:"size:500" json:"background_image_url"`
	ProfileImageURL    string   `gorm:"size:500" json:"profile_image_url"`
	CTAButtonText      string   `gorm:"size:100" json:"cta_button_text"`
	CTAButtonURL       string   `gorm:"size:500" json:"cta_button_url"`
	ShowAnimatedText   bool     `json:"show_animated_text"`
	AnimatedWords      []string `gorm:"serializer:json" json:"animated_words"`
	BackgroundVideoURL string   `gorm:"size:500" json:"background_video_url"`
	OverlayOpacity     int      `json:"overlay_opacity"`
	TextAlignment      string   `gorm:"size:20" json:"text_alignment"`
}

// TableName 返回自定义表名。
func (HeroSection) TableName() string {
	return "hero_section"
}

// AboutSection 为"关于我"区块，单例表。MainContent 支持 Markdown。
type AboutSection struct {
	Model
	SectionTitle      string   `gorm:"size:200" json:"section_title"`
	MainContent       string   `gorm:"type:text" json:"main_content"`
	Highlights        []string `gorm:"serializer:json" json:"highlights"`
	ImageURL          string   `gorm:"size:500" json:"image_url"`
	YearsExperience   int      `json:"years_experience"`
	ProjectsCompleted int      `json:"projects_completed"`
	ClientsServed     int      `json:"clients_served"`
	AwardsWon         int      `json:"awards_won"`
	ShowStats         bool     `json:"show_stats"`
	LayoutType        string   `gorm:"size:32" json:"layout_type"`
}

// TableName 返回自定义表名。
func (AboutSection) TableName() string {
	return "about_section"
}

// PersonalInfo 保存姓名、头衔与联系方式，单例表。
type PersonalInfo struct {
	Model
	Name            string `gorm:"size:120" json:"name"`
	Title           string `gorm:"size:200" json:"title"`
	Description     string `gorm:"type:text" json:"description"`
	Email           string `gorm:"size:200" json:"email"`
	Phone           string `gorm:"size:50" json:"phone"`
	LinkedInURL     string `gorm:"size:500" json:"linkedin_url"`
	GithubURL       string `gorm:"size:500" json:"github_url"`
	ProfileImageURL string `gorm:"size:500" json:"profile_image_url"`
	ResumeURL       string `gorm:"size:500" json:"resume_url"`
}

// TableName 返回自定义表名。
func (PersonalInfo) TableName() string {
	return "personal_info"
}
