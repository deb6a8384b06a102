package service

import (
	"fmt"
	"strings"

	"github.com/folio/internal/db"
	"gorm.io/gorm"
)

const (
	defaultSkillIcon     = "Target"
	defaultSkillCategory = "core"
	defaultAboutLayout   = "side-by-side"
	defaultToolColor     = "bg-blue-500"
	defaultToolTextColor = "text-blue-100"
	defaultStatIcon      = "Rocket"
	defaultStatColor     = "from-purple-500 to-pink-500"
	defaultProductIcon   = "Rocket"
)

// ContentService 聚合全部可编辑的内容区块。
type ContentService struct {
	SiteSettings *Section[db.SiteSettings, *db.SiteSettings]
	Hero         *Section[db.HeroSection, *db.HeroSection]
	About        *Section[db.AboutSection, *db.AboutSection]
	PersonalInfo *Section[db.PersonalInfo, *db.PersonalInfo]

	Skills         *Collection[db.Skill, *db.Skill]
	Tools          *Collection[db.Tool, *db.Tool]
	Experiences    *Collection[db.Experience, *db.Experience]
	Products       *Collection[db.Product, *db.Product]
	Projects       *Collection[db.Project, *db.Project]
	CaseStudies    *Collection[db.CaseStudy, *db.CaseStudy]
	Education      *Collection[db.Education, *db.Education]
	Certifications *Collection[db.Certification, *db.Certification]
	Stats          *Collection[db.AnimatedStat, *db.AnimatedStat]
}

// NewContentService 构造 ContentService
func NewContentService(gdb *gorm.DB) *ContentService {
	return &ContentService{
		SiteSettings: NewSection(gdb, "site_settings", siteSettingsRules),
		Hero:         NewSection(gdb, "hero_section", heroRules),
		About:        NewSection(gdb, "about_section", aboutRules),
		PersonalInfo: NewSection(gdb, "personal_info", personalInfoRules),

		Skills:         NewCollection(gdb, "skills", skillRules),
		Tools:          NewCollection(gdb, "tools", toolRules),
		Experiences:    NewCollection(gdb, "experiences", experienceRules),
		Products:       NewCollection(gdb, "products", productRules),
		Projects:       NewCollection(gdb, "projects", projectRules),
		CaseStudies:    NewCollection(gdb, "case_studies", caseStudyRules),
		Education:      NewCollection(gdb, "education", educationRules),
		Certifications: NewCollection(gdb, "certifications", certificationRules),
		Stats:          NewCollection(gdb, "animated_stats", statRules),
	}
}

var siteSettingsRules = Rules[*db.SiteSettings]{
	Normalize: func(s *db.SiteSettings) {
		trimFields(&s.SiteTitle, &s.SiteDescription, &s.FaviconURL, &s.LogoURL,
			&s.PrimaryColor, &s.SecondaryColor, &s.BackgroundColor, &s.TextColor,
			&s.FontFamily, &s.GoogleAnalyticsID)
	},
}

var heroRules = Rules[*db.HeroSection]{
	Normalize: func(h *db.HeroSection) {
		trimFields(&h.MainHeading, &h.SubHeading, &h.Description, &h.BackgroundImageURL,
			&h.ProfileImageURL, &h.CTAButtonText, &h.CTAButtonURL, &h.BackgroundVideoURL, &h.TextAlignment)
		h.AnimatedWords = cleanList(h.AnimatedWords)
	},
	Validate: func(h *db.HeroSection) error {
		if err := checkPercent("overlay_opacity", h.OverlayOpacity); err != nil {
			return err
		}
		alignment, err := pickEnum("text_alignment", h.TextAlignment, "center", db.TextAlignments)
		if err != nil {
			return err
		}
		h.TextAlignment = alignment
		return nil
	},
}

var aboutRules = Rules[*db.AboutSection]{
	Normalize: func(a *db.AboutSection) {
		trimFields(&a.SectionTitle, &a.ImageURL, &a.LayoutType)
		a.MainContent = strings.TrimSpace(a.MainContent)
		a.Highlights = cleanList(a.Highlights)
	},
	Validate: func(a *db.AboutSection) error {
		for name, value := range map[string]int{
			"years_experience":   a.YearsExperience,
			"projects_completed": a.ProjectsCompleted,
			"clients_served":     a.ClientsServed,
			"awards_won":         a.AwardsWon,
		} {
			if value < 0 {
				return fmt.Errorf("%w: %s must not be negative", ErrInvalidInput, name)
			}
		}
		layout, err := pickEnum("layout_type", a.LayoutType, defaultAboutLayout, db.AboutLayouts)
		if err != nil {
			return err
		}
		a.LayoutType = layout
		return nil
	},
}

var personalInfoRules = Rules[*db.PersonalInfo]{
	Normalize: func(p *db.PersonalInfo) {
		trimFields(&p.Name, &p.Title, &p.Description, &p.Email, &p.Phone,
			&p.LinkedInURL, &p.GithubURL, &p.ProfileImageURL, &p.ResumeURL)
	},
	Validate: func(p *db.PersonalInfo) error {
		return require("name", p.Name)
	},
}

var skillRules = Rules[*db.Skill]{
	Normalize: func(s *db.Skill) {
		trimFields(&s.Name, &s.IconName, &s.Category)
		if s.IconName == "" {
			s.IconName = defaultSkillIcon
		}
	},
	Validate: func(s *db.Skill) error {
		if err := require("name", s.Name); err != nil {
			return err
		}
		if err := checkPercent("level", s.Level); err != nil {
			return err
		}
		category, err := pickEnum("category", s.Category, defaultSkillCategory, db.SkillCategories)
		if err != nil {
			return err
		}
		s.Category = category
		return nil
	},
}

var toolRules = Rules[*db.Tool]{
	Normalize: func(t *db.Tool) {
		trimFields(&t.Name, &t.Color, &t.TextColor)
		if t.Color == "" {
			t.Color = defaultToolColor
		}
		if t.TextColor == "" {
			t.TextColor = defaultToolTextColor
		}
	},
	Validate: func(t *db.Tool) error {
		return require("name", t.Name)
	},
}

var experienceRules = Rules[*db.Experience]{
	Normalize: func(e *db.Experience) {
		trimFields(&e.Title, &e.Company, &e.Period, &e.Description)
		e.Achievements = cleanList(e.Achievements)
	},
	Validate: func(e *db.Experience) error {
		if err := require("title", e.Title); err != nil {
			return err
		}
		return require("company", e.Company)
	},
}

var productRules = Rules[*db.Product]{
	Normalize: func(p *db.Product) {
		trimFields(&p.Title, &p.Description, &p.Status, &p.Users, &p.Impact, &p.Icon)
		if p.Icon == "" {
			p.Icon = defaultProductIcon
		}
	},
	Validate: func(p *db.Product) error {
		if err := require("title", p.Title); err != nil {
			return err
		}
		status, err := pickEnum("status", p.Status, "Development", db.ProductStatuses)
		if err != nil {
			return err
		}
		p.Status = status
		return nil
	},
}

var projectRules = Rules[*db.Project]{
	Normalize: func(p *db.Project) {
		trimFields(&p.Title, &p.Description, &p.Duration, &p.Role, &p.ImageURL,
			&p.ProjectURL, &p.GithubURL, &p.Status)
		p.Tech = cleanList(p.Tech)
	},
	Validate: func(p *db.Project) error {
		if err := require("title", p.Title); err != nil {
			return err
		}
		status, err := pickEnum("status", p.Status, "completed", db.ProjectStatuses)
		if err != nil {
			return err
		}
		p.Status = status
		return nil
	},
}

var caseStudyRules = Rules[*db.CaseStudy]{
	Normalize: func(c *db.CaseStudy) {
		trimFields(&c.Title, &c.Description, &c.Company, &c.Industry, &c.Challenge,
			&c.Solution, &c.Results, &c.Duration, &c.TeamSize, &c.ImageURL,
			&c.DocumentURL, &c.ExternalURL, &c.Status)
		c.Metrics = cleanList(c.Metrics)
		c.ToolsUsed = cleanList(c.ToolsUsed)
	},
	Validate: func(c *db.CaseStudy) error {
		if err := require("title", c.Title); err != nil {
			return err
		}
		status, err := pickEnum("status", c.Status, "published", db.CaseStudyStatuses)
		if err != nil {
			return err
		}
		c.Status = status
		return nil
	},
}

var educationRules = Rules[*db.Education]{
	Normalize: func(e *db.Education) {
		trimFields(&e.Degree, &e.School, &e.Period, &e.Focus)
		e.Achievements = cleanList(e.Achievements)
	},
	Validate: func(e *db.Education) error {
		if err := require("degree", e.Degree); err != nil {
			return err
		}
		return require("school", e.School)
	},
}

var certificationRules = Rules[*db.Certification]{
	Normalize: func(c *db.Certification) {
		trimFields(&c.Name, &c.IssuingOrganization, &c.IssueDate, &c.ExpirationDate,
			&c.CredentialID, &c.CredentialURL, &c.Description, &c.ImageURL, &c.Status)
		c.Skills = cleanList(c.Skills)
	},
	Validate: func(c *db.Certification) error {
		if err := require("name", c.Name); err != nil {
			return err
		}
		if err := require("issuing_organization", c.IssuingOrganization); err != nil {
			return err
		}
		status, err := pickEnum("status", c.Status, "active", db.CertificationStatuses)
		if err != nil {
			return err
		}
		c.Status = status
		return nil
	},
}

var statRules = Rules[*db.AnimatedStat]{
	Normalize: func(s *db.AnimatedStat) {
		trimFields(&s.Label, &s.Prefix, &s.Suffix, &s.Icon, &s.Color, &s.Description)
		if s.Icon == "" {
			s.Icon = defaultStatIcon
		}
		if s.Color == "" {
			s.Color = defaultStatColor
		}
	},
	Validate: func(s *db.AnimatedStat) error {
		if err := require("label", s.Label); err != nil {
			return err
		}
		if s.Value < 0 {
			return fmt.Errorf("%w: value must not be negative", ErrInvalidInput)
		}
		return nil
	},
}

func trimFields(fields ...*string) {
	for _, f := range fields {
		*f = strings.TrimSpace(*f)
	}
}

// cleanList 去掉首尾空白与空条目，结果从不为 nil。
func cleanList(values []string) []string {
	cleaned := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			cleaned = append(cleaned, v)
		}
	}
	return cleaned
}

func require(field, value string) error {
	if value == "" {
		return fmt.Errorf("%w: %s is required", ErrInvalidInput, field)
	}
	return nil
}

func checkPercent(field string, value int) error {
	if value < 0 || value > 100 {
		return fmt.Errorf("%w: %s must be between 0 and 100", ErrInvalidInput, field)
	}
	return nil
}

// pickEnum 空值回落到默认值，未知取值视为非法输入。
func pickEnum(field, value, fallback string, allowed []string) (string, error) {
	if value == "" {
		return fallback, nil
	}
	for _, candidate := range allowed {
		if candidate == value {
			return value, nil
		}
	}
	return "", fmt.Errorf("%w: %s must be one of %s", ErrInvalidInput, field, strings.Join(allowed, ", "))
}
