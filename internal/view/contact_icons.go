package view

import (
	"html/template"
	"strings"

	"github.com/folio/internal/db"
)

// ContactLink 是首页页脚与联系区块展示的一个联系方式。
type ContactLink struct {
	Key   string
	Label string
	URL   string
	Icon  template.HTML
}

type contactIcon struct {
	Label string
	SVG   string
}

var contactIcons = map[string]contactIcon{
	"email":    {Label: "Email", SVG: `<svg viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="1.5" stroke-linecap="round" stroke-linejoin="round"><path d="M21.75 6.75v10.5a2.25 2.25 0 0 1-2.25 2.25h-15A2.25 2.25 0 0 1 2.25 17.25V6.75M21.75 6.75A2.25 2.25 0 0 0 19.5 4.5h-15A2.25 2.25 0 0 0 2.25 6.75v.243c0 .781.405 1.506 1.071 1.916l7.5 4.615a2.25 2.25 0 0 0 2.157 0l7.5-4.615a2.25 2.25 0 0 0 1.072-1.916V6.75"/></svg>`},
	"github":   {Label: "GitHub", SVG: `<svg viewBox="0 0 24 24" fill="currentColor" aria-hidden="true"><path d="M12 .297c-6.63 0-12 5.373-12 12 0 5.303 3.438 9.8 8.205 11.385.6.113.82-.258.82-.577 0-.285-.01-1.04-.015-2.04-3.338.724-4.042-1.61-4.042-1.61-.546-1.142-1.335-1.512-1.335-1.512-1.087-.744.084-.729.084-.729 1.205.084 1.838 1.236 1.838 1.236 1.07 1.835 2.809 1.305 3.495.998.108-.776.417-1.305.76-1.605-2.665-.3-5.466-1.332-5.466-5.93 0-1.31.465-2.38 1.235-3.22-.135-.303-.54-1.523.105-3.176 0 0 1.005-.322 3.3 1.23.96-.267 1.98-.399 3-.405 1.02.006 2.04.138 3 .405 2.28-1.552 3.285-1.23 3.285-1.23.645 1.653.24 2.873.12 3.176.765.84 1.23 1.91 1.23 3.22 0 4.61-2.805 5.625-5.475 5.92.42.36.81 1.096.81 2.22 0 1.606-.015 2.896-.015 3.286 0 .315.21.69.825.57C20.565 22.092 24 17.592 24 12.297c0-6.627-5.373-12-12-12"/></svg>`},
	"linkedin": {Label: "LinkedIn", SVG: `<svg viewBox="0 0 24 24" fill="currentColor" aria-hidden="true"><path d="M20.447 20.452h-3.554v-5.569c0-1.328-.027-3.037-1.852-3.037-1.853 0-2.136 1.445-2.136 2.939v5.667H9.351V9h3.414v1.561h.046c.477-.9 1.637-1.85 3.37-1.85 3.601 0 4.267 2.37 4.267 5.455v6.286zM5.337 7.433a2.062 2.062 0 1 1 0-4.125 2.062 2.062 0 0 1 0 4.125zM7.119 20.452H3.555V9h3.564v11.452zM22.225 0H1.771C.792 0 0 .774 0 1.729v20.542C0 23.227.792 24 1.771 24h20.451C23.2 24 24 23.227 24 22.271V1.729C24 .774 23.2 0 22.222 0h.003z"/></svg>`},
	"phone":    {Label: "Phone", SVG: `<svg viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="1.5" stroke-linecap="round" stroke-linejoin="round"><path d="M2.25 6.75c0 8.284 6.716 15 15 15h2.25a2.25 2.25 0 0 0 2.25-2.25v-1.372c0-.516-.351-.966-.852-1.091l-4.423-1.106a1.125 1.125 0 0 0-1.173.417l-.97 1.293a1.125 1.125 0 0 1-1.21.38 12.035 12.035 0 0 1-7.143-7.143 1.125 1.125 0 0 1 .38-1.21l1.293-.97c.363-.271.527-.734.417-1.173L6.963 3.102a1.125 1.125 0 0 0-1.091-.852H4.5A2.25 2.25 0 0 0 2.25 4.5v2.25Z"/></svg>`},
	"resume":   {Label: "Resume", SVG: `<svg viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="1.5" stroke-linecap="round" stroke-linejoin="round"><path d="M19.5 14.25v-2.625a3.375 3.375 0 0 0-3.375-3.375h-1.5A1.125 1.125 0 0 1 13.5 7.125v-1.5a3.375 3.375 0 0 0-3.375-3.375H8.25m.75 12 3 3m0 0 3-3m-3 3v-6m-1.5-9H5.625c-.621 0-1.125.504-1.125 1.125v17.25c0 .621.504 1.125 1.125 1.125h12.75c.621 0 1.125-.504 1.125-1.125V11.25a9 9 0 0 0-9-9Z"/></svg>`},
}

// ContactIconSVG 返回指定联系方式的图标，未知 key 返回空。
func ContactIconSVG(key string) template.HTML {
	icon, ok := contactIcons[strings.ToLower(strings.TrimSpace(key))]
	if !ok {
		return ""
	}
	return template.HTML(icon.SVG)
}

// ContactLinks 按固定顺序列出个人信息中已填写的联系方式。
func ContactLinks(info db.PersonalInfo) []ContactLink {
	candidates := []struct {
		key string
		url string
	}{
		{"email", mailto(info.Email)},
		{"phone", tel(info.Phone)},
		{"linkedin", info.LinkedInURL},
		{"github", info.GithubURL},
		{"resume", info.ResumeURL},
	}

	links := make([]ContactLink, 0, len(candidates))
	for _, c := range candidates {
		if strings.TrimSpace(c.url) == "" {
			continue
		}
		icon := contactIcons[c.key]
		links = append(links, ContactLink{Key: c.key, Label: icon.Label, URL: c.url, Icon: template.HTML(icon.SVG)})
	}
	return links
}

func mailto(email string) string {
	email = strings.TrimSpace(email)
	if email == "" {
		return ""
	}
	return "mailto:" + email
}

func tel(phone string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ""
	}
	return "tel:" + strings.ReplaceAll(phone, " ", "")
}
