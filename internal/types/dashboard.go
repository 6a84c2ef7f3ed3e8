package types

import "fmt"

// AgentType names a dashboard view.
type AgentType string

const (
	AgentDashboard   AgentType = "DASHBOARD"
	AgentRecruitment AgentType = "RECRUITMENT"
	AgentJobPost     AgentType = "JOB_POST"
	AgentCVFilter    AgentType = "CV_FILTER"
	AgentChatbot     AgentType = "CHATBOT"
	AgentOnboarding  AgentType = "ONBOARDING"
	AgentSettings    AgentType = "SETTINGS"
	AgentTools       AgentType = "TOOLS"
)

// NavigableViews are the views reachable from the sidebar, in display order.
func NavigableViews() []AgentType {
	return []AgentType{AgentDashboard, AgentRecruitment, AgentJobPost, AgentTools, AgentOnboarding, AgentChatbot}
}

// ParseAgentType validates a view name.
func ParseAgentType(s string) (AgentType, error) {
	switch a := AgentType(s); a {
	case AgentDashboard, AgentRecruitment, AgentJobPost, AgentCVFilter,
		AgentChatbot, AgentOnboarding, AgentSettings, AgentTools:
		return a, nil
	}
	return "", fmt.Errorf("unknown view %q", s)
}

// Label is the sidebar label of a view.
func (a AgentType) Label(lang Language) string {
	switch a {
	case AgentDashboard:
		return lang.Pick("Tổng quan", "Dashboard")
	case AgentRecruitment, AgentCVFilter:
		return lang.Pick("Tuyển dụng & Hồ sơ", "Recruitment")
	case AgentJobPost:
		return lang.Pick("Đăng tin tuyển dụng", "Job Posts")
	case AgentTools:
		return lang.Pick("Công cụ AI Lab", "AI Tools Lab")
	case AgentOnboarding:
		return lang.Pick("Quy trình hội nhập", "Onboarding")
	case AgentChatbot:
		return lang.Pick("Trợ lý Ảo HR", "HR Assistant")
	case AgentSettings:
		return lang.Pick("Cài đặt", "Settings")
	}
	return string(a)
}

// Stat is one dashboard headline figure.
type Stat struct {
	Title string `json:"title"`
	Value string `json:"value"`
}

// DailyActivity is one bar of the weekly chart.
type DailyActivity struct {
	Day   string `json:"day"`
	CVs   int    `json:"cvs"`
	Hired int    `json:"hired"`
}

// DashboardSnapshot is the static overview shown on the dashboard view.
type DashboardSnapshot struct {
	Stats  []Stat          `json:"stats"`
	Weekly []DailyActivity `json:"weekly"`
}
