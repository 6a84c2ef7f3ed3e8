package types

// JobPostOutput is what the post command renders: the ad copy plus any
// media generated alongside it.
type JobPostOutput struct {
	Platform string       `json:"platform"`
	Tone     string       `json:"tone"`
	Content  string       `json:"content"`
	Image    string       `json:"image,omitempty"` // local path of the saved image
	Video    *VideoResult `json:"video,omitempty"`
}

// WelcomeEmail is a generated welcome email for a new hire.
type WelcomeEmail struct {
	Name string `json:"name"`
	Role string `json:"role"`
	Body string `json:"body"`
}

// InterviewAudio points at a saved spoken interview question.
type InterviewAudio struct {
	Role     string `json:"role"`
	Path     string `json:"path,omitempty"`
	MIMEType string `json:"mimeType,omitempty"`
	Size     int64  `json:"size"`
}

// OnboardingOutput wraps a checklist with the hire it was made for.
type OnboardingOutput struct {
	Name  string         `json:"name"`
	Role  string         `json:"role"`
	Tasks OnboardingPlan `json:"tasks"`
}
