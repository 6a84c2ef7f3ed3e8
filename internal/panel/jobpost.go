package panel

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"hrpilot/internal/ai"
	"hrpilot/internal/errors"
	"hrpilot/internal/types"
)

// MediaTab selects the media preview on the job post panel.
type MediaTab string

const (
	MediaImage MediaTab = "image"
	MediaVideo MediaTab = "video"
)

// Platforms and tones offered by the job post panel. The first entry of each
// is the default.
var (
	Platforms = []string{ai.DefaultPlatform, "Facebook", "Twitter"}
	Tones     = []string{ai.DefaultTone, "Casual & Fun", "Urgent", "Executive"}
)

const mediaTitleRunes = 50

// JobPostState is a snapshot of the job post panel.
type JobPostState struct {
	JD           string             `json:"jd"`
	Platform     string             `json:"platform"`
	Tone         string             `json:"tone"`
	Content      string             `json:"content"`
	Image        string             `json:"image,omitempty"`
	Video        *types.VideoResult `json:"video,omitempty"`
	ActiveMedia  MediaTab           `json:"activeMedia"`
	Loading      bool               `json:"loading"`
	ImageLoading bool               `json:"imageLoading"`
	VideoLoading bool               `json:"videoLoading"`
}

// JobPost writes a job ad and its image or video. The three actions have
// separate loading flags and may run together.
type JobPost struct {
	base
	jd       string
	platform string
	tone     string

	content     string
	image       string
	video       *types.VideoResult
	activeMedia MediaTab

	loading      bool
	imageLoading bool
	videoLoading bool
	// generation counts video requests; only the latest may land.
	generation uint64
}

func NewJobPost(assistant Assistant, lang types.Language, logger *errors.Logger) *JobPost {
	p := &JobPost{
		platform:    ai.DefaultPlatform,
		tone:        ai.DefaultTone,
		activeMedia: MediaImage,
	}
	p.init(assistant, lang, logger)
	return p
}

func (p *JobPost) SetLanguage(lang types.Language) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lang = lang
}

func (p *JobPost) SetJD(jd string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.jd = jd
}

func (p *JobPost) SetPlatform(platform string) error {
	if !slices.Contains(Platforms, platform) {
		return fmt.Errorf("unknown platform %q (supported: %s)", platform, strings.Join(Platforms, ", "))
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.platform = platform
	return nil
}

func (p *JobPost) SetTone(tone string) error {
	if !slices.Contains(Tones, tone) {
		return fmt.Errorf("unknown tone %q (supported: %s)", tone, strings.Join(Tones, ", "))
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tone = tone
	return nil
}

// GeneratePost writes the ad copy for the selected platform and tone.
func (p *JobPost) GeneratePost(ctx context.Context) (string, error) {
	p.mu.Lock()
	if strings.TrimSpace(p.jd) == "" {
		p.mu.Unlock()
		return "", ErrEmptyInput
	}
	if err := begin(&p.loading); err != nil {
		p.mu.Unlock()
		return "", err
	}
	jd, platform, tone, lang := p.jd, p.platform, p.tone, p.lang
	p.mu.Unlock()

	content := p.assistant.GenerateJobPost(ctx, jd, platform, tone, lang)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.loading = false
	p.content = content
	return content, nil
}

// GenerateImage renders a background image and switches the preview to it.
// The result is a data URI, or "" when no image was produced.
func (p *JobPost) GenerateImage(ctx context.Context) (string, error) {
	p.mu.Lock()
	if strings.TrimSpace(p.jd) == "" {
		p.mu.Unlock()
		return "", ErrEmptyInput
	}
	if err := begin(&p.imageLoading); err != nil {
		p.mu.Unlock()
		return "", err
	}
	p.activeMedia = MediaImage
	title := MediaTitle(p.jd)
	p.mu.Unlock()

	image := p.assistant.GenerateJobImage(ctx, title)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.imageLoading = false
	p.image = image
	return image, nil
}

// GenerateVideo runs a video job to completion and switches the preview to
// it. A result that lands after ClearMedia is returned with ErrStale and not
// shown.
func (p *JobPost) GenerateVideo(ctx context.Context) (types.VideoResult, error) {
	p.mu.Lock()
	if strings.TrimSpace(p.jd) == "" {
		p.mu.Unlock()
		return types.VideoResult{}, ErrEmptyInput
	}
	if err := begin(&p.videoLoading); err != nil {
		p.mu.Unlock()
		return types.VideoResult{}, err
	}
	p.activeMedia = MediaVideo
	p.generation++
	gen := p.generation
	title, lang := MediaTitle(p.jd), p.lang
	p.mu.Unlock()

	result := p.assistant.GenerateRecruitmentVideo(ctx, title, lang)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.videoLoading = false
	if gen != p.generation {
		p.logger.Debug("Discarding stale video result", "job_id", result.Handle.ID, "outcome", result.Outcome)
		return result, ErrStale
	}
	p.video = &result
	return result, nil
}

// ClearMedia drops the image and video previews. A video still in flight is
// discarded when it lands.
func (p *JobPost) ClearMedia() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.image = ""
	p.video = nil
	p.generation++
}

// SetActiveMedia switches the preview tab.
func (p *JobPost) SetActiveMedia(tab MediaTab) error {
	if tab != MediaImage && tab != MediaVideo {
		return fmt.Errorf("unknown media tab %q", tab)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.activeMedia = tab
	return nil
}

func (p *JobPost) State() JobPostState {
	p.mu.Lock()
	defer p.mu.Unlock()

	st := JobPostState{
		JD:           p.jd,
		Platform:     p.platform,
		Tone:         p.tone,
		Content:      p.content,
		Image:        p.image,
		ActiveMedia:  p.activeMedia,
		Loading:      p.loading,
		ImageLoading: p.imageLoading,
		VideoLoading: p.videoLoading,
	}
	if p.video != nil {
		v := *p.video
		st.Video = &v
	}
	return st
}

// MediaTitle is the prompt title used for generated media: the first 50
// characters of the job description followed by an ellipsis.
func MediaTitle(jd string) string {
	runes := []rune(jd)
	if len(runes) > mediaTitleRunes {
		runes = runes[:mediaTitleRunes]
	}
	return string(runes) + "..."
}
