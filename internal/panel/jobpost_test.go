package panel

import (
	"context"
	"strings"
	"testing"

	"hrpilot/internal/ai"
	"hrpilot/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMediaTitle(t *testing.T) {
	tests := []struct {
		name string
		jd   string
		want string
	}{
		{"short", "Go engineer", "Go engineer..."},
		{"exactly fifty", strings.Repeat("a", 50), strings.Repeat("a", 50) + "..."},
		{"long", strings.Repeat("b", 80), strings.Repeat("b", 50) + "..."},
		{"multibyte", strings.Repeat("ư", 60), strings.Repeat("ư", 50) + "..."},
		{"empty", "", "..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MediaTitle(tt.jd))
		})
	}
}

func TestJobPost_Defaults(t *testing.T) {
	p := NewJobPost(newFakeAssistant(), types.English, nil)
	st := p.State()
	assert.Equal(t, ai.DefaultPlatform, st.Platform)
	assert.Equal(t, ai.DefaultTone, st.Tone)
	assert.Equal(t, MediaImage, st.ActiveMedia)
	assert.Equal(t, types.English, p.Language())
}

func TestJobPost_SettersValidate(t *testing.T) {
	p := NewJobPost(newFakeAssistant(), types.English, nil)

	require.NoError(t, p.SetPlatform("Facebook"))
	require.NoError(t, p.SetTone("Urgent"))
	assert.Error(t, p.SetPlatform("MySpace"))
	assert.Error(t, p.SetTone("Grumpy"))
	assert.Error(t, p.SetActiveMedia("gif"))

	st := p.State()
	assert.Equal(t, "Facebook", st.Platform)
	assert.Equal(t, "Urgent", st.Tone)
}

func TestJobPost_RequiresJD(t *testing.T) {
	fake := newFakeAssistant()
	p := NewJobPost(fake, types.English, nil)
	ctx := context.Background()

	_, err := p.GeneratePost(ctx)
	assert.ErrorIs(t, err, ErrEmptyInput)
	_, err = p.GenerateImage(ctx)
	assert.ErrorIs(t, err, ErrEmptyInput)
	_, err = p.GenerateVideo(ctx)
	assert.ErrorIs(t, err, ErrEmptyInput)
	assert.Empty(t, fake.Calls())
}

func TestJobPost_GenerateAll(t *testing.T) {
	fake := newFakeAssistant()
	p := NewJobPost(fake, types.Vietnamese, nil)
	p.SetJD("Tuyển kỹ sư Go cho đội nền tảng thanh toán với 5 năm kinh nghiệm")
	ctx := context.Background()

	content, err := p.GeneratePost(ctx)
	require.NoError(t, err)
	assert.Equal(t, "We are hiring!", content)

	image, err := p.GenerateImage(ctx)
	require.NoError(t, err)
	assert.Equal(t, fake.image, image)
	assert.Equal(t, MediaTitle("Tuyển kỹ sư Go cho đội nền tảng thanh toán với 5 năm kinh nghiệm"), fake.lastTitle)
	assert.Equal(t, MediaImage, p.State().ActiveMedia)

	video, err := p.GenerateVideo(ctx)
	require.NoError(t, err)
	assert.True(t, video.OK())

	st := p.State()
	assert.Equal(t, MediaVideo, st.ActiveMedia)
	require.NotNil(t, st.Video)
	assert.Equal(t, "/tmp/v.mp4", st.Video.Asset)
	assert.Equal(t, "We are hiring!", st.Content)
	assert.Equal(t, fake.image, st.Image)
}

func TestJobPost_IndependentFlags(t *testing.T) {
	fake := newFakeAssistant()
	release := fake.blocking()
	defer release()

	p := NewJobPost(fake, types.English, nil)
	p.SetJD("Go engineer")
	ctx := context.Background()

	videoDone := make(chan error, 1)
	go func() {
		_, err := p.GenerateVideo(ctx)
		videoDone <- err
	}()
	assert.Equal(t, "GenerateRecruitmentVideo", awaitStart(t, fake))
	assert.True(t, p.State().VideoLoading)

	_, err := p.GenerateVideo(ctx)
	assert.ErrorIs(t, err, ErrBusy)

	postDone := make(chan error, 1)
	go func() {
		_, err := p.GeneratePost(ctx)
		postDone <- err
	}()
	assert.Equal(t, "GenerateJobPost", awaitStart(t, fake))

	st := p.State()
	assert.True(t, st.Loading)
	assert.True(t, st.VideoLoading)
	assert.False(t, st.ImageLoading)

	release()
	require.NoError(t, <-videoDone)
	require.NoError(t, <-postDone)
	st = p.State()
	assert.False(t, st.Loading)
	assert.False(t, st.VideoLoading)
}

func TestJobPost_ClearMediaDiscardsInFlightVideo(t *testing.T) {
	fake := newFakeAssistant()
	release := fake.blocking()
	defer release()

	p := NewJobPost(fake, types.English, nil)
	p.SetJD("Go engineer")

	done := make(chan error, 1)
	go func() {
		_, err := p.GenerateVideo(context.Background())
		done <- err
	}()
	awaitStart(t, fake)

	p.ClearMedia()
	release()

	assert.ErrorIs(t, <-done, ErrStale)
	st := p.State()
	assert.Nil(t, st.Video)
	assert.False(t, st.VideoLoading)
}

func TestJobPost_FailedVideoIsShown(t *testing.T) {
	fake := newFakeAssistant()
	fake.video = types.VideoResult{Outcome: types.VideoTimedOut, Reason: "gave up after 60 polls"}
	p := NewJobPost(fake, types.English, nil)
	p.SetJD("Go engineer")

	res, err := p.GenerateVideo(context.Background())
	require.NoError(t, err)
	assert.False(t, res.OK())
	require.NotNil(t, p.State().Video)
	assert.Equal(t, types.VideoTimedOut, p.State().Video.Outcome)
}
