package cli

import (
	"strings"

	"hrpilot/internal/common"
	"hrpilot/internal/panel"
	"hrpilot/internal/types"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var postCmd = &cobra.Command{
	Use:   "post <job-description | @file>",
	Short: "Write a job post, optionally with an image or a video",
	Long: `Write a job advertisement for a platform in a chosen tone.

--image renders a background image and saves it under the media directory.
--video submits a short recruitment video job and waits for it; this polls every
few seconds and can take several minutes. Ctrl-C cancels the wait.`,
	Args: cobra.ExactArgs(1),
	RunE: withRuntime(runPost),
}

var postFlags struct {
	Platform string
	Tone     string
	Image    bool
	Video    bool
}

func init() {
	postCmd.Flags().StringVar(&postFlags.Platform, "platform", "", "Target platform: "+strings.Join(panel.Platforms, ", "))
	postCmd.Flags().StringVar(&postFlags.Tone, "tone", "", "Tone: "+strings.Join(panel.Tones, ", "))
	postCmd.Flags().BoolVar(&postFlags.Image, "image", false, "Also generate a background image")
	postCmd.Flags().BoolVar(&postFlags.Video, "video", false, "Also generate a recruitment video")
}

func runPost(cmd *cobra.Command, args []string, r *runtime) error {
	ctx := cmd.Context()
	post := r.workspace.JobPost

	jd, err := r.files.ReadArg(args[0])
	if err != nil {
		return err
	}
	if err := nonEmpty([]string{jd}); err != nil {
		return err
	}
	post.SetJD(jd)
	if postFlags.Platform != "" {
		if err := post.SetPlatform(postFlags.Platform); err != nil {
			return err
		}
	}
	if postFlags.Tone != "" {
		if err := post.SetTone(postFlags.Tone); err != nil {
			return err
		}
	}

	r.logger.Info("Generating job post",
		"jd_chars", len(jd),
		"platform", post.State().Platform,
		"tone", post.State().Tone,
		"image", postFlags.Image,
		"video", postFlags.Video)

	if _, err := post.GeneratePost(ctx); err != nil {
		return err
	}

	out := types.JobPostOutput{}
	if postFlags.Image {
		uri, err := post.GenerateImage(ctx)
		if err != nil {
			return err
		}
		asset, err := common.MediaFromDataURI(uri)
		if err != nil {
			return err
		}
		if asset != nil {
			path, err := r.files.SaveMedia(r.cfg.App.MediaDir, "post-"+uuid.NewString()[:8], asset)
			if err != nil {
				return err
			}
			out.Image = path
		} else {
			r.logger.Warn("No image was generated")
		}
	}
	if postFlags.Video {
		if _, err := post.GenerateVideo(ctx); err != nil {
			return err
		}
	}

	st := post.State()
	out.Platform, out.Tone, out.Content, out.Video = st.Platform, st.Tone, st.Content, st.Video
	return r.write(cmd, out)
}
