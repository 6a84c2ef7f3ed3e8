package ai

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"hrpilot/internal/errors"
	"hrpilot/internal/observability"
	"hrpilot/internal/types"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/genai"
)

// PollerConfig bounds a video poll loop.
type PollerConfig struct {
	Interval        time.Duration
	MaxAttempts     int
	DownloadTimeout time.Duration
	MediaDir        string
	APIKey          string
}

// VideoPoller drives submitted video jobs to a terminal state and
// materializes the result as a local file.
type VideoPoller struct {
	client     ModelClient
	breaker    *VideoCircuitBreaker
	httpClient *http.Client
	cfg        PollerConfig
	om         *observability.ObservabilityManager
	logger     *errors.Logger
}

// NewVideoPoller creates a poller. httpClient fetches finished videos.
func NewVideoPoller(client ModelClient, breaker *VideoCircuitBreaker, httpClient *http.Client, cfg PollerConfig, om *observability.ObservabilityManager, logger *errors.Logger) *VideoPoller {
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Second
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 60
	}
	if cfg.DownloadTimeout <= 0 {
		cfg.DownloadTimeout = 2 * time.Minute
	}
	if httpClient == nil {
		httpClient = &http.Client{Transport: om.HTTPTransport(nil)}
	}
	if logger == nil {
		logger = errors.Discard()
	}
	return &VideoPoller{
		client:     client,
		breaker:    breaker,
		httpClient: httpClient,
		cfg:        cfg,
		om:         om,
		logger:     logger,
	}
}

// Submit wraps a freshly created operation in a pending handle.
func (p *VideoPoller) Submit(op *genai.GenerateVideosOperation) types.JobHandle {
	handle := types.JobHandle{
		ID:          uuid.NewString(),
		Status:      types.JobPending,
		SubmittedAt: time.Now(),
	}
	if op != nil {
		handle.OperationName = op.Name
		if op.Done {
			handle.Status = types.JobDone
		}
	}
	return handle
}

// Await polls op every interval until it is done, the attempt budget runs
// out or ctx ends, then fetches the video. It never returns an error; the
// outcome is carried in the result.
func (p *VideoPoller) Await(ctx context.Context, handle types.JobHandle, op *genai.GenerateVideosOperation) types.VideoResult {
	ctx, span := p.om.Tracer("hrpilot.video").Start(ctx, "video.await")
	defer span.End()

	result := p.await(ctx, &handle, op)
	result.Handle = handle

	span.SetAttributes(
		attribute.String("video.job_id", handle.ID),
		attribute.String("video.outcome", string(result.Outcome)),
		attribute.Int("video.attempts", handle.Attempts),
	)
	metrics := p.om.GetMetrics()
	metrics.RecordBusinessMetric(ctx, observability.MetricVideoJobFinished, result.OK(), p.om,
		attribute.String("outcome", string(result.Outcome)))
	metrics.RecordVideoJobDuration(ctx, time.Since(handle.SubmittedAt), string(result.Outcome), p.om)

	if !result.OK() {
		p.logger.Warn("Video job ended without a video",
			"job_id", handle.ID,
			"operation", handle.OperationName,
			"outcome", result.Outcome,
			"attempts", handle.Attempts,
			"reason", result.Reason)
	}
	return result
}

func (p *VideoPoller) await(ctx context.Context, handle *types.JobHandle, op *genai.GenerateVideosOperation) types.VideoResult {
	if op == nil {
		return p.fail(errors.NewAIError(errors.ErrCodeJobFailed, "no operation to poll", nil))
	}

	for !op.Done {
		if handle.Attempts >= p.cfg.MaxAttempts {
			err := errors.NewAIError(errors.ErrCodeJobTimeout,
				fmt.Sprintf("video job still pending after %d status checks", handle.Attempts), nil)
			return types.VideoResult{Outcome: types.VideoTimedOut, Reason: err.Error()}
		}

		timer := time.NewTimer(p.cfg.Interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return p.fail(errors.NewAIError(errors.ErrCodeJobCanceled, "video job abandoned", ctx.Err()))
		case <-timer.C:
		}

		handle.Attempts++
		next, err := p.breaker.Execute(func() (*genai.GenerateVideosOperation, error) {
			return p.client.GetVideosOperation(ctx, op)
		})
		p.om.GetMetrics().RecordBusinessMetric(ctx, observability.MetricVideoPolled, err == nil, p.om)
		if err != nil {
			return p.fail(classifyError(err))
		}
		if next != nil {
			op = next
		}
		p.logger.Debug("Video job polled",
			"job_id", handle.ID,
			"attempt", handle.Attempts,
			"done", op.Done)
	}
	handle.Status = types.JobDone

	if len(op.Error) > 0 {
		return p.fail(errors.NewAIError(errors.ErrCodeJobFailed,
			fmt.Sprintf("video job failed: %v", op.Error["message"]), nil))
	}

	video := firstVideo(op)
	if video == nil {
		return p.fail(errors.NewAIError(errors.ErrCodeJobFailed, "video job finished without a video", nil))
	}
	handle.ResultURI = video.URI

	path, err := p.materialize(ctx, video)
	if err != nil {
		return p.fail(err)
	}
	return types.VideoResult{Outcome: types.VideoReady, Asset: path}
}

func (p *VideoPoller) fail(err error) types.VideoResult {
	return types.VideoResult{Outcome: types.VideoFailed, Reason: err.Error()}
}

func firstVideo(op *genai.GenerateVideosOperation) *genai.Video {
	if op.Response == nil || len(op.Response.GeneratedVideos) == 0 || op.Response.GeneratedVideos[0] == nil {
		return nil
	}
	return op.Response.GeneratedVideos[0].Video
}

// materialize writes the video into the media directory and returns its path.
// Inline bytes are written directly, otherwise the URI is fetched with the API
// key attached.
func (p *VideoPoller) materialize(ctx context.Context, video *genai.Video) (string, error) {
	if len(video.VideoBytes) == 0 && video.URI == "" {
		return "", errors.NewAIError(errors.ErrCodeJobFailed, "video has neither bytes nor a URI", nil)
	}

	dir := p.cfg.MediaDir
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.NewIOError(errors.ErrCodeJobFetch, "cannot create media directory", err)
	}
	file, err := os.CreateTemp(dir, "video-*"+videoExtension(video.MIMEType))
	if err != nil {
		return "", errors.NewIOError(errors.ErrCodeJobFetch, "cannot create video file", err)
	}
	path := file.Name()

	if len(video.VideoBytes) > 0 {
		_, err = file.Write(video.VideoBytes)
	} else {
		err = p.download(ctx, video.URI, file)
	}
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(path)
		return "", err
	}
	return filepath.Clean(path), nil
}

func (p *VideoPoller) download(ctx context.Context, uri string, w io.Writer) error {
	u, err := url.Parse(uri)
	if err != nil {
		return errors.NewNetworkError(errors.ErrCodeJobFetch, "invalid video URI", err)
	}
	if p.cfg.APIKey != "" {
		q := u.Query()
		q.Set("key", p.cfg.APIKey)
		u.RawQuery = q.Encode()
	}

	ctx, cancel := context.WithTimeout(ctx, p.cfg.DownloadTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return errors.NewNetworkError(errors.ErrCodeJobFetch, "cannot build video request", err)
	}
	resp, err := p.httpClient.Do(req)
	if err != nil {
		// url.Error repeats the URL, which carries the key.
		var urlErr *url.Error
		if stderrors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return errors.NewNetworkError(errors.ErrCodeJobFetch, "video download failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return errors.NewNetworkError(errors.ErrCodeJobFetch,
			fmt.Sprintf("video download returned %s", resp.Status), nil).
			WithContext("status", resp.StatusCode)
	}
	if _, err := io.Copy(w, resp.Body); err != nil {
		return errors.NewNetworkError(errors.ErrCodeJobFetch, "video download interrupted", err)
	}
	return nil
}

func videoExtension(mimeType string) string {
	switch strings.ToLower(mimeType) {
	case "video/webm":
		return ".webm"
	case "video/quicktime":
		return ".mov"
	default:
		return ".mp4"
	}
}
