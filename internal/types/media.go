package types

import (
	"encoding/base64"
	"time"
)

// MediaAsset is binary model output (image or audio).
type MediaAsset struct {
	MIMEType string `json:"mimeType"`
	Data     []byte `json:"data"`
}

// Empty reports whether the asset carries no payload.
func (m *MediaAsset) Empty() bool {
	return m == nil || len(m.Data) == 0
}

// DataURI renders the asset as a base64 data URI, or "" when empty.
func (m *MediaAsset) DataURI() string {
	if m.Empty() {
		return ""
	}
	mime := m.MIMEType
	if mime == "" {
		mime = "application/octet-stream"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(m.Data)
}

// JobStatus is the state of an asynchronous generation job.
type JobStatus string

const (
	JobPending JobStatus = "pending"
	JobDone    JobStatus = "done"
)

// JobHandle tracks one submitted video job. Only the poller mutates it.
type JobHandle struct {
	ID            string    `json:"id"`
	OperationName string    `json:"operationName"`
	Status        JobStatus `json:"status"`
	ResultURI     string    `json:"resultUri,omitempty"`
	SubmittedAt   time.Time `json:"submittedAt"`
	Attempts      int       `json:"attempts"`
}

// VideoOutcome is how a video job ended.
type VideoOutcome string

const (
	VideoReady    VideoOutcome = "ready"
	VideoFailed   VideoOutcome = "failed"
	VideoTimedOut VideoOutcome = "timed_out"
)

// VideoResult is the structured end state of a poll loop. Asset is the local
// path of the materialized video and is set only when Outcome is VideoReady.
type VideoResult struct {
	Outcome VideoOutcome `json:"outcome"`
	Asset   string       `json:"asset,omitempty"`
	Reason  string       `json:"reason,omitempty"`
	Handle  JobHandle    `json:"handle"`
}

// OK reports whether a video was produced.
func (r VideoResult) OK() bool {
	return r.Outcome == VideoReady && r.Asset != ""
}
