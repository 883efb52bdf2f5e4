package models

import "time"

type RunState string

const (
	RunStateInit          RunState = "init"
	RunStateFetchMetadata RunState = "fetch_metadata"
	RunStateExtract       RunState = "extract"
	RunStateDownload      RunState = "download"
	RunStatePackage       RunState = "package"
	RunStateTransmit      RunState = "transmit"
	RunStateCleanup       RunState = "cleanup"
	RunStateDone          RunState = "done"
	RunStateFailed        RunState = "failed"
)

func (s RunState) Terminal() bool {
	return s == RunStateDone || s == RunStateFailed
}

type FailureKind string

const (
	FailureNone         FailureKind = ""
	FailureUnauthorized FailureKind = "unauthorized"
	FailureNotFound     FailureKind = "not_found"
	FailureUnknown      FailureKind = "unknown"
	FailurePackaging    FailureKind = "packaging"
	FailureTransmit     FailureKind = "transmit"
)

type Run struct {
	ID             string         `json:"id"`
	DemarcheNumber int            `json:"demarche"`
	State          RunState       `json:"state"`
	Failure        FailureKind    `json:"failure,omitempty"`
	DownloadStatus DownloadStatus `json:"download_status,omitempty"`
	Dossiers       int            `json:"dossiers"`
	Files          []string       `json:"files"`
	Errors         []string       `json:"errors,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

type BuildRequest struct {
	Number int
	Token  string
}

// Artifact - собранный zip, который передается вызывающему.
type Artifact struct {
	RunID          string
	Path           string
	Name           string
	Size           int64
	DownloadStatus DownloadStatus
}

func (r *Run) Clone() *Run {
	if r == nil {
		return nil
	}
	c := *r
	c.Files = append([]string(nil), r.Files...)
	c.Errors = append([]string(nil), r.Errors...)
	return &c
}
