package models

import (
	"fmt"
	"time"
)

type TaskKind string

const (
	TaskKindSummary    TaskKind = "summary"
	TaskKindAttachment TaskKind = "attachment"
	TaskKindAnnotation TaskKind = "annotation"
)

type AttachmentTask struct {
	DossierNumber int      `json:"dossier"`
	Kind          TaskKind `json:"kind"`
	// RelPath - путь относительно каталога демарша, уникален в рамках запуска.
	RelPath  string `json:"path"`
	Filename string `json:"filename"`
	URL      string `json:"url"`
}

type DownloadStatus string

const (
	DownloadStatusAllSucceeded   DownloadStatus = "all_succeeded"
	DownloadStatusPartialFailure DownloadStatus = "partial_failure"
	DownloadStatusTotalFailure   DownloadStatus = "total_failure"
)

type DownloadResult struct {
	Task     AttachmentTask
	Bytes    int64
	Duration time.Duration
	Err      error
}

func (r DownloadResult) OK() bool { return r.Err == nil }

type DownloadReport struct {
	Results []DownloadResult
	Status  DownloadStatus
}

func (r DownloadReport) Succeeded() []DownloadResult {
	out := make([]DownloadResult, 0, len(r.Results))
	for _, res := range r.Results {
		if res.OK() {
			out = append(out, res)
		}
	}
	return out
}

func (r DownloadReport) Failed() []DownloadResult {
	out := make([]DownloadResult, 0)
	for _, res := range r.Results {
		if !res.OK() {
			out = append(out, res)
		}
	}
	return out
}

// DownloadError - ошибка загрузки одного файла (сеть или файловая система).
type DownloadError struct {
	Path  string
	URL   string
	Cause error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("загрузка %s в %s: %v", e.URL, e.Path, e.Cause)
}

func (e *DownloadError) Unwrap() error { return e.Cause }

// PackagingError - архив не удалось собрать, частичный архив не отдается.
type PackagingError struct {
	Path  string
	Cause error
}

func (e *PackagingError) Error() string {
	return fmt.Sprintf("сборка архива %s: %v", e.Path, e.Cause)
}

func (e *PackagingError) Unwrap() error { return e.Cause }
