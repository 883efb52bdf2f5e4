package httpfetch

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sunr3d/ds-archiver/internal/interfaces/infra"
	"github.com/sunr3d/ds-archiver/models"
)

var _ infra.FileFetcher = (*Fetcher)(nil)

type Options struct {
	// RateLimit - запросов в секунду, 0 - без ограничения.
	RateLimit float64
	RateBurst int
	UserAgent string
}

type Fetcher struct {
	http    *resty.Client
	limiter *rate.Limiter
	logger  *zap.Logger
}

func New(log *zap.Logger, opts Options) *Fetcher {
	ua := opts.UserAgent
	if ua == "" {
		ua = "ds-archiver/1.0"
	}

	f := &Fetcher{
		http:   resty.New().SetHeader("User-Agent", ua),
		logger: log,
	}
	if opts.RateLimit > 0 {
		burst := opts.RateBurst
		if burst < 1 {
			burst = 1
		}
		f.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}
	return f
}

// Fetch скачивает url в dst. Файл пересоздается, при ошибке недописанный файл удаляется.
// Повторов нет, ошибка всегда *models.DownloadError.
func (f *Fetcher) Fetch(ctx context.Context, dst, url string) (int64, error) {
	n, err := f.fetch(ctx, dst, url)
	if err != nil {
		return 0, &models.DownloadError{Path: dst, URL: url, Cause: err}
	}
	return n, nil
}

func (f *Fetcher) fetch(ctx context.Context, dst, url string) (int64, error) {
	if !isValidURL(url) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFileURL, url)
	}

	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrRateLimit, err)
		}
	}

	start := time.Now()
	resp, err := f.http.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(url)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrFileDownloadFailed, err)
	}
	body := resp.RawBody()
	defer body.Close()

	if !resp.IsSuccess() {
		return 0, fmt.Errorf("%w: HTTP status %d", ErrFileDownloadFailed, resp.StatusCode())
	}

	n, err := writeFile(dst, body)
	if err != nil {
		return 0, err
	}

	f.logger.Debug("файл загружен",
		zap.String("url", url),
		zap.String("path", dst),
		zap.Int64("bytes", n),
		zap.Duration("elapsed", time.Since(start)),
	)
	return n, nil
}

func writeFile(dst string, r io.Reader) (n int64, err error) {
	file, err := os.Create(dst)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrFileCreateFailed, err)
	}
	defer func() {
		if err != nil {
			os.Remove(dst)
		}
	}()

	n, err = io.Copy(file, r)
	if err != nil {
		file.Close()
		return 0, fmt.Errorf("%w: %v", ErrFileCopyFailed, err)
	}
	if err = file.Sync(); err != nil {
		file.Close()
		return 0, fmt.Errorf("%w: %v", ErrFileCopyFailed, err)
	}
	if err = file.Close(); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrFileCopyFailed, err)
	}
	return n, nil
}

func isValidURL(url string) bool {
	return strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://")
}
