package dsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/sunr3d/ds-archiver/internal/interfaces/infra"
	"github.com/sunr3d/ds-archiver/models"
)

var _ infra.DemarcheClient = (*Client)(nil)

const maxPages = 1000

type Client struct {
	endpoint string
	http     *resty.Client
	logger   *zap.Logger
}

func New(log *zap.Logger, endpoint string, timeout time.Duration) *Client {
	return &Client{
		endpoint: endpoint,
		http:     resty.New().SetTimeout(timeout),
		logger:   log,
	}
}

// FetchDemarche загружает демарш со всеми досье, проходя по всем страницам.
func (c *Client) FetchDemarche(ctx context.Context, number int, token string) (*models.Demarche, error) {
	var (
		head  *wireDemarche
		nodes []json.RawMessage
	)
	err := c.paginate(ctx, demarcheQuery, number, token, func(page *wireDemarche) {
		if head == nil {
			head = page
		}
		nodes = append(nodes, page.Dossiers.Nodes...)
	})
	if err != nil {
		return nil, err
	}

	demarche := &models.Demarche{
		ID:       head.ID,
		Number:   head.Number,
		Title:    head.Title,
		Dossiers: make([]models.Dossier, 0, len(nodes)),
	}
	for i, node := range nodes {
		var d wireDossier
		if err := json.Unmarshal(node, &d); err != nil {
			return nil, fmt.Errorf("%w: досье #%d: %v", ErrUnknown, i, err)
		}
		demarche.Dossiers = append(demarche.Dossiers, d.toModel())
	}

	raw := rawRecord{Demarche: rawDemarche{ID: head.ID, Number: head.Number, Title: head.Title}}
	raw.Demarche.Dossiers.Nodes = nodes
	if raw.Demarche.Dossiers.Nodes == nil {
		raw.Demarche.Dossiers.Nodes = []json.RawMessage{}
	}
	demarche.Raw, err = json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnknown, err)
	}

	c.logger.Info("демарш получен",
		zap.Int("demarche", number),
		zap.String("title", demarche.Title),
		zap.Int("dossiers", len(demarche.Dossiers)),
	)
	return demarche, nil
}

// FetchSummary возвращает название демарша и количество досье без загрузки champs.
func (c *Client) FetchSummary(ctx context.Context, number int, token string) (*models.DemarcheSummary, error) {
	var summary *models.DemarcheSummary
	err := c.paginate(ctx, summaryQuery, number, token, func(page *wireDemarche) {
		if summary == nil {
			summary = &models.DemarcheSummary{Number: page.Number, Title: page.Title}
		}
		summary.DossierCount += len(page.Dossiers.Nodes)
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}

func (c *Client) paginate(ctx context.Context, query string, number int, token string, onPage func(*wireDemarche)) error {
	var after *string
	for page := 0; page < maxPages; page++ {
		d, err := c.do(ctx, query, map[string]any{
			"demarcheNumber": number,
			"after":          after,
		}, token)
		if err != nil {
			return err
		}
		onPage(d)

		if !d.Dossiers.PageInfo.HasNextPage || d.Dossiers.PageInfo.EndCursor == "" {
			return nil
		}
		cursor := d.Dossiers.PageInfo.EndCursor
		after = &cursor
	}
	return fmt.Errorf("%w: %d", ErrTooManyPages, maxPages)
}

func (c *Client) do(ctx context.Context, query string, vars map[string]any, token string) (*wireDemarche, error) {
	var out gqlResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+token).
		SetHeader("Content-Type", "application/json").
		SetBody(gqlRequest{Query: query, Variables: vars}).
		SetResult(&out).
		SetError(&out).
		Post(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnknown, err)
	}

	if err := classify(resp.StatusCode(), out); err != nil {
		c.logger.Warn("API demarches-simplifiees вернуло ошибку",
			zap.Int("status", resp.StatusCode()),
			zap.Error(err),
		)
		return nil, err
	}
	return out.Data.Demarche, nil
}

// classify сводит ответ API к ErrUnauthorized, ErrNotFound или ErrUnknown.
func classify(status int, resp gqlResponse) error {
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		return fmt.Errorf("%w: HTTP status %d", ErrUnauthorized, status)
	}

	for _, e := range resp.Errors {
		code := strings.ToLower(e.Extensions.Code)
		msg := strings.ToLower(e.Message)
		switch {
		case code == "unauthorized" || code == "forbidden" ||
			strings.Contains(msg, "token") || strings.Contains(msg, "unauthorized"):
			return fmt.Errorf("%w: %s", ErrUnauthorized, e.Message)
		case code == "not_found" || strings.Contains(msg, "not found"):
			return fmt.Errorf("%w: %s", ErrNotFound, e.Message)
		}
	}

	if status == http.StatusNotFound {
		return fmt.Errorf("%w: HTTP status %d", ErrNotFound, status)
	}
	if status < 200 || status >= 300 {
		return fmt.Errorf("%w: HTTP status %d", ErrUnknown, status)
	}
	if len(resp.Errors) > 0 {
		return fmt.Errorf("%w: %s", ErrUnknown, resp.Errors[0].Message)
	}
	if resp.Data == nil {
		return fmt.Errorf("%w: пустой ответ", ErrUnknown)
	}
	if resp.Data.Demarche == nil {
		return ErrNotFound
	}
	return nil
}
