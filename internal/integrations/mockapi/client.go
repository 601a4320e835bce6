package mockapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	apperrors "pharmacy-system/pkg/errors"
)

// Коллекции удалённого REST-хранилища.
const (
	CollectionProducts     = "Productos"
	CollectionReservations = "Reservas"
	CollectionSales        = "Ventas"
	CollectionBranches     = "Sucursales"
	CollectionAdmins       = "Usuarios"
	CollectionCustomers    = "Clientes"
)

// Client - тонкая обёртка над HTTP-глаголами коллекций (list/get/create/replace/delete).
// PATCH внешний сервис не поддерживает, поэтому изменение одного поля - это PUT всей записи.
// Повторов нет: ошибка сразу возвращается вызывающему.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *zap.Logger
}

func New(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		logger:     logger.Named("mockapi"),
	}
}

func (c *Client) do(ctx context.Context, method, path string, payload interface{}, out interface{}) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("ошибка сериализации тела запроса %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("ошибка создания запроса %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("ошибка выполнения запроса %s %s: %w: %w", method, path, apperrors.ErrUpstream, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("Запрос к внешнему API",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s %s: %w", method, path, apperrors.ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("внешний API вернул статус %s для %s %s (%s): %w",
			resp.Status, method, path, string(bodyBytes), apperrors.ErrUpstream)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("ошибка парсинга JSON для %s %s: %w: %w", method, path, apperrors.ErrUpstream, err)
	}
	return nil
}

func itemPath(collection, id string) string {
	return "/" + collection + "/" + url.PathEscape(id)
}

// List возвращает всю коллекцию: пагинации и фильтров на стороне сервиса нет.
func List[T any](ctx context.Context, c *Client, collection string) ([]T, error) {
	var out []T
	if err := c.do(ctx, http.MethodGet, "/"+collection, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func Get[T any](ctx context.Context, c *Client, collection, id string) (*T, error) {
	var out T
	if err := c.do(ctx, http.MethodGet, itemPath(collection, id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func Create[T any](ctx context.Context, c *Client, collection string, record T) (*T, error) {
	var out T
	if err := c.do(ctx, http.MethodPost, "/"+collection, record, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func Replace[T any](ctx context.Context, c *Client, collection, id string, record T) (*T, error) {
	var out T
	if err := c.do(ctx, http.MethodPut, itemPath(collection, id), record, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func Delete(ctx context.Context, c *Client, collection, id string) error {
	return c.do(ctx, http.MethodDelete, itemPath(collection, id), nil, nil)
}
