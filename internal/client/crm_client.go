package client

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Fetcher 客户集合拉取协作方
// 返回原始响应体，信封适配交给 segment.Normalize
type Fetcher interface {
	FetchCollection(ctx context.Context) ([]byte, error)
}

// TagUpdater 标签变更提交协作方
// payload 由调用方决定字段名（协商在 tagedit 层完成）
type TagUpdater interface {
	SubmitTagUpdate(ctx context.Context, customerID int64, payload any) error
}

// CRMClient CRM 后端 API 客户端
type CRMClient struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

// NewCRMClient 创建 CRM 客户端
// 超时与重试在这里统一配置（上游没有这层保护，慢网络会无限挂起）
func NewCRMClient(baseURL string, timeout time.Duration, retries int, logger *zap.Logger) *CRMClient {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(retries).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(3 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &CRMClient{
		httpClient: httpClient,
		logger:     logger,
	}
}

var _ Fetcher = (*CRMClient)(nil)
var _ TagUpdater = (*CRMClient)(nil)

// FetchCollection GET /customers，返回原始响应体
func (c *CRMClient) FetchCollection(ctx context.Context) ([]byte, error) {
	resp, err := c.httpClient.R().SetContext(ctx).Get("/customers")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch customer collection: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("customer collection fetch returned %d", resp.StatusCode())
	}
	return resp.Body(), nil
}

// SubmitTagUpdate PATCH /customers/{id}，payload 即标签字段
func (c *CRMClient) SubmitTagUpdate(ctx context.Context, customerID int64, payload any) error {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(payload).
		Patch(fmt.Sprintf("/customers/%d", customerID))
	if err != nil {
		return fmt.Errorf("failed to submit tag update: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("tag update returned %d: %s", resp.StatusCode(), resp.String())
	}
	return nil
}
