package platformadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"lumora/contexts/campaign-automation/launch-engine/domain/entities"
	domainerrors "lumora/contexts/campaign-automation/launch-engine/domain/errors"

	"golang.org/x/time/rate"
)

const DefaultGraphBaseURL = "https://graph.facebook.com/v21.0"

type GraphConfig struct {
	BaseURL   string
	RateLimit float64
	RateBurst int
	Timeout   time.Duration
	Transport http.RoundTripper
}

// GraphClient is a rate-limited JSON client for the Graph API. It never
// retries; failures come back as *PlatformAPIError.
type GraphClient struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

func NewGraphClient(cfg GraphConfig) *GraphClient {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = DefaultGraphBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = 10
	}
	if cfg.RateBurst <= 0 {
		cfg.RateBurst = 5
	}
	return &GraphClient{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: cfg.Transport,
		},
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst),
	}
}

type graphErrorBody struct {
	Error *struct {
		Message     string `json:"message"`
		Type        string `json:"type"`
		Code        int    `json:"code"`
		Subcode     int    `json:"error_subcode"`
		UserTitle   string `json:"error_user_title"`
		UserMessage string `json:"error_user_msg"`
		IsTransient bool   `json:"is_transient"`
	} `json:"error"`
}

func (c *GraphClient) Get(ctx context.Context, token string, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, token, path, query, nil, out)
}

func (c *GraphClient) Post(ctx context.Context, token string, path string, body any, out any) error {
	return c.do(ctx, http.MethodPost, token, path, nil, body, out)
}

func (c *GraphClient) do(
	ctx context.Context,
	method string,
	token string,
	path string,
	query url.Values,
	body any,
	out any,
) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return temporaryError(fmt.Sprintf("rate limiter: %v", err), 0)
	}

	fullURL := c.baseURL + "/" + strings.TrimPrefix(path, "/")
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return fmt.Errorf("create graph request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return temporaryError(fmt.Sprintf("graph request: %v", err), 0)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return temporaryError(fmt.Sprintf("read graph response: %v", err), resp.StatusCode)
	}

	var envelope graphErrorBody
	_ = json.Unmarshal(raw, &envelope)
	if resp.StatusCode >= 400 || envelope.Error != nil {
		return graphError(resp.StatusCode, envelope)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &domainerrors.PlatformAPIError{
			Platform: string(entities.PlatformMeta),
			Message:  fmt.Sprintf("decode graph response: %v", err),
			Code:     resp.StatusCode,
			Category: domainerrors.CategoryDefinitive,
		}
	}
	return nil
}

// transientGraphCodes are the Graph API codes documented as throttling or
// temporary platform trouble.
var transientGraphCodes = map[int]struct{}{
	1: {}, 2: {}, 4: {}, 17: {}, 32: {}, 341: {}, 613: {},
}

func graphError(status int, envelope graphErrorBody) *domainerrors.PlatformAPIError {
	apiErr := &domainerrors.PlatformAPIError{
		Platform: string(entities.PlatformMeta),
		Message:  fmt.Sprintf("Meta API %d", status),
		Code:     status,
		Category: domainerrors.CategoryDefinitive,
		Type:     "UnknownError",
	}
	if detail := envelope.Error; detail != nil {
		if detail.Message != "" {
			apiErr.Message = detail.Message
		}
		if detail.Code != 0 {
			apiErr.Code = detail.Code
		}
		if detail.Type != "" {
			apiErr.Type = detail.Type
		}
		apiErr.Subcode = detail.Subcode
		apiErr.UserTitle = detail.UserTitle
		apiErr.UserMessage = detail.UserMessage
		if detail.IsTransient {
			apiErr.Category = domainerrors.CategoryTemporary
		}
		if _, ok := transientGraphCodes[detail.Code]; ok {
			apiErr.Category = domainerrors.CategoryTemporary
		}
	}
	if status == http.StatusTooManyRequests || status >= 500 {
		apiErr.Category = domainerrors.CategoryTemporary
	}
	return apiErr
}

func temporaryError(message string, code int) *domainerrors.PlatformAPIError {
	return &domainerrors.PlatformAPIError{
		Platform: string(entities.PlatformMeta),
		Message:  message,
		Code:     code,
		Category: domainerrors.CategoryTemporary,
	}
}
