// Package libraryclient 图书馆API的Go客户端
//
// Client负责HTTP调用：只有GET请求在传输失败(网络错误、HTTP 5xx)时有限次重试，
// 所有请求都经过熔断器；业务拒绝(code≠0)以*APIError返回，不重试也不计入熔断。
// Session维护登录态与认证事件流，Coordinator维护当前用户的借阅视图。
package libraryclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"

	appbook "github.com/xiebiao/library/internal/application/book"
	apploan "github.com/xiebiao/library/internal/application/loan"
	appuser "github.com/xiebiao/library/internal/application/user"
	"github.com/xiebiao/library/pkg/circuitbreaker"
	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/metrics"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrTransport 传输层失败(重试后仍失败或熔断器打开)
var ErrTransport = errors.New("libraryclient: transport failure")

// APIError 服务端返回的业务错误
type APIError struct {
	Code    int
	Message string
	Reason  apperrors.Reason
}

func (e *APIError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("[%d] %s (%s)", e.Code, e.Message, e.Reason)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Config 客户端配置
type Config struct {
	BaseURL      string
	HTTPClient   *http.Client
	MaxRetries   int           // GET请求传输失败后的重试次数，默认2
	RetryBackoff time.Duration // 第n次重试前等待n*RetryBackoff，默认200ms
	Breaker      circuitbreaker.Config
}

// Client 图书馆API客户端，可并发使用
type Client struct {
	baseURL    string
	http       *http.Client
	breaker    *circuitbreaker.CircuitBreaker
	maxRetries int
	backoff    time.Duration

	mu           sync.RWMutex
	accessToken  string
	refreshToken string
}

// New 创建客户端
func New(cfg Config) *Client {
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 2
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = 200 * time.Millisecond
	}

	breakerCfg := cfg.Breaker
	if breakerCfg.Timeout == 0 {
		breakerCfg.Timeout = 10 * time.Second
	}
	breakerCfg.IsSuccessful = func(err error) bool {
		var apiErr *APIError
		return err == nil || errors.As(err, &apiErr)
	}
	if breakerCfg.OnStateChange == nil {
		breakerCfg.OnStateChange = func(name string, _, to circuitbreaker.State) {
			metrics.SetCircuitBreakerState(name, int(to))
		}
	}

	return &Client{
		baseURL:    cfg.BaseURL,
		http:       cfg.HTTPClient,
		breaker:    circuitbreaker.NewCircuitBreaker("library-api", breakerCfg),
		maxRetries: cfg.MaxRetries,
		backoff:    cfg.RetryBackoff,
	}
}

// SetTokens 设置登录凭证
func (c *Client) SetTokens(accessToken, refreshToken string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accessToken = accessToken
	c.refreshToken = refreshToken
}

// AccessToken 当前Access Token
func (c *Client) AccessToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.accessToken
}

// BaseURL API地址
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ---- 账号 ----

// Register 注册
func (c *Client) Register(ctx context.Context, fullName, email, password, confirmPassword string) (*appuser.RegisterResponse, error) {
	var out appuser.RegisterResponse
	err := c.do(ctx, http.MethodPost, "/api/v1/users/register", map[string]string{
		"full_name":        fullName,
		"email":            email,
		"password":         password,
		"confirm_password": confirmPassword,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Login 登录成功后保存Token
func (c *Client) Login(ctx context.Context, email, password string) (*appuser.LoginResponse, error) {
	var out appuser.LoginResponse
	err := c.do(ctx, http.MethodPost, "/api/v1/users/login", map[string]string{
		"email":    email,
		"password": password,
	}, &out)
	if err != nil {
		return nil, err
	}
	c.SetTokens(out.AccessToken, out.RefreshToken)
	return &out, nil
}

// Logout 登出，无论服务端结果如何都清除本地Token
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/api/v1/users/logout", nil, nil)
	c.SetTokens("", "")
	return err
}

// Profile 当前用户资料
func (c *Client) Profile(ctx context.Context) (*appuser.ProfileDTO, error) {
	var out appuser.ProfileDTO
	if err := c.do(ctx, http.MethodGet, "/api/v1/profile", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ---- 目录 ----

// BookQuery 图书列表筛选
type BookQuery struct {
	Page       int
	PageSize   int
	Keyword    string
	AuthorID   uint
	CategoryID uint
}

func (q BookQuery) encode() string {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		v.Set("page_size", strconv.Itoa(q.PageSize))
	}
	if q.Keyword != "" {
		v.Set("keyword", q.Keyword)
	}
	if q.AuthorID > 0 {
		v.Set("author_id", strconv.FormatUint(uint64(q.AuthorID), 10))
	}
	if q.CategoryID > 0 {
		v.Set("category_id", strconv.FormatUint(uint64(q.CategoryID), 10))
	}
	if len(v) == 0 {
		return ""
	}
	return "?" + v.Encode()
}

// ListBooks 图书列表
func (c *Client) ListBooks(ctx context.Context, q BookQuery) (*appbook.ListBooksResponse, error) {
	var out appbook.ListBooksResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/books"+q.encode(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetBook 图书详情
func (c *Client) GetBook(ctx context.Context, id uint) (*appbook.BookDetail, error) {
	var out appbook.BookDetail
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/v1/books/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ---- 借阅 ----

// Borrow 借书
func (c *Client) Borrow(ctx context.Context, bookID uint) (*apploan.BorrowResponse, error) {
	var out apploan.BorrowResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/loans", map[string]uint{"book_id": bookID}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Return 还书
func (c *Client) Return(ctx context.Context, loanID uint) (*apploan.ReturnResponse, error) {
	var out apploan.ReturnResponse
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/v1/loans/%d/return", loanID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MyLoans 当前用户的借阅
func (c *Client) MyLoans(ctx context.Context) (*apploan.MyLoansResponse, error) {
	var out apploan.MyLoansResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/loans/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// LoanStatus 当前用户是否已借阅某本书
func (c *Client) LoanStatus(ctx context.Context, bookID uint) (*apploan.ExistingLoanResponse, error) {
	var out apploan.ExistingLoanResponse
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/v1/books/%d/loan-status", bookID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ---- 传输 ----

// envelope 统一响应结构
type envelope struct {
	Code    int                 `json:"code"`
	Message string              `json:"message"`
	Reason  apperrors.Reason    `json:"reason"`
	Data    jsoniter.RawMessage `json:"data"`
}

// retryableError 可以重试的传输层失败
type retryableError struct {
	err error
}

func (e *retryableError) Error() string { return e.err.Error() }
func (e *retryableError) Unwrap() error { return e.err }

// do 发送请求并解析统一响应，out为nil时忽略data
// 写请求只发一次：借还书不是幂等操作，失败后由调用方刷新状态再决定
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return fmt.Errorf("编码请求失败: %w", err)
		}
	}

	attempts := 1
	if method == http.MethodGet {
		attempts += c.maxRetries
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(i) * c.backoff):
			}
		}

		var env *envelope
		err := c.breaker.Execute(func() error {
			var err error
			env, err = c.roundTrip(ctx, method, path, payload)
			return err
		})
		metrics.IncCircuitBreakerRequest(c.breaker.Name(), breakerResult(err))
		if err == nil {
			return decodeEnvelope(env, out)
		}

		lastErr = err
		var retryable *retryableError
		if !errors.As(err, &retryable) || ctx.Err() != nil {
			break
		}
	}

	if errors.Is(lastErr, circuitbreaker.ErrOpenState) || errors.Is(lastErr, circuitbreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %v", ErrTransport, lastErr)
	}
	var retryable *retryableError
	if errors.As(lastErr, &retryable) {
		return fmt.Errorf("%w: %v", ErrTransport, retryable.err)
	}
	return lastErr
}

// roundTrip 一次HTTP往返，网络错误和5xx标记为可重试
func (c *Client) roundTrip(ctx context.Context, method, path string, payload []byte) (*envelope, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.AccessToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &retryableError{err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &retryableError{err: fmt.Errorf("HTTP %d", resp.StatusCode)}
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, &APIError{Code: apperrors.ErrCodeNotFound, Message: fmt.Sprintf("HTTP %d", resp.StatusCode)}
		}
		return nil, fmt.Errorf("解析响应失败: %w", err)
	}
	return &env, nil
}

func breakerResult(err error) string {
	var apiErr *APIError
	switch {
	case err == nil, errors.As(err, &apiErr):
		return "success"
	case errors.Is(err, circuitbreaker.ErrOpenState), errors.Is(err, circuitbreaker.ErrTooManyRequests):
		return "rejected"
	default:
		return "failure"
	}
}

func decodeEnvelope(env *envelope, out interface{}) error {
	if env.Code != 0 {
		return &APIError{Code: env.Code, Message: env.Message, Reason: env.Reason}
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("解析响应数据失败: %w", err)
	}
	return nil
}
