// Package client 是 REST API 的类型化调用封装，页面端通过它访问后端。
//
// 每次调用都会带上会话中的 Bearer 令牌；服务端返回 401 时会话被清空，
// 返回的错误满足 errors.Is(err, ErrUnauthorized)。不做重试。
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"expenses/logger"
	"expenses/models"
	"expenses/validation"
)

// ErrUnauthorized 令牌缺失、无效或过期
var ErrUnauthorized = errors.New("unauthorized")

// APIError 非 2xx 响应，Message 为服务端返回的提示
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// Is 401 响应视为 ErrUnauthorized
func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == http.StatusUnauthorized
}

// Client API 客户端
type Client struct {
	baseURL string
	http    *http.Client
	session *Session
	log     *logger.Logger
	header  http.Header
}

// Option 客户端选项
type Option func(*Client)

// WithHTTPClient 自定义 http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout 请求超时
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithLogger 日志
func WithLogger(l *logger.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithHeader 每个请求附带的固定请求头
func WithHeader(key, value string) Option {
	return func(c *Client) { c.header.Set(key, value) }
}

// New 创建客户端，baseURL 形如 http://localhost:5000/api
func New(baseURL string, session *Session, opts ...Option) *Client {
	if session == nil {
		session = &Session{}
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
		session: session,
		log:     logger.Nop(),
		header:  http.Header{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Session 客户端持有的会话
func (c *Client) Session() *Session {
	return c.session
}

// AuthResponse 注册/登录返回
type AuthResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// ExpenseList 分页列表
type ExpenseList struct {
	Expenses    []models.Expense `json:"expenses"`
	TotalPages  int              `json:"totalPages"`
	CurrentPage int              `json:"currentPage"`
	Total       int64            `json:"total"`
}

// Health 健康检查结果
type Health struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// ListParams 列表查询条件，零值字段不发送
type ListParams struct {
	Category  string
	StartDate string
	EndDate   string
	Page      int
	Limit     int
}

// Values 转为查询参数
func (p ListParams) Values() url.Values {
	v := url.Values{}
	if p.Category != "" {
		v.Set("category", p.Category)
	}
	if p.StartDate != "" {
		v.Set("startDate", p.StartDate)
	}
	if p.EndDate != "" {
		v.Set("endDate", p.EndDate)
	}
	if p.Page > 0 {
		v.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		v.Set("limit", strconv.Itoa(p.Limit))
	}
	return v
}

// Register 注册并保存会话
func (c *Client) Register(ctx context.Context, p validation.RegistrationPayload) (*AuthResponse, error) {
	var res AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", nil, p, &res); err != nil {
		return nil, err
	}
	c.session.Set(res.Token, &res.User)
	return &res, nil
}

// Login 登录并保存会话
func (c *Client) Login(ctx context.Context, p validation.LoginPayload) (*AuthResponse, error) {
	var res AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, p, &res); err != nil {
		return nil, err
	}
	c.session.Set(res.Token, &res.User)
	return &res, nil
}

// Me 当前用户
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateExpense 创建消费记录
func (c *Client) CreateExpense(ctx context.Context, p validation.ExpensePayload) (*models.Expense, error) {
	var expense models.Expense
	if err := c.do(ctx, http.MethodPost, "/expenses", nil, p, &expense); err != nil {
		return nil, err
	}
	return &expense, nil
}

// ListExpenses 分页查询消费记录
func (c *Client) ListExpenses(ctx context.Context, params ListParams) (*ExpenseList, error) {
	var list ExpenseList
	if err := c.do(ctx, http.MethodGet, "/expenses", params.Values(), nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// GetExpense 单条消费记录
func (c *Client) GetExpense(ctx context.Context, id string) (*models.Expense, error) {
	var expense models.Expense
	if err := c.do(ctx, http.MethodGet, "/expenses/"+url.PathEscape(id), nil, nil, &expense); err != nil {
		return nil, err
	}
	return &expense, nil
}

// UpdateExpense 更新消费记录
func (c *Client) UpdateExpense(ctx context.Context, id string, p validation.ExpensePayload) (*models.Expense, error) {
	var expense models.Expense
	if err := c.do(ctx, http.MethodPatch, "/expenses/"+url.PathEscape(id), nil, p, &expense); err != nil {
		return nil, err
	}
	return &expense, nil
}

// DeleteExpense 删除消费记录
func (c *Client) DeleteExpense(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/expenses/"+url.PathEscape(id), nil, nil, nil)
}

// Stats 类别统计
func (c *Client) Stats(ctx context.Context) (*models.ExpenseStats, error) {
	var stats models.ExpenseStats
	if err := c.do(ctx, http.MethodGet, "/expenses/stats", nil, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// Health 健康检查
func (c *Client) Health(ctx context.Context) (*Health, error) {
	var h Health
	if err := c.do(ctx, http.MethodGet, "/health", nil, nil, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	for key, values := range c.header {
		req.Header[key] = values
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		c.session.Clear()
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode, Message: errorMessage(resp)}
		c.log.Debug("api call failed",
			logger.FieldMethod, method,
			logger.FieldPath, path,
			logger.FieldStatus, resp.StatusCode,
		)
		return apiErr
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// errorMessage 读取 {"error": "..."}，读不到时使用状态文本
func errorMessage(resp *http.Response) string {
	var body struct {
		Error string `json:"error"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(data, &body); err == nil && body.Error != "" {
		return body.Error
	}
	return http.StatusText(resp.StatusCode)
}
