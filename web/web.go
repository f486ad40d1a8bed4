// Package web 服务端渲染的记账页面：登录、注册、消费列表（筛选、分页、统计图）与新增/编辑表单。
// 页面只通过 client 包调用 REST API，不直接访问存储。
package web

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"expenses/client"
	"expenses/logger"
	"expenses/models"
	"expenses/service"
	"expenses/validation"

	"github.com/gin-gonic/gin"
)

// Config 页面配置
type Config struct {
	APIBaseURL    string
	SecureCookies bool
	SessionTTL    time.Duration
	HTTPClient    *http.Client
}

// Handler 页面处理器
type Handler struct {
	cfg  Config
	tmpl templates
	log  *logger.Logger
}

// NewHandler 创建页面处理器
func NewHandler(cfg Config, log *logger.Logger) (*Handler, error) {
	if log == nil {
		log = logger.Nop()
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 7 * 24 * time.Hour
	}
	tmpl, err := loadTemplates()
	if err != nil {
		return nil, err
	}
	return &Handler{cfg: cfg, tmpl: tmpl, log: log.WithComponent(logger.ComponentWeb)}, nil
}

// Register 注册页面路由
func (h *Handler) Register(r gin.IRouter) {
	r.StaticFS("/static", http.FS(StaticFS()))

	r.GET("/login", h.loginForm)
	r.POST("/login", h.login)
	r.GET("/register", h.registerForm)
	r.POST("/register", h.register)
	r.POST("/logout", h.logout)

	pages := r.Group("")
	pages.Use(requireSession())
	{
		pages.GET("/", h.list)
		pages.GET("/expenses/new", h.newForm)
		pages.POST("/expenses/new", h.create)
		pages.GET("/expenses/:id/edit", h.editForm)
		pages.POST("/expenses/:id/edit", h.update)
		pages.POST("/expenses/:id/delete", h.delete)
	}
}

// client 以当前 Cookie 中的令牌构造 API 客户端
func (h *Handler) client(c *gin.Context) *client.Client {
	// 转发访客地址，API 端按访客而不是页面服务限流
	ip := c.ClientIP()
	opts := []client.Option{
		client.WithLogger(h.log),
		client.WithHeader("X-Forwarded-For", ip),
		client.WithHeader("X-Real-IP", ip),
	}
	if h.cfg.HTTPClient != nil {
		opts = append(opts, client.WithHTTPClient(h.cfg.HTTPClient))
	}
	return client.New(h.cfg.APIBaseURL, client.NewSession(sessionToken(c), nil), opts...)
}

// unauthorized 令牌失效时清空 Cookie 并跳转登录页
func (h *Handler) unauthorized(c *gin.Context, err error) bool {
	if !errors.Is(err, client.ErrUnauthorized) {
		return false
	}
	h.clearSession(c)
	c.Redirect(http.StatusSeeOther, "/login")
	return true
}

// message 展示给用户的错误信息，服务端提示原样展示
func (h *Handler) message(c *gin.Context, err error) (int, string) {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status, apiErr.Message
	}
	h.log.Error("api unreachable", logger.FieldPath, c.Request.URL.Path, logger.FieldError, err.Error())
	return http.StatusBadGateway, "Unable to reach the server, please try again."
}

type authPage struct {
	layoutData
	Name  string
	Email string
}

func (h *Handler) loginForm(c *gin.Context) {
	if sessionToken(c) != "" {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	h.tmpl.render(c, http.StatusOK, pageLogin, authPage{layoutData: layoutData{Title: "Login"}})
}

func (h *Handler) login(c *gin.Context) {
	p := validation.LoginPayload{Email: c.PostForm("email"), Password: c.PostForm("password")}
	page := authPage{layoutData: layoutData{Title: "Login"}, Email: p.Email}

	if _, err := validation.Login(p); err != nil {
		page.Error = err.Error()
		h.tmpl.render(c, http.StatusBadRequest, pageLogin, page)
		return
	}

	res, err := h.client(c).Login(c.Request.Context(), p)
	if err != nil {
		code, msg := h.message(c, err)
		page.Error = msg
		h.tmpl.render(c, code, pageLogin, page)
		return
	}
	h.setSession(c, res.Token, res.User.Name)
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *Handler) registerForm(c *gin.Context) {
	if sessionToken(c) != "" {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	h.tmpl.render(c, http.StatusOK, pageRegister, authPage{layoutData: layoutData{Title: "Register"}})
}

func (h *Handler) register(c *gin.Context) {
	p := validation.RegistrationPayload{
		Name:     c.PostForm("name"),
		Email:    c.PostForm("email"),
		Password: c.PostForm("password"),
	}
	page := authPage{layoutData: layoutData{Title: "Register"}, Name: p.Name, Email: p.Email}

	if _, err := validation.Registration(p); err != nil {
		page.Error = err.Error()
		h.tmpl.render(c, http.StatusBadRequest, pageRegister, page)
		return
	}

	res, err := h.client(c).Register(c.Request.Context(), p)
	if err != nil {
		code, msg := h.message(c, err)
		page.Error = msg
		h.tmpl.render(c, code, pageRegister, page)
		return
	}
	h.setSession(c, res.Token, res.User.Name)
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *Handler) logout(c *gin.Context) {
	h.clearSession(c)
	c.Redirect(http.StatusSeeOther, "/login")
}

type listPage struct {
	layoutData
	Filter      client.ListParams
	Query       string
	Categories  []models.Category
	Expenses    []models.Expense
	Page        int
	TotalPages  int
	Total       int64
	PrevURL     string
	NextURL     string
	Shares      []service.Share
	TotalAmount float64
}

// list 筛选条件与页码都保存在查询参数中
func (h *Handler) list(c *gin.Context) {
	params := client.ListParams{
		Category:  strings.TrimSpace(c.Query("category")),
		StartDate: strings.TrimSpace(c.Query("startDate")),
		EndDate:   strings.TrimSpace(c.Query("endDate")),
		Page:      atoiDefault(c.Query("page"), 1),
	}
	// 下拉框的 All 表示不筛选
	if strings.EqualFold(params.Category, validation.AllCategories) {
		params.Category = ""
	}

	page := listPage{
		layoutData: layoutData{Title: "Expenses", User: sessionUser(c)},
		Filter:     params,
		Query:      filterQuery(params, params.Page).Encode(),
		Categories: models.GetCategories(),
		Expenses:   []models.Expense{},
		Page:       params.Page,
	}

	ctx := c.Request.Context()
	cl := h.client(c)

	list, err := cl.ListExpenses(ctx, params)
	if h.unauthorized(c, err) {
		return
	}
	code := http.StatusOK
	if err != nil {
		code, page.Error = h.message(c, err)
	} else {
		page.Expenses = list.Expenses
		page.Page = list.CurrentPage
		page.TotalPages = list.TotalPages
		page.Total = list.Total
		if list.CurrentPage > 1 {
			page.PrevURL = "/?" + filterQuery(params, list.CurrentPage-1).Encode()
		}
		if list.CurrentPage < list.TotalPages {
			page.NextURL = "/?" + filterQuery(params, list.CurrentPage+1).Encode()
		}
	}

	stats, err := cl.Stats(ctx)
	if h.unauthorized(c, err) {
		return
	}
	if err == nil {
		page.Shares = service.Breakdown(stats)
		page.TotalAmount = stats.TotalAmount
	} else if page.Error == "" {
		code, page.Error = h.message(c, err)
	}

	h.tmpl.render(c, code, pageList, page)
}

// filterQuery 保留筛选条件，替换页码
func filterQuery(p client.ListParams, pageNumber int) url.Values {
	p.Page = pageNumber
	if pageNumber <= 1 {
		p.Page = 0
	}
	return p.Values()
}

type formValues struct {
	Title    string
	Amount   string
	Category string
	Date     string
}

func (f formValues) payload() validation.ExpensePayload {
	p := validation.ExpensePayload{Title: f.Title, Category: f.Category, Date: f.Date}
	if v, err := strconv.ParseFloat(strings.TrimSpace(f.Amount), 64); err == nil {
		p.Amount = &v
	}
	return p
}

type formPage struct {
	layoutData
	Heading    string
	Action     string
	Submit     string
	Form       formValues
	Categories []models.Category
}

func (h *Handler) formPage(c *gin.Context, heading, action, submit string, values formValues) formPage {
	return formPage{
		layoutData: layoutData{Title: heading, User: sessionUser(c)},
		Heading:    heading,
		Action:     action,
		Submit:     submit,
		Form:       values,
		Categories: models.GetCategories(),
	}
}

func formFromRequest(c *gin.Context) formValues {
	return formValues{
		Title:    c.PostForm("title"),
		Amount:   c.PostForm("amount"),
		Category: c.PostForm("category"),
		Date:     c.PostForm("date"),
	}
}

func (h *Handler) newForm(c *gin.Context) {
	values := formValues{Category: models.CategoryFood.String(), Date: time.Now().Format("2006-01-02")}
	h.tmpl.render(c, http.StatusOK, pageForm, h.formPage(c, "Add Expense", "/expenses/new", "Add Expense", values))
}

func (h *Handler) create(c *gin.Context) {
	values := formFromRequest(c)
	h.submit(c, h.formPage(c, "Add Expense", "/expenses/new", "Add Expense", values), func(ctx context.Context, p validation.ExpensePayload) error {
		_, err := h.client(c).CreateExpense(ctx, p)
		return err
	})
}

func (h *Handler) editForm(c *gin.Context) {
	id := c.Param("id")
	page := h.formPage(c, "Edit Expense", "/expenses/"+url.PathEscape(id)+"/edit", "Update Expense", formValues{})

	expense, err := h.client(c).GetExpense(c.Request.Context(), id)
	if h.unauthorized(c, err) {
		return
	}
	if err != nil {
		code, msg := h.message(c, err)
		page.Error = msg
		h.tmpl.render(c, code, pageForm, page)
		return
	}
	page.Form = formValues{
		Title:    expense.Title,
		Amount:   strconv.FormatFloat(expense.Amount, 'f', -1, 64),
		Category: expense.Category.String(),
		Date:     expense.Date.UTC().Format("2006-01-02"),
	}
	h.tmpl.render(c, http.StatusOK, pageForm, page)
}

func (h *Handler) update(c *gin.Context) {
	id := c.Param("id")
	values := formFromRequest(c)
	page := h.formPage(c, "Edit Expense", "/expenses/"+url.PathEscape(id)+"/edit", "Update Expense", values)
	h.submit(c, page, func(ctx context.Context, p validation.ExpensePayload) error {
		_, err := h.client(c).UpdateExpense(ctx, id, p)
		return err
	})
}

// submit 先在本地按同一规则校验，通过后才调用 API
func (h *Handler) submit(c *gin.Context, page formPage, call func(context.Context, validation.ExpensePayload) error) {
	p := page.Form.payload()
	if _, err := validation.Expense(p); err != nil {
		page.Error = err.Error()
		h.tmpl.render(c, http.StatusBadRequest, pageForm, page)
		return
	}

	err := call(c.Request.Context(), p)
	if h.unauthorized(c, err) {
		return
	}
	if err != nil {
		code, msg := h.message(c, err)
		page.Error = msg
		h.tmpl.render(c, code, pageForm, page)
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// delete 不做二次确认，删除后回到原筛选条件
func (h *Handler) delete(c *gin.Context) {
	err := h.client(c).DeleteExpense(c.Request.Context(), c.Param("id"))
	if h.unauthorized(c, err) {
		return
	}
	if err != nil {
		var apiErr *client.APIError
		if !errors.As(err, &apiErr) || apiErr.Status != http.StatusNotFound {
			h.log.Warn("delete expense failed", logger.FieldError, err.Error())
		}
	}

	target := "/"
	if q, perr := url.ParseQuery(c.PostForm("query")); perr == nil && len(q) > 0 {
		target += "?" + q.Encode()
	}
	c.Redirect(http.StatusSeeOther, target)
}

func atoiDefault(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return def
	}
	return n
}
