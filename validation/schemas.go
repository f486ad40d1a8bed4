package validation

import (
	"math"
	"strconv"
	"strings"
	"time"

	"expenses/models"
)

// 分页默认值
const (
	DefaultPage  = 1
	DefaultLimit = 50
	MaxLimit     = 100
	// MaxPage 保证 (page-1)*limit 不溢出
	MaxPage = math.MaxInt32 / MaxLimit
)

// AllCategories 列表筛选中表示"全部类别"的取值，大小写不敏感
const AllCategories = "All"

// ExpensePayload 创建/更新消费记录的原始载荷
type ExpensePayload struct {
	Title    string   `json:"title" form:"title" validate:"required,min=3,max=100" example:"Coffee"`
	Amount   *float64 `json:"amount" form:"amount" validate:"required,gt=0" example:"4.5"`
	Category string   `json:"category" form:"category" validate:"required,category" example:"Food"`
	Date     string   `json:"date" form:"date" validate:"required" example:"2024-01-15"`
}

// ExpenseInput 校验通过后的消费记录
type ExpenseInput struct {
	Title    string
	Amount   float64
	Category models.Category
	Date     time.Time
}

// Expense 校验消费记录载荷
func Expense(p ExpensePayload) (ExpenseInput, error) {
	p.Title = strings.TrimSpace(p.Title)
	p.Category = strings.TrimSpace(p.Category)
	if err := check(p); err != nil {
		return ExpenseInput{}, err
	}
	date, err := ParseDate(p.Date)
	if err != nil {
		return ExpenseInput{}, &Error{Field: "date", Message: "Date must be a valid date"}
	}
	return ExpenseInput{
		Title:    p.Title,
		Amount:   *p.Amount,
		Category: models.Category(p.Category),
		Date:     date,
	}, nil
}

// RegistrationPayload 注册载荷
type RegistrationPayload struct {
	Name     string `json:"name" form:"name" validate:"required,min=2,max=50" example:"Jane Doe"`
	Email    string `json:"email" form:"email" validate:"required,email" example:"jane@example.com"`
	Password string `json:"password" form:"password" validate:"required,min=6" example:"secret123"`
}

// RegistrationInput 校验通过后的注册信息
type RegistrationInput struct {
	Name     string
	Email    string
	Password string
}

// Registration 校验注册载荷
func Registration(p RegistrationPayload) (RegistrationInput, error) {
	p.Name = strings.TrimSpace(p.Name)
	p.Email = normalizeEmail(p.Email)
	if err := check(p); err != nil {
		return RegistrationInput{}, err
	}
	return RegistrationInput{Name: p.Name, Email: p.Email, Password: p.Password}, nil
}

// LoginPayload 登录载荷
type LoginPayload struct {
	Email    string `json:"email" form:"email" validate:"required,email" example:"jane@example.com"`
	Password string `json:"password" form:"password" validate:"required" example:"secret123"`
}

// LoginInput 校验通过后的登录信息
type LoginInput struct {
	Email    string
	Password string
}

// Login 校验登录载荷
func Login(p LoginPayload) (LoginInput, error) {
	p.Email = normalizeEmail(p.Email)
	if err := check(p); err != nil {
		return LoginInput{}, err
	}
	return LoginInput{Email: p.Email, Password: p.Password}, nil
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ExpenseQueryPayload 列表查询参数（原始字符串）
type ExpenseQueryPayload struct {
	Category  string `form:"category"`
	StartDate string `form:"startDate"`
	EndDate   string `form:"endDate"`
	Page      string `form:"page"`
	Limit     string `form:"limit"`
}

// ExpenseQuery 校验后的列表查询
// Category 为 nil 表示不按类别筛选
type ExpenseQuery struct {
	Category  *models.Category
	StartDate *time.Time
	EndDate   *time.Time
	Page      int
	Limit     int
}

// Query 校验列表查询参数；页码、条数非法时回落到默认值
func Query(p ExpenseQueryPayload) (ExpenseQuery, error) {
	q := ExpenseQuery{
		Page:  parsePositive(p.Page, DefaultPage),
		Limit: parsePositive(p.Limit, DefaultLimit),
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	if q.Page > MaxPage {
		q.Page = MaxPage
	}

	if c := strings.TrimSpace(p.Category); c != "" && !strings.EqualFold(c, AllCategories) {
		category := models.Category(c)
		if !category.Valid() {
			return ExpenseQuery{}, &Error{Field: "category", Message: messages["category.category"]}
		}
		q.Category = &category
	}
	if s := strings.TrimSpace(p.StartDate); s != "" {
		t, err := ParseDate(s)
		if err != nil {
			return ExpenseQuery{}, &Error{Field: "startDate", Message: "Start date must be a valid date"}
		}
		q.StartDate = &t
	}
	if s := strings.TrimSpace(p.EndDate); s != "" {
		t, err := ParseDate(s)
		if err != nil {
			return ExpenseQuery{}, &Error{Field: "endDate", Message: "End date must be a valid date"}
		}
		q.EndDate = &t
	}
	if q.StartDate != nil && q.EndDate != nil && q.StartDate.After(*q.EndDate) {
		return ExpenseQuery{}, &Error{Field: "endDate", Message: "End date must not be before start date"}
	}
	return q, nil
}

func parsePositive(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return def
	}
	return n
}
