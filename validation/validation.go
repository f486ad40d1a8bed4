// Package validation 校验请求载荷，只返回第一个不合法字段的错误信息
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"expenses/models"

	"github.com/go-playground/validator/v10"
)

// Error 单个字段的校验错误
type Error struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return e.Message
}

// IsValidationError 判断是否为校验错误
func IsValidationError(err error) bool {
	var vErr *Error
	return errors.As(err, &vErr)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// 错误字段使用 json 名称
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return models.Category(fl.Field().String()).Valid()
	})
	return v
}

// messages 字段 + 规则 对应的提示
var messages = map[string]string{
	"title.required":    "Title is required",
	"title.min":         "Title must be at least 3 characters",
	"title.max":         "Title must be less than 100 characters",
	"amount.required":   "Amount is required",
	"amount.gt":         "Amount must be greater than 0",
	"category.required": "Category is required",
	"category.category": "Category must be one of " + categoryList(),
	"date.required":     "Date is required",
	"name.required":     "Name is required",
	"name.min":          "Name must be at least 2 characters",
	"name.max":          "Name must be less than 50 characters",
	"email.required":    "Email is required",
	"email.email":       "Invalid email address",
	"password.required": "Password is required",
	"password.min":      "Password must be at least 6 characters",
}

func categoryList() string {
	names := make([]string, 0, len(models.GetCategories()))
	for _, c := range models.GetCategories() {
		names = append(names, c.String())
	}
	return strings.Join(names, ", ")
}

// check 执行结构体校验，把第一个 FieldError 转成 *Error
func check(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}
	fe := fieldErrs[0]
	msg, ok := messages[fe.Field()+"."+fe.Tag()]
	if !ok {
		msg = fmt.Sprintf("%s is invalid", fe.Field())
	}
	return &Error{Field: fe.Field(), Message: msg}
}

// dateLayouts 支持的日期格式
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
}

// ParseDate 解析日历日期，结果为该日期的 UTC 零点
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}
