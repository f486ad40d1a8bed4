// Package repository 提供消费记录与用户的持久化访问。
//
// 所有消费记录查询都按所有者限定（owner-scoped）：查询条件始终带上请求用户的 ID，
// 因此别人的记录与不存在的记录无法区分，统一返回 ErrNotFound。这是唯一的授权手段，
// 不要在上层额外做"存在但无权限"的判断。
package repository

import (
	"context"
	"errors"
	"math"
	"time"

	"expenses/models"
)

var (
	// ErrNotFound 记录不存在（或不属于当前用户）
	ErrNotFound = errors.New("record not found")
	// ErrEmailTaken 邮箱已注册
	ErrEmailTaken = errors.New("email already registered")
)

// ExpenseFilter 列表筛选条件，字段为 nil 表示不筛选
type ExpenseFilter struct {
	Category  *models.Category
	StartDate *time.Time
	EndDate   *time.Time
}

// DateUpperBound 结束日期当天的最后一刻，用于闭区间比较
func (f ExpenseFilter) DateUpperBound() time.Time {
	return f.EndDate.Add(24*time.Hour - time.Nanosecond)
}

// Page 分页参数，Number 从 1 开始
type Page struct {
	Number int
	Limit  int
}

// Offset 跳过的记录数
func (p Page) Offset() int {
	if p.Number < 1 || p.Limit < 1 {
		return 0
	}
	// 超大页码按最大偏移处理，结果为空页
	if p.Number-1 > math.MaxInt32/p.Limit {
		return math.MaxInt32
	}
	return (p.Number - 1) * p.Limit
}

// TotalPages 总页数 = ceil(total / limit)
func TotalPages(total int64, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

// ExpensePatch 更新字段，整条替换四个业务字段
type ExpensePatch struct {
	Title    string
	Amount   float64
	Category models.Category
	Date     time.Time
}

// ExpenseRepository 消费记录存储，所有方法均按 ownerID 限定
type ExpenseRepository interface {
	Create(ctx context.Context, expense *models.Expense) error
	Get(ctx context.Context, ownerID, id string) (*models.Expense, error)
	Find(ctx context.Context, ownerID string, filter ExpenseFilter, page Page) ([]models.Expense, int64, error)
	Update(ctx context.Context, ownerID, id string, patch ExpensePatch) (*models.Expense, error)
	Delete(ctx context.Context, ownerID, id string) error
	CategoryStats(ctx context.Context, ownerID string) ([]models.CategoryStat, error)
	TotalAmount(ctx context.Context, ownerID string) (float64, error)
}

// UserRepository 用户存储
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// Store 聚合存储，Close 释放底层连接
type Store struct {
	Expenses ExpenseRepository
	Users    UserRepository
	Ping     func(ctx context.Context) error
	Close    func(ctx context.Context) error
}
