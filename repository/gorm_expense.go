package repository

import (
	"context"
	"errors"
	"fmt"

	"expenses/models"

	"gorm.io/gorm"
)

// GormExpenseRepository 基于 GORM 的消费记录存储（MySQL / PostgreSQL）
type GormExpenseRepository struct {
	db *gorm.DB
}

// NewGormExpenseRepository 创建 GORM 消费记录存储
func NewGormExpenseRepository(db *gorm.DB) *GormExpenseRepository {
	return &GormExpenseRepository{db: db}
}

// owned 所有者限定的查询起点，所有消费记录查询都必须从这里开始
func (r *GormExpenseRepository) owned(ctx context.Context, ownerID string) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Expense{}).Where("user_id = ?", ownerID)
}

// withFilter 组合类别与日期区间筛选
func withFilter(f ExpenseFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.Category != nil {
			db = db.Where("category = ?", *f.Category)
		}
		if f.StartDate != nil {
			db = db.Where("date >= ?", *f.StartDate)
		}
		if f.EndDate != nil {
			db = db.Where("date <= ?", f.DateUpperBound())
		}
		return db
	}
}

func (r *GormExpenseRepository) Create(ctx context.Context, expense *models.Expense) error {
	if err := r.db.WithContext(ctx).Create(expense).Error; err != nil {
		return fmt.Errorf("create expense: %w", err)
	}
	return nil
}

func (r *GormExpenseRepository) Get(ctx context.Context, ownerID, id string) (*models.Expense, error) {
	var expense models.Expense
	err := r.owned(ctx, ownerID).Where("id = ?", id).First(&expense).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get expense: %w", err)
	}
	return &expense, nil
}

func (r *GormExpenseRepository) Find(ctx context.Context, ownerID string, filter ExpenseFilter, page Page) ([]models.Expense, int64, error) {
	// 计数与取数各用一条新语句，避免复用同一 Statement
	query := func() *gorm.DB {
		return r.owned(ctx, ownerID).Scopes(withFilter(filter))
	}

	var total int64
	if err := query().Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count expenses: %w", err)
	}

	expenses := make([]models.Expense, 0)
	if total == 0 {
		return expenses, 0, nil
	}
	err := query().Order("date DESC").Order("created_at DESC").Order("id DESC").
		Offset(page.Offset()).Limit(page.Limit).
		Find(&expenses).Error
	if err != nil {
		return nil, 0, fmt.Errorf("find expenses: %w", err)
	}
	return expenses, total, nil
}

// Update 单条 UPDATE ... WHERE id AND user_id，不存在或不属于该用户时返回 ErrNotFound
func (r *GormExpenseRepository) Update(ctx context.Context, ownerID, id string, patch ExpensePatch) (*models.Expense, error) {
	result := r.owned(ctx, ownerID).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"title":    patch.Title,
			"amount":   patch.Amount,
			"category": patch.Category,
			"date":     patch.Date,
		})
	if result.Error != nil {
		return nil, fmt.Errorf("update expense: %w", result.Error)
	}
	// MySQL 对值未变化的行 RowsAffected 为 0，是否存在以回查为准
	return r.Get(ctx, ownerID, id)
}

func (r *GormExpenseRepository) Delete(ctx context.Context, ownerID, id string) error {
	result := r.owned(ctx, ownerID).Where("id = ?", id).Delete(&models.Expense{})
	if result.Error != nil {
		return fmt.Errorf("delete expense: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormExpenseRepository) CategoryStats(ctx context.Context, ownerID string) ([]models.CategoryStat, error) {
	stats := make([]models.CategoryStat, 0)
	err := r.owned(ctx, ownerID).
		Select("category, SUM(amount) as total, COUNT(*) as count").
		Group("category").
		Order("total DESC").
		Scan(&stats).Error
	if err != nil {
		return nil, fmt.Errorf("aggregate expenses: %w", err)
	}
	return stats, nil
}

func (r *GormExpenseRepository) TotalAmount(ctx context.Context, ownerID string) (float64, error) {
	var total float64
	err := r.owned(ctx, ownerID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("sum expenses: %w", err)
	}
	return total, nil
}
