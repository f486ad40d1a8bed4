package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Expense 消费记录模型，仅属于创建它的用户
type Expense struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36" bson:"_id"`
	UserID    string    `json:"owner" gorm:"index;size:36;not null" bson:"user"`
	Title     string    `json:"title" gorm:"size:100;not null" bson:"title"`
	Amount    float64   `json:"amount" gorm:"type:decimal(12,2);not null" bson:"amount"`
	Category  Category  `json:"category" gorm:"size:20;index;not null" bson:"category"`
	Date      time.Time `json:"date" gorm:"index;not null" bson:"date"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// TableName 设置表名
func (Expense) TableName() string {
	return "expenses"
}

// BeforeCreate 生成主键
func (e *Expense) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

// CategoryStat 按类别聚合的统计结果（不落库）
type CategoryStat struct {
	Category Category `json:"category" bson:"_id"`
	Total    float64  `json:"total" bson:"total"`
	Count    int64    `json:"count" bson:"count"`
}

// ExpenseStats 统计接口返回
type ExpenseStats struct {
	CategoryStats []CategoryStat `json:"categoryStats"`
	TotalAmount   float64        `json:"totalAmount"`
}
