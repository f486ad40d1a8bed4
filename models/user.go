package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User 用户模型
type User struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36" bson:"_id"`
	Name      string    `json:"name" gorm:"size:50;not null" bson:"name"`
	Email     string    `json:"email" gorm:"uniqueIndex;size:255;not null" bson:"email"`
	Password  string    `json:"-" gorm:"size:255;not null" bson:"password"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// TableName 设置表名
func (User) TableName() string {
	return "users"
}

// BeforeCreate 生成主键
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
