package service

import (
	"context"
	"fmt"

	"expenses/models"

	"github.com/shopspring/decimal"
)

// Stats 当前用户的类别统计与总额，没有记录时返回空数组与 0
func (s *ExpenseService) Stats(ctx context.Context, ownerID string) (*models.ExpenseStats, error) {
	stats, err := s.repo.CategoryStats(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("category stats: %w", err)
	}
	total, err := s.repo.TotalAmount(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("total amount: %w", err)
	}
	return BuildStats(stats, total), nil
}

// BuildStats 金额统一保留两位小数
func BuildStats(stats []models.CategoryStat, total float64) *models.ExpenseStats {
	out := make([]models.CategoryStat, 0, len(stats))
	for _, st := range stats {
		st.Total = roundCents(st.Total)
		out = append(out, st)
	}
	return &models.ExpenseStats{
		CategoryStats: out,
		TotalAmount:   roundCents(total),
	}
}

func roundCents(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// Share 图表中单个类别的占比
type Share struct {
	Category models.Category `json:"category"`
	Total    float64         `json:"total"`
	Count    int64           `json:"count"`
	Percent  float64         `json:"percent"`
}

// Breakdown 计算各类别占总额的百分比（保留一位小数），顺序与输入一致
func Breakdown(stats *models.ExpenseStats) []Share {
	if stats == nil {
		return []Share{}
	}
	total := decimal.NewFromFloat(stats.TotalAmount)
	shares := make([]Share, 0, len(stats.CategoryStats))
	for _, st := range stats.CategoryStats {
		share := Share{Category: st.Category, Total: st.Total, Count: st.Count}
		if total.IsPositive() {
			share.Percent, _ = decimal.NewFromFloat(st.Total).
				Div(total).
				Mul(decimal.NewFromInt(100)).
				Round(1).
				Float64()
		}
		shares = append(shares, share)
	}
	return shares
}
