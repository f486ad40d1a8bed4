package service

import (
	"context"

	"expenses/logger"
	"expenses/models"
	"expenses/repository"
	"expenses/validation"
)

// ExpenseService 消费记录业务，所有操作都以当前用户为所有者
type ExpenseService struct {
	repo repository.ExpenseRepository
	log  *logger.Logger
}

// NewExpenseService 创建消费记录服务
func NewExpenseService(repo repository.ExpenseRepository, log *logger.Logger) *ExpenseService {
	if log == nil {
		log = logger.Nop()
	}
	return &ExpenseService{repo: repo, log: log.WithComponent(logger.ComponentExpense)}
}

// ExpensePage 分页列表结果
type ExpensePage struct {
	Expenses    []models.Expense `json:"expenses"`
	TotalPages  int              `json:"totalPages"`
	CurrentPage int              `json:"currentPage"`
	Total       int64            `json:"total"`
}

// Create 校验后创建消费记录
func (s *ExpenseService) Create(ctx context.Context, ownerID string, p validation.ExpensePayload) (*models.Expense, error) {
	in, err := validation.Expense(p)
	if err != nil {
		return nil, err
	}
	expense := &models.Expense{
		UserID:   ownerID,
		Title:    in.Title,
		Amount:   in.Amount,
		Category: in.Category,
		Date:     in.Date,
	}
	if err := s.repo.Create(ctx, expense); err != nil {
		return nil, err
	}
	s.log.Debug("expense created",
		logger.FieldUserID, ownerID,
		"expense_id", expense.ID,
		"category", expense.Category.String(),
	)
	return expense, nil
}

// Get 获取单条记录
func (s *ExpenseService) Get(ctx context.Context, ownerID, id string) (*models.Expense, error) {
	return s.repo.Get(ctx, ownerID, id)
}

// List 按筛选条件分页查询，日期倒序
func (s *ExpenseService) List(ctx context.Context, ownerID string, p validation.ExpenseQueryPayload) (*ExpensePage, error) {
	q, err := validation.Query(p)
	if err != nil {
		return nil, err
	}
	filter := repository.ExpenseFilter{
		Category:  q.Category,
		StartDate: q.StartDate,
		EndDate:   q.EndDate,
	}
	expenses, total, err := s.repo.Find(ctx, ownerID, filter, repository.Page{Number: q.Page, Limit: q.Limit})
	if err != nil {
		return nil, err
	}
	if expenses == nil {
		expenses = []models.Expense{}
	}
	return &ExpensePage{
		Expenses:    expenses,
		TotalPages:  repository.TotalPages(total, q.Limit),
		CurrentPage: q.Page,
		Total:       total,
	}, nil
}

// Update 整条替换四个业务字段，校验规则与创建相同
func (s *ExpenseService) Update(ctx context.Context, ownerID, id string, p validation.ExpensePayload) (*models.Expense, error) {
	in, err := validation.Expense(p)
	if err != nil {
		return nil, err
	}
	expense, err := s.repo.Update(ctx, ownerID, id, repository.ExpensePatch{
		Title:    in.Title,
		Amount:   in.Amount,
		Category: in.Category,
		Date:     in.Date,
	})
	if err != nil {
		return nil, err
	}
	return expense, nil
}

// Delete 硬删除
func (s *ExpenseService) Delete(ctx context.Context, ownerID, id string) error {
	if err := s.repo.Delete(ctx, ownerID, id); err != nil {
		return err
	}
	s.log.Debug("expense deleted", logger.FieldUserID, ownerID, "expense_id", id)
	return nil
}
