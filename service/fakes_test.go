package service

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"expenses/models"
	"expenses/repository"
)

// memExpenses 内存版消费记录存储
type memExpenses struct {
	mu   sync.Mutex
	seq  int
	rows map[string]models.Expense
	err  error
}

func newMemExpenses() *memExpenses {
	return &memExpenses{rows: map[string]models.Expense{}}
}

func (m *memExpenses) Create(_ context.Context, e *models.Expense) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.seq++
	e.ID = "exp-" + strconv.Itoa(m.seq)
	m.rows[e.ID] = *e
	return nil
}

func (m *memExpenses) Get(_ context.Context, ownerID, id string) (*models.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.rows[id]
	if !ok || e.UserID != ownerID {
		return nil, repository.ErrNotFound
	}
	return &e, nil
}

func (m *memExpenses) Find(_ context.Context, ownerID string, f repository.ExpenseFilter, p repository.Page) ([]models.Expense, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, 0, m.err
	}
	var matched []models.Expense
	for _, e := range m.rows {
		if e.UserID != ownerID {
			continue
		}
		if f.Category != nil && e.Category != *f.Category {
			continue
		}
		if f.StartDate != nil && e.Date.Before(*f.StartDate) {
			continue
		}
		if f.EndDate != nil && e.Date.After(f.DateUpperBound()) {
			continue
		}
		matched = append(matched, e)
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].Date.Equal(matched[j].Date) {
			return matched[i].Date.After(matched[j].Date)
		}
		return matched[i].ID > matched[j].ID
	})
	total := int64(len(matched))
	start := p.Offset()
	if start >= len(matched) {
		return []models.Expense{}, total, nil
	}
	end := start + p.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (m *memExpenses) Update(_ context.Context, ownerID, id string, patch repository.ExpensePatch) (*models.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.rows[id]
	if !ok || e.UserID != ownerID {
		return nil, repository.ErrNotFound
	}
	e.Title, e.Amount, e.Category, e.Date = patch.Title, patch.Amount, patch.Category, patch.Date
	m.rows[id] = e
	return &e, nil
}

func (m *memExpenses) Delete(_ context.Context, ownerID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.rows[id]
	if !ok || e.UserID != ownerID {
		return repository.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

func (m *memExpenses) CategoryStats(_ context.Context, ownerID string) ([]models.CategoryStat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	byCategory := map[models.Category]*models.CategoryStat{}
	for _, e := range m.rows {
		if e.UserID != ownerID {
			continue
		}
		st, ok := byCategory[e.Category]
		if !ok {
			st = &models.CategoryStat{Category: e.Category}
			byCategory[e.Category] = st
		}
		st.Total += e.Amount
		st.Count++
	}
	stats := make([]models.CategoryStat, 0, len(byCategory))
	for _, st := range byCategory {
		stats = append(stats, *st)
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Total > stats[j].Total })
	return stats, nil
}

func (m *memExpenses) TotalAmount(_ context.Context, ownerID string) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var total float64
	for _, e := range m.rows {
		if e.UserID == ownerID {
			total += e.Amount
		}
	}
	return total, nil
}

// memUsers 内存版用户存储
type memUsers struct {
	mu    sync.Mutex
	seq   int
	users map[string]models.User
}

func newMemUsers() *memUsers {
	return &memUsers{users: map[string]models.User{}}
}

func (m *memUsers) Create(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return repository.ErrEmailTaken
		}
	}
	m.seq++
	u.ID = "user-" + strconv.Itoa(m.seq)
	m.users[u.ID] = *u
	return nil
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memUsers) FindByID(_ context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}
