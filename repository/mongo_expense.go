package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"expenses/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoExpenseRepository 基于 MongoDB 的消费记录存储
type MongoExpenseRepository struct {
	coll *mongo.Collection
}

// NewMongoExpenseRepository 创建 MongoDB 消费记录存储
func NewMongoExpenseRepository(db *mongo.Database) *MongoExpenseRepository {
	return &MongoExpenseRepository{coll: db.Collection("expenses")}
}

// ownerFilter 所有者限定，所有消费记录查询都必须经过它
func ownerFilter(ownerID string, extra ...bson.E) bson.D {
	filter := bson.D{{Key: "user", Value: ownerID}}
	return append(filter, extra...)
}

// expenseFilter 组合类别与日期区间筛选
func expenseFilter(ownerID string, f ExpenseFilter) bson.D {
	filter := ownerFilter(ownerID)
	if f.Category != nil {
		filter = append(filter, bson.E{Key: "category", Value: string(*f.Category)})
	}
	if f.StartDate != nil || f.EndDate != nil {
		dateRange := bson.D{}
		if f.StartDate != nil {
			dateRange = append(dateRange, bson.E{Key: "$gte", Value: *f.StartDate})
		}
		if f.EndDate != nil {
			dateRange = append(dateRange, bson.E{Key: "$lte", Value: f.DateUpperBound()})
		}
		filter = append(filter, bson.E{Key: "date", Value: dateRange})
	}
	return filter
}

// categoryStatsPipeline 按类别分组求和计数，按总额倒序
func categoryStatsPipeline(ownerID string) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: ownerFilter(ownerID)}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$category"},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: "$amount"}}},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "total", Value: -1}}}},
	}
}

func totalAmountPipeline(ownerID string) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: ownerFilter(ownerID)}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: "$amount"}}},
		}}},
	}
}

var expenseSort = bson.D{
	{Key: "date", Value: -1},
	{Key: "createdAt", Value: -1},
	{Key: "_id", Value: -1},
}

func (r *MongoExpenseRepository) Create(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	expense.CreatedAt = now
	expense.UpdatedAt = now
	if _, err := r.coll.InsertOne(ctx, expense); err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}
	return nil
}

func (r *MongoExpenseRepository) Get(ctx context.Context, ownerID, id string) (*models.Expense, error) {
	var expense models.Expense
	err := r.coll.FindOne(ctx, ownerFilter(ownerID, bson.E{Key: "_id", Value: id})).Decode(&expense)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get expense: %w", err)
	}
	return &expense, nil
}

func (r *MongoExpenseRepository) Find(ctx context.Context, ownerID string, filter ExpenseFilter, page Page) ([]models.Expense, int64, error) {
	query := expenseFilter(ownerID, filter)

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count expenses: %w", err)
	}

	expenses := make([]models.Expense, 0)
	if total == 0 {
		return expenses, 0, nil
	}

	opts := options.Find().
		SetSort(expenseSort).
		SetSkip(int64(page.Offset())).
		SetLimit(int64(page.Limit))
	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find expenses: %w", err)
	}
	if err := cursor.All(ctx, &expenses); err != nil {
		return nil, 0, fmt.Errorf("decode expenses: %w", err)
	}
	return expenses, total, nil
}

// Update 原子 findOneAndUpdate，过滤条件同时包含 _id 与 user
func (r *MongoExpenseRepository) Update(ctx context.Context, ownerID, id string, patch ExpensePatch) (*models.Expense, error) {
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "title", Value: patch.Title},
		{Key: "amount", Value: patch.Amount},
		{Key: "category", Value: string(patch.Category)},
		{Key: "date", Value: patch.Date},
		{Key: "updatedAt", Value: time.Now().UTC()},
	}}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var expense models.Expense
	err := r.coll.FindOneAndUpdate(ctx, ownerFilter(ownerID, bson.E{Key: "_id", Value: id}), update, opts).Decode(&expense)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update expense: %w", err)
	}
	return &expense, nil
}

func (r *MongoExpenseRepository) Delete(ctx context.Context, ownerID, id string) error {
	res, err := r.coll.DeleteOne(ctx, ownerFilter(ownerID, bson.E{Key: "_id", Value: id}))
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoExpenseRepository) CategoryStats(ctx context.Context, ownerID string) ([]models.CategoryStat, error) {
	cursor, err := r.coll.Aggregate(ctx, categoryStatsPipeline(ownerID))
	if err != nil {
		return nil, fmt.Errorf("aggregate expenses: %w", err)
	}
	stats := make([]models.CategoryStat, 0)
	if err := cursor.All(ctx, &stats); err != nil {
		return nil, fmt.Errorf("decode stats: %w", err)
	}
	return stats, nil
}

func (r *MongoExpenseRepository) TotalAmount(ctx context.Context, ownerID string) (float64, error) {
	cursor, err := r.coll.Aggregate(ctx, totalAmountPipeline(ownerID))
	if err != nil {
		return 0, fmt.Errorf("sum expenses: %w", err)
	}
	var rows []struct {
		Total float64 `bson:"total"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, fmt.Errorf("decode total: %w", err)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Total, nil
}

// EnsureIndexes 创建查询所需索引
func (r *MongoExpenseRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user", Value: 1}, {Key: "date", Value: -1}}},
		{Keys: bson.D{{Key: "user", Value: 1}, {Key: "category", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("create expense indexes: %w", err)
	}
	return nil
}
