package data

import (
	"context"
	"fmt"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/mohammedsinanpt/Movie-website-and-recommendation-system/internal/biz"
)

type categoryRepo struct {
	data *Data
	log  *log.Helper
}

// NewCategoryRepo creates a new category repository
func NewCategoryRepo(data *Data, logger log.Logger) biz.CategoryRepo {
	return &categoryRepo{
		data: data,
		log:  log.NewHelper(logger),
	}
}

func (r *categoryRepo) CreateCategory(ctx context.Context, category *biz.Category) error {
	dbCategory := &Category{
		ID:          category.ID,
		Name:        category.Name,
		Description: category.Description,
	}
	if err := r.data.DB(ctx).Create(dbCategory).Error; err != nil {
		if _, ok := uniqueViolation(err); ok {
			return biz.ErrDuplicateCategory
		}
		return fmt.Errorf("failed to create category: %w", err)
	}

	category.CreatedAt = dbCategory.CreatedAt
	return nil
}

func (r *categoryRepo) GetCategory(ctx context.Context, id string) (*biz.Category, error) {
	var dbCategory Category
	if err := r.data.DB(ctx).Where("id = ?", id).First(&dbCategory).Error; err != nil {
		if isNotFound(err) {
			return nil, biz.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return categoryToBiz(&dbCategory), nil
}

func (r *categoryRepo) ListCategories(ctx context.Context) ([]*biz.Category, error) {
	var rows []Category
	if err := r.data.DB(ctx).Order("name").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	categories := make([]*biz.Category, 0, len(rows))
	for i := range rows {
		categories = append(categories, categoryToBiz(&rows[i]))
	}
	return categories, nil
}

// DeleteCategory removes the category; the schema cascades to its movies, so
// their cache entries are evicted once the delete commits.
func (r *categoryRepo) DeleteCategory(ctx context.Context, id string) error {
	var movieIDs []string
	if r.data.rdb != nil {
		err := r.data.DB(ctx).Model(&Movie{}).Where("category_id = ?", id).Pluck("id", &movieIDs).Error
		if err != nil {
			return fmt.Errorf("failed to list category movies: %w", err)
		}
	}

	res := r.data.DB(ctx).Where("id = ?", id).Delete(&Category{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete category: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return biz.ErrCategoryNotFound
	}

	r.data.afterCommit(ctx, func(ctx context.Context) {
		r.data.evictMovies(ctx, movieIDs)
	})
	return nil
}

func (r *categoryRepo) CountCategories(ctx context.Context) (int64, error) {
	var n int64
	if err := r.data.DB(ctx).Model(&Category{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count categories: %w", err)
	}
	return n, nil
}

func categoryToBiz(m *Category) *biz.Category {
	return &biz.Category{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
	}
}
