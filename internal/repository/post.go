// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"
	"strings"

	"inkwell/internal/cache"
	"inkwell/internal/models"

	"gorm.io/gorm"
)

// PostPage is one page of posts plus pagination metadata.
type PostPage struct {
	Posts       []*models.Post `json:"posts"`
	TotalPages  int            `json:"totalPages"`
	CurrentPage int            `json:"currentPage"`
	TotalPosts  int64          `json:"totalPosts"`
}

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) (*models.Post, error)
	ListSponsored(ctx context.Context, limit int) ([]*models.Post, error)
	ListFeatured(ctx context.Context, limit int) ([]*models.Post, error)
	Random(ctx context.Context, n int) ([]*models.Post, error)
	Search(ctx context.Context, query string) ([]*models.Post, error)
	Paginate(ctx context.Context, page, pageSize int) (*PostPage, error)
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePostLists(ctx)
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	key := cache.PostKey(id)

	err := cache.Aside(ctx, key, &post, cache.PostTTL, func() error {
		if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Post", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Save(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, post.ID)
	return nil
}

// Delete removes the post and returns the removed document, so the API can
// echo it back the way the delete endpoint always has.
func (r *postRepository) Delete(ctx context.Context, id uint) (*models.Post, error) {
	post, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Delete(&models.Post{}, id).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, id)
	return post, nil
}

func (r *postRepository) ListSponsored(ctx context.Context, limit int) ([]*models.Post, error) {
	var posts []*models.Post
	err := cache.Aside(ctx, cache.SponsoredListKey, &posts, cache.ListTTL, func() error {
		if err := r.db.WithContext(ctx).
			Where("is_special = ?", true).
			Order("date_posted DESC").
			Limit(limit).
			Find(&posts).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) ListFeatured(ctx context.Context, limit int) ([]*models.Post, error) {
	var posts []*models.Post
	err := cache.Aside(ctx, cache.FeaturedListKey, &posts, cache.ListTTL, func() error {
		if err := r.db.WithContext(ctx).
			Where("featured = ?", true).
			Limit(limit).
			Find(&posts).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// Random returns n posts sampled uniformly at random. Sampling is stateless
// per call; repeats across calls are expected.
func (r *postRepository) Random(ctx context.Context, n int) ([]*models.Post, error) {
	var posts []*models.Post
	if err := r.db.WithContext(ctx).
		Order("RANDOM()").
		Limit(n).
		Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// Search matches query as a case-insensitive substring of title or content.
// LOWER(...) LIKE keeps the query portable between PostgreSQL and SQLite.
func (r *postRepository) Search(ctx context.Context, query string) ([]*models.Post, error) {
	var posts []*models.Post
	like := "%" + strings.ToLower(query) + "%"
	if err := r.db.WithContext(ctx).
		Where("LOWER(title) LIKE ? OR LOWER(content) LIKE ?", like, like).
		Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) Paginate(ctx context.Context, page, pageSize int) (*PostPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > 100 {
		pageSize = 100
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Post{}).Count(&total).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	var posts []*models.Post
	if err := r.db.WithContext(ctx).
		Order("date_posted DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))

	return &PostPage{
		Posts:       posts,
		TotalPages:  totalPages,
		CurrentPage: page,
		TotalPosts:  total,
	}, nil
}
