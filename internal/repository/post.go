package repository

import (
	"context"
	"errors"
	"time"

	"corkboard/internal/models"
	"corkboard/internal/observability"

	"gorm.io/gorm"
)

// PostCursor marks the last post of a previous page. A zero ID means the
// cursor only carries a timestamp and ties at that instant are not resumed.
type PostCursor struct {
	CreatedAt time.Time
	ID        uint
}

// PostRepository defines persistence operations for posts.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
	ListByBoard(ctx context.Context, boardID uint, cursor *PostCursor, limit int) ([]*models.Post, error)
}

type postRepository struct {
	db   *gorm.DB
	read *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db, read: readDB(db)}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	defer observability.TrackQuery("insert", "posts")()
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	defer observability.TrackQuery("select", "posts")()
	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

// Update writes title and content; updated_at is refreshed by GORM.
func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	defer observability.TrackQuery("update", "posts")()
	err := r.db.WithContext(ctx).
		Model(post).
		Select("title", "content", "updated_at").
		Updates(post).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	defer observability.TrackQuery("delete", "posts")()
	result := r.db.WithContext(ctx).Delete(&models.Post{}, id)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Post", id)
	}
	return nil
}

// ListByBoard returns up to limit posts, newest first, strictly older than cursor.
func (r *postRepository) ListByBoard(ctx context.Context, boardID uint, cursor *PostCursor, limit int) ([]*models.Post, error) {
	defer observability.TrackQuery("select", "posts")()
	q := r.read.WithContext(ctx).Where("board_id = ?", boardID)
	if cursor != nil {
		if cursor.ID == 0 {
			q = q.Where("created_at < ?", cursor.CreatedAt)
		} else {
			q = q.Where("created_at < ? OR (created_at = ? AND id < ?)",
				cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
		}
	}

	var posts []*models.Post
	err := q.Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}
