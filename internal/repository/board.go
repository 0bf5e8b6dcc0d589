package repository

import (
	"context"
	"errors"
	"time"

	"corkboard/internal/models"
	"corkboard/internal/observability"

	"gorm.io/gorm"
)

// BoardRepository defines persistence operations for boards.
type BoardRepository interface {
	Create(ctx context.Context, board *models.Board) error
	GetByID(ctx context.Context, id uint) (*models.Board, error)
	GetByName(ctx context.Context, name string) (*models.Board, error)
	Update(ctx context.Context, board *models.Board) error
	Delete(ctx context.Context, id uint) error
	ListVisible(ctx context.Context, viewerID uint, offset, limit int) ([]*models.Board, error)
	IncrementPostCount(ctx context.Context, id uint, at time.Time) error
	DecrementPostCount(ctx context.Context, id uint, at time.Time) error
	DetachAuthorPosts(ctx context.Context, authorID uint, at time.Time) (int64, error)
}

type boardRepository struct {
	db   *gorm.DB
	read *gorm.DB
}

// NewBoardRepository returns a BoardRepository. List queries go to the
// read replica when one is configured.
func NewBoardRepository(db *gorm.DB) BoardRepository {
	return &boardRepository{db: db, read: readDB(db)}
}

func (r *boardRepository) Create(ctx context.Context, board *models.Board) error {
	defer observability.TrackQuery("insert", "boards")()
	if err := r.db.WithContext(ctx).Create(board).Error; err != nil {
		if isUniqueViolation(err) {
			return models.NewNameConflictError(board.Name)
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *boardRepository) GetByID(ctx context.Context, id uint) (*models.Board, error) {
	defer observability.TrackQuery("select", "boards")()
	var board models.Board
	if err := r.db.WithContext(ctx).First(&board, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Board", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &board, nil
}

// GetByName is an exact, case-sensitive lookup. Returns nil, nil when absent.
func (r *boardRepository) GetByName(ctx context.Context, name string) (*models.Board, error) {
	defer observability.TrackQuery("select", "boards")()
	var board models.Board
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&board).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &board, nil
}

// Update writes name and visibility only. updated_at tracks post activity,
// so metadata edits leave it alone.
func (r *boardRepository) Update(ctx context.Context, board *models.Board) error {
	defer observability.TrackQuery("update", "boards")()
	err := r.db.WithContext(ctx).
		Model(&models.Board{ID: board.ID}).
		Select("name", "public").
		Updates(map[string]interface{}{"name": board.Name, "public": board.Public}).Error
	if err != nil {
		if isUniqueViolation(err) {
			return models.NewNameConflictError(board.Name)
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *boardRepository) Delete(ctx context.Context, id uint) error {
	defer observability.TrackQuery("delete", "boards")()
	result := r.db.WithContext(ctx).Delete(&models.Board{}, id)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Board", id)
	}
	return nil
}

// ListVisible returns public boards plus the viewer's own private boards.
// viewerID 0 means anonymous. Ordering is total so offset pages never overlap.
func (r *boardRepository) ListVisible(ctx context.Context, viewerID uint, offset, limit int) ([]*models.Board, error) {
	defer observability.TrackQuery("select", "boards")()
	q := r.read.WithContext(ctx).Model(&models.Board{})
	if viewerID == 0 {
		q = q.Where("public = ?", true)
	} else {
		q = q.Where("public = ? OR user_id = ?", true, viewerID)
	}

	var boards []*models.Board
	err := q.Order("post_count DESC").
		Order("updated_at DESC").
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&boards).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return boards, nil
}

// IncrementPostCount bumps the counter in a single statement and stamps activity.
func (r *boardRepository) IncrementPostCount(ctx context.Context, id uint, at time.Time) error {
	return r.adjustPostCount(ctx, id, gorm.Expr("post_count + 1"), at)
}

// DecrementPostCount lowers the counter without going below zero and stamps activity.
func (r *boardRepository) DecrementPostCount(ctx context.Context, id uint, at time.Time) error {
	return r.adjustPostCount(ctx, id, gorm.Expr("CASE WHEN post_count > 0 THEN post_count - 1 ELSE 0 END"), at)
}

func (r *boardRepository) adjustPostCount(ctx context.Context, id uint, expr interface{}, at time.Time) error {
	defer observability.TrackQuery("update", "boards")()
	result := r.db.WithContext(ctx).
		Model(&models.Board{}).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"post_count": expr,
			"updated_at": at,
		})
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Board", id)
	}
	return nil
}

// DetachAuthorPosts lowers the counters of boards owned by others by the
// number of posts authorID wrote there. It must run in the same transaction
// as the author's deletion, before the store cascades the posts away.
func (r *boardRepository) DetachAuthorPosts(ctx context.Context, authorID uint, at time.Time) (int64, error) {
	defer observability.TrackQuery("update", "boards")()
	authored := r.db.Model(&models.Post{}).Select("board_id").Where("user_id = ?", authorID)
	result := r.db.WithContext(ctx).
		Model(&models.Board{}).
		Where("user_id <> ? AND id IN (?)", authorID, authored).
		UpdateColumns(map[string]interface{}{
			"post_count": gorm.Expr("post_count - (SELECT COUNT(*) FROM posts WHERE posts.board_id = boards.id AND posts.user_id = ?)", authorID),
			"updated_at": at,
		})
	if result.Error != nil {
		return 0, models.NewInternalError(result.Error)
	}
	return result.RowsAffected, nil
}
