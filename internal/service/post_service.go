package service

import (
	"context"
	"log/slog"

	"corkboard/internal/middleware"
	"corkboard/internal/models"
	"corkboard/internal/observability"
	"corkboard/internal/repository"
	"corkboard/internal/validation"

	"go.opentelemetry.io/otel/attribute"
)

type PostService struct {
	store repository.Store
}

type CreatePostInput struct {
	Title   string
	Content string
}

// UpdatePostInput is a partial update; nil fields are left unchanged.
type UpdatePostInput struct {
	Title   *string
	Content *string
}

func NewPostService(store repository.Store) *PostService {
	return &PostService{store: store}
}

// Create adds a post and bumps the board counter in one transaction.
// The author must be able to read the board.
func (s *PostService) Create(ctx context.Context, author *models.User, boardID uint, in CreatePostInput) (post *models.Post, err error) {
	span, ctx := observability.StartSpan(ctx, "PostService.Create",
		attribute.Int64("board.id", int64(boardID)),
		attribute.Int64("user.id", int64(author.ID)))
	defer func() { span.End(err) }()

	title, err := validation.ValidatePostTitle(in.Title)
	if err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePostContent(in.Content); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	board, err := s.store.Boards().GetByID(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if err := CheckReadable(author, board); err != nil {
		return nil, err
	}

	t := now()
	post = &models.Post{
		Title:     title,
		Content:   in.Content,
		CreatedAt: t,
		UpdatedAt: t,
		UserID:    author.ID,
		BoardID:   board.ID,
	}
	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		if err := tx.Posts().Create(ctx, post); err != nil {
			return err
		}
		return tx.Boards().IncrementPostCount(ctx, board.ID, t)
	})
	if err != nil {
		return nil, err
	}

	observability.PostsCreated.Inc()
	middleware.Logger.InfoContext(ctx, "post created",
		slog.Uint64("post_id", uint64(post.ID)),
		slog.Uint64("board_id", uint64(board.ID)),
	)
	return post, nil
}

// Get returns a post addressed through its board, gated by the board's visibility.
func (s *PostService) Get(ctx context.Context, viewer *models.User, boardID, postID uint) (*models.Post, error) {
	board, post, err := s.resolve(ctx, boardID, postID)
	if err != nil {
		return nil, err
	}
	if err := CheckReadable(viewer, board); err != nil {
		return nil, err
	}
	return post, nil
}

// Update applies a partial patch. Owner only.
func (s *PostService) Update(ctx context.Context, user *models.User, boardID, postID uint, in UpdatePostInput) (post *models.Post, err error) {
	span, ctx := observability.StartSpan(ctx, "PostService.Update",
		attribute.Int64("post.id", int64(postID)))
	defer func() { span.End(err) }()

	_, post, err = s.resolve(ctx, boardID, postID)
	if err != nil {
		return nil, err
	}
	if err := CheckOwnership(user.ID, post); err != nil {
		return nil, err
	}
	if in.Title == nil && in.Content == nil {
		return nil, models.NewEmptyUpdateError()
	}

	if in.Title != nil {
		title, err := validation.ValidatePostTitle(*in.Title)
		if err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		post.Title = title
	}
	if in.Content != nil {
		if err := validation.ValidatePostContent(*in.Content); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		post.Content = *in.Content
	}

	if err := s.store.Posts().Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// Delete removes a post and lowers the board counter in one transaction. Owner only.
func (s *PostService) Delete(ctx context.Context, user *models.User, boardID, postID uint) (err error) {
	span, ctx := observability.StartSpan(ctx, "PostService.Delete",
		attribute.Int64("post.id", int64(postID)))
	defer func() { span.End(err) }()

	board, post, err := s.resolve(ctx, boardID, postID)
	if err != nil {
		return err
	}
	if err := CheckOwnership(user.ID, post); err != nil {
		return err
	}

	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		if err := tx.Posts().Delete(ctx, post.ID); err != nil {
			return err
		}
		return tx.Boards().DecrementPostCount(ctx, board.ID, now())
	})
	if err != nil {
		return err
	}

	observability.PostsDeleted.Inc()
	middleware.Logger.InfoContext(ctx, "post deleted",
		slog.Uint64("post_id", uint64(post.ID)),
		slog.Uint64("board_id", uint64(board.ID)),
	)
	return nil
}

// ListInBoard returns a page of posts, newest first, older than cursor.
// A nil cursor requests the first page.
func (s *PostService) ListInBoard(ctx context.Context, viewer *models.User, boardID uint, cursor *repository.PostCursor, limit int) ([]*models.Post, error) {
	board, err := s.store.Boards().GetByID(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if err := CheckReadable(viewer, board); err != nil {
		return nil, err
	}

	posts, err := s.store.Posts().ListByBoard(ctx, board.ID, cursor, limit)
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		if cursor == nil {
			return nil, models.NewNoPostsInBoardError(board.Name)
		}
		return nil, models.NewEndOfPageError()
	}
	return posts, nil
}

func (s *PostService) resolve(ctx context.Context, boardID, postID uint) (*models.Board, *models.Post, error) {
	board, err := s.store.Boards().GetByID(ctx, boardID)
	if err != nil {
		return nil, nil, err
	}
	post, err := s.store.Posts().GetByID(ctx, postID)
	if err != nil {
		return nil, nil, err
	}
	if err := CheckRelation(board, post); err != nil {
		return nil, nil, err
	}
	return board, post, nil
}
