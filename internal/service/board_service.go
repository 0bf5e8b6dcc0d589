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

type BoardService struct {
	store repository.Store
}

type CreateBoardInput struct {
	Name   string
	Public bool
}

// UpdateBoardInput is a partial update; nil fields are left unchanged.
type UpdateBoardInput struct {
	Name   *string
	Public *bool
}

func NewBoardService(store repository.Store) *BoardService {
	return &BoardService{store: store}
}

// Create inserts a board with an empty counter. Names are unique system-wide.
func (s *BoardService) Create(ctx context.Context, owner *models.User, in CreateBoardInput) (board *models.Board, err error) {
	span, ctx := observability.StartSpan(ctx, "BoardService.Create",
		attribute.Int64("user.id", int64(owner.ID)))
	defer func() { span.End(err) }()

	name, err := validation.ValidateBoardName(in.Name)
	if err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := s.ensureNameFree(ctx, name); err != nil {
		return nil, err
	}

	t := now()
	board = &models.Board{
		Name:      name,
		Public:    in.Public,
		PostCount: 0,
		CreatedAt: t,
		UpdatedAt: t,
		UserID:    owner.ID,
	}
	if err := s.store.Boards().Create(ctx, board); err != nil {
		return nil, err
	}

	observability.BoardsCreated.Inc()
	middleware.Logger.InfoContext(ctx, "board created",
		slog.Uint64("board_id", uint64(board.ID)),
		slog.Bool("public", board.Public),
	)
	return board, nil
}

// Get returns the board if viewer may read it. viewer may be nil.
func (s *BoardService) Get(ctx context.Context, viewer *models.User, boardID uint) (*models.Board, error) {
	board, err := s.store.Boards().GetByID(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if err := CheckReadable(viewer, board); err != nil {
		return nil, err
	}
	return board, nil
}

// Update applies a partial patch. Owner only; renaming re-checks uniqueness.
func (s *BoardService) Update(ctx context.Context, user *models.User, boardID uint, in UpdateBoardInput) (board *models.Board, err error) {
	span, ctx := observability.StartSpan(ctx, "BoardService.Update",
		attribute.Int64("board.id", int64(boardID)))
	defer func() { span.End(err) }()

	board, err = s.store.Boards().GetByID(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if err := CheckOwnership(user.ID, board); err != nil {
		return nil, err
	}
	if in.Name == nil && in.Public == nil {
		return nil, models.NewEmptyUpdateError()
	}

	if in.Name != nil {
		name, err := validation.ValidateBoardName(*in.Name)
		if err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		if name != board.Name {
			if err := s.ensureNameFree(ctx, name); err != nil {
				return nil, err
			}
			board.Name = name
		}
	}
	if in.Public != nil {
		board.Public = *in.Public
	}

	if err := s.store.Boards().Update(ctx, board); err != nil {
		return nil, err
	}

	middleware.Logger.InfoContext(ctx, "board updated", slog.Uint64("board_id", uint64(board.ID)))
	return board, nil
}

// Delete removes the board and, through the store, all its posts. Owner only.
func (s *BoardService) Delete(ctx context.Context, user *models.User, boardID uint) (err error) {
	span, ctx := observability.StartSpan(ctx, "BoardService.Delete",
		attribute.Int64("board.id", int64(boardID)))
	defer func() { span.End(err) }()

	board, err := s.store.Boards().GetByID(ctx, boardID)
	if err != nil {
		return err
	}
	if err := CheckOwnership(user.ID, board); err != nil {
		return err
	}
	if err := s.store.Boards().Delete(ctx, board.ID); err != nil {
		return err
	}

	middleware.Logger.InfoContext(ctx, "board deleted",
		slog.Uint64("board_id", uint64(board.ID)),
		slog.Int("post_count", board.PostCount),
	)
	return nil
}

// List pages through the boards viewer can see, busiest first. An empty
// first page and an empty later page fail differently.
func (s *BoardService) List(ctx context.Context, viewer *models.User, offset, limit int) ([]*models.Board, error) {
	boards, err := s.store.Boards().ListVisible(ctx, viewerID(viewer), offset, limit)
	if err != nil {
		return nil, err
	}
	if len(boards) == 0 {
		if offset == 0 {
			return nil, models.NewNoAccessibleBoardsError()
		}
		return nil, models.NewEndOfPageError()
	}
	return boards, nil
}

func (s *BoardService) ensureNameFree(ctx context.Context, name string) error {
	existing, err := s.store.Boards().GetByName(ctx, name)
	if err != nil {
		return err
	}
	if existing != nil {
		return models.NewNameConflictError(name)
	}
	return nil
}
