package server

import (
	"corkboard/internal/models"
	"corkboard/internal/service"

	"github.com/gofiber/fiber/v2"
)

type createBoardRequest struct {
	Name   string `json:"name"`
	Public bool   `json:"public"`
}

type updateBoardRequest struct {
	Name   *string `json:"name"`
	Public *bool   `json:"public"`
}

// BoardPage is one page of the board listing.
type BoardPage struct {
	Items  []*models.Board `json:"items"`
	Offset int             `json:"offset"`
	Limit  int             `json:"limit"`
}

// CreateBoard handles POST /api/boards
// @Summary Create board
// @Tags boards
// @Accept json
// @Produce json
// @Param request body createBoardRequest true "Board"
// @Success 201 {object} models.Board
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /boards [post]
func (s *Server) CreateBoard(c *fiber.Ctx) error {
	var req createBoardRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	board, err := s.boardService.Create(c.UserContext(), currentUser(c), service.CreateBoardInput{
		Name:   req.Name,
		Public: req.Public,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(board)
}

// ListBoards handles GET /api/boards
// @Summary List boards
// @Description Public boards plus the caller's own, busiest first.
// @Tags boards
// @Produce json
// @Param offset query int false "Offset"
// @Param limit query int false "Page size (1-100)"
// @Success 200 {object} BoardPage
// @Failure 404 {object} models.ErrorResponse
// @Router /boards [get]
func (s *Server) ListBoards(c *fiber.Ctx) error {
	page := parsePagination(c, defaultBoardPageSize)

	boards, err := s.boardService.List(c.UserContext(), currentUser(c), page.Offset, page.Limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(BoardPage{Items: boards, Offset: page.Offset, Limit: page.Limit})
}

// GetBoard handles GET /api/boards/:boardId
// @Summary Get board
// @Tags boards
// @Produce json
// @Param boardId path int true "Board ID"
// @Success 200 {object} models.Board
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /boards/{boardId} [get]
func (s *Server) GetBoard(c *fiber.Ctx) error {
	boardID, err := parseID(c, "boardId")
	if err != nil {
		return nil
	}

	board, err := s.boardService.Get(c.UserContext(), currentUser(c), boardID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(board)
}

// UpdateBoard handles PATCH /api/boards/:boardId
// @Summary Update board
// @Description Rename a board or change its visibility. Owner only.
// @Tags boards
// @Accept json
// @Produce json
// @Param boardId path int true "Board ID"
// @Param request body updateBoardRequest true "Fields to change"
// @Success 200 {object} models.Board
// @Failure 403 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Failure 422 {object} models.ErrorResponse
// @Router /boards/{boardId} [patch]
func (s *Server) UpdateBoard(c *fiber.Ctx) error {
	boardID, err := parseID(c, "boardId")
	if err != nil {
		return nil
	}
	var req updateBoardRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	board, err := s.boardService.Update(c.UserContext(), currentUser(c), boardID, service.UpdateBoardInput{
		Name:   req.Name,
		Public: req.Public,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(board)
}

// DeleteBoard handles DELETE /api/boards/:boardId
// @Summary Delete board
// @Description Delete a board and all of its posts. Owner only.
// @Tags boards
// @Param boardId path int true "Board ID"
// @Success 204
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /boards/{boardId} [delete]
func (s *Server) DeleteBoard(c *fiber.Ctx) error {
	boardID, err := parseID(c, "boardId")
	if err != nil {
		return nil
	}

	if err := s.boardService.Delete(c.UserContext(), currentUser(c), boardID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
