package server

import (
	"time"

	"corkboard/internal/models"
	"corkboard/internal/service"

	"github.com/gofiber/fiber/v2"
)

type createPostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type updatePostRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

// PostPage is one page of a board's posts, newest first. The cursor fields
// are set only when the page was full.
type PostPage struct {
	Items        []*models.Post `json:"items"`
	NextCursor   *string        `json:"next_cursor,omitempty"`
	NextCursorID *uint          `json:"next_cursor_id,omitempty"`
}

// CreatePost handles POST /api/boards/:boardId/posts
// @Summary Create post
// @Tags posts
// @Accept json
// @Produce json
// @Param boardId path int true "Board ID"
// @Param request body createPostRequest true "Post"
// @Success 201 {object} models.Post
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /boards/{boardId}/posts [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	boardID, err := parseID(c, "boardId")
	if err != nil {
		return nil
	}
	var req createPostRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	post, err := s.postService.Create(c.UserContext(), currentUser(c), boardID, service.CreatePostInput{
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// ListPosts handles GET /api/boards/:boardId/posts
// @Summary List posts in a board
// @Description Newest first. Pass next_cursor and next_cursor_id from the previous page to continue.
// @Tags posts
// @Produce json
// @Param boardId path int true "Board ID"
// @Param limit query int false "Page size (1-100)"
// @Param cursor query string false "created_at of the last post seen (RFC 3339, percent-encode a + offset)"
// @Param cursor_id query int false "id of the last post seen"
// @Success 200 {object} PostPage
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /boards/{boardId}/posts [get]
func (s *Server) ListPosts(c *fiber.Ctx) error {
	boardID, err := parseID(c, "boardId")
	if err != nil {
		return nil
	}
	cursor, err := parsePostCursor(c)
	if err != nil {
		return nil
	}
	page := parsePagination(c, defaultPostPageSize)

	posts, err := s.postService.ListInBoard(c.UserContext(), currentUser(c), boardID, cursor, page.Limit)
	if err != nil {
		return respondError(c, err)
	}

	resp := PostPage{Items: posts}
	if len(posts) == page.Limit {
		last := posts[len(posts)-1]
		next := last.CreatedAt.UTC().Format(time.RFC3339Nano)
		resp.NextCursor = &next
		resp.NextCursorID = &last.ID
	}
	return c.JSON(resp)
}

// GetPost handles GET /api/boards/:boardId/posts/:postId
// @Summary Get post
// @Tags posts
// @Produce json
// @Param boardId path int true "Board ID"
// @Param postId path int true "Post ID"
// @Success 200 {object} models.Post
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /boards/{boardId}/posts/{postId} [get]
func (s *Server) GetPost(c *fiber.Ctx) error {
	boardID, postID, ok := parsePostPath(c)
	if !ok {
		return nil
	}

	post, err := s.postService.Get(c.UserContext(), currentUser(c), boardID, postID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(post)
}

// UpdatePost handles PATCH /api/boards/:boardId/posts/:postId
// @Summary Update post
// @Description Author only.
// @Tags posts
// @Accept json
// @Produce json
// @Param boardId path int true "Board ID"
// @Param postId path int true "Post ID"
// @Param request body updatePostRequest true "Fields to change"
// @Success 200 {object} models.Post
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 422 {object} models.ErrorResponse
// @Router /boards/{boardId}/posts/{postId} [patch]
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	boardID, postID, ok := parsePostPath(c)
	if !ok {
		return nil
	}
	var req updatePostRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	post, err := s.postService.Update(c.UserContext(), currentUser(c), boardID, postID, service.UpdatePostInput{
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(post)
}

// DeletePost handles DELETE /api/boards/:boardId/posts/:postId
// @Summary Delete post
// @Description Author only.
// @Tags posts
// @Param boardId path int true "Board ID"
// @Param postId path int true "Post ID"
// @Success 204
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /boards/{boardId}/posts/{postId} [delete]
func (s *Server) DeletePost(c *fiber.Ctx) error {
	boardID, postID, ok := parsePostPath(c)
	if !ok {
		return nil
	}

	if err := s.postService.Delete(c.UserContext(), currentUser(c), boardID, postID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func parsePostPath(c *fiber.Ctx) (boardID, postID uint, ok bool) {
	boardID, err := parseID(c, "boardId")
	if err != nil {
		return 0, 0, false
	}
	postID, err = parseID(c, "postId")
	if err != nil {
		return 0, 0, false
	}
	return boardID, postID, true
}
