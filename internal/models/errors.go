package models

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Error codes returned to API clients.
const (
	CodeUnauthenticated    = "UNAUTHENTICATED"
	CodeSessionInvalid     = "SESSION_INVALID"
	CodeUserNotFound       = "USER_NOT_FOUND"
	CodeNotFound           = "NOT_FOUND"
	CodeForbidden          = "FORBIDDEN"
	CodeLoginRequired      = "LOGIN_REQUIRED"
	CodeNameConflict       = "NAME_CONFLICT"
	CodeEmailConflict      = "EMAIL_CONFLICT"
	CodeEmptyUpdate        = "EMPTY_UPDATE"
	CodeRelationMismatch   = "RELATION_MISMATCH"
	CodeNoAccessibleBoards = "NO_ACCESSIBLE_BOARDS"
	CodeNoPostsInBoard     = "NO_POSTS_IN_BOARD"
	CodeEndOfPage          = "END_OF_PAGE"
	CodeValidation         = "VALIDATION_ERROR"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeInternal           = "INTERNAL_ERROR"
)

// ErrorResponse represents a standardized API error response
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// AppError represents a custom application error
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// IsCode reports whether err carries an AppError with the given code.
func IsCode(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// CodeOf returns the AppError code in err, or CodeInternal.
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

func NewUnauthenticatedError() *AppError {
	return &AppError{Code: CodeUnauthenticated, Message: "You are not logged in"}
}

func NewSessionInvalidError() *AppError {
	return &AppError{Code: CodeSessionInvalid, Message: "Session is invalid or has expired"}
}

func NewUserNotFoundError() *AppError {
	return &AppError{Code: CodeUserNotFound, Message: "Session belongs to a user that no longer exists"}
}

func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s with ID %v not found", resource, id),
	}
}

// NewForbiddenError reports an authenticated caller touching something they do not own.
func NewForbiddenError(resource, label string) *AppError {
	return &AppError{
		Code:    CodeForbidden,
		Message: fmt.Sprintf("You do not have access to %s '%s'", resource, label),
	}
}

// NewLoginRequiredError is the anonymous-caller variant of Forbidden for private boards.
func NewLoginRequiredError(boardName string) *AppError {
	return &AppError{
		Code:    CodeLoginRequired,
		Message: fmt.Sprintf("Board '%s' is private. Log in and try again", boardName),
	}
}

func NewNameConflictError(name string) *AppError {
	return &AppError{
		Code:    CodeNameConflict,
		Message: fmt.Sprintf("A board named '%s' already exists", name),
	}
}

func NewEmailConflictError() *AppError {
	return &AppError{Code: CodeEmailConflict, Message: "Email is already registered"}
}

func NewEmptyUpdateError() *AppError {
	return &AppError{Code: CodeEmptyUpdate, Message: "At least one field must be provided"}
}

// NewRelationMismatchError is rendered like a not-found so post ids under the wrong board leak nothing.
func NewRelationMismatchError(boardName string) *AppError {
	return &AppError{
		Code:    CodeRelationMismatch,
		Message: fmt.Sprintf("Post not found in board '%s'", boardName),
	}
}

func NewNoAccessibleBoardsError() *AppError {
	return &AppError{Code: CodeNoAccessibleBoards, Message: "There are no boards you can access"}
}

func NewNoPostsInBoardError(boardName string) *AppError {
	return &AppError{
		Code:    CodeNoPostsInBoard,
		Message: fmt.Sprintf("Board '%s' has no posts yet", boardName),
	}
}

func NewEndOfPageError() *AppError {
	return &AppError{Code: CodeEndOfPage, Message: "No more results"}
}

func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
	}
}

func NewInvalidCredentialsError() *AppError {
	return &AppError{Code: CodeInvalidCredentials, Message: "Invalid email or password"}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: "Internal server error",
		Err:     err,
	}
}

// RespondWithError creates a standardized error response
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	var response ErrorResponse

	var appErr *AppError
	if errors.As(err, &appErr) {
		response = ErrorResponse{
			Error: appErr.Message,
			Code:  appErr.Code,
		}
	} else {
		response = ErrorResponse{
			Error: err.Error(),
		}
	}

	return c.Status(status).JSON(response)
}
