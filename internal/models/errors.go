package models

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Error codes carried in ErrorResponse.Code.
const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeUnknownUser  = "UNKNOWN_USER"
	CodePostExists   = "POST_EXISTS"
	CodePostNotFound = "POST_NOT_FOUND"
	CodeConflict     = "CONCURRENCY_CONFLICT"
	CodeInternal     = "INTERNAL_ERROR"
)

// ErrorResponse represents a standardized API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// AppError is an error that knows the HTTP status it is answered with.
type AppError struct {
	Status  int
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

// NewValidationError reports a malformed request.
func NewValidationError(message string) *AppError {
	return &AppError{Status: fiber.StatusBadRequest, Code: CodeValidation, Message: message}
}

// NewUnknownUserError reports a post whose user reference resolves to no stored user.
func NewUnknownUserError(userID uint) *AppError {
	return &AppError{
		Status:  fiber.StatusBadRequest,
		Code:    CodeUnknownUser,
		Message: fmt.Sprintf("User with ID %d does not exist", userID),
	}
}

// NewDuplicatePostError reports a create whose id is already taken. id is 0 when
// the collision was only detected by the insert itself.
func NewDuplicatePostError(id uint) *AppError {
	msg := "Post already exists"
	if id != 0 {
		msg = fmt.Sprintf("Post with ID %d already exists", id)
	}
	return &AppError{Status: fiber.StatusBadRequest, Code: CodePostExists, Message: msg}
}

// NewPostNotFoundError reports that no post has the requested id.
func NewPostNotFoundError(id int) *AppError {
	return &AppError{
		Status:  fiber.StatusNotFound,
		Code:    CodePostNotFound,
		Message: fmt.Sprintf("Post with ID %d not found", id),
	}
}

// NewConflictError wraps a lost optimistic-concurrency race on a post that still
// exists. Handlers return it to the app ErrorHandler rather than answering it.
func NewConflictError(postID uint, err error) *AppError {
	return &AppError{
		Status:  fiber.StatusInternalServerError,
		Code:    CodeConflict,
		Message: fmt.Sprintf("update of post %d lost a concurrent write", postID),
		Err:     err,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Status:  fiber.StatusInternalServerError,
		Code:    CodeInternal,
		Message: "Internal server error",
		Err:     err,
	}
}

// Respond writes e with its own status.
func Respond(c *fiber.Ctx, e *AppError) error {
	return RespondWithError(c, e.Status, e)
}

// RespondWithError writes a standardized error response.
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	response := ErrorResponse{Error: err.Error()}

	var appErr *AppError
	if errors.As(err, &appErr) {
		response = ErrorResponse{Error: appErr.Message, Code: appErr.Code}
		if appErr.Err != nil {
			response.Details = appErr.Err.Error()
		}
	}

	return c.Status(status).JSON(response)
}
