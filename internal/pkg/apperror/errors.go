package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

type ErrorCode string

const (
	ErrCodeNotFound        ErrorCode = "NOT_FOUND"
	ErrCodeUnauthorized    ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden       ErrorCode = "FORBIDDEN"
	ErrCodeBadRequest      ErrorCode = "BAD_REQUEST"
	ErrCodeConflict        ErrorCode = "CONFLICT"
	ErrCodeInternal        ErrorCode = "INTERNAL_ERROR"
	ErrCodeValidation      ErrorCode = "VALIDATION_ERROR"
	ErrCodeMissingArgument ErrorCode = "MISSING_ARGUMENT"
	ErrCodeMissingData     ErrorCode = "MISSING_DATA"
	ErrCodeRemoteCommand   ErrorCode = "REMOTE_COMMAND_ERROR"
)

type AppError struct {
	Code       ErrorCode
	Message    string
	HTTPStatus int
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Cause:      err,
	}
}

func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeBadRequest, ErrCodeValidation, ErrCodeMissingArgument:
		return http.StatusBadRequest
	case ErrCodeConflict:
		return http.StatusConflict
	case ErrCodeRemoteCommand:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// MissingArgument возвращает ошибку отсутствующего обязательного аргумента.
// Такие ошибки поднимаются синхронно, до любого сетевого вызова.
func MissingArgument(name string) *AppError {
	return New(ErrCodeMissingArgument, fmt.Sprintf("не указан обязательный аргумент %s", name))
}

// MissingData возвращает ошибку отсутствующих данных для отображения.
// Это нарушение контракта вызывающей стороны, а не ожидаемая ситуация.
func MissingData(what string) *AppError {
	return New(ErrCodeMissingData, fmt.Sprintf("данные %s ещё не получены с сервера", what))
}

// ValidationError агрегирует ошибки валидации по полям.
type ValidationError struct {
	Fields map[string][]string
}

// NewValidationError создаёт пустой агрегатор ошибок валидации.
func NewValidationError() *ValidationError {
	return &ValidationError{Fields: map[string][]string{}}
}

// Add добавляет сообщение об ошибке для поля.
func (e *ValidationError) Add(field, message string) {
	e.Fields[field] = append(e.Fields[field], message)
}

// HasErrors сообщает, накопились ли ошибки.
func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

// ErrOrNil возвращает ошибку, если есть хотя бы одно невалидное поле, иначе nil.
func (e *ValidationError) ErrOrNil() error {
	if e.HasErrors() {
		return e
	}
	return nil
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, strings.Join(e.Fields[field], "; ")))
	}
	return "ошибка валидации: " + strings.Join(parts, ", ")
}

// RemoteCommandError означает, что нода отклонила или не смогла выполнить команду.
// Reason — человекочитаемая причина из ответа сервера, может быть пустой.
type RemoteCommandError struct {
	Action string
	Reason string
	Status int
}

func (e *RemoteCommandError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("команда %s отклонена нодой: %s", e.Action, e.Reason)
	}
	return fmt.Sprintf("команда %s отклонена нодой (HTTP %d)", e.Action, e.Status)
}

func IsNotFound(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeNotFound
}

func IsValidation(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}

func IsMissingData(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeMissingData
}

var (
	ErrOrderNotFound      = New(ErrCodeNotFound, "заказ не найден")
	ErrCaseNotFound       = New(ErrCodeNotFound, "спор не найден")
	ErrUnauthorized       = New(ErrCodeUnauthorized, "требуется авторизация")
	ErrForbidden          = New(ErrCodeForbidden, "недостаточно прав")
	ErrInvalidCredentials = New(ErrCodeUnauthorized, "неверные учетные данные")

	// ErrDuplicateAction — внутренний сигнал, что действие этого вида уже
	// выполняется для заказа. Никогда не показывается пользователю:
	// вызывающий код возвращает существующий pending вместо новой отправки.
	ErrDuplicateAction = New(ErrCodeConflict, "действие уже выполняется для этого заказа")
)
