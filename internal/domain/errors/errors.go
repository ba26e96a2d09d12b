package errors

import (
	"net/http"

	"github.com/pkg/errors"
)

// Kind classifies an error independently of its business code.
type Kind int

const (
	// KindInternal is the fallback for anything not classified.
	KindInternal Kind = iota
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindConflict
	KindInvalidInput
)

// String returns the canonical name of the kind.
func (k Kind) String() string {
	switch k {
	case KindUnauthenticated:
		return "UNAUTHENTICATED"
	case KindForbidden:
		return "FORBIDDEN"
	case KindNotFound:
		return "NOT_FOUND"
	case KindConflict:
		return "CONFLICT"
	case KindInvalidInput:
		return "INVALID_INPUT"
	default:
		return "INTERNAL"
	}
}

// HTTPStatus maps the kind onto the transport status code.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindInvalidInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	Kind() Kind        // Error classification
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
}

// KindOf resolves the kind of any, possibly wrapped, error. Unknown errors are internal.
func KindOf(err error) Kind {
	if err == nil {
		return KindInternal
	}

	var appErr AppError
	if errors.As(err, &appErr) {
		return appErr.Kind()
	}

	return KindInternal
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	kind      Kind
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error
func NewBaseError(kind Kind, errorCode, message, details string) *BaseError {
	return &BaseError{
		kind:      kind,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.details != "" {
		return e.message + ": " + e.details
	}

	return e.message
}

// Is matches errors carrying the same business code so copies made by WithDetails
// still compare equal to the predefined error.
func (e *BaseError) Is(target error) bool {
	t, ok := target.(*BaseError)
	if !ok {
		return false
	}

	return e.errorCode == t.errorCode
}

// Kind returns the error classification
func (e *BaseError) Kind() Kind {
	return e.kind
}

// HTTPCode returns the HTTP status code
func (e *BaseError) HTTPCode() int {
	return e.kind.HTTPStatus()
}

// ErrorCode returns the business error code
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information
func (e *BaseError) Details() string {
	return e.details
}

// WithDetails adds detailed error information
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		kind:      e.kind,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// Predefined error types
var (
	// Generic kinds
	ErrUnauthenticated = NewBaseError(KindUnauthenticated, "UNAUTHENTICATED", "需要登入", "")
	ErrForbidden       = NewBaseError(KindForbidden, "FORBIDDEN", "沒有執行此操作的權限", "")
	ErrNotFound        = NewBaseError(KindNotFound, "NOT_FOUND", "找不到資源", "")
	ErrConflict        = NewBaseError(KindConflict, "CONFLICT", "資源狀態衝突", "")
	ErrInvalidInput    = NewBaseError(KindInvalidInput, "INVALID_INPUT", "輸入資料無效", "")
	ErrInternal        = NewBaseError(KindInternal, "INTERNAL_ERROR", "伺服器內部錯誤", "")

	// Authentication-related errors
	ErrInvalidCredentials = NewBaseError(KindUnauthenticated, "INVALID_CREDENTIALS", "電子郵件或密碼錯誤", "")
	ErrInvalidToken       = NewBaseError(KindUnauthenticated, "INVALID_TOKEN", "無效或已過期的存取權杖", "")
	ErrAccountInactive    = NewBaseError(KindUnauthenticated, "ACCOUNT_INACTIVE", "帳號已停用", "")
	ErrPasswordHashFailed = NewBaseError(KindInternal, "PASSWORD_HASH_FAILED", "密碼處理錯誤", "")
	ErrTokenIssueFailed   = NewBaseError(KindInternal, "TOKEN_ISSUE_FAILED", "無法簽發存取權杖", "")

	// Password policy errors
	ErrPasswordTooShort       = NewBaseError(KindInvalidInput, "PASSWORD_TOO_SHORT", "密碼長度不足", "password must be at least 8 characters long")
	ErrPasswordNoLowercase    = NewBaseError(KindInvalidInput, "PASSWORD_NO_LOWERCASE", "密碼需包含小寫字母", "password must contain at least one lowercase letter")
	ErrPasswordNoUppercase    = NewBaseError(KindInvalidInput, "PASSWORD_NO_UPPERCASE", "密碼需包含大寫字母", "password must contain at least one uppercase letter")
	ErrPasswordNoNumber       = NewBaseError(KindInvalidInput, "PASSWORD_NO_NUMBER", "密碼需包含數字", "password must contain at least one number")
	ErrPasswordNoSpecialChar  = NewBaseError(KindInvalidInput, "PASSWORD_NO_SPECIAL_CHAR", "密碼需包含特殊字元", "password must contain at least one special character")
	ErrPasswordForbiddenWords = NewBaseError(KindInvalidInput, "PASSWORD_FORBIDDEN_WORDS", "密碼包含禁止使用的字詞", "password contains forbidden words")

	// User-related errors
	ErrUserNotFound      = NewBaseError(KindNotFound, "USER_NOT_FOUND", "找不到該使用者", "")
	ErrUserAlreadyExists = NewBaseError(KindConflict, "USER_ALREADY_EXISTS", "此電子郵件已被註冊", "")
	ErrInvalidRole       = NewBaseError(KindInvalidInput, "INVALID_ROLE", "無效的角色", "")

	// Restaurant-related errors
	ErrRestaurantNotFound     = NewBaseError(KindNotFound, "RESTAURANT_NOT_FOUND", "找不到該餐廳", "")
	ErrRestaurantAlreadyOwned = NewBaseError(KindConflict, "RESTAURANT_ALREADY_OWNED", "此管理者已擁有一間餐廳", "")
	ErrRestaurantNotPublic    = NewBaseError(KindConflict, "RESTAURANT_NOT_PUBLIC", "餐廳尚未公開", "")
	ErrHasActiveChildren      = NewBaseError(KindConflict, "HAS_ACTIVE_CHILDREN", "仍有啟用中的子資源", "")
	ErrStaleLifecycle         = NewBaseError(KindConflict, "STALE_LIFECYCLE", "資源狀態已被其他請求變更", "")
	ErrInvalidStatus          = NewBaseError(KindInvalidInput, "INVALID_STATUS", "無效的狀態", "")

	// Category and menu errors
	ErrCategoryNotFound = NewBaseError(KindNotFound, "CATEGORY_NOT_FOUND", "找不到該分類", "")
	ErrMenuNotFound     = NewBaseError(KindNotFound, "MENU_NOT_FOUND", "找不到該菜單", "")
	ErrVersionConflict  = NewBaseError(KindConflict, "VERSION_CONFLICT", "資料已被其他請求修改", "")

	// Review-related errors
	ErrReviewNotFound  = NewBaseError(KindNotFound, "REVIEW_NOT_FOUND", "找不到該評論", "")
	ErrDuplicateReview = NewBaseError(KindConflict, "DUPLICATE_REVIEW", "已評論過此餐廳", "")
	ErrInvalidRating   = NewBaseError(KindInvalidInput, "INVALID_RATING", "評分必須介於 1 到 5 之間", "")

	// Idempotency errors
	ErrInvalidIdempotencyKey = NewBaseError(KindInvalidInput, "INVALID_IDEMPOTENCY_KEY", "無效的冪等鍵", "")
)

// DatabaseExecuteError represents a database execution error, implementing the AppError interface
type DatabaseExecuteError struct {
	err     error
	details string
}

// NewDatabaseExecuteError creates a database-related error
func NewDatabaseExecuteError(err error, details string) AppError {
	return &DatabaseExecuteError{
		err:     err,
		details: details,
	}
}

// Error implements the error interface
func (e *DatabaseExecuteError) Error() string {
	return errors.Wrap(e.err, "database execution failed").Error()
}

// Unwrap exposes the driver error
func (e *DatabaseExecuteError) Unwrap() error {
	return e.err
}

// Kind returns the error classification
func (e *DatabaseExecuteError) Kind() Kind {
	return KindInternal
}

// HTTPCode returns the HTTP status code
func (e *DatabaseExecuteError) HTTPCode() int {
	return http.StatusInternalServerError
}

// ErrorCode returns the business error code
func (e *DatabaseExecuteError) ErrorCode() string {
	return "DATABASE_EXECUTE_FAILED"
}

// Message returns the user-friendly error message
func (e *DatabaseExecuteError) Message() string {
	return "資料庫執行失敗"
}

// Details returns detailed error information
func (e *DatabaseExecuteError) Details() string {
	return e.details
}
