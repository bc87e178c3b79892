package errors

import (
	"errors"
	"fmt"
)

// Kind классифицирует ошибку для транспорта (HTTP статус, статус callable-функции)
type Kind string

const (
	KindUnauthenticated  Kind = "unauthenticated"
	KindPermissionDenied Kind = "permission-denied"
	KindInvalidArgument  Kind = "invalid-argument"
	KindNotFound         Kind = "not-found"
	KindAlreadyExists    Kind = "already-exists"
	KindInternal         Kind = "internal"
)

// Error ошибка приложения с типом
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Message == "" {
		return e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is позволяет сравнивать ошибки одного типа с одинаковым сообщением через errors.Is
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == e.Message
}

func newKind(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Unauthenticated(format string, args ...any) *Error {
	return newKind(KindUnauthenticated, format, args...)
}

func PermissionDenied(format string, args ...any) *Error {
	return newKind(KindPermissionDenied, format, args...)
}

func InvalidArgument(format string, args ...any) *Error {
	return newKind(KindInvalidArgument, format, args...)
}

func NotFound(format string, args ...any) *Error {
	return newKind(KindNotFound, format, args...)
}

func AlreadyExists(format string, args ...any) *Error {
	return newKind(KindAlreadyExists, format, args...)
}

// Internal оборачивает err, скрывая детали от клиента за message
func Internal(err error, message string) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// KindOf возвращает тип ошибки; неизвестные ошибки считаются internal
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Is проверяет тип ошибки
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Auth
var (
	ErrAuthHeaderEmpty              = Unauthenticated("authorization header is empty")
	ErrAuthHeaderWrongFormat        = Unauthenticated("authorization header format must be Bearer {token}")
	ErrUnexpectedSigningMethod      = Unauthenticated("unexpected signing method")
	ErrFailedToParseToken           = Unauthenticated("failed to parse token")
	ErrInvalidToken                 = Unauthenticated("invalid token")
	ErrInvalidRefreshToken          = Unauthenticated("invalid refresh token")
	ErrWrongTokenType               = Unauthenticated("wrong token type")
	ErrInvalidCredentials           = Unauthenticated("invalid credentials")
	ErrUnauthenticated              = Unauthenticated("only authenticated users can call this function")
	ErrFailedToGenerateAccessToken  = Internal(nil, "failed to generate access token")
	ErrFailedToGenerateRefreshToken = Internal(nil, "failed to generate refresh token")
	ErrJWTSecretKeyNotConfigured    = Internal(nil, "jwt secret key is not configured")
	ErrEmailAlreadyExists           = AlreadyExists("email already exists")
)

// Доступ
var (
	ErrAdminRequired = PermissionDenied("you do not have permission to perform this action")
)

// Не найдено
var (
	ErrUserNotFound       = NotFound("user not found")
	ErrAccountNotFound    = NotFound("no user record corresponds to this identifier")
	ErrFilmNotFound       = NotFound("film not found")
	ErrWatchStateNotFound = NotFound("watch state not found")
	ErrMediaNotFound      = NotFound("media upload not found")
)

// Инициализация
var (
	ErrFailedToConnectYDB        = errors.New("failed to connect to YDB")
	ErrFailedToInitStorageClient = errors.New("failed to initialize storage client")
	ErrStorageNotConfigured      = errors.New("object storage credentials and bucket must be set")
)
