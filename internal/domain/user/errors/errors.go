package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for the transport layer. The service itself never
// logs or formats responses; callers map Kind to an HTTP status and wire code.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindAuthentication
	KindAuthorization
	KindNotFound
	KindConflict
)

var kindCodes = map[Kind]int{
	KindInternal:       1000,
	KindValidation:     1001,
	KindAuthentication: 1002,
	KindAuthorization:  1003,
	KindNotFound:       1004,
	KindConflict:       1005,
}

var kindStatuses = map[Kind]int{
	KindInternal:       http.StatusInternalServerError,
	KindValidation:     http.StatusUnprocessableEntity,
	KindAuthentication: http.StatusUnauthorized,
	KindAuthorization:  http.StatusForbidden,
	KindNotFound:       http.StatusNotFound,
	KindConflict:       http.StatusConflict,
}

type Error struct {
	kind Kind
	msg  string
	err  error
}

func New(kind Kind, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{kind: kind, msg: msg, err: err}
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

func (e *Error) Unwrap() error { return e.err }

func (e *Error) Kind() Kind  { return e.kind }
func (e *Error) Code() int   { return kindCodes[e.kind] }
func (e *Error) Status() int { return kindStatuses[e.kind] }

var (
	ErrInvalidCredentials   = New(KindAuthentication, "wrong email or password")
	ErrInvalidToken         = New(KindAuthentication, "token is invalid")
	ErrExpiredToken         = New(KindAuthentication, "token is expired")
	ErrTokenUserMismatch    = New(KindAuthentication, "refresh token does not belong to this user")
	ErrRefreshTokenMissing  = New(KindAuthentication, "used refresh token or not exist")
	ErrNotVerified          = New(KindAuthorization, "user is not verified")
	ErrBanned               = New(KindAuthorization, "user is banned")
	ErrNotFound             = New(KindNotFound, "not found")
	ErrUserNotFound         = New(KindNotFound, "user not found")
	ErrRefreshTokenNotFound = New(KindNotFound, "refresh token not found")
	ErrNotFollowing         = New(KindNotFound, "not following this user")
	ErrAlreadyExists        = New(KindConflict, "already exists")
	ErrAlreadyVerified      = New(KindConflict, "email already verified")
	ErrAlreadyFollowing     = New(KindConflict, "already following this user")
	ErrResendCooldown       = New(KindConflict, "verification email requested too soon")
	ErrInternal             = New(KindInternal, "internal error")
)

func NewInvalidArgument(msg string) error {
	return New(KindValidation, msg)
}

func WrapInternal(err error, context string) error {
	return Wrap(KindInternal, context, err)
}

// KindOf reports the Kind of err, unwrapping as needed. Errors outside this
// package (store failures and the like) are treated as internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.kind
	}
	return KindInternal
}

func is(err error, kind Kind) bool { return KindOf(err) == kind }

func IsInternal(err error) bool        { return is(err, KindInternal) }
func IsInvalidArgument(err error) bool { return is(err, KindValidation) }
func IsAuthentication(err error) bool  { return is(err, KindAuthentication) }
func IsAuthorization(err error) bool   { return is(err, KindAuthorization) }
func IsNotFound(err error) bool        { return is(err, KindNotFound) }
func IsConflict(err error) bool        { return is(err, KindConflict) }
