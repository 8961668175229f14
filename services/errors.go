package services

import "errors"

var (
	// ErrNotFound is returned when the addressed class, quiz or share code does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden is returned for non-owner mutations and denied reads.
	ErrForbidden = errors.New("forbidden")
	// ErrBadRequest is returned for malformed selectors, e.g. claim without exactly one of classId/quizId/code.
	ErrBadRequest = errors.New("bad request")
	// ErrInvalidTarget is returned when a target type is not "class" or "quiz".
	ErrInvalidTarget = errors.New("invalid target type")
	// ErrMissingTarget is returned when a target id is missing or zero.
	ErrMissingTarget = errors.New("missing target id")
	// ErrNotShared is returned when claiming a target that has no active share.
	ErrNotShared = errors.New("target is not share-enabled")
	// ErrEmailTaken is returned when registering with an email that already exists.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials is returned for failed logins.
	ErrInvalidCredentials = errors.New("invalid email or password")
)
