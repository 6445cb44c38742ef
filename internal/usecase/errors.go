package usecase

import "errors"

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrNotFound            = errors.New("resource not found")
	ErrConflict            = errors.New("resource conflict")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrUpstreamUnavailable = errors.New("upstream standings source unavailable")
	ErrProtectionViolated  = errors.New("standings protection floor violated")
)
