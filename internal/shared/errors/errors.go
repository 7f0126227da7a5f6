package errors

import "errors"

var (
	ErrMissingBotToken    = errors.New("TELEGRAM_BOT_TOKEN environment variable is required")
	ErrMissingSuperAdmins = errors.New("at least one super admin must be configured")
	ErrUnauthorized       = errors.New("unauthorized user")
	ErrGroupNotFound      = errors.New("group not found")
	ErrKeywordExists      = errors.New("keyword already exists")
	ErrKeywordNotFound    = errors.New("keyword not found")
)
