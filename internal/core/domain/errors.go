package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnknownCategory indicates a category key outside the catalogue.
	ErrUnknownCategory = errors.New("unknown category")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	// Idea generation is disabled without it.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmptyResponse indicates the LLM returned no usable text.
	ErrEmptyResponse = errors.New("empty response from LLM")

	// ErrBotTokenMissing indicates no Telegram bot token is configured.
	ErrBotTokenMissing = errors.New("telegram bot token not set")

	// ErrRateLimited indicates a rate limit was exceeded, either locally
	// per chat or by an upstream API.
	ErrRateLimited = errors.New("rate limited")

	// Messaging Errors.

	// ErrMarkupRejected indicates Telegram could not parse the message entities.
	// The message should be resent as plain text.
	ErrMarkupRejected = errors.New("markup rejected")

	// ErrMessageNotModified indicates an edit carried the same content and markup.
	ErrMessageNotModified = errors.New("message not modified")
)
