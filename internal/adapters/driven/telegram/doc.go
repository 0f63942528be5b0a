// Package telegram implements driven.Messenger on the Telegram Bot API using
// github.com/go-telegram-bot-api/telegram-bot-api/v5.
//
// Outgoing calls are paced by a ratelimit.Throttle. Telegram failures are
// translated into domain errors so core services never see provider types:
//
//   - "can't parse entities" becomes domain.ErrMarkupRejected
//   - "message is not modified" becomes domain.ErrMessageNotModified
//   - HTTP 429 becomes domain.ErrRateLimited and starts a backoff
package telegram
