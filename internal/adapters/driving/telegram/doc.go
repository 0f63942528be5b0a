// Package telegram receives Telegram updates and drives the bot service.
//
// Runner pulls updates either by long polling or from a webhook HTTP server,
// converts them to domain events, and hands them to a bounded pool of
// workers. A panicking handler is recovered and reported through
// BotService.HandleError so one bad update never stops the bot.
package telegram
