// Package telegramtest provides an in-memory telegram.API for tests.
package telegramtest

import (
	"context"
	"errors"
	"sync"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// MemberFunc answers a GetChatMember call.
type MemberFunc func(ctx context.Context, chatID any, userID int64) (*models.ChatMember, error)

// Statuses returns a MemberFunc reporting a fixed status per channel id.
// Channels missing from the map fail with an error.
func Statuses(byChannel map[string]models.ChatMemberType) MemberFunc {
	return func(_ context.Context, chatID any, _ int64) (*models.ChatMember, error) {
		id, _ := chatID.(string)
		status, ok := byChannel[id]
		if !ok {
			return nil, errors.New("bad request: chat not found")
		}
		return &models.ChatMember{Type: status}, nil
	}
}

// API records every call and answers GetChatMember through Members.
type API struct {
	mu sync.Mutex

	Members MemberFunc
	EditErr error
	SendErr error

	MemberCalls []bot.GetChatMemberParams
	Sent        []bot.SendMessageParams
	Edited      []bot.EditMessageTextParams
	Answered    []bot.AnswerCallbackQueryParams
}

// GetChatMember implements telegram.API.
func (f *API) GetChatMember(ctx context.Context, params *bot.GetChatMemberParams) (*models.ChatMember, error) {
	f.mu.Lock()
	f.MemberCalls = append(f.MemberCalls, *params)
	members := f.Members
	f.mu.Unlock()

	if members == nil {
		return nil, errors.New("no membership oracle configured")
	}
	return members(ctx, params.ChatID, params.UserID)
}

// SendMessage implements telegram.API.
func (f *API) SendMessage(_ context.Context, params *bot.SendMessageParams) (*models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Sent = append(f.Sent, *params)
	if f.SendErr != nil {
		return nil, f.SendErr
	}
	return &models.Message{ID: len(f.Sent), Text: params.Text}, nil
}

// EditMessageText implements telegram.API.
func (f *API) EditMessageText(_ context.Context, params *bot.EditMessageTextParams) (*models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Edited = append(f.Edited, *params)
	if f.EditErr != nil {
		return nil, f.EditErr
	}
	return &models.Message{ID: params.MessageID, Text: params.Text}, nil
}

// AnswerCallbackQuery implements telegram.API.
func (f *API) AnswerCallbackQuery(_ context.Context, params *bot.AnswerCallbackQueryParams) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Answered = append(f.Answered, *params)
	return true, nil
}

// Snapshot returns copies of the recorded outbound calls.
func (f *API) Snapshot() (sent []bot.SendMessageParams, edited []bot.EditMessageTextParams, answered []bot.AnswerCallbackQueryParams) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sent = append(sent, f.Sent...)
	edited = append(edited, f.Edited...)
	answered = append(answered, f.Answered...)
	return sent, edited, answered
}
