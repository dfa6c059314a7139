package ctxkeys

import (
	"context"

	"github.com/templui/campus-collector/internal/model"
)

// contextKey is a type for context keys to avoid collisions
type contextKey string

const (
	RequestIDKey contextKey = "request_id"
	LanguageKey  contextKey = "language"
)

func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

// Language returns the working language of the request, Chinese when unset.
func Language(ctx context.Context) model.Language {
	lang, ok := ctx.Value(LanguageKey).(model.Language)
	if !ok || lang == "" {
		return model.LanguageChinese
	}
	return lang
}

func WithLanguage(ctx context.Context, lang model.Language) context.Context {
	return context.WithValue(ctx, LanguageKey, lang)
}
