package middleware

import "context"

type contextKey string

const (
	ctxAdminName   contextKey = "admin_name"
	ctxAccessLevel contextKey = "access_level"
)

func AdminNameFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxAdminName).(string); ok {
		return v
	}
	return ""
}

func AccessLevelFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxAccessLevel).(string); ok {
		return v
	}
	return ""
}

// WithAccessLevel injects the access level into the context.
func WithAccessLevel(ctx context.Context, level string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxAccessLevel, level)
}
