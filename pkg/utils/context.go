package utils

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	IdentityKey contextKey = "identity"
	TokenKey    contextKey = "token"
	FlashIDKey  contextKey = "flash_id"
)

// Identity is the signed-in user as seen by handlers and the ACL.
type Identity struct {
	UserID   uuid.UUID
	Username string
	Role     string
}

func SetIdentityContext(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, IdentityKey, identity)
}

// GetIdentityFromContext returns the identity stored by the auth middleware.
func GetIdentityFromContext(ctx context.Context) (*Identity, bool) {
	identity, ok := ctx.Value(IdentityKey).(*Identity)
	if !ok || identity == nil {
		return nil, false
	}
	return identity, true
}

// GetTokenFromContext mendapatkan token dari context
func GetTokenFromContext(ctx context.Context) (string, bool) {
	tokenVal := ctx.Value(TokenKey)
	if tokenVal == nil {
		return "", false
	}

	token, ok := tokenVal.(string)
	return token, ok
}

// SetTokenContext menambahkan token ke context
func SetTokenContext(ctx context.Context, token string) context.Context {
	ctx = context.WithValue(ctx, TokenKey, token)
	return ctx
}

func SetFlashIDContext(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, FlashIDKey, id)
}

func GetFlashIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(FlashIDKey).(string)
	return id, ok && id != ""
}
