package controller

import (
	"context"

	"github.com/watchparty/server/pkg/token"
)

type contextKey int

const (
	memberIdCtxKey contextKey = iota
	claimsCtxKey
)

func (c *controller) getMemberIdFromCtx(ctx context.Context) string {
	memberId, ok := ctx.Value(memberIdCtxKey).(string)
	if !ok {
		return ""
	}

	return memberId
}

func (c *controller) getClaimsFromCtx(ctx context.Context) token.Claims {
	claims, ok := ctx.Value(claimsCtxKey).(token.Claims)
	if !ok {
		return token.Claims{}
	}

	return claims
}
