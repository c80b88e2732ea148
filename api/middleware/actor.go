package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/minsukang/storelink-backend/pkg/logger"
)

const actorHeader = "X-Actor-Id"

type contextKey string

const ctxActorID contextKey = "actor_id"

// Actor records the caller identity from the X-Actor-Id header so mutation
// handlers can stamp it onto transaction log entries.
func Actor(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor := strings.TrimSpace(r.Header.Get(actorHeader))
			if actor == "" {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), ctxActorID, actor)
			if logg != nil {
				ctx = logg.WithActor(ctx, actor)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func ActorFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxActorID).(string); ok {
		return v
	}
	return ""
}
