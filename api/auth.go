/*
auth.go - Token verification and actor extraction

PURPOSE:
  Turns a verified JWT into the leave.Actor the domain core trusts. The
  token carries two claims the core cares about:
    sub   user identifier
    role  employee | manager | hr_admin

  Token issuance is out of scope; an upstream identity provider (or the
  test helper) mints tokens with the shared secret.

MIDDLEWARE ORDER:
  jwtauth.Verifier parses and validates the token into the request context,
  RequireActor converts claims to an Actor, RequireAdmin additionally gates
  hr_admin-only routes.

SEE ALSO:
  - server.go: Middleware wiring
  - ../leave/types.go: Actor and Role
*/
package api

import (
	"context"
	"net/http"

	"github.com/go-chi/jwtauth/v5"

	"github.com/andesmind/vacation-engine/leave"
)

type contextKey string

const actorKey contextKey = "actor"

// NewTokenAuth builds the HS256 verifier from the shared secret.
func NewTokenAuth(secret string) *jwtauth.JWTAuth {
	return jwtauth.New("HS256", []byte(secret), nil)
}

// RequireActor rejects requests without a valid token and stores the
// extracted Actor in the request context.
func RequireActor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil || token == nil {
			writeError(w, http.StatusUnauthorized, "Invalid or missing token", err)
			return
		}

		sub, _ := claims["sub"].(string)
		role, _ := claims["role"].(string)
		if sub == "" {
			writeError(w, http.StatusUnauthorized, "Token missing subject", nil)
			return
		}

		actor := leave.Actor{ID: leave.UserID(sub), Role: leave.Role(role)}
		switch actor.Role {
		case leave.RoleEmployee, leave.RoleManager, leave.RoleHRAdmin:
		default:
			writeError(w, http.StatusUnauthorized, "Unknown role in token", nil)
			return
		}

		ctx := context.WithValue(r.Context(), actorKey, actor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin gates hr_admin-only routes. Must run after RequireActor.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !actorFrom(r).IsAdmin() {
			writeError(w, http.StatusForbidden, "Administrator role required", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// actorFrom returns the Actor stored by RequireActor. Zero value if the
// middleware did not run; handlers behind the auth group can rely on it.
func actorFrom(r *http.Request) leave.Actor {
	actor, _ := r.Context().Value(actorKey).(leave.Actor)
	return actor
}
