package httpx

import "net/http"

// RequireRole rejects requests whose session role claim is not one of the
// allowed roles.
func RequireRole(allowed ...string) Middleware {
	want := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		want[role] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := want[RoleFromCtx(r.Context())]; !ok {
				writeRoleError(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireSelfOrRole allows the request when the authenticated account matches
// the path parameter named param, or when the role claim is one of roles.
// Used for per-account endpoints that admins may also operate on.
func RequireSelfOrRole(param string, roles ...string) Middleware {
	elevated := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		elevated[role] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if r.PathValue(param) == AccountIDFromCtx(ctx) {
				next.ServeHTTP(w, r)
				return
			}
			if _, ok := elevated[RoleFromCtx(ctx)]; ok {
				next.ServeHTTP(w, r)
				return
			}
			writeRoleError(w)
		})
	}
}

func writeRoleError(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Bearer error="insufficient_scope"`)
	WriteError(w, http.StatusForbidden, "forbidden")
}
