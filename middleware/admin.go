// Package middleware — platform admin kontrolü.
//
// Reward ve bakım endpoint'leri yalnızca is_admin işaretli kullanıcılara
// açıktır. AuthMiddleware.Require'dan SONRA zincirlenmelidir — context'te
// kullanıcı bekler.
package middleware

import (
	"net/http"

	"github.com/akinalp/davet/handlers"
	"github.com/akinalp/davet/models"
	"github.com/akinalp/davet/pkg"
)

// AdminMiddleware, platform admin yetkisi gerektiren middleware.
type AdminMiddleware struct{}

// NewAdminMiddleware, constructor.
func NewAdminMiddleware() *AdminMiddleware {
	return &AdminMiddleware{}
}

// Require, context'teki kullanıcının admin olmasını şart koşar.
func (m *AdminMiddleware) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := r.Context().Value(handlers.UserContextKey).(*models.User)
		if !ok {
			pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
			return
		}

		if !user.IsAdmin {
			pkg.ErrorWithMessage(w, http.StatusForbidden, "admin access required")
			return
		}

		next.ServeHTTP(w, r)
	})
}
