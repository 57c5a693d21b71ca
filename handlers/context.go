// Package handlers, HTTP katmanını barındırır.
//
// Thin handler prensibi: Parse → Service → Response.
// Handler asla iş kuralı içermez; domain error'ları pkg.Error ile
// HTTP status'a çevrilir.
package handlers

// contextKey, context value çakışmalarını önleyen özel tip.
// string yerine özel tip kullanmak, başka paketlerin aynı key ile
// yanlışlıkla değer yazmasını engeller.
type contextKey string

// UserContextKey, auth middleware'ın doğruladığı kullanıcıyı taşır.
const UserContextKey contextKey = "user"
