package repository

import "strings"

// isUniqueViolation, SQLite UNIQUE constraint hatasını tanır.
// modernc.org/sqlite driver'ı typed error dönmez — mesaj kontrolü gerekir.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
