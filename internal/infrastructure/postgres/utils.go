package postgres

import (
	"errors"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

var identRe = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// userKeyColumn devuelve el nombre de columna de atribución de usuario a
// interpolar en los INSERT. Solo identificadores simples; cualquier otra cosa
// cae al valor por defecto para no abrir inyección por configuración.
func userKeyColumn(key string) string {
	if identRe.MatchString(key) {
		return key
	}
	return "created_by"
}
