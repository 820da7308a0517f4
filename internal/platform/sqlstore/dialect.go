package sqlstore

import (
	"strconv"
	"strings"
	"time"

	"github.com/phrazzld/persona/internal/domain"
	"github.com/phrazzld/persona/internal/platform/database"
)

// dialect adapts statements and arguments to one driver.
type dialect struct {
	driver string
}

// rebind rewrites '?' placeholders to $1, $2, ... for PostgreSQL.
// Placeholders inside single-quoted literals are left alone.
func (d dialect) rebind(query string) string {
	if d.driver != database.DriverPostgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)

	n := 0
	quoted := false
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case c == '\'':
			quoted = !quoted
			b.WriteByte(c)
		case c == '?' && !quoted:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// dateArg encodes a calendar date for the birth_date column.
// The zero time is stored as NULL.
func (d dialect) dateArg(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	if d.driver == database.DriverSQLite {
		return t.Format(domain.DateLayout)
	}
	return domain.DateOnly(t)
}
