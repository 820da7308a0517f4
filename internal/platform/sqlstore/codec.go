package sqlstore

import (
	"fmt"
	"time"

	"github.com/phrazzld/persona/internal/domain"
)

// personColumns is the column list shared by every persons SELECT.
const personColumns = "id, first_name, last_name, birth_date"

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// dateColumn scans a nullable DATE column from any supported driver.
// pgx yields time.Time; SQLite may yield time.Time, string or []byte.
type dateColumn struct {
	Time time.Time
}

// Scan implements sql.Scanner.
func (c *dateColumn) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		c.Time = time.Time{}
	case time.Time:
		c.Time = domain.DateOnly(v)
	case string:
		return c.parse(v)
	case []byte:
		return c.parse(string(v))
	default:
		return fmt.Errorf("unsupported birth_date value of type %T", src)
	}
	return nil
}

func (c *dateColumn) parse(s string) error {
	if len(s) > len(domain.DateLayout) {
		s = s[:len(domain.DateLayout)]
	}
	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		return fmt.Errorf("invalid birth_date %q: %w", s, err)
	}
	c.Time = t
	return nil
}

// scanPerson reads one row selected with personColumns.
func scanPerson(row rowScanner) (domain.Person, error) {
	var (
		p     domain.Person
		birth dateColumn
	)
	if err := row.Scan(&p.ID, &p.FirstName, &p.LastName, &birth); err != nil {
		return domain.Person{}, err
	}
	p.BirthDate = birth.Time
	return p, nil
}

// personArgs returns the insert arguments in column order, without the id.
func (d dialect) personArgs(p *domain.Person) []any {
	return []any{p.FirstName, p.LastName, d.dateArg(p.BirthDate)}
}
