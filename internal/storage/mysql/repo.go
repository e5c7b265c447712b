package mysql

import (
	"context"
	"database/sql"
	"errors"

	gomysql "github.com/go-sql-driver/mysql"

	"concierge/internal/domain"
)

// Repo is the MySQL-backed property directory. Implements domain.PropertyRepository.
type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) Register(ctx context.Context, p domain.Property) error {
	args := make([]any, 0, len(domain.Fields)+1)
	args = append(args, p.Phone)
	for _, f := range domain.Fields {
		args = append(args, p.Value(f.Key))
	}
	_, err := r.db.ExecContext(ctx, insertPropertySQL, args...)
	if isDuplicate(err) {
		return domain.ErrDuplicateKey
	}
	return err
}

func (r *Repo) Lookup(ctx context.Context, phone string) (domain.Property, bool, error) {
	row := r.db.QueryRowContext(ctx, getPropertySQL, phone)

	vals := make([]sql.NullString, len(domain.Fields))
	dest := make([]any, 0, len(vals)+1)
	var p domain.Property
	dest = append(dest, &p.Phone)
	for i := range vals {
		dest = append(dest, &vals[i])
	}

	if err := row.Scan(dest...); err != nil {
		if err == sql.ErrNoRows {
			return domain.Property{}, false, nil
		}
		return domain.Property{}, false, err
	}

	p.Values = make(map[domain.FieldKey]string, len(domain.Fields))
	for i, f := range domain.Fields {
		if vals[i].Valid {
			p.Values[f.Key] = vals[i].String
		}
	}
	return p, true, nil
}

func isDuplicate(err error) bool {
	var me *gomysql.MySQLError
	return errors.As(err, &me) && me.Number == erDupEntry
}
