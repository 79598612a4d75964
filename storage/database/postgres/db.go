package postgres

import (
	"net/url"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/alyusr/institute/core"
)

// Open connects to the configured Postgres database.
func Open(conf *core.Config) (*sqlx.DB, error) {
	sslMode := "require"
	if conf.Database.DisableTLS {
		sslMode = "disable"
	}
	q := make(url.Values)
	q.Set("sslmode", sslMode)
	q.Set("timezone", "utc")

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(conf.Database.User, conf.Database.Password),
		Host:     conf.Database.Address(),
		Path:     conf.Database.Name,
		RawQuery: q.Encode(),
	}
	return sqlx.Open("postgres", u.String())
}

// Ping waits for the database to be ready. Waits 100ms longer between each attempt.
func Ping(db *sqlx.DB) error {
	var err error
	maxAttempts := 30
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		err = db.Ping()
		if err == nil {
			break
		}
		time.Sleep(time.Duration(attempts) * 100 * time.Millisecond)
	}

	if err != nil {
		return errors.Wrap(err, "DB ping timeout")
	}
	return nil
}

// CreateSchema applies the table definitions. Idempotent; meant for
// first boot and tests, full migration tooling stays out of scope.
func CreateSchema(db *sqlx.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return errors.Wrap(err, "creating schema")
	}
	return nil
}

const schema = `
CREATE TABLE IF NOT EXISTS "user" (
    id         UUID PRIMARY KEY,
    name       TEXT        NOT NULL,
    password   TEXT        NOT NULL,
    email      TEXT        NOT NULL UNIQUE,
    role       TEXT        NOT NULL,
    is_admin   BOOLEAN     NOT NULL DEFAULT FALSE,
    is_active  BOOLEAN     NULL,
    created_at TIMESTAMPTZ NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL,
    last_login TIMESTAMPTZ NOT NULL DEFAULT 'epoch'
);

CREATE TABLE IF NOT EXISTS course (
    id            UUID PRIMARY KEY,
    title         TEXT             NOT NULL,
    description   TEXT             NOT NULL,
    category      TEXT             NOT NULL,
    level         TEXT             NOT NULL,
    duration      TEXT             NOT NULL,
    price         DOUBLE PRECISION NOT NULL DEFAULT 0,
    is_active     BOOLEAN          NULL,
    student_count INTEGER          NOT NULL DEFAULT 0,
    created_at    TIMESTAMPTZ      NOT NULL
);
`
