package db

import (
	"github.com/pkg/errors"

	"github.com/hrygo/bookingsense/internal/profile"
	"github.com/hrygo/bookingsense/store"
	"github.com/hrygo/bookingsense/store/db/postgres"
	"github.com/hrygo/bookingsense/store/db/sqlite"
)

// NewDBDriver creates a new db driver based on profile.
//
// SQLite is the default and needs no external services; policy search runs
// in-process over stored embeddings. PostgreSQL uses the pgvector extension
// and is preferred when the policy corpus grows beyond a toy size.
func NewDBDriver(profile *profile.Profile) (store.Driver, error) {
	var driver store.Driver
	var err error

	switch profile.Driver {
	case "sqlite":
		driver, err = sqlite.NewDB(profile)
	case "postgres":
		driver, err = postgres.NewDB(profile)
	default:
		return nil, errors.Errorf("unknown db driver %q: only 'sqlite' and 'postgres' are supported", profile.Driver)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to create db driver")
	}
	return driver, nil
}
