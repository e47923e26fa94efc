package main

import (
	"github.com/rotisserie/eris"

	"github.com/sells-group/underwrite-cli/internal/store"
)

func initStore() (store.Store, error) {
	path := cfg.Store.Path
	if path == "" {
		path = "underwrite.db"
	}
	st, err := store.NewSQLite(path)
	if err != nil {
		return nil, eris.Wrapf(err, "open store %s", path)
	}
	return st, nil
}
