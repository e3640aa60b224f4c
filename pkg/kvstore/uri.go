package kvstore

import (
	"fmt"
	"strings"

	"github.com/BurntPizza/logos/pkg/errs"
)

// Open builds a Store from a "logos:" URI. The scheme selects the
// backend and the remainder is backend-specific:
//
//	logos:mem://                  in-memory, process-lifetime store
//	logos:sqlite://path/to/file    embedded SQLite file at the given path
//	logos:cass://host:port         Cassandra cluster at the given contact point
func Open(uri string) (Store, error) {
	switch {
	case strings.HasPrefix(uri, "logos:mem://"):
		return NewMemStore(), nil
	case strings.HasPrefix(uri, "logos:sqlite://"):
		return NewSQLiteStore(strings.TrimPrefix(uri, "logos:sqlite://"))
	case strings.HasPrefix(uri, "logos:cass://"):
		return NewCassandraStore(strings.TrimPrefix(uri, "logos:cass://"))
	default:
		return nil, fmt.Errorf("%w: %s", errs.ErrInvalidURI, uri)
	}
}
