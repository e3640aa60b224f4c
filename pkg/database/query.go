package database

import (
	"time"

	"github.com/BurntPizza/logos/pkg/query"
)

// Query evaluates q against the database's current generation of indexes.
func (db *Database) Query(q query.Query) (query.Result, error) {
	start := time.Now()
	eng := query.NewEngine(db.state.idents, db.state.eav, db.state.ave)
	res, err := eng.Execute(q)
	if db.log != nil {
		db.log.LogQuery(time.Since(start), len(q.Clauses), len(res.Bindings), err)
	}
	if db.metrics != nil {
		status := "ok"
		if err != nil {
			status = "error"
		}
		db.metrics.RecordQuery(status, time.Since(start))
	}
	return res, err
}
