package database

import (
	"time"

	"github.com/BurntPizza/logos/pkg/errs"
	"github.com/BurntPizza/logos/pkg/record"
	"github.com/BurntPizza/logos/pkg/value"
)

// Transact applies tx as a single all-or-nothing unit: every Addition and
// NewEntity item is applied to a local copy of the database's state, a
// new transaction entity is stamped with the current time, and only once
// every item has succeeded is the new state persisted and installed.
// If any item fails, Transact returns the error and the Database is left
// exactly as it was before the call — nothing from a failed transaction
// is ever partially visible.
func (db *Database) Transact(tx Tx) (Report, error) {
	start := time.Now()
	report, err := db.transact(tx)
	if db.log != nil {
		db.log.LogTransact(time.Since(start), len(tx.Items), err)
	}
	if db.metrics != nil {
		status := "ok"
		if err != nil {
			status = "error"
		}
		db.metrics.RecordTransact(status, time.Since(start))
	}
	return report, err
}

func (db *Database) transact(tx Tx) (Report, error) {
	s := db.state

	txEntity := value.Entity(s.nextID)
	s.nextID++

	txInstantAttr, ok := s.idents.Entity(txInstantName)
	if !ok {
		txInstantAttr = TxInstantAttr
	}

	var err error
	s, err = applyRecord(s, record.New(txEntity, txInstantAttr, value.Timestamp(time.Now().UTC()), txEntity))
	if err != nil {
		return Report{}, err
	}
	asserted := 1

	var newEntities []value.Entity
	for _, item := range tx.Items {
		switch it := item.(type) {
		case Addition:
			attr, ok := s.idents.Entity(it.Fact.Attribute)
			if !ok {
				return Report{}, errs.InvalidAttribute(it.Fact.Attribute)
			}
			s, err = applyRecord(s, record.New(it.Fact.Entity, attr, it.Fact.Value, txEntity))
			if err != nil {
				return Report{}, err
			}
			asserted++

		case NewEntity:
			entity := value.Entity(s.nextID)
			s.nextID++
			for name, v := range it.Attrs {
				attr, ok := s.idents.Entity(name)
				if !ok {
					return Report{}, errs.InvalidAttribute(name)
				}
				s, err = applyRecord(s, record.New(entity, attr, v, txEntity))
				if err != nil {
					return Report{}, err
				}
				asserted++
			}
			newEntities = append(newEntities, entity)

		case Retraction:
			return Report{}, errs.ErrUnimplemented

		default:
			return Report{}, errs.ErrUnimplemented
		}
	}

	if err := db.persist(s); err != nil {
		return Report{}, err
	}
	db.state = s
	if db.metrics != nil {
		db.metrics.RecordsAssertedTotal.Add(float64(asserted))
	}

	return Report{Tx: txEntity, NewEntities: newEntities}, nil
}
