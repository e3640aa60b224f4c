// Package database implements the transaction engine: bootstrapping a
// fresh store, applying transactions against the three standing indexes
// and the ident map, and dispatching queries to the query engine.
package database

import (
	"time"

	"github.com/BurntPizza/logos/internal/logger"
	"github.com/BurntPizza/logos/internal/metrics"
	"github.com/BurntPizza/logos/pkg/btree"
	"github.com/BurntPizza/logos/pkg/errs"
	"github.com/BurntPizza/logos/pkg/ident"
	"github.com/BurntPizza/logos/pkg/index"
	"github.com/BurntPizza/logos/pkg/kvstore"
	"github.com/BurntPizza/logos/pkg/nodestore"
	"github.com/BurntPizza/logos/pkg/record"
	"github.com/BurntPizza/logos/pkg/value"
)

// Reserved entities bootstrapped into every fresh database. Entity 0 is
// the root transaction every bootstrap record is attributed to; entities
// 1 and 2 are the attributes db:ident and db:txInstant need to describe
// themselves before the ident map that would let us look them up by name
// exists.
const (
	RootTx        value.Entity = 0
	IdentAttr     value.Entity = 1
	TxInstantAttr value.Entity = 2
)

const (
	identIdentName = "db:ident"
	txInstantName  = "db:txInstant"
)

// state is the mutable part of a Database: the three index roots, the
// ident map, and the next entity id to allocate. Transact builds a new
// state in local variables and only installs it into the Database after
// every item in the transaction has succeeded and the new state has been
// durably persisted — so a failure partway through a transaction never
// leaves the Database pointing at a partially-applied generation.
type state struct {
	eav, aev, ave *index.Index
	idents        ident.Map
	nextID        uint64
}

func applyRecord(s state, rec record.Record) (state, error) {
	if uint64(rec.Entity) >= s.nextID {
		s.nextID = uint64(rec.Entity) + 1
	}
	if uint64(rec.Attribute) >= s.nextID {
		s.nextID = uint64(rec.Attribute) + 1
	}

	eav, err := s.eav.Insert(rec)
	if err != nil {
		return state{}, err
	}
	aev, err := s.aev.Insert(rec)
	if err != nil {
		return state{}, err
	}
	ave, err := s.ave.Insert(rec)
	if err != nil {
		return state{}, err
	}
	s.eav, s.aev, s.ave = eav, aev, ave

	if identAttr, ok := s.idents.Entity(identIdentName); ok && rec.Attribute == identAttr {
		name, ok := rec.Value.IdentName()
		if !ok {
			return state{}, errs.ErrTypeMismatch
		}
		s.idents = s.idents.Add(name, rec.Entity)
	}

	return s, nil
}

// Database is one logical fact base: the current generation of the three
// standing indexes, the ident map, and the next entity id, all backed by
// a kvstore.Store.
type Database struct {
	kv      kvstore.Store
	nodes   *nodestore.Store
	log     *logger.Logger
	metrics *metrics.Metrics

	state state
}

// Option customizes Open.
type Option func(*Database)

// WithLogger attaches a logger. If not given, Open uses a quiet default.
func WithLogger(l *logger.Logger) Option { return func(d *Database) { d.log = l } }

// WithMetrics attaches a Prometheus metrics collector. If not given, no
// metrics are recorded.
func WithMetrics(m *metrics.Metrics) Option { return func(d *Database) { d.metrics = m } }

// Open loads the database stored in kv, bootstrapping the three reserved
// entities (db:ident, db:txInstant, and the root transaction) if kv has
// never been written to before.
func Open(kv kvstore.Store, opts ...Option) (*Database, error) {
	contents, err := kv.GetContents()
	if err != nil {
		return nil, errs.StoreIO("get_contents", err)
	}

	db := &Database{
		kv:  kv,
		log: logger.NewLogger(logger.Config{Level: "info"}),
	}
	for _, opt := range opts {
		opt(db)
	}

	db.nodes = nodestore.New(kv, db.metrics)
	db.state = state{
		eav:    index.NewEAVT(btree.NodeRef(contents.EAVRoot), db.nodes),
		aev:    index.NewAEVT(btree.NodeRef(contents.AEVRoot), db.nodes),
		ave:    index.NewAVET(btree.NodeRef(contents.AVERoot), db.nodes),
		idents: ident.FromSnapshot(contents.Idents),
		nextID: contents.NextID,
	}

	if db.state.nextID == 0 {
		if err := db.bootstrap(); err != nil {
			return nil, err
		}
	}

	if db.metrics != nil {
		db.metrics.IdentsTotal.Set(float64(db.state.idents.Len()))
		db.metrics.NextEntityID.Set(float64(db.state.nextID))
	}

	return db, nil
}

// bootstrap seeds the ident map with db:ident -> entity 1 before it is
// needed to interpret the very records that establish db:ident and
// db:txInstant as named attributes, then stamps the root transaction's
// txInstant. Each add() call installs its result immediately; this is
// safe because bootstrap runs once, before any caller can observe an
// intermediate state, unlike Transact's buffered apply below.
func (db *Database) bootstrap() error {
	db.state.idents = db.state.idents.Add(identIdentName, IdentAttr)

	if err := db.add(record.New(IdentAttr, IdentAttr, value.Ident(identIdentName), RootTx)); err != nil {
		return err
	}
	if err := db.add(record.New(TxInstantAttr, IdentAttr, value.Ident(txInstantName), RootTx)); err != nil {
		return err
	}
	if err := db.add(record.New(RootTx, TxInstantAttr, value.Timestamp(time.Now().UTC()), RootTx)); err != nil {
		return err
	}
	return db.persist(db.state)
}

func (db *Database) add(rec record.Record) error {
	s, err := applyRecord(db.state, rec)
	if err != nil {
		return err
	}
	db.state = s
	return nil
}

func (db *Database) persist(s state) error {
	if err := db.kv.SetContents(kvstore.Contents{
		NextID:  s.nextID,
		Idents:  s.idents.Snapshot(),
		EAVRoot: string(s.eav.Root()),
		AEVRoot: string(s.aev.Root()),
		AVERoot: string(s.ave.Root()),
	}); err != nil {
		return err
	}
	if db.metrics != nil {
		db.metrics.IdentsTotal.Set(float64(s.idents.Len()))
		db.metrics.NextEntityID.Set(float64(s.nextID))
	}
	return nil
}

// Idents exposes the database's current ident map, for callers that need
// to resolve names to entities outside of a query (for instance, to look
// up the attribute entity for db:ident itself).
func (db *Database) Idents() ident.Map { return db.state.idents }
