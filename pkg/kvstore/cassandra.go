package kvstore

import (
	"encoding/json"

	"github.com/gocql/gocql"

	"github.com/BurntPizza/logos/pkg/errs"
)

// cassandraStore is the "logos:cass://<contact-point>" backend: blobs and
// the root pointer live as rows in a wide-column cluster. Cassandra's
// own last-writer-wins semantics on a single-partition INSERT line up
// exactly with what SetContents requires, so no extra coordination is
// needed beyond issuing the write.
type cassandraStore struct {
	session *gocql.Session
}

const cassandraKeyspace = "logos"

// NewCassandraStore connects to the cluster reachable at contactPoint and
// ensures the keyspace and tables this backend needs exist.
func NewCassandraStore(contactPoint string) (Store, error) {
	bootstrap := gocql.NewCluster(contactPoint)
	bootstrap.Consistency = gocql.Quorum
	bootSession, err := bootstrap.CreateSession()
	if err != nil {
		return nil, errs.StoreIO("cassandra connect", err)
	}
	err = bootSession.Query(
		`CREATE KEYSPACE IF NOT EXISTS ` + cassandraKeyspace +
			` WITH replication = {'class': 'SimpleStrategy', 'replication_factor': 1}`,
	).Exec()
	bootSession.Close()
	if err != nil {
		return nil, errs.StoreIO("cassandra keyspace", err)
	}

	cluster := gocql.NewCluster(contactPoint)
	cluster.Keyspace = cassandraKeyspace
	cluster.Consistency = gocql.Quorum
	session, err := cluster.CreateSession()
	if err != nil {
		return nil, errs.StoreIO("cassandra connect", err)
	}

	schema := []string{
		`CREATE TABLE IF NOT EXISTS blobs (key text PRIMARY KEY, value blob)`,
		`CREATE TABLE IF NOT EXISTS root (
			id       int PRIMARY KEY,
			next_id  bigint,
			idents   blob,
			eav_root text,
			aev_root text,
			ave_root text
		)`,
	}
	for _, stmt := range schema {
		if err := session.Query(stmt).Exec(); err != nil {
			session.Close()
			return nil, errs.StoreIO("cassandra schema", err)
		}
	}
	return &cassandraStore{session: session}, nil
}

func (s *cassandraStore) Add(blob []byte) (string, error) {
	key := contentKey(blob)
	if err := s.session.Query(`INSERT INTO blobs (key, value) VALUES (?, ?)`, key, blob).Exec(); err != nil {
		return "", errs.StoreIO("cassandra add", err)
	}
	return key, nil
}

func (s *cassandraStore) Get(key string) ([]byte, error) {
	var blob []byte
	if err := s.session.Query(`SELECT value FROM blobs WHERE key = ?`, key).Scan(&blob); err != nil {
		if err == gocql.ErrNotFound {
			return nil, errs.NotFound(key)
		}
		return nil, errs.StoreIO("cassandra get", err)
	}
	return blob, nil
}

func (s *cassandraStore) GetContents() (Contents, error) {
	var c Contents
	var identsBlob []byte
	err := s.session.Query(`SELECT next_id, idents, eav_root, aev_root, ave_root FROM root WHERE id = 0`).
		Scan(&c.NextID, &identsBlob, &c.EAVRoot, &c.AEVRoot, &c.AVERoot)
	if err == gocql.ErrNotFound {
		return Contents{}, nil
	}
	if err != nil {
		return Contents{}, errs.StoreIO("cassandra get_contents", err)
	}
	if len(identsBlob) > 0 {
		if err := json.Unmarshal(identsBlob, &c.Idents); err != nil {
			return Contents{}, errs.StoreIO("cassandra decode idents", err)
		}
	}
	return c, nil
}

func (s *cassandraStore) SetContents(c Contents) error {
	identsBlob, err := json.Marshal(c.Idents)
	if err != nil {
		return errs.StoreIO("cassandra encode idents", err)
	}
	err = s.session.Query(
		`INSERT INTO root (id, next_id, idents, eav_root, aev_root, ave_root) VALUES (0, ?, ?, ?, ?, ?)`,
		c.NextID, identsBlob, c.EAVRoot, c.AEVRoot, c.AVERoot,
	).Exec()
	if err != nil {
		return errs.StoreIO("cassandra set_contents", err)
	}
	return nil
}

// Close releases the underlying Cassandra session.
func (s *cassandraStore) Close() { s.session.Close() }
