package inmemory

import (
	"log/slog"
	"sync"

	"github.com/watchparty/server/internal/repository/connection"
	"github.com/watchparty/server/pkg/wsconn"
)

// repo binds live sockets to member ids. It never closes a connection;
// the session owning the socket does that.
type repo struct {
	logger   *slog.Logger
	connList map[*wsconn.Conn]string
	idList   map[string]*wsconn.Conn
	mu       sync.RWMutex
}

func NewRepo(logger *slog.Logger) *repo {
	return &repo{
		logger:   logger,
		connList: make(map[*wsconn.Conn]string),
		idList:   make(map[string]*wsconn.Conn),
	}
}

func (r *repo) Add(conn *wsconn.Conn, memberId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.connList[conn] != "" || r.idList[memberId] != nil {
		return connection.ErrAlreadyExists
	}

	r.connList[conn] = memberId
	r.idList[memberId] = conn

	r.logger.Debug("connection added", "member_id", memberId)
	return nil
}

func (r *repo) RemoveByConn(conn *wsconn.Conn) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	memberId, ok := r.connList[conn]
	if !ok {
		return "", connection.ErrNotFound
	}

	delete(r.connList, conn)
	delete(r.idList, memberId)

	r.logger.Debug("connection removed", "member_id", memberId)
	return memberId, nil
}

func (r *repo) GetConn(memberId string) (*wsconn.Conn, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conn, ok := r.idList[memberId]
	if !ok {
		return nil, connection.ErrNotFound
	}

	return conn, nil
}
