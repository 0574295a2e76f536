// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package eventlog journals the committed events of the vault in sqlite.
package eventlog

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/plentyfi/staker/events"
)

// Order is the sort order of a filter.
type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

// Entry is a journaled event.
type Entry struct {
	Seq     int64
	Receipt string
	Op      string
	Time    time.Time
	Index   int // position of the event within its receipt
	Kind    string
	Payload json.RawMessage
}

// Event decodes the payload of the entry.
func (e *Entry) Event() (events.Event, error) {
	var ev events.Event
	switch e.Kind {
	case events.PriceChange{}.Kind():
		ev = &events.PriceChange{}
	case events.Price{}.Kind():
		ev = &events.Price{}
	case events.Reward{}.Kind():
		ev = &events.Reward{}
	case events.FeeCharged{}.Kind():
		ev = &events.FeeCharged{}
	default:
		return nil, errors.Errorf("unknown event kind %q", e.Kind)
	}
	if err := json.Unmarshal(e.Payload, ev); err != nil {
		return nil, errors.Wrapf(err, "decode %s", e.Kind)
	}
	// hand out values, the way emitters see them
	switch ev := ev.(type) {
	case *events.PriceChange:
		return *ev, nil
	case *events.Price:
		return *ev, nil
	case *events.Reward:
		return *ev, nil
	case *events.FeeCharged:
		return *ev, nil
	}
	return ev, nil
}

// Filter selects entries. Zero fields match everything.
type Filter struct {
	Receipt string
	Op      string
	Kind    string
	Order   Order
	Limit   uint64
}

type EventLog struct {
	path          string
	db            *sql.DB
	stmtCache     *stmtCache
	driverVersion string
}

// New create or open event log at given path.
func New(path string) (eventLog *EventLog, err error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(err, "open event log")
	}
	defer func() {
		if eventLog == nil {
			db.Close()
		}
	}()
	// a single connection keeps in-memory databases alive and serializes writers
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(eventTableSchema); err != nil {
		return nil, errors.Wrap(err, "create event table")
	}

	driverVer, _, _ := sqlite3.Version()
	return &EventLog{
		path:          path,
		db:            db,
		stmtCache:     newStmtCache(db),
		driverVersion: driverVer,
	}, nil
}

// NewMem create an event log in ram.
func NewMem() (*EventLog, error) {
	return New(":memory:")
}

// Close close the event log.
func (l *EventLog) Close() error {
	l.stmtCache.Close()
	return l.db.Close()
}

func (l *EventLog) Path() string {
	return l.path
}

// DriverVersion returns the version of the sqlite library.
func (l *EventLog) DriverVersion() string {
	return l.driverVersion
}

// Append journals the events of one receipt atomically.
func (l *EventLog) Append(ctx context.Context, receipt, op string, at time.Time, evs []events.Event) error {
	if len(evs) == 0 {
		return nil
	}
	stmt, err := l.stmtCache.Prepare(insertEvent)
	if err != nil {
		return errors.Wrap(err, "prepare insert")
	}
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin")
	}
	defer func() { _ = tx.Rollback() }()

	insert := tx.StmtContext(ctx, stmt)
	for i, ev := range evs {
		payload, err := json.Marshal(ev)
		if err != nil {
			return errors.Wrapf(err, "encode %s", ev.Kind())
		}
		if _, err := insert.ExecContext(ctx, receipt, op, at.Unix(), i, ev.Kind(), payload); err != nil {
			return errors.Wrap(err, "insert event")
		}
	}
	return errors.Wrap(tx.Commit(), "commit events")
}

// Filter queries journaled entries.
func (l *EventLog) Filter(ctx context.Context, filter *Filter) ([]*Entry, error) {
	if filter == nil {
		filter = &Filter{}
	}
	var args []any
	stmt := "SELECT seq, receipt, op, time, idx, kind, payload FROM event WHERE 1"
	if filter.Receipt != "" {
		stmt += " AND receipt = ?"
		args = append(args, filter.Receipt)
	}
	if filter.Op != "" {
		stmt += " AND op = ?"
		args = append(args, filter.Op)
	}
	if filter.Kind != "" {
		stmt += " AND kind = ?"
		args = append(args, filter.Kind)
	}
	if filter.Order == DESC {
		stmt += " ORDER BY seq DESC"
	} else {
		stmt += " ORDER BY seq ASC"
	}
	if filter.Limit > 0 {
		stmt += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := l.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query events")
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		var (
			e       Entry
			unix    int64
			payload []byte
		)
		if err := rows.Scan(&e.Seq, &e.Receipt, &e.Op, &unix, &e.Index, &e.Kind, &payload); err != nil {
			return nil, errors.Wrap(err, "scan event")
		}
		e.Time = time.Unix(unix, 0).UTC()
		e.Payload = payload
		entries = append(entries, &e)
	}
	return entries, errors.Wrap(rows.Err(), "iterate events")
}
