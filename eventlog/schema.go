// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventlog

const eventTableSchema = `
create table if not exists event (
	seq integer primary key autoincrement,
	receipt text not null,
	op text not null,
	time integer not null,
	idx integer not null,
	kind text not null,
	payload blob not null
);

create index if not exists eventReceiptIndex on event(receipt);
create index if not exists eventKindIndex on event(kind);
create index if not exists eventOpIndex on event(op);
`

const insertEvent = "INSERT INTO event(receipt, op, time, idx, kind, payload) VALUES(?, ?, ?, ?, ?, ?)"
