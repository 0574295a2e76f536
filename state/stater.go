// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/plentyfi/staker/kv"
)

// Stater is the state creator.
type Stater struct {
	store kv.Store
}

// NewStater create a new stater over the record bucket of db.
func NewStater(db kv.Store) *Stater {
	return &Stater{RecordBucket.NewStore(db)}
}

// NewState create a new state object over the committed records.
func (s *Stater) NewState() *State {
	return New(s.store)
}
