// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package state manages the account records of the vault program.
// It follows the flow as bellow:
//
//	           o
//	           |
//	  [ revertable state ]
//	           |
//	    [ stacked map ] -> [ journal ] -> [ playback(staging) ] -> [ kv bulk ]
//	           |
//	   [ committed records ]
//
// Every record is an opaque byte string tagged with a Kind and addressed by a 32-byte
// account key. Nothing reaches the store until a Stage is committed.
package state
