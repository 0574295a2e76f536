// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"crypto/ed25519"
	"crypto/sha256"
	"io"
	"os"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/plentyfi/staker/staker"
)

// Scenario is a replayable vault history.
//
//	program: demo
//	mint: usdc
//	vault: {initializer: admin, lockEndDate: 2030-01-01T00:00:00Z}
//	accounts:
//	  - {name: alice-usdc, owner: alice, balance: 1000}
//	steps:
//	  - {op: stake, user: alice, from: alice-usdc, amount: 400}
type Scenario struct {
	Program  string     `yaml:"program"`
	Mint     string     `yaml:"mint"`
	Start    time.Time  `yaml:"start"`
	Fee      *FeeSpec   `yaml:"fee"`
	Vault    VaultSpec  `yaml:"vault"`
	Accounts []*Account `yaml:"accounts"`
	Steps    []*Step    `yaml:"steps"`

	accounts map[string]*Account
}

type FeeSpec struct {
	Receiver    string `yaml:"receiver"` // account name
	BasisPoints uint16 `yaml:"basisPoints"`
}

type VaultSpec struct {
	Initializer string    `yaml:"initializer"`
	LockEndDate time.Time `yaml:"lockEndDate"`
}

// Account is a token account opened at genesis.
type Account struct {
	Name    string `yaml:"name"`
	Owner   string `yaml:"owner"`
	Balance uint64 `yaml:"balance"`
}

// Step is one invocation, or one host action (deposit, fund).
type Step struct {
	Time    *time.Time `yaml:"time"`
	Op      string     `yaml:"op"`
	Signers []string   `yaml:"signers"` // defaults to the acting identity

	User    string     `yaml:"user"`
	Admin   string     `yaml:"admin"`
	Owner   string     `yaml:"owner"`
	From    string     `yaml:"from"`
	To      string     `yaml:"to"`
	Account string     `yaml:"account"`
	Amount  uint64     `yaml:"amount"`
	Shares  uint64     `yaml:"shares"`
	Date    *time.Time `yaml:"date"`

	Expect string `yaml:"expect"` // revert kind the step must end with
}

const (
	opDeposit = "deposit"
	opFund    = "fund"
)

// LoadScenario reads a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseScenario(f)
}

// ParseScenario decodes and validates a scenario.
func ParseScenario(r io.Reader) (*Scenario, error) {
	var sc Scenario
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&sc); err != nil {
		return nil, errors.Wrap(err, "decode scenario")
	}
	if sc.Program == "" {
		sc.Program = "staker"
	}
	if sc.Mint == "" {
		sc.Mint = "mint"
	}
	if sc.Start.IsZero() {
		sc.Start = time.Unix(0, 0).UTC()
	}
	if sc.Vault.Initializer == "" {
		return nil, errors.New("vault initializer required")
	}

	sc.accounts = make(map[string]*Account, len(sc.Accounts))
	for _, acc := range sc.Accounts {
		if acc.Name == "" || acc.Owner == "" {
			return nil, errors.New("account name and owner required")
		}
		if _, dup := sc.accounts[acc.Name]; dup {
			return nil, errors.Errorf("duplicate account %q", acc.Name)
		}
		sc.accounts[acc.Name] = acc
	}
	if sc.Fee != nil {
		if _, ok := sc.accounts[sc.Fee.Receiver]; !ok {
			return nil, errors.Errorf("fee receiver: unknown account %q", sc.Fee.Receiver)
		}
	}

	last := sc.Start
	for i, st := range sc.Steps {
		if st.Time != nil {
			if st.Time.Before(last) {
				return nil, errors.Errorf("step %d: time goes backwards", i)
			}
			last = *st.Time
		}
		for _, name := range []string{st.From, st.To, st.Account} {
			if name != "" && sc.accounts[name] == nil {
				return nil, errors.Errorf("step %d: unknown account %q", i, name)
			}
		}
	}
	return &sc, nil
}

// Config returns the program configuration of the scenario.
func (sc *Scenario) Config() staker.Config {
	cfg := staker.Config{
		Program: Identity(sc.Program).PublicKey(),
		Mint:    Identity(sc.Mint).PublicKey(),
	}
	if sc.Fee != nil {
		cfg.Fee = &staker.Fee{
			Receiver:    sc.AccountAddress(sc.Fee.Receiver),
			BasisPoints: sc.Fee.BasisPoints,
		}
	}
	return cfg
}

// AccountAddress returns the address of a named token account.
func (sc *Scenario) AccountAddress(name string) solana.PublicKey {
	return Identity("account/" + name).PublicKey()
}

// Identities returns every identity named by the scenario, sorted by first appearance.
func (sc *Scenario) Identities() []string {
	var (
		names []string
		seen  = make(map[string]bool)
		add   = func(name string) {
			if name != "" && !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	)
	add(sc.Vault.Initializer)
	for _, acc := range sc.Accounts {
		add(acc.Owner)
	}
	for _, st := range sc.Steps {
		add(st.User)
		add(st.Owner)
		add(st.Admin)
		for _, s := range st.Signers {
			add(s)
		}
	}
	return names
}

// Identity derives the key of a scenario name. Equal names give equal keys.
func Identity(name string) solana.PrivateKey {
	seed := sha256.Sum256([]byte(name))
	return solana.PrivateKey(ed25519.NewKeyFromSeed(seed[:]))
}
