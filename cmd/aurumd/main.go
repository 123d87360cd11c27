// Copyright (C) 2020-2026 Aurum Ledger Foundation.
// This file is part of go-aurum
//
// go-aurum is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// go-aurum is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with go-aurum.  If not, see <https://www.gnu.org/licenses/>.

// aurumd is the Aurum network node. The simulate subcommand runs
// stand-alone consensus rounds against an in-process ledger.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/aurumledger/go-aurum/config"
	"github.com/aurumledger/go-aurum/consensus"
	"github.com/aurumledger/go-aurum/crypto"
	"github.com/aurumledger/go-aurum/data/txset"
	"github.com/aurumledger/go-aurum/ledger"
	"github.com/aurumledger/go-aurum/logging"
	"github.com/aurumledger/go-aurum/mempool"
	"github.com/aurumledger/go-aurum/network"
	"github.com/aurumledger/go-aurum/protocol"
	"github.com/aurumledger/go-aurum/timekeeper"
	"github.com/aurumledger/go-aurum/util/execpool"
	"github.com/aurumledger/go-aurum/util/sclock"
	"github.com/aurumledger/go-aurum/validations"
	"github.com/aurumledger/go-aurum/voting"
)

var (
	numRounds int
	logLevel  uint32
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "aurumd",
		Short: "Aurum payment network node",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.HelpFunc()(cmd, args)
		},
	}

	simulateCmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run stand-alone consensus rounds",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate()
		},
	}
	simulateCmd.Flags().IntVarP(&numRounds, "rounds", "r", 3, "number of rounds to simulate")
	simulateCmd.Flags().Uint32Var(&logLevel, "loglevel", config.DefaultLocal.BaseLoggerDebugLevel, "logging level (0=panic .. 5=debug)")
	rootCmd.AddCommand(simulateCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// nullOverlay drops everything: there are no peers stand-alone.
type nullOverlay struct{}

func (nullOverlay) Broadcast(tag protocol.Tag, data []byte)               {}
func (nullOverlay) Relay(tag protocol.Tag, data []byte, id crypto.Digest) {}

// nullTxSetFetcher has nowhere to fetch from.
type nullTxSetFetcher struct{}

func (nullTxSetFetcher) FetchTxSet(id crypto.Digest) {}

// nullLedgerFetcher has nowhere to fetch from.
type nullLedgerFetcher struct{}

func (nullLedgerFetcher) Acquire(h crypto.Digest)   {}
func (nullLedgerFetcher) Find(h crypto.Digest) bool { return false }

// standaloneOps answers network-operations queries for a node with no
// network.
type standaloneOps struct {
	lm         *ledger.Master
	amendments *voting.AmendmentTable
}

func (o *standaloneOps) ConsensusViewChange() {}
func (o *standaloneOps) EndConsensus()        {}
func (o *standaloneOps) ReportFeeChange()     {}
func (o *standaloneOps) Synced() bool         { return true }

func (o *standaloneOps) AmendmentBlocked() bool {
	return o.amendments.HasUnsupported(o.lm.GetClosedLedger().Amendments)
}

func runSimulate() error {
	log := logging.Base()
	log.SetLevel(logging.Level(logLevel))

	clock := sclock.Default()
	defer clock.Stop()
	tk := timekeeper.MakeKeeper(clock)

	local := config.DefaultLocal
	local.Standalone = true
	params := config.DefaultParams

	genesis := ledger.Genesis(tk.Now())
	lm := ledger.MakeMaster(log, genesis)
	open := mempool.MakeOpenLedger(log, genesis)
	txq := mempool.MakeTxQ(log, 0)
	feeTrack := mempool.MakeFeeTrack()

	pool := execpool.MakePool(nil)
	defer pool.Shutdown()
	acceptPool := execpool.MakeBacklog(pool, local.AcceptBacklogSize, execpool.LowPriority, nil)
	defer acceptPool.Shutdown()
	advancePool := execpool.MakeBacklog(pool, local.AdvanceBacklogSize, execpool.HighPriority, nil)
	defer advancePool.Shutdown()

	amendments := voting.MakeAmendmentTable(log, nil)
	trusted := validations.MakeTrustedSet(params.TrustedQuorumFraction)
	vals := validations.MakeStore(log, trusted)
	txSets := txset.MakeStore(log, nullTxSetFetcher{}, advancePool)

	var seed crypto.Seed
	crypto.RandBytes(seed[:])
	secrets := crypto.GenerateSignatureSecrets(seed)

	cons := consensus.MakeConsensus(consensus.Parameters{
		Log:          log,
		Local:        local,
		Params:       params,
		LedgerMaster: lm,
		Inbound:      nullLedgerFetcher{},
		TxSets:       txSets,
		Validations:  vals,
		OpenLedger:   open,
		TxQ:          txq,
		FeeTrack:     feeTrack,
		Overlay:      nullOverlay{},
		Router:       network.MakeHashRouter(65536),
		FeeVote:      voting.MakeFeeVote(log, 0),
		Amendments:   amendments,
		Ops:          &standaloneOps{lm: lm, amendments: amendments},
		TimeKeeper:   tk,
		Keys:         consensus.MakeValidatorKeys(secrets),
		AcceptPool:   acceptPool,
		AdvancePool:  advancePool,
	}, consensus.MakeStandaloneEngine(log))

	for i := 0; i < numRounds; i++ {
		prev := lm.GetClosedLedger()
		cons.StartRound(time.Now(), prev.ID(), prev, nil)
		if err := cons.Simulate(time.Now(), 0); err != nil {
			return err
		}
		lcl := lm.GetClosedLedger()
		fmt.Printf("round %d: closed ledger %d %v\n", i+1, lcl.Seq, lcl.ID())
		// a lone node is its own quorum
		lm.SetValidatedLedger(lcl)
	}
	return nil
}
