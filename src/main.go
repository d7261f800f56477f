// MIT License
//
// # Copyright (c) 2024 hypercube-core
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// go/src/main.go
//
// Verification server daemon: HTTP batch verification with outcome caching
// and SPHINCS+ attestation receipts backed by LevelDB.
package main

import (
	"context"
	"flag"
	"runtime"
	"time"

	"github.com/syndtr/goleveldb/leveldb"
	"go.uber.org/zap"

	params "github.com/hypercube-core/go/src/core/attest/config"
	key "github.com/hypercube-core/go/src/core/attest/key/backend"
	sign "github.com/hypercube-core/go/src/core/attest/sign/backend"
	"github.com/hypercube-core/go/src/common"
	httpapi "github.com/hypercube-core/go/src/http"
	"github.com/hypercube-core/go/src/store"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:8545", "HTTP listen address")
	metricsAddr := flag.String("metrics-addr", "", "Separate Prometheus listen address (optional)")
	name := flag.String("name", "default", "Verifier name, scopes the data directory")
	workers := flag.Int("workers", runtime.NumCPU(), "Parallel verification workers")
	cacheTTL := flag.Uint("cache-ttl", 300, "Outcome cache TTL in seconds")
	noAttest := flag.Bool("no-attest", false, "Disable attestation receipts")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cache := store.NewOutcomeCache()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go cache.RunGC(ctx, time.Minute)

	var attester *httpapi.AttestSigner
	if !*noAttest {
		db, err := leveldb.OpenFile(common.GetLevelDBPath(*name), nil)
		if err != nil {
			logger.Fatal("failed to open receipt store", zap.Error(err))
		}
		defer db.Close()

		keyManager, err := key.NewKeyManager()
		if err != nil {
			logger.Fatal("failed to initialize attestation key manager", zap.Error(err))
		}
		sk, pk, err := keyManager.GenerateKey()
		if err != nil {
			logger.Fatal("failed to generate attestation key", zap.Error(err))
		}
		spxParams, err := params.NewSPHINCSParameters()
		if err != nil {
			logger.Fatal("failed to initialize attestation parameters", zap.Error(err))
		}
		attester = &httpapi.AttestSigner{
			Manager: sign.NewAttestManager(db, keyManager, spxParams),
			SK:      sk,
			PK:      pk,
		}
	}

	server := httpapi.NewServer(httpapi.Config{
		Address:         *addr,
		MetricsAddress:  *metricsAddr,
		Workers:         *workers,
		CacheTTLSeconds: uint16(*cacheTTL),
	}, logger, cache, attester)

	logger.Info("verification server starting",
		zap.String("address", *addr),
		zap.Int("workers", *workers))
	if err := server.Start(); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}
