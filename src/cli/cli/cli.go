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

// go/src/cli/cli/cli.go
package cli

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/hypercube-core/go/src/common"
	"github.com/hypercube-core/go/src/core/verify"
	"github.com/hypercube-core/go/src/core/xmss"
	"github.com/hypercube-core/go/src/core/xmss/config"
	httpapi "github.com/hypercube-core/go/src/http"
	logger "github.com/hypercube-core/go/src/log"
)

// Execute dispatches the CLI subcommands: keygen, sign, verify, submit.
func Execute() error {
	if len(os.Args) < 2 {
		return fmt.Errorf("usage: %s <keygen|sign|verify|submit> [flags]", filepath.Base(os.Args[0]))
	}

	switch os.Args[1] {
	case "keygen":
		return runKeygen(os.Args[2:])
	case "sign":
		return runSign(os.Args[2:])
	case "verify":
		return runVerify(os.Args[2:])
	case "submit":
		return runSubmit(os.Args[2:])
	default:
		return fmt.Errorf("unknown command %q", os.Args[1])
	}
}

// runKeygen generates a key pair for an epoch window and writes both halves
// to disk.
func runKeygen(args []string) error {
	fs := flag.NewFlagSet("keygen", flag.ExitOnError)
	setName := fs.String("set", "SHA256-H18-W4", "Parameter set name")
	seedHex := fs.String("seed", "", "Hex key generation seed (required)")
	activation := fs.Uint("activation", 0, "First active epoch")
	epochs := fs.Uint("epochs", 1, "Number of active epochs")
	outDir := fs.String("out", common.GetKeyDir("default"), "Output directory")
	if err := fs.Parse(args); err != nil {
		return err
	}

	set, err := config.ByName(*setName)
	if err != nil {
		return err
	}
	if *seedHex == "" {
		return fmt.Errorf("keygen requires -seed")
	}
	seed, err := hex.DecodeString(*seedHex)
	if err != nil {
		return fmt.Errorf("seed is not valid hex: %w", err)
	}

	pk, sk, err := xmss.KeyGen(set, seed, uint32(*activation), uint32(*epochs))
	if err != nil {
		return err
	}

	pkBytes := pk.Serialize()
	pkPath := filepath.Join(*outDir, "pk.json")
	skPath := filepath.Join(*outDir, "sk.json")
	if err := writeKeyFile(pkPath, *setName, pkBytes, false); err != nil {
		return err
	}
	if err := writeKeyFile(skPath, *setName, sk.Serialize(), true); err != nil {
		return err
	}

	window := sk.Window()
	logger.Infof("Generated %s key pair, key id %s, epochs [%d, %d)",
		*setName, common.KeyID(pkBytes),
		window.ActivationEpoch, window.ActivationEpoch+window.NumActiveEpochs)
	logger.Infof("Public key written to %s, secret key to %s", pkPath, skPath)
	return nil
}

// runSign signs a message file at a given epoch.
func runSign(args []string) error {
	fs := flag.NewFlagSet("sign", flag.ExitOnError)
	skPath := fs.String("sk", "", "Secret key file (required)")
	epoch := fs.Uint("epoch", 0, "Signing epoch")
	msgPath := fs.String("msg", "", "Message file (required)")
	outPath := fs.String("out", "signature.json", "Output signature file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *skPath == "" || *msgPath == "" {
		return fmt.Errorf("sign requires -sk and -msg")
	}

	sk, set, err := loadSecretKey(*skPath)
	if err != nil {
		return err
	}
	message, err := os.ReadFile(*msgPath)
	if err != nil {
		return err
	}

	sig, err := xmss.Sign(sk, uint32(*epoch), message)
	if err != nil {
		return err
	}
	if err := writeSignatureFile(*outPath, set.Metadata().Name, sig); err != nil {
		return err
	}
	logger.Infof("Signed %s at epoch %d, signature written to %s", *msgPath, *epoch, *outPath)
	return nil
}

// runVerify verifies a batch of signature files against public key files and
// prints the public outcome.
func runVerify(args []string) error {
	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	setName := fs.String("set", "SHA256-H18-W4", "Parameter set name")
	epoch := fs.Uint64("epoch", 0, "Verification epoch")
	msgPath := fs.String("msg", "", "Message file (required)")
	sigList := fs.String("sigs", "", "Comma-separated signature files (required)")
	pkList := fs.String("pks", "", "Comma-separated public key files (required)")
	workers := fs.Int("workers", runtime.NumCPU(), "Parallel verification workers")
	jsonOut := fs.String("json", "", "Optional output JSON filename under data/output")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *msgPath == "" || *sigList == "" || *pkList == "" {
		return fmt.Errorf("verify requires -msg, -sigs and -pks")
	}

	set, err := config.ByName(*setName)
	if err != nil {
		return err
	}
	message, err := os.ReadFile(*msgPath)
	if err != nil {
		return err
	}

	batch, err := buildBatch(set, *epoch, message, strings.Split(*sigList, ","), strings.Split(*pkList, ","))
	if err != nil {
		return err
	}

	outcome, err := verify.VerifyBatchParallel(context.Background(), batch, *workers)
	if err != nil {
		return err
	}

	result := OutcomeJSON{
		AllValid:      outcome.AllValid,
		VerifiedCount: outcome.VerifiedCount,
		Commitment:    common.Bytes2Hex(outcome.Commitment[:]),
		PublicWords:   outcome.PublicWords(),
	}
	logger.Infof("Batch of %d: all_valid=%v verified=%d commitment=%s",
		batch.Statement.K, result.AllValid, result.VerifiedCount, result.Commitment)

	if *jsonOut != "" {
		if err := common.WriteJSONToFile(result, *jsonOut); err != nil {
			return err
		}
		logger.Infof("Outcome written to data/output/%s", *jsonOut)
	}
	return nil
}

// runSubmit sends a batch to a running verification server.
func runSubmit(args []string) error {
	fs := flag.NewFlagSet("submit", flag.ExitOnError)
	addr := fs.String("addr", "127.0.0.1:8545", "Verification server address")
	setName := fs.String("set", "SHA256-H18-W4", "Parameter set name")
	epoch := fs.Uint64("epoch", 0, "Verification epoch")
	msgPath := fs.String("msg", "", "Message file (required)")
	sigList := fs.String("sigs", "", "Comma-separated signature files (required)")
	pkList := fs.String("pks", "", "Comma-separated public key files (required)")
	attest := fs.Bool("attest", false, "Request a signed receipt for the outcome")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *msgPath == "" || *sigList == "" || *pkList == "" {
		return fmt.Errorf("submit requires -msg, -sigs and -pks")
	}

	set, err := config.ByName(*setName)
	if err != nil {
		return err
	}
	message, err := os.ReadFile(*msgPath)
	if err != nil {
		return err
	}

	batch, err := buildBatch(set, *epoch, message, strings.Split(*sigList, ","), strings.Split(*pkList, ","))
	if err != nil {
		return err
	}

	resp, err := httpapi.SubmitBatch(*addr, batch, *attest)
	if err != nil {
		return err
	}
	logger.Infof("Server outcome: all_valid=%v verified=%d commitment=%s cached=%v",
		resp.AllValid, resp.VerifiedCount, resp.Commitment, resp.Cached)
	return nil
}
