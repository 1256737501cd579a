// Copyright 2017 Google LLC. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// The merkleproof binary builds the Merkle tree over a dataset, prints its
// root and the inclusion proof of one item, and checks that proof against
// the item and against a different item. It can also write the proof as a
// bundle, print the proof of every item and publish the root to a root
// store.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/holiman/uint256"
	"github.com/merkleproof/merkleproof/bundle"
	"github.com/merkleproof/merkleproof/cmd"
	"github.com/merkleproof/merkleproof/cmd/internal/provider"
	"github.com/merkleproof/merkleproof/cmd/internal/serverutil"
	"github.com/merkleproof/merkleproof/dataset"
	"github.com/merkleproof/merkleproof/merkle"
	"github.com/merkleproof/merkleproof/monitoring"
	"github.com/merkleproof/merkleproof/monitoring/prometheus"
	"github.com/merkleproof/merkleproof/prover"
	"github.com/merkleproof/merkleproof/rootstore"
	"github.com/merkleproof/merkleproof/util"
	"k8s.io/klog/v2"
)

var (
	leavesFile      = flag.String("leaves_file", "", "YAML dataset file; the built-in nine item sample is used if empty")
	index           = flag.Int("index", 5, "Index of the item to prove")
	bundleOut       = flag.String("bundle_out", "", "If set, write the proof of --index as a bundle to this file")
	bundleFormat    = flag.String("bundle_format", string(bundle.CBOR), "Encoding of --bundle_out: cbor or json")
	allProofs       = flag.Bool("all_proofs", false, "Also print the proof of every item")
	concurrency     = flag.Int("concurrency", 8, "Maximum number of proofs built at once by --all_proofs")
	rootStore       = flag.String("root_store", provider.DefaultRootStore, fmt.Sprintf("Root store backend, one of %v", rootstore.Providers()))
	rootName        = flag.String("root_name", "", "If set, publish the root under this name and verify the proof against it")
	metricsEndpoint = flag.String("metrics_endpoint", "", "If set, serve /metrics and /healthz here after the run until interrupted")
	configFile      = flag.String("config", "", "Config file containing flags, file contents can be overridden by command line flags")
)

// options carries the flag values into run.
type options struct {
	leavesFile   string
	index        int
	bundleOut    string
	bundleFormat string
	allProofs    bool
	concurrency  int
	rootStore    string
	rootName     string
}

func optionsFromFlags() options {
	return options{
		leavesFile:   *leavesFile,
		index:        *index,
		bundleOut:    *bundleOut,
		bundleFormat: *bundleFormat,
		allProofs:    *allProofs,
		concurrency:  *concurrency,
		rootStore:    *rootStore,
		rootName:     *rootName,
	}
}

func main() {
	klog.InitFlags(nil)
	flag.Parse()
	defer klog.Flush()

	if *configFile != "" {
		if err := cmd.ParseFlagFile(*configFile); err != nil {
			klog.Exitf("Failed to load flags from config file %q: %s", *configFile, err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go util.AwaitSignal(ctx, cancel)

	mf := prometheus.MetricFactory{}
	if err := run(ctx, os.Stdout, optionsFromFlags(), mf); err != nil {
		klog.Exitf("merkleproof: %v", err)
	}

	if *metricsEndpoint != "" {
		m := &serverutil.Main{HTTPEndpoint: *metricsEndpoint}
		if err := m.Run(ctx); err != nil {
			klog.Exitf("Metrics server: %v", err)
		}
	}
}

func loadLeaves(path string) ([]uint256.Int, error) {
	if path == "" {
		return dataset.Sample(), nil
	}
	return dataset.Load(path)
}

func formatProof(proof []uint256.Int) string {
	return strings.Join(dataset.FormatLeaves(proof), ",")
}

func run(ctx context.Context, w io.Writer, opts options, mf monitoring.MetricFactory) error {
	format, err := bundle.ParseFormat(opts.bundleFormat)
	if err != nil {
		return err
	}
	leaves, err := loadLeaves(opts.leavesFile)
	if err != nil {
		return err
	}
	p, err := prover.New(leaves, mf)
	if err != nil {
		return err
	}
	klog.V(1).Infof("Built tree over %d leaves", p.Size())

	root := p.Root()
	fmt.Fprintf(w, "Merkle Root: %s\n", dataset.FormatLeaf(root))

	proof, err := p.Proof(opts.index)
	if err != nil {
		return err
	}
	leaf, _ := p.Leaf(opts.index)
	fmt.Fprintf(w, "Merkle proof for item %d: %s\n", opts.index, formatProof(proof))
	fmt.Fprintf(w, "Should be true (good proof): %v\n", merkle.VerifyInclusion(root, leaf, proof))

	// The wrong item is taken from the same neighbourhood, two positions
	// over, and only exists when the dataset is large enough.
	if bad, err := p.Leaf(opts.index ^ 2); err == nil {
		fmt.Fprintf(w, "Should be false (bad proof): %v\n", merkle.VerifyInclusion(root, bad, proof))
	} else {
		klog.Warningf("No item %d to build a bad proof from: %v", opts.index^2, err)
	}

	if opts.bundleOut != "" {
		if err := writeBundle(p, opts.index, format, opts.bundleOut); err != nil {
			return err
		}
	}

	if opts.allProofs {
		proofs, err := p.AllProofs(ctx, opts.concurrency)
		if err != nil {
			return err
		}
		for i, proof := range proofs {
			fmt.Fprintf(w, "Merkle proof for item %d: %s\n", i, formatProof(proof))
		}
	}

	if opts.rootName != "" {
		if err := publish(ctx, w, opts, mf, root, leaf, proof); err != nil {
			return err
		}
	}
	return nil
}

func writeBundle(p *prover.Prover, index int, format bundle.Format, path string) error {
	b, err := p.Bundle(index)
	if err != nil {
		return err
	}
	data, err := bundle.Encode(b, format)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	klog.Infof("Wrote %s bundle for item %d to %s", format, index, path)
	return nil
}

func publish(ctx context.Context, w io.Writer, opts options, mf monitoring.MetricFactory, root, leaf uint256.Int, proof []uint256.Int) error {
	s, err := rootstore.NewStorage(opts.rootStore, mf)
	if err != nil {
		return err
	}
	v := rootstore.NewVerifier(s, mf)
	defer func() {
		if err := v.Close(); err != nil {
			klog.Warningf("Closing root store %s: %v", opts.rootStore, err)
		}
	}()

	if err := v.SetRoot(ctx, opts.rootName, root); err != nil {
		return err
	}
	ok, err := v.VerifyProof(ctx, opts.rootName, leaf, proof)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Published root %q to %s store, proof for item %d verifies: %v\n", opts.rootName, opts.rootStore, opts.index, ok)
	return nil
}
