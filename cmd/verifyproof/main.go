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

// The verifyproof binary checks a proof bundle written by merkleproof. The
// root comes from --root, from a root store when --root_name is set, or
// otherwise from the bundle itself. It exits with status 1 if the proof
// does not verify.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/merkleproof/merkleproof/bundle"
	"github.com/merkleproof/merkleproof/cmd"
	"github.com/merkleproof/merkleproof/cmd/internal/provider"
	"github.com/merkleproof/merkleproof/dataset"
	"github.com/merkleproof/merkleproof/monitoring"
	"github.com/merkleproof/merkleproof/rootstore"
	"k8s.io/klog/v2"
)

var (
	bundleIn     = flag.String("bundle_in", "", "Proof bundle to verify")
	bundleFormat = flag.String("bundle_format", "", "Encoding of --bundle_in: cbor or json; guessed from the file extension if empty")
	rootFlag     = flag.String("root", "", "Root to verify against, as 0x-prefixed hex or decimal")
	rootStore    = flag.String("root_store", provider.DefaultRootStore, fmt.Sprintf("Root store backend used with --root_name, one of %v. The memory store does not outlive a process, so it cannot hold a root published by another run", rootstore.Providers()))
	rootName     = flag.String("root_name", "", "Verify against the root published under this name")
	configFile   = flag.String("config", "", "Config file containing flags, file contents can be overridden by command line flags")
)

// memoryStore names the process-local root store backend.
const memoryStore = "memory"

type options struct {
	bundleIn     string
	bundleFormat string
	root         string
	rootStore    string
	rootName     string
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

	opts := options{
		bundleIn:     *bundleIn,
		bundleFormat: *bundleFormat,
		root:         *rootFlag,
		rootStore:    *rootStore,
		rootName:     *rootName,
	}
	ok, err := run(context.Background(), os.Stdout, opts, monitoring.InertMetricFactory{})
	if err != nil {
		klog.Exitf("verifyproof: %v", err)
	}
	if !ok {
		klog.Flush()
		os.Exit(1)
	}
}

// formatFor returns the bundle format called name, or the one implied by
// path's extension when name is empty.
func formatFor(name, path string) (bundle.Format, error) {
	if name != "" {
		return bundle.ParseFormat(name)
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return bundle.JSON, nil
	}
	return bundle.CBOR, nil
}

func run(ctx context.Context, w io.Writer, opts options, mf monitoring.MetricFactory) (bool, error) {
	if opts.bundleIn == "" {
		return false, fmt.Errorf("--bundle_in is required")
	}
	if opts.root != "" && opts.rootName != "" {
		return false, fmt.Errorf("--root and --root_name are mutually exclusive")
	}
	if opts.rootName != "" && opts.rootStore == memoryStore {
		return false, fmt.Errorf("--root_name needs a persistent --root_store: the %s store is empty in a new process, choose one of %v", memoryStore, rootstore.Providers())
	}
	format, err := formatFor(opts.bundleFormat, opts.bundleIn)
	if err != nil {
		return false, err
	}
	data, err := os.ReadFile(opts.bundleIn)
	if err != nil {
		return false, err
	}
	b, err := bundle.Decode(data, format)
	if err != nil {
		return false, fmt.Errorf("%s: %w", opts.bundleIn, err)
	}

	var ok bool
	var against string
	switch {
	case opts.root != "":
		root, err := dataset.ParseLeaf(opts.root)
		if err != nil {
			return false, err
		}
		ok = b.VerifyAgainst(root)
		against = dataset.FormatLeaf(root)
	case opts.rootName != "":
		s, err := rootstore.NewStorage(opts.rootStore, mf)
		if err != nil {
			return false, err
		}
		v := rootstore.NewVerifier(s, mf)
		defer v.Close()
		if ok, err = v.VerifyBundle(ctx, opts.rootName, b); err != nil {
			return false, err
		}
		against = fmt.Sprintf("%q in the %s store", opts.rootName, opts.rootStore)
	default:
		klog.Warning("No --root or --root_name given, checking the bundle against its own root only")
		ok = b.Verify()
		against = dataset.FormatLeaf(b.Root) + " (from bundle)"
	}

	verdict := "invalid"
	if ok {
		verdict = "valid"
	}
	fmt.Fprintf(w, "Proof for item %d, leaf %s, against root %s: %s\n", b.Index, dataset.FormatLeaf(b.Leaf), against, verdict)
	return ok, nil
}
