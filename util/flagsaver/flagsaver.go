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

// Package flagsaver snapshots flag values so tests of the command line
// binaries can change flags freely.
//
//	func TestFoo(t *testing.T) {
//		defer flagsaver.Save().MustRestore()
//		// Test code that changes flags.
//	}
package flagsaver

import (
	"flag"
	"strings"

	"k8s.io/klog/v2"
)

// Stash holds the flag values of one FlagSet.
type Stash struct {
	fs    *flag.FlagSet
	flags map[string]string
}

// Save captures the current values of the flags in flag.CommandLine.
func Save() *Stash {
	return SaveSet(flag.CommandLine)
}

// SaveSet captures the current values of the flags in fs. Flags belonging to
// the test runner are skipped, as is log_backtrace_at which cannot be set
// back to its empty default.
func SaveSet(fs *flag.FlagSet) *Stash {
	s := &Stash{fs: fs, flags: make(map[string]string)}
	fs.VisitAll(func(f *flag.Flag) {
		if strings.HasPrefix(f.Name, "test.") || f.Name == "log_backtrace_at" {
			return
		}
		s.flags[f.Name] = f.Value.String()
	})
	return s
}

// Restore sets every saved flag back to its saved value.
func (s *Stash) Restore() error {
	for name, value := range s.flags {
		if err := s.fs.Set(name, value); err != nil {
			return err
		}
	}
	return nil
}

// MustRestore calls Restore and exits on failure, since flags left in an
// arbitrary state would poison later tests.
func (s *Stash) MustRestore() {
	if err := s.Restore(); err != nil {
		klog.Exitf("MustRestore(): failed to restore flags: %v", err)
	}
}
