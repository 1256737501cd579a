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

package mysql

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestMySQLToGRPC(t *testing.T) {
	plain := errors.New("connection reset")
	for _, tc := range []struct {
		desc string
		err  error
		want codes.Code
		same bool
	}{
		{desc: "deadlock", err: &mysql.MySQLError{Number: errNumDeadlock, Message: "Deadlock found"}, want: codes.Aborted},
		{desc: "lock-wait", err: &mysql.MySQLError{Number: errNumLockWaitTimeout}, want: codes.Aborted},
		{desc: "wrapped-deadlock", err: fmt.Errorf("commit: %w", &mysql.MySQLError{Number: errNumDeadlock}), want: codes.Aborted},
		{desc: "too-long", err: &mysql.MySQLError{Number: errNumDataTooLong}, want: codes.InvalidArgument},
		{desc: "duplicate", err: &mysql.MySQLError{Number: 1062}, want: codes.Unknown, same: true},
		{desc: "not-mysql", err: plain, want: codes.Unknown, same: true},
	} {
		t.Run(tc.desc, func(t *testing.T) {
			got := mysqlToGRPC(tc.err)
			if code := status.Code(got); code != tc.want {
				t.Errorf("mysqlToGRPC(%v): got code %v, want %v", tc.err, code, tc.want)
			}
			if tc.same && got != tc.err {
				t.Errorf("mysqlToGRPC(%v): got %v, want the error unchanged", tc.err, got)
			}
		})
	}
}
