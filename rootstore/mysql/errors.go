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

	"github.com/go-sql-driver/mysql"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	// ER_LOCK_WAIT_TIMEOUT: a row lock could not be taken in time.
	errNumLockWaitTimeout = 1205
	// ER_LOCK_DEADLOCK: the transaction was chosen as a deadlock victim.
	errNumDeadlock = 1213
	// ER_DATA_TOO_LONG: a value did not fit its column.
	errNumDataTooLong = 1406
)

// mysqlToGRPC converts the MySQL errors a caller can act on into gRPC status
// errors. Anything else is returned unchanged.
func mysqlToGRPC(err error) error {
	var mysqlErr *mysql.MySQLError
	if !errors.As(err, &mysqlErr) {
		return err
	}
	switch mysqlErr.Number {
	case errNumDeadlock, errNumLockWaitTimeout:
		return status.Errorf(codes.Aborted, "MySQL: %v", mysqlErr)
	case errNumDataTooLong:
		return status.Errorf(codes.InvalidArgument, "MySQL: %v", mysqlErr)
	}
	return err
}
