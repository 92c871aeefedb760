// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import "errors"

var (
	errNoServerAddress = errors.New("no HTTP server address configured")
)
