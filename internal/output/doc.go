// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package output filters, sorts and renders report rows as a text table,
// JSON, YAML or the raw document.
package output
