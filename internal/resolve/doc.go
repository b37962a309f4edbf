// SPDX-License-Identifier: MPL-2.0

// Package resolve discovers conda-compatible executables across their
// possible locations and orchestrates resolution over the fixed tool
// priority order, installing absent tools when permitted.
package resolve
