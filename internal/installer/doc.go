// SPDX-License-Identifier: MPL-2.0

// Package installer downloads absent tools from their remote sources and
// installs them into the managed cache directory. Installs are safe under
// concurrent callers: each target is guarded by a cross-process file lock
// and written via an atomic rename, so readers only ever observe complete
// executables.
package installer
