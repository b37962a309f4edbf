// SPDX-License-Identifier: MPL-2.0

// Package platform maps the running OS and architecture onto the
// canonical conda platform tags used for both executable search and
// download URLs.
package platform
