// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// This package defines an error type that includes remediation steps,
// improving the user experience when errors surface from CLI operations.
package issue
