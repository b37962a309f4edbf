// SPDX-License-Identifier: MPL-2.0

// Command ensureconda prints the path of a working conda-compatible
// executable, installing one when nothing suitable is already present.
package main

func main() {
	Execute()
}
