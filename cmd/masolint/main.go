// Masolint validates MASO workload documents.
//
// A MASO document describes a set of processes for a scheduling simulator.
// Masolint checks the document structure, dispatches on processes.mode and
// validates every element, reporting diagnostics anchored to the text.
//
// Usage:
//
//	# Validate files
//	masolint validate workloads/batch.maso workloads/io.maso
//
//	# Validate every document under a directory, as JSON
//	masolint validate --dir workloads --format json
//
//	# Validate the documents of a Git repository
//	masolint validate --repo https://github.com/company/workloads.git
//
//	# Revalidate on every change
//	masolint watch workloads
//
//	# Start the HTTP API
//	masolint serve --config masolint.yaml
//
// Exit status is 0 when every document is valid, 1 when a document has
// errors (or warnings, with --strict) and 2 for any other failure.
package main

import "os"

func main() {
	os.Exit(Execute())
}
