// Command profilecheck runs the sounding QC checks over a JSON fixture of
// profiles without Kafka, and validates fixture structure.
//
// Usage:
//
//	go run ./cmd/profilecheck run --input data/mock/soundings_240426.json
//	go run ./cmd/profilecheck run --input soundings.json --config qc.yaml --output reports.json
//	go run ./cmd/profilecheck validate --input data/mock/soundings_240426.json
package main

import (
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
