//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Preprocess builds the CLI and preprocesses every Oracle document with goal mappings.
func Preprocess() error {
	mg.Deps(Build)
	return sh.RunV(binPath(), "preprocess", "--all", "--with-mapping", "--metrics-file", "metrics/oracle-engine.prom")
}

// Index ingests the preprocessed results into the SQLite registry store.
func Index() error {
	mg.Deps(Preprocess)
	return sh.RunV(binPath(), "store", "ingest")
}
