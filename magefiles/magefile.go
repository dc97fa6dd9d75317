//go:build mage

// Package main provides build targets for surveyloom using Mage.
//
// Usage:
//
//	mage build      Compile the surveyloom binary to bin/
//	mage test       Run all tests
//	mage lint       Run golangci-lint
//	mage fixtures   Write synthetic ANES extracts to data/raw for trying the CLI
//	mage clean      Remove build artifacts
//	mage install    Install surveyloom to GOPATH/bin
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"

	"github.com/KaramelBytes/surveyloom/internal/anes/anestest"
)

const (
	binaryName = "surveyloom"
	binaryDir  = "bin"
	rawDir     = "data/raw"
)

// Build compiles the surveyloom binary to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	return sh.RunV("go", "build", "-v", "-o", filepath.Join(binaryDir, binaryName), ".")
}

// Test runs all tests.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Lint runs golangci-lint.
func Lint() error {
	return sh.RunV("golangci-lint", "run", "./...")
}

// Fixtures writes the synthetic 2024 and cumulative extracts under data/raw,
// the default paths in config.
func Fixtures() error {
	if err := os.MkdirAll(rawDir, 0o755); err != nil {
		return err
	}
	y2024, cdf, err := anestest.WriteExtracts(rawDir)
	if err != nil {
		return err
	}
	fmt.Println("wrote", y2024)
	fmt.Println("wrote", cdf)
	return nil
}

// Smoke builds the binary and runs build against the fixtures.
func Smoke() error {
	mg.Deps(Build, Fixtures)
	return sh.RunV(filepath.Join(binaryDir, binaryName), "build", "--format", "csv", "-o", filepath.Join("data", "processed"))
}

// Clean removes build artifacts.
func Clean() error {
	return os.RemoveAll(binaryDir)
}

// Install installs surveyloom to GOPATH/bin.
func Install() error {
	return sh.RunV("go", "install", ".")
}
