//go:build mage

// Package main provides build targets for dailyhabits using Mage.
//
// Usage:
//
//	mage build            Compile the dailyhabits binary to bin/
//	mage test:all         Run all tests
//	mage test:unit        Run tests without the PostgreSQL integration suite
//	mage test:postgres    Run the PostgreSQL integration tests (needs DAILYHABITS_TEST_POSTGRES)
//	mage lint             Run go vet and golangci-lint
//	mage install          Install dailyhabits to GOPATH/bin
//	mage clean            Remove build artifacts
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binGo      = "go"
	binaryName = "dailyhabits"
	binaryDir  = "bin"
	cmdDir     = "./cmd/dailyhabits"
)

var Default = Build

// Build compiles the dailyhabits binary to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	return sh.RunV(binGo, "build", "-v", "-o", filepath.Join(binaryDir, binaryName), cmdDir)
}

// Install builds and copies the binary to GOPATH/bin.
func Install() error {
	mg.Deps(Build)
	gopath, err := sh.Output(binGo, "env", "GOPATH")
	if err != nil {
		return err
	}
	return sh.Copy(filepath.Join(gopath, "bin", binaryName), filepath.Join(binaryDir, binaryName))
}

// Clean removes build artifacts.
func Clean() error {
	return os.RemoveAll(binaryDir)
}

// Lint runs go vet and, when installed, golangci-lint.
func Lint() error {
	if err := sh.RunV(binGo, "vet", "./..."); err != nil {
		return err
	}
	if _, err := sh.Output("golangci-lint", "version"); err != nil {
		fmt.Println("golangci-lint not found, skipping")
		return nil
	}
	return sh.RunV("golangci-lint", "run", "./...")
}

// Test groups test targets.
type Test mg.Namespace

// All runs every test with the race detector.
func (Test) All() error {
	return sh.RunV(binGo, "test", "-race", "./...")
}

// Unit runs tests with the PostgreSQL suite forced to skip.
func (Test) Unit() error {
	env := map[string]string{"DAILYHABITS_TEST_POSTGRES": ""}
	return sh.RunWithV(env, binGo, "test", "./...")
}

// Postgres runs the PostgreSQL store tests against DAILYHABITS_TEST_POSTGRES.
func (Test) Postgres() error {
	if os.Getenv("DAILYHABITS_TEST_POSTGRES") == "" {
		return fmt.Errorf("DAILYHABITS_TEST_POSTGRES is not set")
	}
	return sh.RunV(binGo, "test", "-v", "./internal/storage/postgres/...")
}
