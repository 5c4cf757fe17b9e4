//go:build mage
// +build mage

package main

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/magefile/mage/mg"
)

// Default target to run when none is specified
// If not set, running mage will list available targets
var Default = Build

var executables = []string{"evtdisp", "pedestals", "firfilter"}

// Build all the executables into ./bin
func Build() error {
	mg.Deps(BuildEventDisplay, BuildPedestals, BuildFilter)
	fmt.Println("Compilation finished")
	return nil
}

func BuildEventDisplay() error {
	return goBuild("evtdisp")
}

// The HDF5 writer needs cgo and the HDF5 C library
func BuildPedestals() error {
	return goBuild("pedestals")
}

func BuildFilter() error {
	return goBuild("firfilter")
}

// Test runs the unit tests of every package
func Test() error {
	cmd := exec.Command("go", "test", "./...")
	cmd.Env = cgoEnv()
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// Clean removes the built executables
func Clean() error {
	for _, name := range executables {
		if err := os.RemoveAll("./bin/" + name); err != nil {
			return err
		}
	}
	return nil
}

func goBuild(name string) error {
	fmt.Printf("Building %s executable...\n", name)
	cmd := exec.Command("go", "build", "-o", "./bin/"+name, "./"+name)
	cmd.Env = cgoEnv()
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func cgoEnv() []string {
	ldflags := os.Getenv("CGO_LDFLAGS")
	cflags := os.Getenv("CGO_CFLAGS")
	return append(os.Environ(),
		"CGO_ENABLED=1",
		fmt.Sprintf("CGO_LDFLAGS=%s", ldflags),
		fmt.Sprintf("CGO_CFLAGS=%s", cflags))
}
