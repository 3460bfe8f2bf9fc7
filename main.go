// Copyright 2025 The HospitalFinder Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/jcodagnone/hospitalfinder/cmd"
)

var Version = "development"

func main() {
	cmd.Execute(Version)
}
