package main

import "github.com/oshokin/release-forge/cmd/release-forge/cmd"

func main() {
	cmd.Execute()
}
