package main

import "github.com/andrescamacho/neutron-assistant-go/internal/adapters/cli"

// Version is set at build time with -ldflags "-X main.Version=..."
var Version = "dev"

func main() {
	cli.Execute(Version)
}
