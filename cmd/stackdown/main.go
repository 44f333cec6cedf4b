package main

import (
	"github.com/stackdown/stackdown/internal/cli"
	"github.com/stackdown/stackdown/internal/metrics"
)

func main() {
	metrics.EmitBuildInfo()
	cli.Execute()
}
