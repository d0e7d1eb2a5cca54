package main

import (
	"github.com/quicktrack/fleetcontrol-service-go/cmd"
)

func main() {
	cmd.Execute()
}
