package main

import "github.com/racelogtools/telemetry-pivot-go/cmd"

func main() {
	cmd.Execute()
}
