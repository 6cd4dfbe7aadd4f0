// Package main is armplan, a command line front end to the six axis arm kinematics and trajectory planner.
package main

import (
	"log"
	"os"
)

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
