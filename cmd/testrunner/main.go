package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/lawnchairsociety/questkeeper/test"
)

func main() {
	serverAddr := flag.String("addr", "ws://localhost:4443/ws", "Quest server websocket URL")
	verbose := flag.Bool("v", false, "Verbose output - show detailed actions for each test")
	flag.Parse()

	test.Verbose = *verbose

	fmt.Printf("Running integration tests against %s\n", *serverAddr)
	fmt.Println("Make sure questd is running with the shipped data and allows this origin!")
	if *verbose {
		fmt.Println("Verbose mode enabled - showing detailed test actions")
	}
	fmt.Println()

	results := test.RunAllTests(*serverAddr)
	test.PrintResults(results)

	for _, result := range results {
		if !result.Passed {
			os.Exit(1)
		}
	}
}
