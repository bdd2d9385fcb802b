// Package test holds end-to-end quest scenarios run against a live server
// by cmd/testrunner and by this package's go test.
package test

import (
	"fmt"
	"time"

	"github.com/lawnchairsociety/questkeeper/internal/testclient"
)

// Verbose controls whether detailed logging is shown during tests
var Verbose = false

// wait is how long a scenario waits for any single response
const wait = 2 * time.Second

// TestResult represents the result of a test
type TestResult struct {
	Name    string
	Passed  bool
	Message string
}

func logAction(testName, action string) {
	if Verbose {
		fmt.Printf("  [%s] %s\n", testName, action)
	}
}

func fail(testName string, client *testclient.TestClient, format string, args ...any) TestResult {
	msg := fmt.Sprintf(format, args...)
	if Verbose && client != nil {
		client.PrintMessages()
	}
	return TestResult{Name: testName, Passed: false, Message: msg}
}

// step sends cmd and fails the scenario unless a message containing want arrives
func step(testName string, client *testclient.TestClient, cmd, want string) (string, bool) {
	logAction(testName, fmt.Sprintf("%s -> expect %q", cmd, want))
	return client.Do(cmd, want, wait)
}

// RunAllTests runs all integration scenarios against the server at url
func RunAllTests(url string) []TestResult {
	scenarios := []func(string) TestResult{
		TestConnection,
		TestEmptyJournal,
		TestAvailableQuests,
		TestRatCatcher,
		TestSkeletonSlayerRepeat,
		TestNonRepeatableRejected,
		TestSharedTargetProgress,
		TestSessionIsolation,
	}

	results := make([]TestResult, 0, len(scenarios))
	for _, scenario := range scenarios {
		results = append(results, scenario(url))
	}
	return results
}

// PrintResults prints a summary of test results
func PrintResults(results []TestResult) {
	passed := 0
	failed := 0

	fmt.Println("============================================================")
	fmt.Println("Integration Test Results")
	fmt.Println("============================================================")
	fmt.Println()

	for _, r := range results {
		status := "PASS"
		if !r.Passed {
			status = "FAIL"
			failed++
		} else {
			passed++
		}
		fmt.Printf("[%s] %s: %s\n", status, r.Name, r.Message)
	}

	fmt.Println()
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Total: %d | Passed: %d | Failed: %d\n", len(results), passed, failed)
	fmt.Println("------------------------------------------------------------")
}
