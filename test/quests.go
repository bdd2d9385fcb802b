package test

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/lawnchairsociety/questkeeper/internal/testclient"
)

var uniqueCounter uint64

func uniqueName(base string) string {
	return fmt.Sprintf("%s-%d", base, atomic.AddUint64(&uniqueCounter, 1))
}

// killN reports n kills of target and returns the last response
func killN(client *testclient.TestClient, target string, n int) (string, bool) {
	var last string
	for i := 0; i < n; i++ {
		msg, ok := client.Do("kill "+target, "You slay the "+target, wait)
		if !ok {
			return "", false
		}
		last = msg
	}
	return last, true
}

// TestConnection checks that a session is created with an id
func TestConnection(url string) TestResult {
	const testName = "Connection"

	client, err := testclient.NewTestClient(uniqueName("conn"), url)
	if err != nil {
		return fail(testName, nil, "Connection failed: %v", err)
	}
	defer client.Close()

	if client.SessionID == "" {
		return fail(testName, client, "Welcome line carried no session id")
	}
	return TestResult{Name: testName, Passed: true, Message: "Session " + client.SessionID}
}

// TestEmptyJournal checks a fresh session has no quests
func TestEmptyJournal(url string) TestResult {
	const testName = "Empty Journal"

	client, err := testclient.NewTestClient(uniqueName("journal"), url)
	if err != nil {
		return fail(testName, nil, "Connection failed: %v", err)
	}
	defer client.Close()

	if _, ok := step(testName, client, "quests", "Your quest journal is empty"); !ok {
		return fail(testName, client, "Journal was not empty: %v", client.GetMessages())
	}
	return TestResult{Name: testName, Passed: true, Message: "Fresh session has an empty journal"}
}

// TestAvailableQuests checks the giver index
func TestAvailableQuests(url string) TestResult {
	const testName = "Available Quests"

	client, err := testclient.NewTestClient(uniqueName("offers"), url)
	if err != nil {
		return fail(testName, nil, "Connection failed: %v", err)
	}
	defer client.Close()

	msg, ok := step(testName, client, "available gravekeeper", "=== Quests from gravekeeper ===")
	if !ok {
		return fail(testName, client, "No offer list: %v", client.GetMessages())
	}
	for _, want := range []string{"Skeleton Slayer (skeleton_slayer)", "Restless Spirits (restless_spirits)", "boneShield"} {
		if !strings.Contains(msg, want) {
			return fail(testName, client, "Offer list missing %q: %s", want, msg)
		}
	}
	if _, ok := step(testName, client, "available nobody", "has nothing for you"); !ok {
		return fail(testName, client, "Unknown giver should offer nothing")
	}
	return TestResult{Name: testName, Passed: true, Message: "Giver offers listed"}
}

// TestRatCatcher runs a non-repeatable quest from accept to rewards
func TestRatCatcher(url string) TestResult {
	const testName = "Rat Catcher"

	client, err := testclient.NewTestClient(uniqueName("rats"), url)
	if err != nil {
		return fail(testName, nil, "Connection failed: %v", err)
	}
	defer client.Close()

	if _, ok := step(testName, client, "accept rat_catcher", "You accept the quest: Rat Catcher"); !ok {
		return fail(testName, client, "Accept failed: %v", client.GetMessages())
	}
	if _, ok := step(testName, client, "turnin rat_catcher", "still has unfinished objectives"); !ok {
		return fail(testName, client, "Early turn-in was not rejected")
	}
	if _, ok := killN(client, "rat", 2); !ok {
		return fail(testName, client, "Kill command failed")
	}
	client.ClearMessages()
	client.SendCommand("kill decayed-skeleton")
	if _, ok := client.WaitForMessage("Rat Catcher is ready to turn in", wait); !ok {
		return fail(testName, client, "No ready notification: %v", client.GetMessages())
	}

	msg, ok := step(testName, client, "turnin rat_catcher", "Rewards:")
	if !ok {
		return fail(testName, client, "Turn-in failed: %v", client.GetMessages())
	}
	if !strings.Contains(msg, "Rewards: 5 gold; 25 experience; received cheeseWheel.") {
		return fail(testName, client, "Unexpected rewards: %s", msg)
	}
	if _, ok := step(testName, client, "inventory", "Wheel of Cheese"); !ok {
		return fail(testName, client, "Reward item missing from inventory")
	}
	return TestResult{Name: testName, Passed: true, Message: "Accept, progress, and turn-in work"}
}

// TestSkeletonSlayerRepeat checks first-time and repeat objective and reward filtering
func TestSkeletonSlayerRepeat(url string) TestResult {
	const testName = "Skeleton Slayer Repeat"

	client, err := testclient.NewTestClient(uniqueName("slayer"), url)
	if err != nil {
		return fail(testName, nil, "Connection failed: %v", err)
	}
	defer client.Close()

	msg, ok := step(testName, client, "accept skeleton_slayer", "You accept the quest")
	if !ok || !strings.Contains(msg, "0/10") || strings.Contains(msg, "Skeleton Lord") {
		return fail(testName, client, "First acceptance objectives wrong: %s", msg)
	}
	if _, ok := killN(client, "decayed-skeleton", 10); !ok {
		return fail(testName, client, "Kill command failed")
	}
	msg, ok = step(testName, client, "turnin skeleton_slayer", "Rewards:")
	if !ok || !strings.Contains(msg, "Rewards: 10 gold; 2 quest points; 150 experience; received boneShield.") {
		return fail(testName, client, "First completion rewards wrong: %s", msg)
	}

	msg, ok = step(testName, client, "accept skeleton_slayer", "You accept the quest")
	if !ok || !strings.Contains(msg, "Kill decayed skeleton: 0/5") || !strings.Contains(msg, "Kill Skeleton Lord: 0/1") {
		return fail(testName, client, "Repeat acceptance objectives wrong: %s", msg)
	}
	if _, ok := killN(client, "decayed-skeleton", 5); !ok {
		return fail(testName, client, "Kill command failed")
	}
	if _, ok := killN(client, "skeleton-lord", 1); !ok {
		return fail(testName, client, "Kill command failed")
	}
	msg, ok = step(testName, client, "turnin skeleton_slayer", "Rewards:")
	if !ok || !strings.Contains(msg, "Completed 2 times.") || !strings.Contains(msg, "received boneDust x3") || strings.Contains(msg, "boneShield") {
		return fail(testName, client, "Repeat completion rewards wrong: %s", msg)
	}
	if _, ok := step(testName, client, "history skeleton_slayer", "completed 2 time(s)"); !ok {
		return fail(testName, client, "History not updated")
	}
	return TestResult{Name: testName, Passed: true, Message: "First-time and repeat filtering applied"}
}

// TestNonRepeatableRejected checks a completed one-off quest cannot be accepted again
func TestNonRepeatableRejected(url string) TestResult {
	const testName = "Non-repeatable Rejected"

	client, err := testclient.NewTestClient(uniqueName("once"), url)
	if err != nil {
		return fail(testName, nil, "Connection failed: %v", err)
	}
	defer client.Close()

	step(testName, client, "accept rat_catcher", "You accept the quest")
	killN(client, "rat", 2)
	killN(client, "decayed-skeleton", 1)
	if _, ok := step(testName, client, "turnin rat_catcher", "Quest complete"); !ok {
		return fail(testName, client, "Turn-in failed: %v", client.GetMessages())
	}
	if _, ok := step(testName, client, "accept rat_catcher", "cannot be repeated"); !ok {
		return fail(testName, client, "Second accept was not rejected: %v", client.GetMessages())
	}
	return TestResult{Name: testName, Passed: true, Message: "Completed one-off quest stays closed"}
}

// TestSharedTargetProgress checks one kill advances every quest tracking the target
func TestSharedTargetProgress(url string) TestResult {
	const testName = "Shared Target Progress"

	client, err := testclient.NewTestClient(uniqueName("shared"), url)
	if err != nil {
		return fail(testName, nil, "Connection failed: %v", err)
	}
	defer client.Close()

	step(testName, client, "accept skeleton_slayer", "You accept the quest")
	step(testName, client, "accept rat_catcher", "You accept the quest")

	msg, ok := step(testName, client, "kill decayed-skeleton", "You slay the decayed-skeleton")
	if !ok {
		return fail(testName, client, "Kill failed")
	}
	if !strings.Contains(msg, "Skeleton Slayer: decayed skeleton 1/10") || !strings.Contains(msg, "Rat Catcher: skeleton in the cellar 1/1") {
		return fail(testName, client, "Both quests should advance: %s", msg)
	}
	if _, ok := client.WaitForMessage("2 quest(s) advanced, 0 now ready", wait); !ok {
		return fail(testName, client, "Progress notification missing: %v", client.GetMessages())
	}
	return TestResult{Name: testName, Passed: true, Message: "One kill advanced both quests"}
}

// TestSessionIsolation checks two sessions never see each other's quests
func TestSessionIsolation(url string) TestResult {
	const testName = "Session Isolation"

	a, err := testclient.NewTestClient(uniqueName("alice"), url)
	if err != nil {
		return fail(testName, nil, "Connection failed: %v", err)
	}
	defer a.Close()

	b, err := testclient.NewTestClient(uniqueName("bob"), url)
	if err != nil {
		return fail(testName, nil, "Connection failed: %v", err)
	}
	defer b.Close()

	if a.SessionID == b.SessionID {
		return fail(testName, a, "Sessions share an id")
	}

	step(testName, a, "accept rat_catcher", "You accept the quest")
	if _, ok := step(testName, b, "quests", "Your quest journal is empty"); !ok {
		return fail(testName, b, "Second session sees the first session's quest")
	}
	return TestResult{Name: testName, Passed: true, Message: "Journals are per session"}
}
