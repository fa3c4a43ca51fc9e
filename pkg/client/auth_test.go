package client

import "testing"

const (
	testClientKey        = "c0ffee1234567890abcdef9876543210"
	testInitialChallenge = "0123456789abcdef"
)

func TestAuthResponseDeterministic(t *testing.T) {
	a := newAuthState(testClientKey, testInitialChallenge)

	response := a.Response("abcdefabcdefabcd")
	if response != "25b1f0d58852f741a93bb2d23eac40c1" {
		t.Fatalf("unexpected response: %s", response)
	}
}

func TestAuthStateAdvances(t *testing.T) {
	a := newAuthState(testClientKey, testInitialChallenge)

	first := a.Response("abcdefabcdefabcd")
	second := a.Response("abcdefabcdefabcd")

	if first == second {
		t.Fatal("expected state to advance between responses to the same challenge")
	}
	if second != "76231e7a704dbbaf9730ca775643461c" {
		t.Fatalf("unexpected second response: %s", second)
	}
}

func TestAuthTwoPartySymmetry(t *testing.T) {
	// The verifying side runs the same state machine seeded with the same
	// initial challenge, so both derive identical answers round after round.
	prover := newAuthState(testClientKey, testInitialChallenge)
	verifier := newAuthState(testClientKey, testInitialChallenge)

	challenges := []string{
		generateChallenge(),
		generateChallenge(),
		generateChallenge(),
	}
	for i, challenge := range challenges {
		got := prover.Response(challenge)
		want := verifier.Response(challenge)
		if got != want {
			t.Fatalf("round %d: prover %s, verifier %s", i, got, want)
		}
	}
}

func TestAuthShortKey(t *testing.T) {
	a := newAuthState("shortkey", testInitialChallenge)

	response := a.Response("00ff00ff")
	if len(response) != 32 {
		t.Fatalf("expected 32 hex chars, got %d", len(response))
	}
}

func TestGenerateChallengeUnique(t *testing.T) {
	first := generateChallenge()
	second := generateChallenge()

	if len(first) != 32 {
		t.Fatalf("expected 32 hex chars, got %d", len(first))
	}
	if first == second {
		t.Fatal("expected distinct challenges")
	}
}
