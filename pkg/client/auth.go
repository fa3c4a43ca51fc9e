package client

import (
	"crypto/md5"
	"crypto/rand"
	"encoding/hex"
)

// authState implements the keyed challenge-response used during login and
// for in-session re-authentication. Both peers derive a rolling state from
// the shared client key and the initial challenge; every response folds back
// into the state, so a replayed answer fails the next round.
//
// The client keeps two instances: one answering the server's challenges and
// one verifying the server's answers to challenges the client issues.
type authState struct {
	initial string
	state   string
}

func newAuthState(clientKey, initialChallenge string) *authState {
	a := &authState{initial: combineKey(clientKey, initialChallenge)}
	a.state = a.initial
	return a
}

// combineKey interleaves the challenge halves with the three key segments
// and hashes the result. Keys shorter than the full 32 hex characters are
// used whole, which keeps the function total for test keys.
func combineKey(key, challenge string) string {
	half := len(challenge) / 2
	c1, c2 := challenge[:half], challenge[half:]
	k1, k2, k3 := key, "", ""
	if len(key) >= 32 {
		k1, k2, k3 = key[:12], key[12:22], key[22:]
	}
	sum := md5.Sum([]byte(k1 + c1 + k2 + c2 + k3))
	return hex.EncodeToString(sum[:])
}

// Response answers a challenge and advances the rolling state.
func (a *authState) Response(challenge string) string {
	response := combineKey(a.state, challenge)
	a.state = combineKey(a.initial, response)
	return response
}

// generateChallenge produces a random challenge for the peer.
func generateChallenge() string {
	var buf [16]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// crypto/rand never fails on supported platforms; a zero challenge
		// still keeps the exchange well-formed.
		return "00000000000000000000000000000000"
	}
	return hex.EncodeToString(buf[:])
}
