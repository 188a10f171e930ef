package ratchet_test

import (
	"sync"
	"testing"

	"github.com/xxsamboladiones/Tinder-P2P-sub001/internal/domain"
	"github.com/xxsamboladiones/Tinder-P2P-sub001/internal/protocol/ratchet"
)

func TestSessionConcurrentEncrypt(t *testing.T) {
	aliceState, bobState := makeStatePair(t, 0)
	alice := ratchet.NewSession(aliceState, nil)
	bob := ratchet.NewSession(bobState, nil)

	const workers = 16
	type sent struct {
		header domain.MessageHeader
		ct     []byte
	}
	results := make(chan sent, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			header, ct, err := alice.Encrypt(testAD, []byte("burst"))
			if err != nil {
				t.Errorf("Encrypt: %v", err)
				return
			}
			results <- sent{header, ct}
		}()
	}
	wg.Wait()
	close(results)

	// Every worker must have claimed a distinct message number, and the
	// batch must decrypt in whatever order it drained.
	seen := make(map[uint32]bool)
	decrypted := 0
	for m := range results {
		if seen[m.header.MessageNumber] {
			t.Fatalf("message number %d issued twice", m.header.MessageNumber)
		}
		seen[m.header.MessageNumber] = true

		pt, err := bob.Decrypt(testAD, m.header, m.ct)
		if err != nil {
			t.Fatalf("Decrypt (n=%d): %v", m.header.MessageNumber, err)
		}
		if string(pt) != "burst" {
			t.Fatalf("got %q, want %q", pt, "burst")
		}
		decrypted++
	}
	if decrypted != workers {
		t.Fatalf("decrypted %d of %d messages", decrypted, workers)
	}
}

func TestSessionWipe(t *testing.T) {
	aliceState, bobState := makeStatePair(t, 0)
	alice := ratchet.NewSession(aliceState, nil)
	bob := ratchet.NewSession(bobState, nil)

	header, ct, err := alice.Encrypt(testAD, []byte("before wipe"))
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	bob.Wipe()
	if _, err := bob.Decrypt(testAD, header, ct); err == nil {
		t.Fatal("wiped session still decrypts")
	}
}
