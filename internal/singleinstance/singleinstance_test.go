package singleinstance

import "testing"

func TestAcquireLock(t *testing.T) {
	release, ok, err := AcquireLock()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("first acquisition should succeed")
	}
	if release == nil {
		t.Fatal("release must be callable")
	}
	release()

	// Reacquire after release.
	release2, ok, err := AcquireLock()
	if err != nil {
		t.Fatalf("unexpected error on reacquire: %v", err)
	}
	if !ok {
		t.Error("lock should be free after release")
	}
	release2()
}
