//go:build !windows

// Package singleinstance guards against two companion processes sharing
// one local document store.
package singleinstance

// AcquireLock is a no-op off Windows. The GM machine is a Windows box;
// other platforms only run this for development, where a duplicate
// instance is the developer's problem.
func AcquireLock() (release func(), ok bool, err error) {
	return func() {}, true, nil
}
