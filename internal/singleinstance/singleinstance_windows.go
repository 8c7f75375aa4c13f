//go:build windows

// Package singleinstance guards against two companion processes sharing
// one local document store.
package singleinstance

import (
	"github.com/arenagm/companion/internal/appinfo"
	"golang.org/x/sys/windows"
)

// AcquireLock creates the app's session-scoped named mutex. ok is false
// when another instance already holds it. Call release (via defer) on
// shutdown.
func AcquireLock() (release func(), ok bool, err error) {
	name, err := windows.UTF16PtrFromString(appinfo.MutexName)
	if err != nil {
		return nil, false, err
	}

	h, err := windows.CreateMutex(nil, false, name)
	if err != nil {
		if err == windows.ERROR_ALREADY_EXISTS {
			// The handle refers to someone else's mutex; drop it.
			if h != 0 {
				windows.CloseHandle(h)
			}
			return nil, false, nil
		}
		return nil, false, err
	}

	return func() { windows.CloseHandle(h) }, true, nil
}
