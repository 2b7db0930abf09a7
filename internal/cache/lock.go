package cache

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/onepm-dev/onepm/internal/messages"
)

type fileLock struct {
	file *os.File
}

var lockFileFn = lockFile
var unlockFileFn = unlockFile
var tryLockFn = tryLock
var lockSleep = time.Sleep

var (
	lockWaitTimeout = 30 * time.Second
	lockPollEvery   = 100 * time.Millisecond
)

// withFileLock holds an exclusive advisory lock on path while fn runs.
func withFileLock(ctx context.Context, path string, fn func() error) error {
	lock, err := acquireFileLock(ctx, path)
	if err != nil {
		return err
	}
	defer func() {
		_ = lock.release()
	}()
	return fn()
}

// acquireFileLock opens or creates path and locks it exclusively.
func acquireFileLock(ctx context.Context, path string) (*fileLock, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf(messages.CacheOpenLockFmt, path, err)
	}
	if err := lockFileFn(ctx, file); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf(messages.CacheLockFmt, path, err)
	}
	return &fileLock{file: file}, nil
}

func (l *fileLock) release() error {
	if l == nil || l.file == nil {
		return nil
	}
	if err := unlockFileFn(l.file); err != nil {
		_ = l.file.Close()
		return err
	}
	return l.file.Close()
}

// lockFile polls for the lock until it is free, ctx ends, or lockWaitTimeout passes.
func lockFile(ctx context.Context, file *os.File) error {
	deadline := time.Now().Add(lockWaitTimeout)
	for {
		locked, err := tryLockFn(file)
		if err != nil {
			return err
		}
		if locked {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if time.Now().After(deadline) {
			return fmt.Errorf(messages.CacheLockTimeoutFmt, lockWaitTimeout)
		}
		lockSleep(lockPollEvery)
	}
}
