package service

import (
	"SwiftShare/config"
	"SwiftShare/internal/apperr"
	storagepkg "SwiftShare/internal/storage"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"
)

func setTestConfig() {
	config.AppConfig.MaxUploadBytes = 100 * 1024 * 1024
	config.AppConfig.AnonymousTTL = 5 * time.Minute
	config.AppConfig.AnonymousMaxDownloads = 3
	config.AppConfig.MaxTTL = 7 * 24 * time.Hour
	config.AppConfig.StorageRetryMax = 3
	config.AppConfig.StorageRetryBase = time.Millisecond
}

func TestNormalizeBoundsAnonymousDefaults(t *testing.T) {
	setTestConfig()
	now := time.Now()

	expiresAt, limit, err := normalizeBounds(nil, 0, nil, now)
	if err != nil {
		t.Fatalf("normalizeBounds failed: %v", err)
	}
	if expiresAt == nil {
		t.Fatal("anonymous upload should get a default expiry")
	}
	if got := expiresAt.Sub(now); got != 5*time.Minute {
		t.Errorf("default ttl = %v, want 5m", got)
	}
	if limit == nil || *limit != 3 {
		t.Errorf("default limit = %v, want 3", limit)
	}
}

func TestNormalizeBoundsAnonymousExplicit(t *testing.T) {
	setTestConfig()
	now := time.Now()

	three := 3
	expiresAt, limit, err := normalizeBounds(nil, 0, &three, now)
	if err != nil {
		t.Fatalf("normalizeBounds failed: %v", err)
	}
	if expiresAt != nil {
		t.Error("explicit download limit should not add a clock bound")
	}
	if limit == nil || *limit != 3 {
		t.Errorf("limit = %v, want 3", limit)
	}

	expiresAt, limit, err = normalizeBounds(nil, 60, nil, now)
	if err != nil {
		t.Fatalf("normalizeBounds failed: %v", err)
	}
	if expiresAt == nil || expiresAt.Sub(now) != time.Minute {
		t.Errorf("explicit ttl not honored: %v", expiresAt)
	}
	if limit != nil {
		t.Error("explicit expiry should not add a download limit")
	}
}

func TestNormalizeBoundsAuthenticatedUnbounded(t *testing.T) {
	setTestConfig()
	owner := uint64(1)

	expiresAt, limit, err := normalizeBounds(&owner, 0, nil, time.Now())
	if err != nil {
		t.Fatalf("normalizeBounds failed: %v", err)
	}
	if expiresAt != nil || limit != nil {
		t.Error("authenticated uploads may be unbounded")
	}
}

func TestNormalizeBoundsClampsToMaxTTL(t *testing.T) {
	setTestConfig()
	config.AppConfig.MaxTTL = time.Hour
	owner := uint64(1)
	now := time.Now()

	expiresAt, _, err := normalizeBounds(&owner, int64(48*3600), nil, now)
	if err != nil {
		t.Fatalf("normalizeBounds failed: %v", err)
	}
	if expiresAt == nil || expiresAt.Sub(now) != time.Hour {
		t.Errorf("ttl should clamp to 1h, got %v", expiresAt)
	}
}

func TestNormalizeBoundsRejectsInvalid(t *testing.T) {
	setTestConfig()
	zero := 0

	if _, _, err := normalizeBounds(nil, -1, nil, time.Now()); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Errorf("negative expire_seconds: got %v", err)
	}
	if _, _, err := normalizeBounds(nil, 0, &zero, time.Now()); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Errorf("zero max_downloads: got %v", err)
	}
}

func TestLimitReader(t *testing.T) {
	data := strings.Repeat("x", 100)

	r := newLimitReader(strings.NewReader(data), 200)
	if _, err := io.Copy(io.Discard, r); err != nil {
		t.Fatalf("under-limit read failed: %v", err)
	}
	if r.read != 100 {
		t.Errorf("read counter = %d, want 100", r.read)
	}

	r = newLimitReader(strings.NewReader(data), 50)
	_, err := io.Copy(io.Discard, r)
	if !errors.Is(err, errLimitExceeded) {
		t.Fatalf("over-limit read: got %v, want errLimitExceeded", err)
	}
}

func TestClassifyStoreErr(t *testing.T) {
	if classifyStoreErr(nil) != nil {
		t.Error("nil should stay nil")
	}
	if err := classifyStoreErr(storagepkg.ErrObjectMissing); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("missing object: got %v", err)
	}
	if err := classifyStoreErr(errLimitExceeded); !errors.Is(err, apperr.ErrPayloadTooLarge) {
		t.Errorf("limit exceeded: got %v", err)
	}
	if err := classifyStoreErr(context.Canceled); !errors.Is(err, context.Canceled) {
		t.Errorf("cancellation should pass through: got %v", err)
	}
	if err := classifyStoreErr(errors.New("connection reset")); !errors.Is(err, apperr.ErrUnavailable) {
		t.Errorf("unknown store error should be unavailable: got %v", err)
	}
}

func TestWithStoreRetry(t *testing.T) {
	setTestConfig()

	calls := 0
	err := withStoreRetry(context.Background(), func() error {
		calls++
		if calls < 3 {
			return fmt.Errorf("transient: %w", storagepkg.ErrObjectMissing)
		}
		return nil
	})
	// ErrObjectMissing maps to NotFound, which is not retryable.
	if !errors.Is(err, apperr.ErrNotFound) || calls != 1 {
		t.Fatalf("non-retryable error retried: err=%v calls=%d", err, calls)
	}

	calls = 0
	err = withStoreRetry(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("connection refused")
		}
		return nil
	})
	if err != nil || calls != 3 {
		t.Fatalf("transient error should succeed on retry: err=%v calls=%d", err, calls)
	}

	calls = 0
	err = withStoreRetry(context.Background(), func() error {
		calls++
		return errors.New("connection refused")
	})
	if !errors.Is(err, apperr.ErrUnavailable) {
		t.Fatalf("exhausted retries: got %v", err)
	}
	if calls != config.AppConfig.StorageRetryMax {
		t.Fatalf("calls = %d, want %d", calls, config.AppConfig.StorageRetryMax)
	}
}

func TestWithStoreRetryHonorsCancellation(t *testing.T) {
	setTestConfig()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := withStoreRetry(ctx, func() error {
		return errors.New("connection refused")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v, want context.Canceled", err)
	}
}

func TestContentTypeFor(t *testing.T) {
	cases := map[string]string{
		"photo.JPG":   "image/jpeg",
		"notes.txt":   "text/plain; charset=utf-8",
		"report.pdf":  "application/pdf",
		"bundle.zip":  "application/zip",
		"mystery.bin": "application/octet-stream",
		"noext":       "application/octet-stream",
	}
	for name, want := range cases {
		if got := ContentTypeFor(name); got != want {
			t.Errorf("ContentTypeFor(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestObjectNames(t *testing.T) {
	if got := StagingObjectName("abc"); got != "staging/abc" {
		t.Errorf("staging name = %q", got)
	}
	if got := FinalObjectName("abc"); got != "files/abc" {
		t.Errorf("final name = %q", got)
	}
}

func TestLimitReaderPartialReads(t *testing.T) {
	// The counter must track actual bytes, not Read calls.
	r := newLimitReader(bytes.NewReader(make([]byte, 64)), 64)
	buf := make([]byte, 7)
	var total int
	for {
		n, err := r.Read(buf)
		total += n
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("read failed: %v", err)
		}
	}
	if total != 64 || r.read != 64 {
		t.Fatalf("total=%d counter=%d, want 64/64", total, r.read)
	}
}
