package model

import (
	"testing"
	"time"
)

func TestFileRecordExpired(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Second)
	future := now.Add(time.Hour)

	if (&FileRecord{}).Expired(now) {
		t.Error("record without a clock bound never expires")
	}
	if (&FileRecord{ExpiresAt: &future}).Expired(now) {
		t.Error("future bound should not be expired")
	}
	if !(&FileRecord{ExpiresAt: &past}).Expired(now) {
		t.Error("past bound should be expired")
	}
	// The boundary instant counts as expired.
	if !(&FileRecord{ExpiresAt: &now}).Expired(now) {
		t.Error("bound equal to now should be expired")
	}
}

func TestFileRecordExhausted(t *testing.T) {
	three := 3
	if (&FileRecord{DownloadCount: 100}).Exhausted() {
		t.Error("record without a download bound never exhausts")
	}
	if (&FileRecord{MaxDownloads: &three, DownloadCount: 2}).Exhausted() {
		t.Error("2/3 should not be exhausted")
	}
	if !(&FileRecord{MaxDownloads: &three, DownloadCount: 3}).Exhausted() {
		t.Error("3/3 should be exhausted")
	}
}
