package service

import (
	"SwiftShare/model"
	"testing"
)

func uintPtr(v uint64) *uint64 { return &v }

func TestCanDownload(t *testing.T) {
	owner := uint64(7)
	stranger := uint64(8)

	anonymous := &model.FileRecord{UUID: "a", Public: true}
	if !CanDownload(anonymous, nil) {
		t.Error("anonymous upload should be downloadable without auth")
	}

	public := &model.FileRecord{UUID: "b", OwnerID: &owner, Public: true}
	if !CanDownload(public, nil) {
		t.Error("public owned file should be downloadable without auth")
	}
	if !CanDownload(public, &stranger) {
		t.Error("public owned file should be downloadable by anyone")
	}

	private := &model.FileRecord{UUID: "c", OwnerID: &owner, Public: false}
	if CanDownload(private, nil) {
		t.Error("private file should not be downloadable anonymously")
	}
	if CanDownload(private, &stranger) {
		t.Error("private file should not be downloadable by a non-owner")
	}
	if !CanDownload(private, &owner) {
		t.Error("private file should be downloadable by its owner")
	}

	if CanDownload(nil, &owner) {
		t.Error("nil record should never be downloadable")
	}
}

func TestIsOwner(t *testing.T) {
	owner := uint64(7)
	rec := &model.FileRecord{UUID: "a", OwnerID: &owner}
	if !IsOwner(rec, 7) {
		t.Error("owner should match")
	}
	if IsOwner(rec, 8) {
		t.Error("non-owner should not match")
	}
	if IsOwner(&model.FileRecord{UUID: "b"}, 7) {
		t.Error("anonymous record has no owner")
	}
	if IsOwner(nil, 7) {
		t.Error("nil record has no owner")
	}
}
