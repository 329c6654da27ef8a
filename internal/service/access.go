package service

import "SwiftShare/model"

// CanDownload decides whether a requester may download a record.
//
// Policy: possession of the UUID is the capability. Anonymous uploads and
// public owner-scoped files are downloadable by anyone holding the link;
// files uploaded with public=false are served to their owner only.
func CanDownload(rec *model.FileRecord, requesterID *uint64) bool {
	if rec == nil {
		return false
	}
	if rec.Public || rec.OwnerID == nil {
		return true
	}
	return requesterID != nil && *requesterID == *rec.OwnerID
}

// IsOwner reports whether requesterID owns the record. Listing and deleting
// are always owner-only.
func IsOwner(rec *model.FileRecord, requesterID uint64) bool {
	return rec != nil && rec.OwnerID != nil && *rec.OwnerID == requesterID
}
