// Package access decides whether an actor may perform an operation on a
// user record or a file record. Every function here is pure: callers load
// whatever the decision needs and act on the returned error.
package access

import (
	"file-storage-api/internal/domain/apperr"
)

type Operation int

const (
	OpListUsers Operation = iota + 1
	OpDeleteUser
	OpToggleAdmin

	OpListFiles
	OpUploadFile
	OpRenameFile
	OpCommentFile
	OpDeleteFile
	OpDownloadFile

	OpDownloadByLink
)

var opNames = map[Operation]string{
	OpListUsers:      "list_users",
	OpDeleteUser:     "delete_user",
	OpToggleAdmin:    "toggle_admin",
	OpListFiles:      "list_files",
	OpUploadFile:     "upload_file",
	OpRenameFile:     "rename_file",
	OpCommentFile:    "comment_file",
	OpDeleteFile:     "delete_file",
	OpDownloadFile:   "download_file",
	OpDownloadByLink: "download_by_link",
}

func (o Operation) String() string {
	if n, ok := opNames[o]; ok {
		return n
	}
	return "unknown"
}

func (o Operation) isUserManagement() bool {
	return o == OpListUsers || o == OpDeleteUser || o == OpToggleAdmin
}

func (o Operation) isFileOp() bool {
	return o >= OpListFiles && o <= OpDownloadFile
}

// Actor is the authenticated identity carried explicitly into every operation.
type Actor struct {
	ID      int64
	IsAdmin bool
}

// Target describes what the operation touches. UserID is the user record for
// user management ops, OwnerID is the owner of the file for file ops.
type Target struct {
	UserID  int64
	OwnerID int64
}

// Check evaluates the rules in order:
//  1. nobody deletes their own account
//  2. user management requires admin
//  3. file ops require ownership or admin, uploads always target the actor
//  4. link downloads need no identity
func Check(actor *Actor, op Operation, t Target) error {
	if op == OpDownloadByLink {
		return nil
	}
	if actor == nil {
		return apperr.Unauthenticated("authentication required")
	}

	switch {
	case op == OpDeleteUser && t.UserID == actor.ID:
		return apperr.Forbidden()
	case op.isUserManagement():
		if !actor.IsAdmin {
			return apperr.Forbidden()
		}
		return nil
	case op == OpUploadFile:
		if t.OwnerID != actor.ID {
			return apperr.Forbidden()
		}
		return nil
	case op.isFileOp():
		if actor.IsAdmin || actor.ID == t.OwnerID {
			return nil
		}
		return apperr.Forbidden()
	}

	return apperr.Forbidden()
}

// Missing is the outcome for a file record that does not exist. Only an admin
// could have acted on an arbitrary id, so only an admin learns it is absent.
func Missing(actor *Actor) error {
	if actor == nil {
		return apperr.Unauthenticated("authentication required")
	}
	if actor.IsAdmin {
		return apperr.NotFound("file not found")
	}
	return apperr.Forbidden()
}

// ListOwner resolves whose files a list request returns. The user_id filter
// is honoured for admins only.
func ListOwner(actor Actor, requested *int64) (ownerID int64, filtered bool) {
	if requested != nil && actor.IsAdmin {
		return *requested, true
	}
	return actor.ID, false
}
