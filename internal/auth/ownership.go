package auth

import "github.com/aashutosh585/LinkdinClone-assignment/internal/apperr"

// CheckOwner allows the mutation only when requesterID owns the resource.
// deniedMessage is returned to the client on refusal.
func CheckOwner(ownerID, requesterID, deniedMessage string) error {
	if ownerID == "" || ownerID != requesterID {
		return apperr.Forbidden(deniedMessage)
	}
	return nil
}
