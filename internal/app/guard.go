package app

import "errors"

var ErrNotOwner = errors.New("unauthorized")

// authorizeOwner allows access only when the authenticated subject owns the resource.
func authorizeOwner(subjectID, ownerID uint) error {
	if subjectID == 0 || subjectID != ownerID {
		return ErrNotOwner
	}
	return nil
}
