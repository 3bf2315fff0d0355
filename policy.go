package userapi

// OwnershipPolicy decides whether an authenticated identity may mutate the
// user record identified by targetID. Handlers call the injected policy
// instead of comparing ids inline so the rule can be swapped or extended
// (e.g. to Delete) in one place.
//
// NOTE: the upstream drafts never settled whether Get and Delete should be
// ownership-gated as well; only Update is gated here, matching the dominant
// behavior.
type OwnershipPolicy func(identity Identity, targetID int64) error

// SelfOnlyPolicy allows mutation only of the caller's own record
func SelfOnlyPolicy(identity Identity, targetID int64) error {
	if identity.ID != targetID {
		return ErrNotResourceOwner
	}
	return nil
}
