package roles

import "context"

// Directory resolves role keys to concrete users. The store provides the
// default implementation; tests substitute fakes.
type Directory interface {
	// FindTeamMember returns the id of an active member of the episode's
	// production team holding the role, or 0 when none exists.
	FindTeamMember(ctx context.Context, episodeID int64, role Role) (int64, error)
	// FindAnyUserWithRole returns the id of any active user holding the role
	// system-wide, or 0 when none exists.
	FindAnyUserWithRole(ctx context.Context, role Role) (int64, error)
}

// ResolveAssignee finds a user to assign for the role on the given episode:
// first an active production team member, then any active holder of the role
// system-wide. A zero id means the task is created unassigned; that is not
// an error.
func ResolveAssignee(ctx context.Context, dir Directory, episodeID int64, role Role) (int64, error) {
	if dir == nil {
		return 0, nil
	}
	userID, err := dir.FindTeamMember(ctx, episodeID, role)
	if err != nil {
		return 0, err
	}
	if userID != 0 {
		return userID, nil
	}
	return dir.FindAnyUserWithRole(ctx, role)
}
