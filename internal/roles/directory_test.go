package roles_test

import (
	"context"
	"testing"

	"greenroom/internal/roles"
)

type fakeDirectory struct {
	teamMember int64
	anyUser    int64
}

func (f fakeDirectory) FindTeamMember(ctx context.Context, episodeID int64, role roles.Role) (int64, error) {
	return f.teamMember, nil
}

func (f fakeDirectory) FindAnyUserWithRole(ctx context.Context, role roles.Role) (int64, error) {
	return f.anyUser, nil
}

func TestResolveAssigneePrefersTeamMember(t *testing.T) {
	ctx := context.Background()
	id, err := roles.ResolveAssignee(ctx, fakeDirectory{teamMember: 7, anyUser: 11}, 1, roles.RoleEditor)
	if err != nil {
		t.Fatalf("ResolveAssignee failed: %v", err)
	}
	if id != 7 {
		t.Fatalf("expected team member 7, got %d", id)
	}
}

func TestResolveAssigneeFallsBackToAnyHolder(t *testing.T) {
	ctx := context.Background()
	id, err := roles.ResolveAssignee(ctx, fakeDirectory{anyUser: 11}, 1, roles.RoleEditor)
	if err != nil {
		t.Fatalf("ResolveAssignee failed: %v", err)
	}
	if id != 11 {
		t.Fatalf("expected fallback user 11, got %d", id)
	}
}

func TestResolveAssigneeUnassignedIsNotAnError(t *testing.T) {
	ctx := context.Background()
	id, err := roles.ResolveAssignee(ctx, fakeDirectory{}, 1, roles.RoleEditor)
	if err != nil {
		t.Fatalf("ResolveAssignee failed: %v", err)
	}
	if id != 0 {
		t.Fatalf("expected unassigned, got %d", id)
	}
}
