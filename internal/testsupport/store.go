package testsupport

import (
	"context"
	"testing"
	"time"

	"greenroom/internal/config"
	"greenroom/internal/roles"
	"greenroom/internal/store"
)

// MustOpenStore opens a store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// NewEpisode creates an episode row for tests.
func NewEpisode(t testing.TB, st *store.Store, programID string, number int, airDate time.Time) *store.Episode {
	t.Helper()

	episode, err := st.CreateEpisode(context.Background(), programID, number, "", airDate)
	if err != nil {
		t.Fatalf("store.CreateEpisode: %v", err)
	}
	return episode
}

// SeedUser registers an active user with the given role and returns its ID.
func SeedUser(t testing.TB, st *store.Store, name string, role roles.Role) int64 {
	t.Helper()

	user, err := st.AddUser(context.Background(), name, role, true)
	if err != nil {
		t.Fatalf("store.AddUser: %v", err)
	}
	return user.ID
}

// SeedTeamMember registers a user and binds them to the program's team.
func SeedTeamMember(t testing.TB, st *store.Store, programID, name string, role roles.Role) int64 {
	t.Helper()

	id := SeedUser(t, st, name, role)
	if err := st.AddTeamMember(context.Background(), programID, id, role); err != nil {
		t.Fatalf("store.AddTeamMember: %v", err)
	}
	return id
}
