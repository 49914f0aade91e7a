package application

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatherly/gatherly/internal/domain/entity"
	"github.com/gatherly/gatherly/internal/infrastructure/memory"
)

func newProfileFixture(t *testing.T) (*ProfileService, *entity.User) {
	t.Helper()
	users := memory.NewUserRepository()
	u := &entity.User{Username: "alice", Email: "alice@example.com", Password: "x"}
	require.NoError(t, users.Create(context.Background(), u))
	return NewProfileService(memory.NewProfileRepository(), users, nil, ""), u
}

func TestProfileGetBeforeFirstSave(t *testing.T) {
	svc, u := newProfileFixture(t)

	view, err := svc.Get(context.Background(), u.ID)
	require.NoError(t, err)

	assert.Equal(t, "alice", view.User.Username)
	assert.Empty(t, view.Profile.Bio)
	assert.Empty(t, view.Profile.AvatarURL)
	assert.NotNil(t, view.Profile.SocialLinks)
}

func TestProfileUpdateTrimsBioAndKeepsLinks(t *testing.T) {
	svc, u := newProfileFixture(t)

	p, err := svc.Update(context.Background(), u.ID, UpdateInput{
		Bio:         "  Gopher and event organizer.  ",
		SocialLinks: map[string]string{"twitter": "https://twitter.com/alice"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Gopher and event organizer.", p.Bio)
	assert.Equal(t, "https://twitter.com/alice", p.SocialLinks["twitter"])

	// omitting links leaves the stored ones untouched
	p, err = svc.Update(context.Background(), u.ID, UpdateInput{Bio: "new bio"})
	require.NoError(t, err)
	assert.Equal(t, "new bio", p.Bio)
	assert.Equal(t, "https://twitter.com/alice", p.SocialLinks["twitter"])
}

func TestProfileAvatarUploadWithoutStorage(t *testing.T) {
	svc, u := newProfileFixture(t)

	_, err := svc.UploadAvatar(context.Background(), u.ID, strings.NewReader("img"), "me.png", "image/png")
	assert.Error(t, err)
}
