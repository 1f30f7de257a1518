package users

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/itmspace/user-gateway/internal/apperr"
	"github.com/itmspace/user-gateway/internal/keycloak"
)

func TestToRepresentation(t *testing.T) {
	rep := ToRepresentation(CreateRequest{
		Username:  "Ivan",
		FirstName: "Ivan",
		LastName:  "Popov",
		Email:     "ivanpopov@mail.com",
		Password:  "12345f",
	})

	require.Equal(t, "Ivan", rep.Username)
	require.Equal(t, "Ivan", rep.FirstName)
	require.Equal(t, "Popov", rep.LastName)
	require.Equal(t, "ivanpopov@mail.com", rep.Email)
	require.True(t, rep.Enabled)
	require.Len(t, rep.Credentials, 1)
	require.Equal(t, "password", rep.Credentials[0].Type)
	require.Equal(t, "12345f", rep.Credentials[0].Value)
	require.False(t, rep.Credentials[0].Temporary)
}

func TestFromRecord_FlattensRolesAndGroups(t *testing.T) {
	rec := &keycloak.UserRecord{
		User: keycloak.UserRepresentation{
			ID:        "8d0f2e8a-1c1a-4f7e-9a43-0b1f6a2e5c77",
			Username:  "Ivan",
			FirstName: "Ivan",
			LastName:  "Popov",
			Email:     "ivanpopov@mail.com",
		},
		Roles: []keycloak.RoleRepresentation{
			{Name: "default-roles-itm"},
			{Name: "offline_access"},
		},
		Groups: []keycloak.GroupRepresentation{{Name: "staff", Path: "/staff"}},
	}

	p, err := FromRecord(rec)
	require.NoError(t, err)
	require.Equal(t, "Ivan", p.FirstName)
	require.Equal(t, "Popov", p.LastName)
	require.Equal(t, "ivanpopov@mail.com", p.Email)
	// provider order is preserved, not re-sorted
	require.Equal(t, []string{"default-roles-itm", "offline_access"}, p.Roles)
	require.Equal(t, []string{"staff"}, p.Groups)
}

func TestFromRecord_EmptyRolesAndGroupsAreNotNil(t *testing.T) {
	rec := &keycloak.UserRecord{
		User: keycloak.UserRepresentation{ID: "8d0f2e8a-1c1a-4f7e-9a43-0b1f6a2e5c77"},
	}
	p, err := FromRecord(rec)
	require.NoError(t, err)
	require.NotNil(t, p.Roles)
	require.NotNil(t, p.Groups)
	require.Empty(t, p.Roles)
	require.Empty(t, p.Groups)
}

func TestFromRecord_MissingID(t *testing.T) {
	_, err := FromRecord(&keycloak.UserRecord{})
	require.Error(t, err)
	require.Equal(t, apperr.KindMapping, apperr.KindOf(err))

	_, err = FromRecord(nil)
	require.Error(t, err)
	require.Equal(t, apperr.KindMapping, apperr.KindOf(err))
}
