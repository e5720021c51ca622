package identity

import (
	"os"
	"testing"
	"time"

	"github.com/ramenshop/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	bcryptCost = bcrypt.MinCost
	os.Exit(m.Run())
}

func TestNewUser(t *testing.T) {
	t.Run("creates active user with normalized email", func(t *testing.T) {
		user, err := NewUser("  Chef@Example.COM ", "noodles123", "Kenji Mori", shared.RoleEmployee)
		require.NoError(t, err)

		assert.Equal(t, "chef@example.com", user.Email)
		assert.Equal(t, UserStatusActive, user.Status)
		assert.Equal(t, shared.RoleEmployee, user.Role)
		assert.NotEqual(t, "noodles123", user.PasswordHash)
		assert.True(t, user.VerifyPassword("noodles123"))
		assert.False(t, user.VerifyPassword("wrong"))

		events := user.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeUserRegistered, events[0].EventType())
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		cases := []struct {
			name, email, password, fullName string
			role                            shared.Role
			code                            string
		}{
			{"bad email", "not-an-email", "noodles123", "A", shared.RoleCustomer, "INVALID_EMAIL"},
			{"empty email", "", "noodles123", "A", shared.RoleCustomer, "INVALID_EMAIL"},
			{"short password", "a@b.co", "short1", "A", shared.RoleCustomer, "INVALID_PASSWORD"},
			{"no digit", "a@b.co", "onlyletters", "A", shared.RoleCustomer, "INVALID_PASSWORD"},
			{"empty name", "a@b.co", "noodles123", "  ", shared.RoleCustomer, "INVALID_NAME"},
			{"bad role", "a@b.co", "noodles123", "A", shared.Role("chef"), "INVALID_ROLE"},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := NewUser(tc.email, tc.password, tc.fullName, tc.role)
				require.Error(t, err)
				var de *shared.DomainError
				require.ErrorAs(t, err, &de)
				assert.Equal(t, tc.code, de.Code)
			})
		}
	})
}

func TestUser_LoginLockout(t *testing.T) {
	user, err := NewUser("a@b.co", "noodles123", "A", shared.RoleCustomer)
	require.NoError(t, err)

	for i := 0; i < 4; i++ {
		assert.False(t, user.RecordLoginFailure(5, 15*time.Minute))
	}
	assert.True(t, user.CanLogin())
	assert.True(t, user.RecordLoginFailure(5, 15*time.Minute))
	assert.True(t, user.IsLocked())
	assert.False(t, user.CanLogin())

	past := time.Now().Add(-time.Minute)
	user.LockedUntil = &past
	assert.False(t, user.IsLocked())
	assert.True(t, user.CanLogin())

	user.RecordLoginSuccess("127.0.0.1")
	assert.Equal(t, UserStatusActive, user.Status)
	assert.Zero(t, user.FailedAttempts)
	assert.NotNil(t, user.LastLoginAt)
}

func TestUser_ChangePassword(t *testing.T) {
	user, err := NewUser("a@b.co", "noodles123", "A", shared.RoleCustomer)
	require.NoError(t, err)

	err = user.ChangePassword("wrong-one1", "ramen4567")
	assert.Error(t, err)

	require.NoError(t, user.ChangePassword("noodles123", "ramen4567"))
	assert.True(t, user.VerifyPassword("ramen4567"))
}

func TestUser_RoleAndStatus(t *testing.T) {
	user, err := NewUser("a@b.co", "noodles123", "A", shared.RoleCustomer)
	require.NoError(t, err)
	user.ClearDomainEvents()

	require.NoError(t, user.SetRole(shared.RoleAdmin))
	assert.True(t, user.IsStaff())
	require.Len(t, user.GetDomainEvents(), 1)

	require.NoError(t, user.SetRole(shared.RoleAdmin))
	assert.Len(t, user.GetDomainEvents(), 1)

	require.NoError(t, user.Disable())
	assert.False(t, user.CanLogin())
	assert.Error(t, user.Disable())

	require.NoError(t, user.Enable())
	assert.True(t, user.CanLogin())
	assert.Error(t, user.Enable())
}

func TestUser_Actor(t *testing.T) {
	user, err := NewUser("a@b.co", "noodles123", "A", shared.RoleEmployee)
	require.NoError(t, err)
	a := user.Actor()
	assert.Equal(t, user.ID, a.UserID)
	assert.True(t, a.IsStaff())
	assert.False(t, a.IsAdmin())
}

func TestPermissionsFor(t *testing.T) {
	assert.Empty(t, PermissionsFor(shared.RoleCustomer))
	assert.Contains(t, PermissionsFor(shared.RoleEmployee), PermTimeclockUse)
	assert.NotContains(t, PermissionsFor(shared.RoleEmployee), PermReportsRead)
	assert.Contains(t, PermissionsFor(shared.RoleAdmin), PermUsersManage)

	perms := PermissionsFor(shared.RoleAdmin)
	perms[0] = "mutated"
	assert.NotEqual(t, "mutated", PermissionsFor(shared.RoleAdmin)[0])
}
