package session

import (
	"testing"
	"time"

	"campushub/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func TestStartAndEnd(t *testing.T) {
	s := New()
	assert.False(t, s.Authenticated())
	assert.Empty(t, s.Token())

	s.Start("tok", models.User{ID: 1, Username: "alice", Role: "moderator"})
	assert.True(t, s.Authenticated())
	assert.Equal(t, "tok", s.Token())

	user, ok := s.User()
	require.True(t, ok)
	assert.Equal(t, "alice", user.Username)

	s.End()
	assert.False(t, s.Authenticated())
	assert.Empty(t, s.Token())
	_, ok = s.User()
	assert.False(t, ok)
}

func TestStartNormalizesUnknownRole(t *testing.T) {
	s := New()
	s.Start("tok", models.User{ID: 1, Role: "superuser"})
	user, _ := s.User()
	assert.Equal(t, models.RoleStudent, user.Role)
	assert.False(t, s.CanModerate())
}

func TestStartFromToken(t *testing.T) {
	tok := signedToken(t, jwt.MapClaims{
		"sub":      "42",
		"username": "mod_taylor",
		"role":     "moderator",
		"exp":      time.Now().Add(time.Hour).Unix(),
	})

	s := New()
	require.NoError(t, s.StartFromToken(tok))
	assert.True(t, s.Authenticated())
	assert.True(t, s.CanModerate())

	user, ok := s.User()
	require.True(t, ok)
	assert.Equal(t, uint(42), user.ID)
	assert.Equal(t, "mod_taylor", user.Username)
	assert.Equal(t, models.RoleModerator, user.Role)
}

func TestStartFromTokenExpired(t *testing.T) {
	tok := signedToken(t, jwt.MapClaims{
		"sub": "1",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})

	s := New()
	err := s.StartFromToken(tok)
	require.Error(t, err)
	assert.True(t, models.IsCode(err, models.CodeSessionExpired))
	assert.False(t, s.Authenticated())
}

func TestStartFromTokenMalformed(t *testing.T) {
	s := New()
	err := s.StartFromToken("not-a-jwt")
	require.Error(t, err)
	assert.True(t, models.IsCode(err, models.CodeUnauthorized))
}

func TestCanModerateTracksSessionLifecycle(t *testing.T) {
	s := New()
	assert.False(t, s.CanModerate())

	s.Start("tok", models.User{ID: 1, Role: models.RoleAdmin})
	assert.True(t, s.CanModerate())

	s.End()
	assert.False(t, s.CanModerate(), "capability must not outlive the session")

	s.Start("tok2", models.User{ID: 1, Role: models.RoleStudent})
	assert.False(t, s.CanModerate())
}
