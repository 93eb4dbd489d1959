package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("backend-key"))
	require.NoError(t, err)
	return token
}

func testStoreLifecycle(t *testing.T, store Store) {
	ctx := context.Background()

	_, err := store.Get(ctx)
	assert.ErrorIs(t, err, ErrNoSession)
	tok, err := Token(ctx, store)
	require.NoError(t, err)
	assert.Empty(t, tok)

	want := Session{Token: "abc", DisplayName: "Ada Lovelace", Email: "ada@example.com"}
	require.NoError(t, store.Set(ctx, want))

	got, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	tok, err = Token(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, "abc", tok)

	require.NoError(t, store.Clear(ctx))
	_, err = store.Get(ctx)
	assert.ErrorIs(t, err, ErrNoSession)
	require.NoError(t, store.Clear(ctx), "clearing twice is fine")
}

func TestMemoryStore(t *testing.T) {
	testStoreLifecycle(t, NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	store := NewFileStore(path)
	testStoreLifecycle(t, store)

	require.NoError(t, store.Set(context.Background(), Session{Token: "x"}))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := NewFileStore(path).Get(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoSession)
}

func TestInspectToken(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token := signedToken(t, jwt.MapClaims{
		"sub":   "42",
		"name":  "Grace Hopper",
		"email": "grace@example.com",
		"exp":   exp.Unix(),
	})

	claims, ok := InspectToken(token)
	require.True(t, ok)
	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, "Grace Hopper", claims.Name)
	assert.Equal(t, "grace@example.com", claims.Email)
	assert.True(t, exp.Equal(claims.ExpiresAt))

	_, ok = InspectToken("12|opaque-sanctum-token")
	assert.False(t, ok)
}

func TestNewPrefersExplicitValues(t *testing.T) {
	exp := time.Now().Add(2 * time.Hour).Truncate(time.Second)
	token := signedToken(t, jwt.MapClaims{"name": "From Claims", "exp": exp.Unix()})

	s := New(token, "", "", nil)
	assert.Equal(t, "From Claims", s.DisplayName)
	assert.True(t, exp.Equal(s.ExpiresAt))

	explicit := time.Now().Add(time.Minute)
	s = New(token, "Explicit", "e@example.com", &explicit)
	assert.Equal(t, "Explicit", s.DisplayName)
	assert.Equal(t, explicit, s.ExpiresAt)

	s = New("opaque", "Name", "", nil)
	assert.True(t, s.ExpiresAt.IsZero())
	assert.False(t, s.Expired(time.Now()))
}

func TestSessionExpired(t *testing.T) {
	now := time.Now()
	assert.False(t, Session{}.Expired(now))
	assert.True(t, Session{ExpiresAt: now}.Expired(now))
	assert.False(t, Session{ExpiresAt: now.Add(time.Second)}.Expired(now))
}
