package seed

import (
	"context"
	"testing"
	"unicode/utf8"

	"corkboard/internal/auth"
	"corkboard/internal/models"
	"corkboard/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestSeeder_Run(t *testing.T) {
	db := testutil.NewTestDB(t)
	hasher := auth.NewBcryptHasher(bcrypt.MinCost)
	s := NewSeeder(db, hasher, Options{Users: 3, BoardsPerUser: 2, PostsPerBoard: 4, PrivateEvery: 3, RandSeed: 42})

	res, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, res.Users, 3)
	assert.Len(t, res.Boards, 6)
	assert.Equal(t, 24, res.Posts)

	var boards []models.Board
	require.NoError(t, db.Find(&boards).Error)
	private := 0
	for _, b := range boards {
		assert.LessOrEqual(t, utf8.RuneCountInString(b.Name), models.MaxBoardNameLength)
		var n int64
		require.NoError(t, db.Model(&models.Post{}).Where("board_id = ?", b.ID).Count(&n).Error)
		assert.Equal(t, int64(b.PostCount), n, "board %q", b.Name)

		if !b.Public {
			private++
			var foreign int64
			require.NoError(t, db.Model(&models.Post{}).
				Where("board_id = ? AND user_id <> ?", b.ID, b.UserID).Count(&foreign).Error)
			assert.Zero(t, foreign, "only the owner posts in a private board")
		}
	}
	assert.Equal(t, 2, private)

	var user models.User
	require.NoError(t, db.First(&user, res.Users[0].ID).Error)
	assert.True(t, hasher.Verify(DefaultPassword, user.Password))
}

func TestSeeder_ClearAll(t *testing.T) {
	db := testutil.NewTestDB(t)
	s := NewSeeder(db, auth.NewBcryptHasher(bcrypt.MinCost), Options{Users: 2, BoardsPerUser: 1, PostsPerBoard: 2, RandSeed: 7})
	_, err := s.Run(context.Background())
	require.NoError(t, err)

	require.NoError(t, s.ClearAll(context.Background()))

	for _, model := range []any{&models.User{}, &models.Board{}, &models.Post{}} {
		var n int64
		require.NoError(t, db.Model(model).Count(&n).Error)
		assert.Zero(t, n)
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "héllo", truncate("héllo wörld", 5))
	assert.Equal(t, "ab", truncate("ab ", 3))
	assert.Equal(t, "short", truncate("short", 30))
}
