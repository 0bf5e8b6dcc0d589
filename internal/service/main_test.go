package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"corkboard/internal/auth"
	"corkboard/internal/models"
	"corkboard/internal/repository"
	"corkboard/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type testEnv struct {
	db       *gorm.DB
	mr       *miniredis.Miniredis
	store    repository.Store
	sessions *auth.SessionStore
	auth     *AuthService
	identity *IdentityService
	boards   *BoardService
	posts    *PostService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.NewTestDB(t)
	client, mr := testutil.NewTestRedis(t)
	store := repository.NewStore(db)
	sessions := auth.NewSessionStore(client)

	return &testEnv{
		db:       db,
		mr:       mr,
		store:    store,
		sessions: sessions,
		auth:     NewAuthService(store, sessions, auth.NewBcryptHasher(bcrypt.MinCost)),
		identity: NewIdentityService(sessions, store.Users()),
		boards:   NewBoardService(store),
		posts:    NewPostService(store),
	}
}

var userSeq int

func (e *testEnv) signup(t *testing.T) *models.User {
	t.Helper()
	userSeq++
	user, err := e.auth.Signup(context.Background(), SignupInput{
		Email:    fmt.Sprintf("user%d@example.com", userSeq),
		Password: "password123",
		FullName: fmt.Sprintf("User %d", userSeq),
	})
	require.NoError(t, err)
	return user
}

func (e *testEnv) board(t *testing.T, owner *models.User, name string, public bool) *models.Board {
	t.Helper()
	board, err := e.boards.Create(context.Background(), owner, CreateBoardInput{Name: name, Public: public})
	require.NoError(t, err)
	return board
}

func (e *testEnv) post(t *testing.T, author *models.User, board *models.Board, title string) *models.Post {
	t.Helper()
	post, err := e.posts.Create(context.Background(), author, board.ID, CreatePostInput{Title: title, Content: "content of " + title})
	require.NoError(t, err)
	return post
}

func (e *testEnv) reload(t *testing.T, boardID uint) *models.Board {
	t.Helper()
	var board models.Board
	require.NoError(t, e.db.First(&board, boardID).Error)
	return &board
}

// requireCounterMatchesRows checks the denormalised counter of every board
// against an actual count of its posts.
func (e *testEnv) requireCounterMatchesRows(t *testing.T) {
	t.Helper()
	var boards []models.Board
	require.NoError(t, e.db.Find(&boards).Error)
	for _, b := range boards {
		var n int64
		require.NoError(t, e.db.Model(&models.Post{}).Where("board_id = ?", b.ID).Count(&n).Error)
		require.Equal(t, n, int64(b.PostCount), "board %q", b.Name)
	}
}

var errInjected = errors.New("injected storage failure")

// failingCounterStore fails every counter update, simulating a storage
// fault between the two writes of a post mutation.
type failingCounterStore struct {
	repository.Store
}

func (s failingCounterStore) Boards() repository.BoardRepository {
	return failingCounterBoards{s.Store.Boards()}
}

func (s failingCounterStore) Transaction(ctx context.Context, fn func(tx repository.Store) error) error {
	return s.Store.Transaction(ctx, func(tx repository.Store) error {
		return fn(failingCounterStore{tx})
	})
}

type failingCounterBoards struct {
	repository.BoardRepository
}

func (failingCounterBoards) IncrementPostCount(context.Context, uint, time.Time) error {
	return models.NewInternalError(errInjected)
}

func (failingCounterBoards) DecrementPostCount(context.Context, uint, time.Time) error {
	return models.NewInternalError(errInjected)
}
