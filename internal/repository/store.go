package repository

import (
	"context"

	"gorm.io/gorm"
)

// Store groups the repositories over one connection and opens units of work.
type Store interface {
	Users() UserRepository
	Boards() BoardRepository
	Posts() PostRepository
	// Transaction runs fn against repositories bound to a single transaction.
	// Any error returned by fn rolls back every write made through tx.
	Transaction(ctx context.Context, fn func(tx Store) error) error
	// Ping checks the primary connection.
	Ping(ctx context.Context) error
}

type gormStore struct {
	db     *gorm.DB
	users  UserRepository
	boards BoardRepository
	posts  PostRepository
}

// NewStore returns a Store over db.
func NewStore(db *gorm.DB) Store {
	return &gormStore{
		db:     db,
		users:  NewUserRepository(db),
		boards: NewBoardRepository(db),
		posts:  NewPostRepository(db),
	}
}

// txStore binds every repository, reads included, to tx. The replica
// cannot see uncommitted rows.
func txStore(tx *gorm.DB) Store {
	return &gormStore{
		db:     tx,
		users:  &userRepository{db: tx, read: tx},
		boards: &boardRepository{db: tx, read: tx},
		posts:  &postRepository{db: tx, read: tx},
	}
}

func (s *gormStore) Users() UserRepository   { return s.users }
func (s *gormStore) Boards() BoardRepository { return s.boards }
func (s *gormStore) Posts() PostRepository   { return s.posts }

func (s *gormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(txStore(tx))
	})
}

func (s *gormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
