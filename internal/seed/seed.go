// Package seed fills a development database with fake users, boards and posts.
// Boards and posts go through the services so post counters stay exact.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"corkboard/internal/auth"
	"corkboard/internal/middleware"
	"corkboard/internal/models"
	"corkboard/internal/repository"
	"corkboard/internal/service"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// DefaultPassword is the password of every seeded account.
const DefaultPassword = "password123"

// Options configuration for the seeder
type Options struct {
	Users         int
	BoardsPerUser int
	PostsPerBoard int
	// PrivateEvery makes every n-th board private. Zero keeps all boards public.
	PrivateEvery int
	// RandSeed fixes the fake data. Zero picks a random seed.
	RandSeed int64
}

// Result counts what a run created.
type Result struct {
	Users  []*models.User
	Boards []*models.Board
	Posts  int
}

// Seeder creates fake data through the application services.
type Seeder struct {
	db     *gorm.DB
	store  repository.Store
	hasher auth.Hasher
	boards *service.BoardService
	posts  *service.PostService
	faker  *gofakeit.Faker
	opts   Options
}

func NewSeeder(db *gorm.DB, hasher auth.Hasher, opts Options) *Seeder {
	store := repository.NewStore(db)
	return &Seeder{
		db:     db,
		store:  store,
		hasher: hasher,
		boards: service.NewBoardService(store),
		posts:  service.NewPostService(store),
		faker:  gofakeit.New(opts.RandSeed),
		opts:   opts,
	}
}

// ClearAll removes every post, board and user.
func (s *Seeder) ClearAll(ctx context.Context) error {
	db := s.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true})
	for _, model := range []any{&models.Post{}, &models.Board{}, &models.User{}} {
		if err := db.Delete(model).Error; err != nil {
			return fmt.Errorf("clear %T: %w", model, err)
		}
	}
	middleware.Logger.InfoContext(ctx, "database cleared")
	return nil
}

// Run creates users, then boards for each user, then posts in each board.
// Public boards get posts from random users, private boards only from their owner.
func (s *Seeder) Run(ctx context.Context) (*Result, error) {
	res := &Result{}

	hash, err := s.hasher.Hash(DefaultPassword)
	if err != nil {
		return nil, fmt.Errorf("hash seed password: %w", err)
	}

	for i := 0; i < s.opts.Users; i++ {
		user, err := s.createUser(ctx, i, hash)
		if err != nil {
			return res, err
		}
		res.Users = append(res.Users, user)
	}

	n := 0
	for _, owner := range res.Users {
		for j := 0; j < s.opts.BoardsPerUser; j++ {
			n++
			public := s.opts.PrivateEvery == 0 || n%s.opts.PrivateEvery != 0
			board, err := s.boards.Create(ctx, owner, service.CreateBoardInput{
				Name:   s.boardName(n),
				Public: public,
			})
			if err != nil {
				return res, fmt.Errorf("create board: %w", err)
			}
			res.Boards = append(res.Boards, board)
		}
	}

	for _, board := range res.Boards {
		for k := 0; k < s.opts.PostsPerBoard; k++ {
			author := s.authorFor(board, res.Users)
			_, err := s.posts.Create(ctx, author, board.ID, service.CreatePostInput{
				Title:   truncate(s.faker.Sentence(4), models.MaxPostTitleLength),
				Content: s.faker.Paragraph(1, 3, 12, "\n"),
			})
			if err != nil {
				return res, fmt.Errorf("create post: %w", err)
			}
			res.Posts++
		}
	}

	middleware.Logger.InfoContext(ctx, "seed complete",
		slog.Int("users", len(res.Users)),
		slog.Int("boards", len(res.Boards)),
		slog.Int("posts", res.Posts),
	)
	return res, nil
}

func (s *Seeder) createUser(ctx context.Context, i int, hash string) (*models.User, error) {
	first, last := s.faker.FirstName(), s.faker.LastName()
	user := &models.User{
		Email:    strings.ToLower(fmt.Sprintf("%s.%s%d@example.com", first, last, i)),
		FullName: truncate(first+" "+last, 30),
		Password: hash,
	}
	if err := s.store.Users().Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (s *Seeder) boardName(n int) string {
	suffix := fmt.Sprintf("-%d", n)
	base := strings.ToLower(s.faker.Adjective() + "-" + s.faker.Noun())
	return truncate(base, models.MaxBoardNameLength-len(suffix)) + suffix
}

func (s *Seeder) authorFor(board *models.Board, users []*models.User) *models.User {
	if !board.Public {
		for _, u := range users {
			if u.ID == board.UserID {
				return u
			}
		}
	}
	return users[s.faker.Number(0, len(users)-1)]
}

// truncate cuts s to at most n runes and trims trailing space.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		r = r[:n]
	}
	return strings.TrimSpace(string(r))
}
