// Package service holds the business rules for accounts, boards and posts.
package service

import (
	"time"

	"corkboard/internal/database"
	"corkboard/internal/models"
)

// now stamps post activity. It shares the store's clock and precision.
var now func() time.Time = database.NowFunc

// CheckOwnership fails with Forbidden unless userID owns r.
func CheckOwnership(userID uint, r models.Resource) error {
	if r.OwnerID() != userID {
		return models.NewForbiddenError(r.Kind(), r.Label())
	}
	return nil
}

// CheckReadable applies board visibility. Public boards are open to everyone;
// private ones only to their owner. A nil viewer gets the login-required variant.
func CheckReadable(viewer *models.User, board *models.Board) error {
	if board.Public {
		return nil
	}
	if viewer == nil {
		return models.NewLoginRequiredError(board.Name)
	}
	return CheckOwnership(viewer.ID, board)
}

// CheckRelation fails when post is addressed under a board it does not belong to.
func CheckRelation(board *models.Board, post *models.Post) error {
	if post.BoardID != board.ID {
		return models.NewRelationMismatchError(board.Name)
	}
	return nil
}

func viewerID(viewer *models.User) uint {
	if viewer == nil {
		return 0
	}
	return viewer.ID
}
