package loader

import (
	"context"

	"memeboard/internal/models"

	"gorm.io/gorm"
)

// VoteKey identifies a ledger entry.
type VoteKey struct {
	UserID uint
	PostID uint
}

// Loaders bundles the per-request loaders.
type Loaders struct {
	Users *Loader[uint, models.User]
	Votes *Loader[VoteKey, int]
}

func NewLoaders(conn *gorm.DB) *Loaders {
	return &Loaders{
		Users: NewUserLoader(conn),
		Votes: NewVoteLoader(conn),
	}
}

func NewUserLoader(conn *gorm.DB) *Loader[uint, models.User] {
	return New(func(ctx context.Context, ids []uint) (map[uint]models.User, error) {
		var users []models.User
		if err := conn.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
			return nil, err
		}
		byID := make(map[uint]models.User, len(users))
		for _, u := range users {
			byID[u.ID] = u
		}
		return byID, nil
	})
}

// NewVoteLoader resolves vote values for (user, post) pairs in one query.
func NewVoteLoader(conn *gorm.DB) *Loader[VoteKey, int] {
	return New(func(ctx context.Context, keys []VoteKey) (map[VoteKey]int, error) {
		userSet := make(map[uint]struct{})
		postSet := make(map[uint]struct{})
		for _, k := range keys {
			userSet[k.UserID] = struct{}{}
			postSet[k.PostID] = struct{}{}
		}

		var votes []models.Vote
		err := conn.WithContext(ctx).
			Where("user_id IN ? AND post_id IN ?", setKeys(userSet), setKeys(postSet)).
			Find(&votes).Error
		if err != nil {
			return nil, err
		}

		byKey := make(map[VoteKey]int, len(votes))
		for _, v := range votes {
			byKey[VoteKey{UserID: v.UserID, PostID: v.PostID}] = v.Value
		}
		return byKey, nil
	})
}

func setKeys(set map[uint]struct{}) []uint {
	out := make([]uint, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	return out
}
