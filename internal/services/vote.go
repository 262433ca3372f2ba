package services

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"memeboard/internal/apperror"
	"memeboard/internal/db"
	"memeboard/internal/models"

	"gorm.io/gorm"
)

// voteAttempts is the initial try plus one retry on conflict.
const voteAttempts = 2

// errStaleVote means the ledger row changed between our read and our write.
var errStaleVote = errors.New("vote changed concurrently")

// VoteService keeps the vote ledger and Post.Points in lockstep.
type VoteService struct {
	db *gorm.DB
}

func NewVoteService(conn *gorm.DB) *VoteService {
	return &VoteService{db: conn}
}

// ApplyVote moves the (user, post) pair to the state named by direction.
//
//	NoVote    +1 -> UpVoted   (+1)    NoVote    -1 -> DownVoted (-1)
//	UpVoted   -1 -> DownVoted (-2)    DownVoted +1 -> UpVoted   (+2)
//	UpVoted   +1 and DownVoted -1 are no-ops.
func (s *VoteService) ApplyVote(ctx context.Context, userID, postID uint, direction int) error {
	if userID == 0 {
		return apperror.Unauthorized()
	}
	if !models.ValidDirection(direction) {
		return apperror.ValidationFailed("value", "vote value must be 1 or -1")
	}

	return s.inTx(ctx, func(tx *gorm.DB) error {
		if err := ensurePost(tx, postID); err != nil {
			return err
		}
		current, err := currentVote(tx, userID, postID)
		if err != nil {
			return err
		}

		var delta int
		switch {
		case current == nil:
			vote := models.Vote{UserID: userID, PostID: postID, Value: direction}
			if err := tx.Create(&vote).Error; err != nil {
				// post deleted after ensurePost read it
				if db.IsForeignKeyViolation(err) {
					return apperror.NotFound("post", postID)
				}
				return err
			}
			delta = direction
		case current.Value == direction:
			return nil
		default:
			// Flip: undo the old contribution and apply the new one in one step.
			res := tx.Model(&models.Vote{}).
				Where("user_id = ? AND post_id = ? AND value = ?", userID, postID, current.Value).
				Update("value", direction)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return errStaleVote
			}
			delta = 2 * direction
		}

		return adjustPoints(tx, postID, delta)
	})
}

// CancelVote retracts the caller's vote when it still equals direction.
// A mismatch means the client's view is stale and the call is a no-op.
func (s *VoteService) CancelVote(ctx context.Context, userID, postID uint, direction int) error {
	if userID == 0 {
		return apperror.Unauthorized()
	}
	if !models.ValidDirection(direction) {
		return apperror.ValidationFailed("value", "vote value must be 1 or -1")
	}

	return s.inTx(ctx, func(tx *gorm.DB) error {
		if err := ensurePost(tx, postID); err != nil {
			return err
		}
		current, err := currentVote(tx, userID, postID)
		if err != nil {
			return err
		}
		if current == nil || current.Value != direction {
			return nil
		}

		res := tx.Where("user_id = ? AND post_id = ? AND value = ?", userID, postID, direction).
			Delete(&models.Vote{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errStaleVote
		}

		return adjustPoints(tx, postID, -direction)
	})
}

// inTx runs fn in one transaction, SERIALIZABLE on Postgres, and retries once
// when the database reports a conflict. Nothing from a failed attempt is committed.
func (s *VoteService) inTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	var opts []*sql.TxOptions
	if db.IsPostgres(s.db) {
		opts = append(opts, &sql.TxOptions{Isolation: sql.LevelSerializable})
	}

	var err error
	for attempt := 1; attempt <= voteAttempts; attempt++ {
		err = s.db.WithContext(ctx).Transaction(fn, opts...)
		if err == nil || !isVoteConflict(err) {
			return err
		}
		log.Printf("⚠️ vote transaction conflict (attempt %d/%d): %v", attempt, voteAttempts, err)
	}
	return apperror.Transient(err)
}

func isVoteConflict(err error) bool {
	return errors.Is(err, errStaleVote) || db.IsConflict(err)
}

func ensurePost(tx *gorm.DB, postID uint) error {
	var post models.Post
	err := tx.Select("id").First(&post, postID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFound("post", postID)
	}
	return err
}

// currentVote returns nil when the user has no vote on the post.
func currentVote(tx *gorm.DB, userID, postID uint) (*models.Vote, error) {
	var vote models.Vote
	err := tx.Where("user_id = ? AND post_id = ?", userID, postID).Take(&vote).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &vote, nil
}

// adjustPoints applies a relative change so concurrent voters never overwrite each other.
func adjustPoints(tx *gorm.DB, postID uint, delta int) error {
	return tx.Model(&models.Post{}).
		Where("id = ?", postID).
		UpdateColumn("points", gorm.Expr("points + ?", delta)).
		Error
}
