package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/gravadigital/hackathon-api/internal/domain/common"
	"github.com/gravadigital/hackathon-api/internal/repository"
)

// Compile-time checks that every repository satisfies its contract.
var (
	_ repository.EventRepository              = (*PostgresEventRepository)(nil)
	_ repository.IdeaRepository               = (*PostgresIdeaRepository)(nil)
	_ repository.VoteRepository               = (*PostgresVoteRepository)(nil)
	_ repository.ResultRepository             = (*PostgresResultRepository)(nil)
	_ repository.UserRepository               = (*PostgresUserRepository)(nil)
	_ repository.ContributorRequestRepository = (*PostgresContributorRequestRepository)(nil)
	_ repository.Container                    = (*Container)(nil)
)

// translateError maps gorm and context errors onto the domain error kinds.
// notFound is the message used when the record, or a row it references, does not exist.
func translateError(err error, op, notFound string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return common.NotFound("%s", notFound)
	case errors.Is(err, gorm.ErrForeignKeyViolated) && notFound != "":
		return &common.Error{Kind: common.KindNotFound, Message: notFound, Err: err}
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return &common.Error{Kind: common.KindConflict, Message: op + ": referenced record is missing or still in use", Err: err}
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return &common.Error{Kind: common.KindConflict, Message: op + ": record already exists", Err: err}
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return common.Unavailable(op+": database operation did not complete in time", err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
