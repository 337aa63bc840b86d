package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/gravadigital/hackathon-api/internal/domain/common"
)

func TestTranslateError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		notFound string
		kind     common.Kind
		message  string
	}{
		{"missing record", gorm.ErrRecordNotFound, "Idea not found", common.KindNotFound, "Idea not found"},
		{"missing referenced row", fmt.Errorf("insert: %w", gorm.ErrForeignKeyViolated), "Idea not found", common.KindNotFound, "Idea not found"},
		{"referenced row without message", gorm.ErrForeignKeyViolated, "", common.KindConflict, "failed to store: referenced record is missing or still in use"},
		{"duplicate", gorm.ErrDuplicatedKey, "", common.KindConflict, "failed to store: record already exists"},
		{"deadline", context.DeadlineExceeded, "", common.KindUnavailable, "failed to store: database operation did not complete in time"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := translateError(tt.err, "failed to store", tt.notFound)
			assert.Equal(t, tt.kind, common.KindOf(err))
			assert.Equal(t, tt.message, common.MessageOf(err))
		})
	}

	fk := translateError(gorm.ErrForeignKeyViolated, "failed to store like", "Idea not found")
	assert.ErrorIs(t, fk, gorm.ErrForeignKeyViolated)

	assert.NoError(t, translateError(nil, "failed to store", "Idea not found"))

	plain := translateError(errors.New("boom"), "failed to store", "")
	assert.Equal(t, common.KindInternal, common.KindOf(plain))
}
