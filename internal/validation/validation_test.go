package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gravadigital/hackathon-api/internal/domain/common"
)

func TestValidateText(t *testing.T) {
	assert.NoError(t, ValidateText("Smart bins", MaxTitleLength, "title"))

	err := ValidateText("   ", MaxTitleLength, "title")
	assert.Equal(t, common.KindValidation, common.KindOf(err))
	assert.Equal(t, "title is required", common.MessageOf(err))

	err = ValidateText(strings.Repeat("á", MaxTitleLength+1), MaxTitleLength, "title")
	assert.Equal(t, "title must be at most 200 characters long", common.MessageOf(err))
	assert.NoError(t, ValidateText(strings.Repeat("á", MaxTitleLength), MaxTitleLength, "title"), "length counts runes")
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("dev@example.com"))
	assert.Error(t, ValidateEmail("dev"))
	assert.Error(t, ValidateEmail("Dev <dev@example.com>"))
	assert.Error(t, ValidateEmail(""))
}

func TestValidateRange(t *testing.T) {
	assert.NoError(t, ValidateRange(1, 1, 10, "rating"))
	assert.NoError(t, ValidateRange(10, 1, 10, "rating"))
	assert.Equal(t, "rating must be between 1 and 10", common.MessageOf(ValidateRange(11, 1, 10, "rating")))
}
