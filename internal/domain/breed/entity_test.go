package breed

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/purrboard/purrboard-bot/internal/domain/shared"
)

func TestBreedValidate(t *testing.T) {
	valid := &Breed{ID: "beng", Name: "Bengal"}
	assert.NoError(t, valid.Validate())

	assert.ErrorIs(t, (&Breed{Name: "Bengal"}).Validate(), ErrInvalidID)
	assert.ErrorIs(t, (&Breed{ID: "beng", Name: "  "}).Validate(), ErrEmptyName)
	assert.ErrorIs(t, (&Breed{ID: "beng", Name: "Bengal", LikeCount: -1}).Validate(), ErrNegativeLikeCount)
}

func TestBreedNotFoundClassification(t *testing.T) {
	// "Не найдено" - постоянный исход, а не транзиентный сбой хранилища:
	// инфраструктура не должна заворачивать его в ErrStoreUnavailable.
	assert.True(t, shared.IsNotFound(ErrBreedNotFound))
	assert.False(t, shared.IsStoreUnavailable(ErrBreedNotFound))
	assert.False(t, shared.IsRetryable(ErrBreedNotFound))
}
