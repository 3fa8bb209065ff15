package apperr

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, "ok"},
		{"validation", Validation("quantity", "must be positive"), KindValidation},
		{"not found", NotFound("batch", 7), KindNotFound},
		{"insufficient", &InsufficientStockError{BatchID: 1, Requested: 5, Available: 3}, KindInsufficientStock},
		{"storage", Storage("select", sql.ErrConnDone), KindStorage},
		{"wrapped not found", fmt.Errorf("loading: %w", NotFound("pharmacy", 2)), KindNotFound},
		{"plain", errors.New("boom"), KindUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Kind(tt.err))
		})
	}
}

func TestStorage_DoesNotRewrapTypedErrors(t *testing.T) {
	nf := NotFound("medication", 3)
	assert.Same(t, nf, Storage("insert", nf))
	assert.NoError(t, Storage("insert", nil))

	err := Storage("update batch", sql.ErrTxDone)
	var se *StorageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "update batch", se.Op)
	assert.ErrorIs(t, err, sql.ErrTxDone)
	assert.Equal(t, "storage failure", err.Error())
}

func TestInsufficientStockError_Message(t *testing.T) {
	err := &InsufficientStockError{BatchID: 9, Requested: 5, Available: 3}
	assert.Equal(t, int64(2), err.Shortfall())
	assert.Contains(t, err.Error(), "short by 2")
	assert.True(t, IsInsufficientStock(err))
}

func TestValidationError_Message(t *testing.T) {
	assert.Equal(t, "invalid quantity: must be positive", Validation("quantity", "must be positive").Error())
	assert.Equal(t, "invalid input: empty body", Validation("", "empty body").Error())
}
