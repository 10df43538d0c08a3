package kernel_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loadboard/internal/core/domain/model/kernel"
	"loadboard/internal/pkg/errs"
)

func TestID_Validate(t *testing.T) {
	t.Run("positive id is valid", func(t *testing.T) {
		require.NoError(t, kernel.ID(1).Validate())
	})

	t.Run("zero id is required", func(t *testing.T) {
		err := kernel.ID(0).Validate()
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("negative id is invalid", func(t *testing.T) {
		err := kernel.ID(-3).Validate()
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Contains(t, err.Error(), "-3 is not greater than 0")
	})
}

func TestIDFromString(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    kernel.ID
		wantErr error
	}{
		{name: "decimal", in: "42", want: 42},
		{name: "not a number", in: "abc", wantErr: errs.ErrValueIsInvalid},
		{name: "zero", in: "0", wantErr: errs.ErrValueIsRequired},
		{name: "negative", in: "-1", wantErr: errs.ErrValueIsInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := kernel.IDFromString(tt.in)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Zero(t, id)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, id)
			assert.Equal(t, tt.in, id.String())
		})
	}
}
