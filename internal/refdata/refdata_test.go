package refdata

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "certform/pkg/domain-errors"
)

func testDirectory() *Directory {
	return NewDirectory([]Country{
		{Code: "NZ", Name: "New Zealand"},
		{Code: "CN", Name: "China"},
		{Code: "EU", Name: "European Union", LocationGroup: true},
	})
}

func TestByCode(t *testing.T) {
	d := testDirectory()
	ctx := context.Background()

	t.Run("case insensitive", func(t *testing.T) {
		country, err := d.ByCode(ctx, "nz")
		require.NoError(t, err)
		assert.Equal(t, "New Zealand", country.Name)
	})

	t.Run("location group flagged", func(t *testing.T) {
		country, err := d.ByCode(ctx, "EU")
		require.NoError(t, err)
		assert.True(t, country.LocationGroup)
	})

	t.Run("unknown code", func(t *testing.T) {
		_, err := d.ByCode(ctx, "XX")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func TestByName(t *testing.T) {
	d := testDirectory()

	country, err := d.ByName(context.Background(), "china")
	require.NoError(t, err)
	assert.Equal(t, "CN", country.Code)
}
