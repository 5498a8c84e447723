package psqlbuilder

import (
	"testing"

	"github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelect_UsesDollarPlaceholders(t *testing.T) {
	query, args, err := Select("id").
		From("bookings").
		Where(squirrel.Eq{"booker_id": 1}).
		Where(squirrel.Lt{"start_date": "x"}).
		ToSql()

	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM bookings WHERE booker_id = $1 AND start_date < $2", query)
	assert.Equal(t, []interface{}{1, "x"}, args)
}

func TestUpdate_UsesDollarPlaceholders(t *testing.T) {
	query, _, err := Update("bookings").
		Set("status", "APPROVED").
		Where(squirrel.Eq{"id": 7}).
		ToSql()

	require.NoError(t, err)
	assert.Equal(t, "UPDATE bookings SET status = $1 WHERE id = $2", query)
}
