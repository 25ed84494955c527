package store

import (
	"testing"

	"github.com/JonMunkholm/examplan/internal/core"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordRows(t *testing.T) {
	id := uuid.New()
	records := []core.ExamRecord{
		{"datum": "2024-02-05", "pruefung": "Analysis I"},
		{},
	}

	rows, err := recordRows(id, records)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	for i, row := range rows {
		require.Len(t, row, 3)
		assert.Equal(t, pgtype.UUID{Bytes: id, Valid: true}, row[0])
		assert.Equal(t, int32(i), row[1])

		rec, err := decodeRecord(row[2].([]byte))
		require.NoError(t, err)
		assert.Equal(t, records[i], rec)
	}
}

func TestRecordRows_Empty(t *testing.T) {
	rows, err := recordRows(uuid.New(), nil)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestDecodeRecord(t *testing.T) {
	rec, err := decodeRecord([]byte(`{"raum":"H 1"}`))
	require.NoError(t, err)
	assert.Equal(t, "H 1", rec["raum"])

	_, err = decodeRecord([]byte(`[1,2]`))
	assert.Error(t, err)
}

func TestPgUUIDRoundTrip(t *testing.T) {
	id := uuid.New()
	assert.Equal(t, id, fromPgUUID(toPgUUID(id)))

	assert.False(t, toPgUUID(uuid.Nil).Valid)
	assert.Equal(t, uuid.Nil, fromPgUUID(pgtype.UUID{}))
}
