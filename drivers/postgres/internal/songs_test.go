package driver

import (
	"context"
	"testing"

	"github.com/datazip-inc/sparkify/constants"
	"github.com/datazip-inc/sparkify/types"
	"github.com/datazip-inc/sparkify/utils/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSongFileInsertsSongThenArtist(t *testing.T) {
	path := writeFixture(t, t.TempDir(), "A/B/C/TRAAAAW128F429D538.json", songFixture)
	q := &testutils.RecordingQueryer{}
	inserts := types.Inserts{}

	require.NoError(t, newExtractor().songFile(context.Background(), q, path, inserts))

	require.Len(t, q.Execs, 2)
	assert.Equal(t, songInsert, q.Execs[0].Query)
	assert.Equal(t, []any{testSongID, testTitle, testArtistID, 1980, testDuration}, q.Execs[0].Args)

	assert.Equal(t, artistInsert, q.Execs[1].Query)
	args := q.Execs[1].Args
	assert.Equal(t, testArtistID, args[0])
	assert.Equal(t, testArtist, args[1])
	require.NotNil(t, args[2].(*string))
	assert.Equal(t, "", *args[2].(*string))
	assert.Nil(t, args[3].(*float64))
	assert.Nil(t, args[4].(*float64))

	assert.Equal(t, types.Inserts{constants.SongTable: 1, constants.ArtistTable: 1}, inserts)
}

func TestSongFileUsesFirstRecord(t *testing.T) {
	second := `{"num_songs": 1, "artist_id": "AR000000000000000", "artist_name": "Other", "song_id": "SO000000000000000", "title": "Other", "duration": 1.5, "year": 0}`
	path := writeFixture(t, t.TempDir(), "song.json", songFixture, second)
	q := &testutils.RecordingQueryer{}

	require.NoError(t, newExtractor().songFile(context.Background(), q, path, types.Inserts{}))
	require.Len(t, q.ExecsInto(constants.SongTable), 1)
	assert.Equal(t, testSongID, q.ExecsInto(constants.SongTable)[0].Args[0])
}

func TestSongFileRecordErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "missing song_id", content: `{"artist_id": "ARGE7G11187B9B890B", "artist_name": "Jimmy Wakely", "title": "Floating Around", "duration": 281.78077, "year": 1980}`},
		{name: "missing artist name", content: `{"artist_id": "ARGE7G11187B9B890B", "song_id": "SOSVXDO12AF72A2321", "title": "Floating Around", "duration": 281.78077, "year": 1980}`},
		{name: "malformed json", content: `{"song_id": "SOSVXDO12AF72A2321", "title": }`},
		{name: "empty file", content: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFixture(t, t.TempDir(), "song.json", tt.content)
			q := &testutils.RecordingQueryer{}
			inserts := types.Inserts{}

			err := newExtractor().songFile(context.Background(), q, path, inserts)
			require.Error(t, err)

			var recordErr *types.RecordError
			require.ErrorAs(t, err, &recordErr)
			assert.Equal(t, path, recordErr.Path)
			assert.False(t, types.IsFatal(err))
			assert.Empty(t, q.Execs)
			assert.Empty(t, inserts)
		})
	}
}
