package driver

import (
	"context"
	"errors"
	"fmt"

	"github.com/datazip-inc/sparkify/constants"
	"github.com/datazip-inc/sparkify/pkg/jdbc"
	"github.com/datazip-inc/sparkify/pkg/parser"
	"github.com/datazip-inc/sparkify/types"
	"github.com/datazip-inc/sparkify/utils/logger"
)

var errEmptySongFile = errors.New("no song record found")

type extractor struct {
	parser *parser.JSONParser
}

func newExtractor() *extractor {
	return &extractor{parser: parser.NewJSONParser(parser.DefaultJSONConfig())}
}

// songFile loads the single song of a song file: the song row first, then its artist
func (e *extractor) songFile(ctx context.Context, q jdbc.Queryer, path string, inserts types.Inserts) error {
	var record *types.SongRecord
	err := parser.StreamFile(ctx, e.parser, path, func(_ context.Context, line int, r *types.SongRecord) error {
		if record != nil {
			logger.Warnf("Ignoring extra record at line %d of song file %s", line, path)
			return nil
		}
		record = r
		return nil
	})
	if err != nil {
		return err
	}
	if record == nil {
		return &types.RecordError{Path: path, Err: errEmptySongFile}
	}
	if err := e.parser.Validate(ctx, record); err != nil {
		return &types.RecordError{Path: path, Line: 1, Err: err}
	}

	return loadSong(ctx, q, record, inserts)
}

func loadSong(ctx context.Context, q jdbc.Queryer, record *types.SongRecord, inserts types.Inserts) error {
	song := record.Song()
	if err := insert(ctx, q, inserts, constants.SongTable, songInsert,
		song.SongID, song.Title, song.ArtistID, song.Year, song.Duration); err != nil {
		return err
	}

	artist := record.Artist()
	return insert(ctx, q, inserts, constants.ArtistTable, artistInsert,
		artist.ArtistID, artist.Name, artist.Location, artist.Latitude, artist.Longitude)
}

func insert(ctx context.Context, q jdbc.Queryer, inserts types.Inserts, table, query string, args ...any) error {
	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert into %s: %w", table, err)
	}
	inserts.Add(table, 1)
	return nil
}
