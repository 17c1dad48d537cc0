package driver

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/datazip-inc/sparkify/pkg/jdbc"
)

type songMatch struct {
	SongID   string `db:"song_id"`
	ArtistID string `db:"artist_id"`
}

// Resolve finds the catalog ids of a played song by title, artist name and exact duration.
// Both ids are nil when any input is missing or nothing matches.
func Resolve(ctx context.Context, q jdbc.Queryer, title, artist *string, duration *float64) (*string, *string, error) {
	if title == nil || artist == nil || duration == nil {
		return nil, nil, nil
	}

	var match songMatch
	err := q.GetContext(ctx, &match, songSelect, *title, *artist, *duration)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to look up song[%s] by artist[%s]: %w", *title, *artist, err)
	}
	return &match.SongID, &match.ArtistID, nil
}
