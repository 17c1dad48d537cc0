package driver

import (
	"context"

	"github.com/datazip-inc/sparkify/constants"
	"github.com/datazip-inc/sparkify/pkg/jdbc"
	"github.com/datazip-inc/sparkify/pkg/parser"
	"github.com/datazip-inc/sparkify/types"
)

// logFile loads the song plays of an activity log: time rows, then users, then one songplay per event
func (e *extractor) logFile(ctx context.Context, q jdbc.Queryer, path string, inserts types.Inserts) error {
	var events []*types.LogEvent
	err := parser.StreamFile(ctx, e.parser, path, func(ctx context.Context, line int, event *types.LogEvent) error {
		if event.Page != constants.NextSongPage {
			return nil
		}
		if err := e.parser.Validate(ctx, event); err != nil {
			return &types.RecordError{Path: path, Line: line, Err: err}
		}
		events = append(events, event)
		return nil
	})
	if err != nil {
		return err
	}

	return loadEvents(ctx, q, events, inserts)
}

func loadEvents(ctx context.Context, q jdbc.Queryer, events []*types.LogEvent, inserts types.Inserts) error {
	// one row per event, repeated timestamps are left to the table
	for _, event := range events {
		bucket := types.NewTimeBucket(event.TS)
		if err := insert(ctx, q, inserts, constants.TimeTable, timeInsert,
			bucket.StartTime, bucket.Hour, bucket.Day, bucket.Week, bucket.Month, bucket.Year, bucket.Weekday); err != nil {
			return err
		}
	}

	for _, user := range distinctUsers(events) {
		if err := insert(ctx, q, inserts, constants.UserTable, userInsert,
			user.UserID, user.FirstName, user.LastName, user.Gender, user.Level); err != nil {
			return err
		}
	}

	for _, event := range events {
		songID, artistID, err := Resolve(ctx, q, event.Song, event.Artist, event.Length)
		if err != nil {
			return err
		}
		play := event.Songplay(songID, artistID)
		if err := insert(ctx, q, inserts, constants.SongplayTable, songplayInsert,
			play.StartTime, play.UserID, play.Level, play.SongID, play.ArtistID, play.SessionID, play.Location, play.UserAgent); err != nil {
			return err
		}
	}
	return nil
}

// distinctUsers keeps the first-seen order of user ids while the latest event of a user wins,
// so the stored level is the one the user ended the file with
func distinctUsers(events []*types.LogEvent) []types.User {
	index := make(map[int64]int)
	users := make([]types.User, 0)
	for _, event := range events {
		user := event.User()
		if idx, found := index[user.UserID]; found {
			users[idx] = user
			continue
		}
		index[user.UserID] = len(users)
		users = append(users, user)
	}
	return users
}
