package types

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/goccy/go-json"
)

// SongRecord is one line of a song metadata file. Every song file describes a single song and its artist.
type SongRecord struct {
	NumSongs        int      `json:"num_songs"`
	SongID          string   `json:"song_id" validate:"required"`
	Title           string   `json:"title" validate:"required"`
	ArtistID        string   `json:"artist_id" validate:"required"`
	Year            int      `json:"year" validate:"gte=0"`
	Duration        float64  `json:"duration" validate:"gte=0"`
	ArtistName      string   `json:"artist_name" validate:"required"`
	ArtistLocation  *string  `json:"artist_location"`
	ArtistLatitude  *float64 `json:"artist_latitude"`
	ArtistLongitude *float64 `json:"artist_longitude"`
}

func (r *SongRecord) Song() Song {
	return Song{
		SongID:   r.SongID,
		Title:    r.Title,
		ArtistID: r.ArtistID,
		Year:     r.Year,
		Duration: r.Duration,
	}
}

func (r *SongRecord) Artist() Artist {
	return Artist{
		ArtistID:  r.ArtistID,
		Name:      r.ArtistName,
		Location:  r.ArtistLocation,
		Latitude:  r.ArtistLatitude,
		Longitude: r.ArtistLongitude,
	}
}

// LogEvent is one line of an activity log file
type LogEvent struct {
	Artist        *string  `json:"artist"`
	Auth          string   `json:"auth"`
	FirstName     string   `json:"firstName"`
	Gender        string   `json:"gender"`
	ItemInSession int      `json:"itemInSession"`
	LastName      string   `json:"lastName"`
	Length        *float64 `json:"length"`
	Level         string   `json:"level"`
	Location      string   `json:"location"`
	Method        string   `json:"method"`
	Page          string   `json:"page"`
	Registration  *float64 `json:"registration"`
	SessionID     int64    `json:"sessionId"`
	Song          *string  `json:"song"`
	Status        int      `json:"status"`
	TS            int64    `json:"ts" validate:"gt=0"`
	UserAgent     string   `json:"userAgent"`
	UserID        UserID   `json:"userId" validate:"gt=0"`
}

func (e *LogEvent) User() User {
	return User{
		UserID:    int64(e.UserID),
		FirstName: e.FirstName,
		LastName:  e.LastName,
		Gender:    e.Gender,
		Level:     e.Level,
	}
}

// Songplay builds the fact row for the event; songID and artistID stay nil when the lookup found nothing
func (e *LogEvent) Songplay(songID, artistID *string) Songplay {
	return Songplay{
		StartTime: MillisToTime(e.TS),
		UserID:    int64(e.UserID),
		Level:     e.Level,
		SongID:    songID,
		ArtistID:  artistID,
		SessionID: e.SessionID,
		Location:  e.Location,
		UserAgent: e.UserAgent,
	}
}

// UserID accepts both JSON strings and numbers. Logged-out events carry an empty string which decodes to 0.
type UserID int64

func (u *UserID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*u = 0
		return nil
	}

	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("invalid userId %s: %s", raw, err)
		}
		raw = s
	}
	if raw == "" {
		*u = 0
		return nil
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid userId %q: %s", raw, err)
	}
	*u = UserID(id)
	return nil
}

type Song struct {
	SongID   string  `db:"song_id"`
	Title    string  `db:"title"`
	ArtistID string  `db:"artist_id"`
	Year     int     `db:"year"`
	Duration float64 `db:"duration"`
}

type Artist struct {
	ArtistID  string   `db:"artist_id"`
	Name      string   `db:"name"`
	Location  *string  `db:"location"`
	Latitude  *float64 `db:"latitude"`
	Longitude *float64 `db:"longitude"`
}

type User struct {
	UserID    int64  `db:"user_id"`
	FirstName string `db:"first_name"`
	LastName  string `db:"last_name"`
	Gender    string `db:"gender"`
	Level     string `db:"level"`
}

type Songplay struct {
	StartTime time.Time `db:"start_time"`
	UserID    int64     `db:"user_id"`
	Level     string    `db:"level"`
	SongID    *string   `db:"song_id"`
	ArtistID  *string   `db:"artist_id"`
	SessionID int64     `db:"session_id"`
	Location  string    `db:"location"`
	UserAgent string    `db:"user_agent"`
}
