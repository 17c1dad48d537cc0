package driver

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	testSongID   = "SOSVXDO12AF72A2321"
	testArtistID = "ARGE7G11187B9B890B"
	testTitle    = "Floating Around"
	testArtist   = "Jimmy Wakely"
	testDuration = 281.78077
)

const songFixture = `{"num_songs": 1, "artist_id": "ARGE7G11187B9B890B", "artist_latitude": null, "artist_longitude": null, "artist_location": "", "artist_name": "Jimmy Wakely", "song_id": "SOSVXDO12AF72A2321", "title": "Floating Around", "duration": 281.78077, "year": 1980}`

var logFixture = []string{
	`{"artist":"Jimmy Wakely","auth":"Logged In","firstName":"Kaylee","gender":"F","itemInSession":0,"lastName":"Summers","length":281.78077,"level":"free","location":"Phoenix-Mesa-Scottsdale, AZ","method":"PUT","page":"NextSong","registration":1540344794796.0,"sessionId":139,"song":"Floating Around","status":200,"ts":1541106106796,"userAgent":"Mozilla\/5.0","userId":"8"}`,
	`{"artist":null,"auth":"Logged In","firstName":"Kaylee","gender":"F","itemInSession":1,"lastName":"Summers","length":null,"level":"free","location":"Phoenix-Mesa-Scottsdale, AZ","method":"GET","page":"Home","registration":1540344794796.0,"sessionId":139,"song":null,"status":200,"ts":1541106132796,"userAgent":"Mozilla\/5.0","userId":"8"}`,
	`{"artist":"Des'ree","auth":"Logged In","firstName":"Sylvie","gender":"F","itemInSession":0,"lastName":"Cruz","length":246.30812,"level":"free","location":"Washington-Arlington-Alexandria, DC-VA-MD-WV","method":"PUT","page":"NextSong","registration":1540266185796.0,"sessionId":9,"song":"You Gotta Be","status":200,"ts":1541106352796,"userAgent":"Mozilla\/5.0","userId":10}`,
	`{"artist":null,"auth":"Logged In","firstName":"Kaylee","gender":"F","itemInSession":2,"lastName":"Summers","length":null,"level":"paid","location":"Phoenix-Mesa-Scottsdale, AZ","method":"PUT","page":"NextSong","registration":1540344794796.0,"sessionId":139,"song":null,"status":200,"ts":1541106106796,"userAgent":"Mozilla\/5.0","userId":"8"}`,
}

func writeFixture(t *testing.T, dir, name string, lines ...string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o600))
	return path
}
