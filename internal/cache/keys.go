package cache

import (
	"fmt"
	"time"
)

const (
	ArtistKeyPrefix  = "artist:%d"
	SessionKeyPrefix = "session:%s"
)

const (
	// ArtistTTL bounds how long an artist row lives in cache. Artists are
	// never edited through the API, so only creation and deletion matter.
	ArtistTTL = 30 * time.Minute
)

func ArtistKey(artistID uint) string {
	return fmt.Sprintf(ArtistKeyPrefix, artistID)
}

func SessionKey(sessionID string) string {
	return fmt.Sprintf(SessionKeyPrefix, sessionID)
}
