package store

import "strconv"

// Cache key prefixes. The layout is shared with existing cache populations
// and must not change.
const (
	songPrefix          = "song/"
	relationshipsPrefix = "relationships/"
	searchPrefix        = "search/"
)

// SongKey returns the cache key for a song.
func SongKey(id uint32) string {
	return songPrefix + strconv.FormatUint(uint64(id), 10)
}

// RelationshipsKey returns the cache key for a song's relationships.
func RelationshipsKey(id uint32) string {
	return relationshipsPrefix + strconv.FormatUint(uint64(id), 10)
}

// SearchKey returns the cache key for a search query. The query is used verbatim.
func SearchKey(query string) string {
	return searchPrefix + query
}
