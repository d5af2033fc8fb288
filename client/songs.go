package client

import (
	"context"
	"net/url"
	"strconv"
)

// SongService handles song lookups and search.
type SongService struct {
	c *Client
}

// Search returns songs matching a free-text query.
func (s *SongService) Search(ctx context.Context, query string) ([]Song, error) {
	var songs []Song
	if err := s.c.get(ctx, "/search", url.Values{"q": {query}}, &songs); err != nil {
		return nil, err
	}
	return songs, nil
}

// Get returns a song by id.
func (s *SongService) Get(ctx context.Context, id uint32) (*Song, error) {
	var song Song
	if err := s.c.get(ctx, "/songs/"+strconv.FormatUint(uint64(id), 10), nil, &song); err != nil {
		return nil, err
	}
	return &song, nil
}

// Relationships returns the sample and interpolation relationships of a song.
func (s *SongService) Relationships(ctx context.Context, id uint32) ([]Relationship, error) {
	var rels []Relationship
	if err := s.c.get(ctx, "/songs/"+strconv.FormatUint(uint64(id), 10)+"/relationships", nil, &rels); err != nil {
		return nil, err
	}
	return rels, nil
}
