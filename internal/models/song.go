package models

// SongData is the projection of an upstream song kept by the service.
type SongData struct {
	ID         uint32 `json:"id"`
	Title      string `json:"title"`
	ArtistName string `json:"artist_name"`
}

// Relationship is one outbound edge from an implied source song.
type Relationship struct {
	Type RelationshipType `json:"relationship_type"`
	Song SongData         `json:"song"`
}

// ArtistRecord is an upstream artist reference.
type ArtistRecord struct {
	ID   uint32 `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// SongRecord is a full upstream song record.
type SongRecord struct {
	ID                uint32               `json:"id" yaml:"id"`
	Title             string               `json:"title" yaml:"title"`
	TitleWithFeatured string               `json:"title_with_featured" yaml:"title_with_featured"`
	PrimaryArtist     ArtistRecord         `json:"primary_artist" yaml:"primary_artist"`
	SongRelationships []RelationshipRecord `json:"song_relationships,omitempty" yaml:"song_relationships"`
}

// RelationshipRecord groups upstream songs under one relationship string.
// Songs may contain nil entries; the upstream omits data for some songs.
type RelationshipRecord struct {
	RelationshipType string        `json:"relationship_type" yaml:"relationship_type"`
	Type             string        `json:"type,omitempty" yaml:"type"`
	Songs            []*SongRecord `json:"songs" yaml:"songs"`
}

// SearchHit is one upstream search result.
type SearchHit struct {
	Index  string     `json:"index"`
	Type   string     `json:"type"`
	Result SongRecord `json:"result"`
}

// Song projects the record onto SongData, preferring the featured title.
func (r *SongRecord) Song() SongData {
	title := r.TitleWithFeatured
	if title == "" {
		title = r.Title
	}

	return SongData{
		ID:         r.ID,
		Title:      title,
		ArtistName: r.PrimaryArtist.Name,
	}
}

// Song projects the hit onto SongData.
func (h *SearchHit) Song() SongData {
	return h.Result.Song()
}
