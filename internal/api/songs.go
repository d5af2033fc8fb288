package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// maxSearchQueryLen caps the length of search query strings.
const maxSearchQueryLen = 500

// SongHandler serves song lookup and search endpoints.
type SongHandler struct {
	repo SongRepository
	log  *logrus.Logger
}

// NewSongHandler creates a SongHandler with the given repository and logger.
func NewSongHandler(repo SongRepository, log *logrus.Logger) *SongHandler {
	return &SongHandler{repo: repo, log: log}
}

// Search handles GET /search. A missing or empty q yields an empty list.
func (h *SongHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if len(q) > maxSearchQueryLen {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "query parameter q exceeds maximum length")

		return
	}

	songs, err := h.repo.Search(c.Request.Context(), q)
	if err != nil {
		respondServiceError(c, h.log, "song.search", err)

		return
	}

	c.JSON(http.StatusOK, songs)
}

// Get handles GET /songs/:song_id.
func (h *SongHandler) Get(c *gin.Context) {
	id, ok := parseSongID(c)
	if !ok {
		return
	}

	song, err := h.repo.Song(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, h.log, "song.get", err)

		return
	}

	c.JSON(http.StatusOK, song)
}

// Relationships handles GET /songs/:song_id/relationships.
func (h *SongHandler) Relationships(c *gin.Context) {
	id, ok := parseSongID(c)
	if !ok {
		return
	}

	rels, err := h.repo.Relationships(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, h.log, "song.relationships", err)

		return
	}

	c.JSON(http.StatusOK, rels)
}
