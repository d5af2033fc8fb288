package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/mod/semver"
)

// VersionHandler serves the API major version.
type VersionHandler struct {
	major int
}

// NewVersionHandler creates a VersionHandler for a semantic version string,
// with or without the leading "v". An invalid version reports major 0.
func NewVersionHandler(version string) *VersionHandler {
	return &VersionHandler{major: majorVersion(version)}
}

func majorVersion(version string) int {
	if !strings.HasPrefix(version, "v") {
		version = "v" + version
	}

	major, err := strconv.Atoi(strings.TrimPrefix(semver.Major(version), "v"))
	if err != nil {
		return 0
	}

	return major
}

// Get handles GET /version with a bare JSON integer.
func (h *VersionHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, h.major)
}
