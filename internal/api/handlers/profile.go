package handlers

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"mana-backtest/internal/api/models"
	"mana-backtest/internal/config"

	"github.com/gin-gonic/gin"
)

// ProfileHandler handles rotation preset requests
type ProfileHandler struct {
	profileDir string
}

// NewProfileHandler creates a profile handler rooted at dir. An empty dir
// falls back to PROFILE_DIR, then ./examples/profiles.
func NewProfileHandler(dir string) *ProfileHandler {
	if dir == "" {
		dir = os.Getenv("PROFILE_DIR")
	}
	if dir == "" {
		// Try to resolve relative to working directory first
		wd, err := os.Getwd()
		if err == nil {
			dir = filepath.Join(wd, "examples", "profiles")
		} else {
			dir = "./examples/profiles"
		}
	}

	// Convert to absolute path for reliability
	absDir, err := filepath.Abs(dir)
	if err == nil {
		dir = absDir
	}

	log.Printf("ProfileHandler: Using profile directory: %s", dir)

	return &ProfileHandler{
		profileDir: dir,
	}
}

// Dir returns the profile directory path
func (h *ProfileHandler) Dir() string {
	return h.profileDir
}

// Load reads the preset with the given id (file name without .yaml).
func (h *ProfileHandler) Load(id string) (config.RotationConfig, error) {
	id = strings.TrimSuffix(id, ".yaml")
	// Profile ids are plain file names; never let a request walk the filesystem.
	if id == "" || id != filepath.Base(id) || strings.HasPrefix(id, ".") {
		return config.RotationConfig{}, fmt.Errorf("invalid profile id %q", id)
	}
	return config.LoadProfile(filepath.Join(h.profileDir, id+".yaml"))
}

// ListProfiles handles GET /api/v1/profiles
func (h *ProfileHandler) ListProfiles(c *gin.Context) {
	profiles := []models.ProfileInfo{}

	entries, err := os.ReadDir(h.profileDir)
	if err != nil {
		log.Printf("ProfileHandler: Failed to read profile directory %s: %v", h.profileDir, err)
		c.JSON(http.StatusOK, gin.H{"profiles": profiles})
		return
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		id := strings.TrimSuffix(entry.Name(), ".yaml")
		rot, err := h.Load(id)
		if err != nil {
			log.Printf("ProfileHandler: Failed to load profile file %s: %v", entry.Name(), err)
			continue // Skip invalid files
		}

		name := rot.Name
		if name == "" {
			name = id
		}
		profiles = append(profiles, models.ProfileInfo{
			ID:       id,
			Name:     name,
			File:     filepath.Join(h.profileDir, entry.Name()),
			Rotation: config.MergeRotation(config.DefaultRotation(), rot),
		})
	}
	sort.Slice(profiles, func(i, j int) bool { return profiles[i].ID < profiles[j].ID })

	log.Printf("ProfileHandler: Returning %d profiles", len(profiles))
	c.JSON(http.StatusOK, gin.H{"profiles": profiles})
}
