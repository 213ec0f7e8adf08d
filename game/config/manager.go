package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/wricardo/racetrack-game/game/engine"
	"github.com/wricardo/racetrack-game/game/service"
)

var ErrTrackNotFound = errors.New("track not found")

// Manager handles race track loading and caching. Parsed tracks are
// immutable, so one cached copy safely serves every session.
type Manager struct {
	trackDir    string
	defaultName string
	tracks      map[string]*engine.Track
	mu          sync.RWMutex
}

// NewManager creates a track manager over a directory of .txt track
// files.
func NewManager(trackDir string) (*Manager, error) {
	if _, err := os.Stat(trackDir); err != nil {
		return nil, fmt.Errorf("track directory %s: %w", trackDir, err)
	}

	m := &Manager{
		trackDir: trackDir,
		tracks:   make(map[string]*engine.Track),
	}
	m.pickDefault()
	return m, nil
}

// LoadTrack loads a track by name, with or without the .txt extension.
func (m *Manager) LoadTrack(name string) (*engine.Track, error) {
	key := strings.TrimSuffix(name, ".txt")

	m.mu.RLock()
	if track, exists := m.tracks[key]; exists {
		m.mu.RUnlock()
		return track, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring the write lock.
	if track, exists := m.tracks[key]; exists {
		return track, nil
	}

	track, err := engine.LoadTrackFile(filepath.Join(m.trackDir, key+".txt"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("track %q: %w", key, ErrTrackNotFound)
		}
		return nil, err
	}

	m.tracks[key] = track
	return track, nil
}

// ListTracks returns catalog information about all parseable tracks in
// the directory.
func (m *Manager) ListTracks() ([]*service.TrackInfo, error) {
	entries, err := os.ReadDir(m.trackDir)
	if err != nil {
		return nil, fmt.Errorf("read track directory: %w", err)
	}

	var tracks []*service.TrackInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".txt") {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".txt")

		track, err := m.LoadTrack(name)
		if err != nil {
			// Skip tracks that do not parse.
			continue
		}

		tracks = append(tracks, &service.TrackInfo{
			Filename: entry.Name(),
			TrackID:  name,
			Width:    track.Width(),
			Height:   track.Height(),
			CarCount: len(track.CarStarts()),
		})
	}

	return tracks, nil
}

// DefaultTrackName returns the track used when a session is created
// without naming one. Empty when the directory holds no usable track.
func (m *Manager) DefaultTrackName() string {
	return m.defaultName
}

// pickDefault settles the default track at construction: a track named
// "default" wins, otherwise the first listed track.
func (m *Manager) pickDefault() {
	if _, err := m.LoadTrack("default"); err == nil {
		m.defaultName = "default"
		return
	}
	tracks, err := m.ListTracks()
	if err != nil || len(tracks) == 0 {
		return
	}
	m.defaultName = tracks[0].TrackID
}
