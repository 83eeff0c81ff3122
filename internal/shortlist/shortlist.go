package shortlist

import (
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/sirupsen/logrus"

	"github.com/agripath/agripath/internal/content"
	"github.com/agripath/agripath/internal/storage"
)

// ErrUnknownCareer is returned when adding an id the catalog does not carry.
var ErrUnknownCareer = errors.New("unknown career")

// Manager handles the logic for the shortlist commands.
type Manager struct {
	Storage *storage.Storage
	// Catalog resolves ids to titles. It may be nil, in which case ids are
	// accepted as given.
	Catalog *content.Catalog
}

// NewManager creates a new Manager instance. A missing profile is created
// so the generated device identity is stable from the first run.
func NewManager(storagePath string, catalog *content.Catalog) (*Manager, error) {
	s, err := storage.NewOrExistingStorage(storagePath)
	if err != nil {
		return nil, err
	}

	return &Manager{Storage: s, Catalog: catalog}, nil
}

// View prints the current shortlist to the provided writer.
func (m *Manager) View(w io.Writer) {
	if len(m.Storage.Data.Shortlist) == 0 {
		fmt.Fprintln(w, "Shortlist is empty.")
		return
	}

	for _, id := range m.Storage.Data.Shortlist {
		if c, ok := m.Catalog.FindCareer(id); ok {
			fmt.Fprintf(w, "- %s (%s)\n", c.Title, id)
			continue
		}
		fmt.Fprintf(w, "- %s\n", id)
	}
}

// Contains reports whether id is shortlisted.
func (m *Manager) Contains(id string) bool {
	return slices.Contains(m.Storage.Data.Shortlist, id)
}

// Add shortlists a career. Adding an id twice is a no-op; the return value
// reports whether the list changed.
func (m *Manager) Add(id string) (bool, error) {
	logrus.Debugf("Adding to shortlist: id=%s", id)
	if _, ok := m.Catalog.FindCareer(id); m.Catalog != nil && !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownCareer, id)
	}
	if m.Contains(id) {
		return false, nil
	}
	m.Storage.Data.Shortlist = append(m.Storage.Data.Shortlist, id)
	return true, m.Storage.Save()
}

// Remove drops a career from the shortlist.
func (m *Manager) Remove(id string) (bool, error) {
	logrus.Debugf("Removing from shortlist: id=%s", id)
	idx := slices.Index(m.Storage.Data.Shortlist, id)
	if idx < 0 {
		return false, nil
	}
	m.Storage.Data.Shortlist = slices.Delete(m.Storage.Data.Shortlist, idx, idx+1)
	return true, m.Storage.Save()
}

// Toggle adds id when absent and removes it otherwise. It returns whether id
// is shortlisted afterwards.
func (m *Manager) Toggle(id string) (bool, error) {
	if m.Contains(id) {
		_, err := m.Remove(id)
		return false, err
	}
	_, err := m.Add(id)
	return err == nil, err
}

// Reset clears the shortlist.
func (m *Manager) Reset() error {
	logrus.Debug("Resetting shortlist")
	m.Storage.Data.Shortlist = []string{}
	return m.Storage.Save()
}
