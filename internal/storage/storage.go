package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mitchellh/go-homedir"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/agripath/agripath/internal/validate"
)

// ExplorePoints is the wallet reward for exploring a career the first time.
const ExplorePoints = 10

// Exploration records a career opened from the card carousel.
type Exploration struct {
	CareerID string    `json:"career_id" validate:"required"`
	At       time.Time `json:"at"`
}

// Data represents the structure of the profile file.
type Data struct {
	DeviceUUID   string         `json:"device_uuid" validate:"required,uuid4"`
	ReferralCode string         `json:"referral_code" validate:"required,referral_code"`
	WalletPoints int            `json:"wallet_points" validate:"gte=0"`
	Shortlist    []string       `json:"shortlist"`
	Explored     []Exploration  `json:"explored" validate:"dive"`
	LastActive   map[string]int `json:"last_active" validate:"dive,gte=0"`
}

// Storage handles the loading and saving of the profile file.
type Storage struct {
	Path string `validate:"required,filepath"`
	Data Data
}

//nolint:gochecknoglobals // overridden in tests.
var systemConfigPath = "/etc/agripath/device.yaml"

// NewStorage creates a new Storage instance, loading path when it exists.
func NewStorage(path string) (*Storage, error) {
	expandedPath, err := homedir.Expand(path)
	if err != nil {
		return nil, err
	}

	s := &Storage{
		Path: expandedPath,
		Data: Data{
			Shortlist:  []string{},
			Explored:   []Exploration{},
			LastActive: make(map[string]int),
		},
	}

	if err := s.Load(); err != nil {
		// If the file doesn't exist, we can ignore the error.
		if !os.IsNotExist(err) {
			return nil, err
		}
	}

	// Devices provisioned by a partner programme ship a fixed identity that
	// wins over whatever the profile file says.
	sys := readSystemManagedConfig()
	if sys.DeviceUUID != "" && sys.DeviceUUID != s.Data.DeviceUUID {
		s.Data.DeviceUUID = sys.DeviceUUID
		s.Data.ReferralCode = referralCodeFor(sys.DeviceUUID)
	}
	if sys.ReferralCode != "" {
		s.Data.ReferralCode = sys.ReferralCode
	}

	if s.Data.DeviceUUID == "" {
		s.Data.DeviceUUID = uuid.NewString()
	}
	if s.Data.ReferralCode == "" {
		s.Data.ReferralCode = referralCodeFor(s.Data.DeviceUUID)
	}
	if s.Data.LastActive == nil {
		s.Data.LastActive = make(map[string]int)
	}

	return s, nil
}

// NewOrExistingStorage returns existing storage if the file exists, or creates a new one otherwise.
// When creating a new storage, it writes the initial profile to disk immediately.
func NewOrExistingStorage(path string) (*Storage, error) {
	expandedPath, err := homedir.Expand(path)
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(expandedPath); err == nil {
		return NewStorage(path)
	} else if os.IsNotExist(err) {
		s, err := NewStorage(path)
		if err != nil {
			return nil, err
		}
		if err := s.Save(); err != nil {
			return nil, err
		}
		return s, nil
	}
	return nil, err
}

// Load reads the profile file and repairs invalid fields.
func (s *Storage) Load() error {
	logrus.Debug("Loading profile from: ", s.Path)
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(data, &s.Data); err != nil {
		return err
	}

	if err := validate.Struct(s.Data); err != nil {
		if s.heal() {
			if err := s.Save(); err != nil {
				return err
			}
		}
	}
	return nil
}

// heal fixes fields that fail validation and reports whether anything changed.
func (s *Storage) heal() bool {
	changed := false
	if validate.Var(s.Data.DeviceUUID, "required,uuid4") != nil {
		logrus.Warn("Invalid device_uuid found in profile; regenerating.")
		s.Data.DeviceUUID = uuid.NewString()
		changed = true
	}
	if !validate.IsReferralCode(s.Data.ReferralCode) {
		s.Data.ReferralCode = referralCodeFor(s.Data.DeviceUUID)
		changed = true
	}
	if s.Data.WalletPoints < 0 {
		s.Data.WalletPoints = 0
		changed = true
	}
	for name, idx := range s.Data.LastActive {
		if idx < 0 {
			delete(s.Data.LastActive, name)
			changed = true
		}
	}
	kept := s.Data.Explored[:0]
	for _, e := range s.Data.Explored {
		if e.CareerID != "" {
			kept = append(kept, e)
		}
	}
	if len(kept) != len(s.Data.Explored) {
		changed = true
	}
	s.Data.Explored = kept
	return changed
}

// Save writes the profile data to the file.
func (s *Storage) Save() error {
	logrus.Debug("Saving profile to: ", s.Path)
	// Ensure parent directory exists.
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s.Data, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(s.Path, data, 0o600)
}

// RecordExploration appends an exploration of careerID. The first
// exploration of a career earns ExplorePoints; the return value reports it.
func (s *Storage) RecordExploration(careerID string, at time.Time) bool {
	first := true
	for _, e := range s.Data.Explored {
		if e.CareerID == careerID {
			first = false
			break
		}
	}
	s.Data.Explored = append(s.Data.Explored, Exploration{CareerID: careerID, At: at.UTC()})
	if first {
		s.Data.WalletPoints += ExplorePoints
	}
	return first
}

// SetLastActive remembers the active index of a named carousel.
func (s *Storage) SetLastActive(name string, idx int) {
	if idx < 0 {
		return
	}
	if s.Data.LastActive == nil {
		s.Data.LastActive = make(map[string]int)
	}
	s.Data.LastActive[name] = idx
}

// LastActive returns the remembered active index of a named carousel.
func (s *Storage) LastActive(name string) (int, bool) {
	idx, ok := s.Data.LastActive[name]
	return idx, ok
}

// referralCodeFor derives a stable referral code from a device id.
func referralCodeFor(deviceUUID string) string {
	code := strings.ToUpper(strings.ReplaceAll(deviceUUID, "-", ""))
	if len(code) < 8 {
		code = strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	}
	return code[:8]
}

type systemConfig struct {
	DeviceUUID   string `yaml:"device_uuid"`
	ReferralCode string `yaml:"referral_code"`
}

// readSystemManagedConfig reads a provisioned device identity. Invalid values
// are dropped.
func readSystemManagedConfig() systemConfig {
	var sc systemConfig
	data, err := os.ReadFile(systemConfigPath)
	if err != nil {
		return sc
	}
	if err := yaml.Unmarshal(data, &sc); err != nil {
		logrus.Debugf("error reading system config: %v", err)
		return systemConfig{}
	}
	if sc.DeviceUUID != "" {
		if err := validate.Var(sc.DeviceUUID, "uuid4"); err != nil {
			logrus.Warn("Invalid device_uuid in system config; ignoring.")
			sc.DeviceUUID = ""
		}
	}
	if sc.ReferralCode != "" && !validate.IsReferralCode(sc.ReferralCode) {
		logrus.Warn("Invalid referral_code in system config; ignoring.")
		sc.ReferralCode = ""
	}
	return sc
}
