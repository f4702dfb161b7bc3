package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/pevans/newsharvest/archive"
	"github.com/pevans/newsharvest/fetch"
	"github.com/pevans/newsharvest/orchestrator"
	"github.com/pevans/newsharvest/publication"
	"github.com/pevans/newsharvest/scraper"
)

// Environment variables overriding the config file.
const (
	EnvOutput     = "NEWSHARVEST_OUTPUT"
	EnvArchiveDSN = "NEWSHARVEST_ARCHIVE_DSN"
	EnvAPIAddr    = "NEWSHARVEST_API_ADDR"
)

// DefaultAPIAddr is where the archive API listens by default.
const DefaultAPIAddr = "localhost:8080"

var ErrInvalidDelay = errors.New("delay.min must not exceed delay.max")

// Settings are the effective values after defaults, the config file and
// the environment have been applied, in that order. Command-line flags
// are applied by the caller.
type Settings struct {
	Limit         int
	Output        string
	Timeout       time.Duration
	UserAgent     string
	DelayMin      time.Duration
	DelayMax      time.Duration
	MinInterval   time.Duration
	RespectRobots bool
	ArchiveDSN    string
	APIAddr       string
	Publications  []*scraper.Publication
	Only          []string
}

// getEnv returns the value of an environment variable or a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Defaults returns the settings used when nothing is configured.
func Defaults() *Settings {
	return &Settings{
		Limit:        orchestrator.DefaultLimit,
		Output:       archive.DefaultOutput,
		Timeout:      fetch.DefaultTimeout,
		UserAgent:    fetch.DefaultUserAgent,
		DelayMin:     publication.DefaultDelayMin,
		DelayMax:     publication.DefaultDelayMax,
		APIAddr:      DefaultAPIAddr,
		Publications: publication.Builtin(),
	}
}

// Load builds Settings from the config file at path (see LoadConfigFile)
// and the environment.
func Load(path string) (*Settings, error) {
	file, err := LoadConfigFile(path)
	if err != nil {
		return nil, err
	}

	s := Defaults()
	if file != nil {
		s.apply(file)
	}

	s.Output = getEnv(EnvOutput, s.Output)
	s.ArchiveDSN = getEnv(EnvArchiveDSN, s.ArchiveDSN)
	s.APIAddr = getEnv(EnvAPIAddr, s.APIAddr)

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Settings) apply(file *FileConfig) {
	if file.Limit > 0 {
		s.Limit = file.Limit
	}
	if file.Output != "" {
		s.Output = file.Output
	}
	if file.Timeout > 0 {
		s.Timeout = file.Timeout
	}
	if file.UserAgent != "" {
		s.UserAgent = file.UserAgent
	}
	if file.Delay.Min != 0 || file.Delay.Max != 0 {
		s.DelayMin, s.DelayMax = file.Delay.Min, file.Delay.Max
	}
	if file.MinInterval > 0 {
		s.MinInterval = file.MinInterval
	}
	s.RespectRobots = file.RespectRobots
	if file.Archive.DSN != "" {
		s.ArchiveDSN = file.Archive.DSN
	}
	if file.API.Addr != "" {
		s.APIAddr = file.API.Addr
	}
	if len(file.Publications) > 0 {
		s.Publications = make([]*scraper.Publication, len(file.Publications))
		for i := range file.Publications {
			s.Publications[i] = &file.Publications[i]
		}
	}
	if len(file.Only) > 0 {
		s.Only = file.Only
	}
}

// Validate checks settings that can be overridden after loading.
func (s *Settings) Validate() error {
	if s.DelayMin < 0 || s.DelayMax < 0 || s.DelayMin > s.DelayMax {
		return fmt.Errorf("%w: %s > %s", ErrInvalidDelay, s.DelayMin, s.DelayMax)
	}
	if s.Limit < 0 {
		return fmt.Errorf("limit must not be negative: %d", s.Limit)
	}
	return nil
}

// SessionOptions returns the fetch options for these settings.
func (s *Settings) SessionOptions() fetch.Options {
	return fetch.Options{
		UserAgent:     s.UserAgent,
		Timeout:       s.Timeout,
		MinInterval:   s.MinInterval,
		RespectRobots: s.RespectRobots,
	}
}

// AdapterOptions returns the adapter options for these settings.
func (s *Settings) AdapterOptions(logger *log.Logger) publication.Options {
	return publication.Options{
		DelayMin: s.DelayMin,
		DelayMax: s.DelayMax,
		Logger:   logger,
	}
}

// SelectedPublications returns the configured publications restricted to
// Only.
func (s *Settings) SelectedPublications() ([]*scraper.Publication, error) {
	return publication.Select(s.Publications, s.Only)
}
