// Package corp holds the company-master cache and company search used to
// resolve free-text queries into DART corp codes.
package corp

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	gocache "github.com/patrickmn/go-cache"

	"dartgrab/internal/api"
	"dartgrab/internal/models"
)

const masterKey = "corp_master"

// MasterFetcher downloads the full company master from the disclosure API
type MasterFetcher interface {
	FetchCorpMaster(ctx context.Context) ([]models.CompanyRecord, error)
}

// Snapshot persists the last successfully fetched master as a fallback
type Snapshot interface {
	ReplaceCompanies([]models.CompanyRecord) error
	LoadCompanies() ([]models.CompanyRecord, error)
	HasCompanies() (bool, error)
	ClearCompanies() error
}

// MasterCache serves the company master from memory, refreshing over the
// network at most once per process unless forced. A transient fetch
// failure falls back to the persisted last-good snapshot; with no snapshot
// the failure is surfaced.
type MasterCache struct {
	mem    *gocache.Cache
	fetch  MasterFetcher
	store  Snapshot
	logger *log.Logger
}

// NewMasterCache creates a master cache backed by the given fetcher and
// snapshot store. store may be nil, disabling the fallback layer.
func NewMasterCache(fetcher MasterFetcher, store Snapshot, logger *log.Logger) *MasterCache {
	return &MasterCache{
		mem:    gocache.New(gocache.NoExpiration, 0),
		fetch:  fetcher,
		store:  store,
		logger: logger,
	}
}

// Get returns the company master, fetching it if the in-memory copy is
// missing or force is set
func (m *MasterCache) Get(ctx context.Context, force bool) ([]models.CompanyRecord, error) {
	if !force {
		if v, ok := m.mem.Get(masterKey); ok {
			return v.([]models.CompanyRecord), nil
		}
	}

	companies, err := m.fetch.FetchCorpMaster(ctx)
	if err != nil {
		if api.IsRetryable(err) {
			if fallback, ok := m.loadSnapshot(); ok {
				if m.logger != nil {
					m.logger.Warn("Master fetch failed, using last-good snapshot", "companies", len(fallback), "error", err)
				}
				m.mem.Set(masterKey, fallback, gocache.NoExpiration)
				return fallback, nil
			}
		}
		return nil, fmt.Errorf("failed to fetch company master: %w", err)
	}
	if len(companies) == 0 {
		return nil, fmt.Errorf("company master is empty")
	}

	m.mem.Set(masterKey, companies, gocache.NoExpiration)

	if m.store != nil {
		if err := m.store.ReplaceCompanies(companies); err != nil {
			// Snapshot write failure is not fatal; the in-memory copy
			// still serves this session
			if m.logger != nil {
				m.logger.Warn("Failed to persist master snapshot", "error", err)
			}
		}
	}

	if m.logger != nil {
		m.logger.Info("Company master loaded", "companies", len(companies))
	}
	return companies, nil
}

// Refresh forces a network fetch, replacing both cache layers
func (m *MasterCache) Refresh(ctx context.Context) ([]models.CompanyRecord, error) {
	return m.Get(ctx, true)
}

// Clear empties the in-memory master and the persisted snapshot
func (m *MasterCache) Clear() error {
	m.mem.Flush()
	if m.store != nil {
		if err := m.store.ClearCompanies(); err != nil {
			return fmt.Errorf("failed to clear master snapshot: %w", err)
		}
	}
	return nil
}

func (m *MasterCache) loadSnapshot() ([]models.CompanyRecord, bool) {
	if m.store == nil {
		return nil, false
	}
	has, err := m.store.HasCompanies()
	if err != nil || !has {
		return nil, false
	}
	companies, err := m.store.LoadCompanies()
	if err != nil || len(companies) == 0 {
		return nil, false
	}
	return companies, true
}
