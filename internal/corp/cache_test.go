package corp

import (
	"context"
	"errors"
	"testing"

	"dartgrab/internal/api"
	"dartgrab/internal/models"
)

type fakeFetcher struct {
	companies []models.CompanyRecord
	err       error
	calls     int
}

func (f *fakeFetcher) FetchCorpMaster(ctx context.Context) ([]models.CompanyRecord, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.companies, nil
}

type fakeSnapshot struct {
	companies []models.CompanyRecord
	cleared   bool
	replaced  int
}

func (s *fakeSnapshot) ReplaceCompanies(companies []models.CompanyRecord) error {
	s.companies = append([]models.CompanyRecord(nil), companies...)
	s.replaced++
	return nil
}

func (s *fakeSnapshot) LoadCompanies() ([]models.CompanyRecord, error) {
	return s.companies, nil
}

func (s *fakeSnapshot) HasCompanies() (bool, error) {
	return len(s.companies) > 0, nil
}

func (s *fakeSnapshot) ClearCompanies() error {
	s.companies = nil
	s.cleared = true
	return nil
}

var sampleCompanies = []models.CompanyRecord{
	{CorpCode: "00126380", CorpName: "삼성전자", StockCode: "005930"},
	{CorpCode: "00258999", CorpName: "삼성전자서비스"},
}

func TestMasterCacheFetchesOnce(t *testing.T) {
	fetcher := &fakeFetcher{companies: sampleCompanies}
	snapshot := &fakeSnapshot{}
	cache := NewMasterCache(fetcher, snapshot, nil)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		got, err := cache.Get(ctx, false)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if len(got) != len(sampleCompanies) {
			t.Fatalf("Get() = %d companies, want %d", len(got), len(sampleCompanies))
		}
	}

	if fetcher.calls != 1 {
		t.Errorf("fetcher called %d times, want 1", fetcher.calls)
	}
	if snapshot.replaced != 1 {
		t.Errorf("snapshot replaced %d times, want 1", snapshot.replaced)
	}
}

func TestMasterCacheForceRefresh(t *testing.T) {
	fetcher := &fakeFetcher{companies: sampleCompanies}
	cache := NewMasterCache(fetcher, &fakeSnapshot{}, nil)

	ctx := context.Background()
	if _, err := cache.Get(ctx, false); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if _, err := cache.Refresh(ctx); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	if fetcher.calls != 2 {
		t.Errorf("fetcher called %d times, want 2", fetcher.calls)
	}
}

// TestMasterCacheFallsBackOnTransientError verifies the last-good
// snapshot serves a network failure
func TestMasterCacheFallsBackOnTransientError(t *testing.T) {
	snapshot := &fakeSnapshot{companies: sampleCompanies}
	fetcher := &fakeFetcher{err: errors.New("dial tcp: connection refused")}
	cache := NewMasterCache(fetcher, snapshot, nil)

	got, err := cache.Get(context.Background(), false)
	if err != nil {
		t.Fatalf("Get() error = %v, want snapshot fallback", err)
	}
	if len(got) != len(sampleCompanies) {
		t.Errorf("Get() = %d companies, want %d from snapshot", len(got), len(sampleCompanies))
	}

	// The fallback is memoized; the next Get must not retry the network
	if _, err := cache.Get(context.Background(), false); err != nil {
		t.Fatalf("second Get() error = %v", err)
	}
	if fetcher.calls != 1 {
		t.Errorf("fetcher called %d times after fallback, want 1", fetcher.calls)
	}
}

// TestMasterCacheAuthErrorNoFallback verifies a rejected key surfaces
// even when a snapshot exists
func TestMasterCacheAuthErrorNoFallback(t *testing.T) {
	snapshot := &fakeSnapshot{companies: sampleCompanies}
	fetcher := &fakeFetcher{err: &api.AuthError{Status: "010", Message: "unregistered key"}}
	cache := NewMasterCache(fetcher, snapshot, nil)

	_, err := cache.Get(context.Background(), false)
	if err == nil {
		t.Fatal("Get() succeeded, want auth error")
	}
	var authErr *api.AuthError
	if !errors.As(err, &authErr) {
		t.Errorf("Get() error = %v, want *api.AuthError", err)
	}
}

// TestMasterCacheFirstLoadFailure verifies a network failure with no
// prior snapshot is fatal for the call
func TestMasterCacheFirstLoadFailure(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("timeout")}
	cache := NewMasterCache(fetcher, &fakeSnapshot{}, nil)

	if _, err := cache.Get(context.Background(), false); err == nil {
		t.Fatal("Get() succeeded with no cache and a failing fetch")
	}
}

func TestMasterCacheClear(t *testing.T) {
	fetcher := &fakeFetcher{companies: sampleCompanies}
	snapshot := &fakeSnapshot{}
	cache := NewMasterCache(fetcher, snapshot, nil)

	ctx := context.Background()
	if _, err := cache.Get(ctx, false); err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	if err := cache.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if !snapshot.cleared {
		t.Error("Clear() did not clear the snapshot store")
	}

	// Next Get must hit the network again
	if _, err := cache.Get(ctx, false); err != nil {
		t.Fatalf("Get() after Clear() error = %v", err)
	}
	if fetcher.calls != 2 {
		t.Errorf("fetcher called %d times, want 2 after clear", fetcher.calls)
	}
}
