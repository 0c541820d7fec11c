package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	campaignentity "github.com/hoangnm/baithook/internal/domain/campaign/entity"
)

type fakeThreadCounter struct {
	bySource map[string]int64
	total    int64
	err      error
}

func (f *fakeThreadCounter) CountBySource(ctx context.Context, source string) (int64, error) {
	return f.bySource[source], f.err
}

func (f *fakeThreadCounter) CountAll(ctx context.Context) (int64, error) {
	return f.total, f.err
}

type fakeCampaignCounter struct {
	byStatus map[campaignentity.CampaignStatus]int64
	total    int64
}

func (f *fakeCampaignCounter) CountByStatus(ctx context.Context, status campaignentity.CampaignStatus) (int64, error) {
	return f.byStatus[status], nil
}

func (f *fakeCampaignCounter) CountAll(ctx context.Context) (int64, error) {
	return f.total, nil
}

type fakeLinkCounter struct {
	count int64
}

func (f *fakeLinkCounter) Count(ctx context.Context) (int64, error) {
	return f.count, nil
}

func serveStats(t *testing.T, tc ThreadCounter, cc CampaignCounter, lc LinkCounter) *httptest.ResponseRecorder {
	t.Helper()

	r := chi.NewRouter()
	NewStatsHandler(tc, cc, lc, discardLogger()).RegisterRoutes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stats", nil))
	return rec
}

func TestStats_AggregatesCounts(t *testing.T) {
	tc := &fakeThreadCounter{bySource: map[string]int64{"voz": 3, "reddit": 2}, total: 5}
	cc := &fakeCampaignCounter{
		byStatus: map[campaignentity.CampaignStatus]int64{
			campaignentity.CampaignStatusDraft:    4,
			campaignentity.CampaignStatusApproved: 2,
			campaignentity.CampaignStatusPosted:   1,
		},
		total: 7,
	}
	lc := &fakeLinkCounter{count: 9}

	rec := serveStats(t, tc, cc, lc)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp StatsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Voz != 3 || resp.Reddit != 2 || resp.TotalThreads != 5 {
		t.Errorf("thread counts wrong: %+v", resp)
	}
	if resp.Campaigns.Total != 7 || resp.Campaigns.Draft != 4 || resp.Campaigns.Approved != 2 || resp.Campaigns.Posted != 1 {
		t.Errorf("campaign counts wrong: %+v", resp.Campaigns)
	}
	if resp.Links != 9 {
		t.Errorf("links = %d, want 9", resp.Links)
	}
}

func TestStats_StoreFailureDegradesToZeroed200(t *testing.T) {
	tc := &fakeThreadCounter{err: errors.New("db down")}

	rec := serveStats(t, tc, &fakeCampaignCounter{}, &fakeLinkCounter{})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 on store failure", rec.Code)
	}

	var resp StatsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp != (StatsResponse{}) {
		t.Errorf("expected zeroed payload, got %+v", resp)
	}
}
