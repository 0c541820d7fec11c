package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hoangnm/baithook/internal/domain/campaign/entity"
	"github.com/hoangnm/baithook/internal/domain/campaign/service"
)

type fakeCampaigns struct {
	byID map[string]*entity.Campaign
}

func newFakeCampaigns() *fakeCampaigns {
	return &fakeCampaigns{byID: map[string]*entity.Campaign{}}
}

func (f *fakeCampaigns) Create(ctx context.Context, in service.CreateInput) (*entity.Campaign, error) {
	if in.ProductName == "" {
		return nil, entity.ErrEmptyProductName
	}
	c := &entity.Campaign{
		ID:          "camp-test",
		ProductName: in.ProductName,
		BaitContent: in.BaitContent,
		Status:      entity.CampaignStatusDraft,
		CreatedAt:   time.Now(),
	}
	f.byID[c.ID] = c
	return c, nil
}

func (f *fakeCampaigns) Get(ctx context.Context, id string) (*entity.Campaign, error) {
	c, ok := f.byID[id]
	if !ok {
		return nil, entity.ErrCampaignNotFound
	}
	return c, nil
}

func (f *fakeCampaigns) List(ctx context.Context, in service.ListInput) (*service.ListOutput, error) {
	out := &service.ListOutput{Campaigns: []entity.Campaign{}}
	for _, c := range f.byID {
		out.Campaigns = append(out.Campaigns, *c)
	}
	out.Total = int64(len(out.Campaigns))
	return out, nil
}

func (f *fakeCampaigns) UpdateStatus(ctx context.Context, id string, status entity.CampaignStatus) (*entity.Campaign, error) {
	if !entity.IsValidStatus(status) {
		return nil, entity.ErrInvalidStatus
	}
	c, ok := f.byID[id]
	if !ok {
		return nil, entity.ErrCampaignNotFound
	}
	if !entity.CanTransition(c.Status, status) {
		return nil, entity.ErrIllegalTransition
	}
	c.Status = status
	return c, nil
}

func (f *fakeCampaigns) Approve(ctx context.Context, id string) (*entity.Campaign, error) {
	return f.UpdateStatus(ctx, id, entity.CampaignStatusApproved)
}

func (f *fakeCampaigns) Delete(ctx context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return entity.ErrCampaignNotFound
	}
	delete(f.byID, id)
	return nil
}

func serveCampaigns(t *testing.T, c CampaignService, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	r := chi.NewRouter()
	NewCampaignHandler(c).RegisterRoutes(r)

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestCreateCampaign(t *testing.T) {
	rec := serveCampaigns(t, newFakeCampaigns(), http.MethodPost, "/campaigns",
		`{"product_name": "Noi chien khong dau", "bait_content": "bait"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}

	var resp entity.Campaign
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Status != entity.CampaignStatusDraft {
		t.Errorf("status = %q, want draft", resp.Status)
	}
}

func TestCreateCampaign_MissingProductNameIs400(t *testing.T) {
	rec := serveCampaigns(t, newFakeCampaigns(), http.MethodPost, "/campaigns", `{"bait_content": "bait"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestUpdateStatus_IllegalTransitionIs409(t *testing.T) {
	campaigns := newFakeCampaigns()
	campaigns.byID["camp-1"] = &entity.Campaign{ID: "camp-1", Status: entity.CampaignStatusDraft}

	rec := serveCampaigns(t, campaigns, http.MethodPatch, "/campaigns/camp-1", `{"status": "posted"}`)
	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409 for draft->posted", rec.Code)
	}
}

func TestUpdateStatus_ApproveFlow(t *testing.T) {
	campaigns := newFakeCampaigns()
	campaigns.byID["camp-1"] = &entity.Campaign{ID: "camp-1", Status: entity.CampaignStatusDraft}

	rec := serveCampaigns(t, campaigns, http.MethodPost, "/campaigns/camp-1/approve", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if campaigns.byID["camp-1"].Status != entity.CampaignStatusApproved {
		t.Errorf("status = %q, want approved", campaigns.byID["camp-1"].Status)
	}
}

func TestListCampaigns_InvalidStatusIs400(t *testing.T) {
	rec := serveCampaigns(t, newFakeCampaigns(), http.MethodGet, "/campaigns?status=bogus", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestDeleteCampaign_UnknownIs404(t *testing.T) {
	rec := serveCampaigns(t, newFakeCampaigns(), http.MethodDelete, "/campaigns/missing", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
