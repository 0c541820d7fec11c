package entity

import "testing"

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to CampaignStatus
		want     bool
	}{
		{CampaignStatusDraft, CampaignStatusApproved, true},
		{CampaignStatusDraft, CampaignStatusFailed, true},
		{CampaignStatusApproved, CampaignStatusPosted, true},
		{CampaignStatusApproved, CampaignStatusFailed, true},

		// a live post can still fail later
		{CampaignStatusPosted, CampaignStatusFailed, true},

		// skipping approval
		{CampaignStatusDraft, CampaignStatusPosted, false},
		// failed is terminal
		{CampaignStatusFailed, CampaignStatusDraft, false},
		{CampaignStatusFailed, CampaignStatusApproved, false},
		{CampaignStatusFailed, CampaignStatusPosted, false},
		// never back to draft
		{CampaignStatusPosted, CampaignStatusDraft, false},
		// no self transitions
		{CampaignStatusDraft, CampaignStatusDraft, false},
		// never back to draft
		{CampaignStatusApproved, CampaignStatusDraft, false},
	}

	for _, c := range cases {
		if got := CanTransition(c.from, c.to); got != c.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", c.from, c.to, got, c.want)
		}
	}
}

func TestIsValidStatus(t *testing.T) {
	for _, s := range []CampaignStatus{CampaignStatusDraft, CampaignStatusApproved, CampaignStatusPosted, CampaignStatusFailed} {
		if !IsValidStatus(s) {
			t.Errorf("IsValidStatus(%s) = false", s)
		}
	}
	if IsValidStatus("archived") {
		t.Error("IsValidStatus(archived) = true, want false")
	}
}

func TestIsTerminal(t *testing.T) {
	posted := &Campaign{Status: CampaignStatusPosted}
	failed := &Campaign{Status: CampaignStatusFailed}
	draft := &Campaign{Status: CampaignStatusDraft}

	if !failed.IsTerminal() {
		t.Error("failed must be terminal")
	}
	if posted.IsTerminal() {
		t.Error("posted must not be terminal, it can still fail")
	}
	if draft.IsTerminal() {
		t.Error("draft must not be terminal")
	}
}
