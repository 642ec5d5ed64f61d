package controllers

import (
	"testing"

	"github.com/raulcamp/good-deeds/middleware"
	"github.com/raulcamp/good-deeds/models"
)

func boolPtr(b bool) *bool    { return &b }
func strPtr(s string) *string { return &s }

func TestSettlementFor_FeedbackWithCompletion(t *testing.T) {
	deed := &models.Deed{Completed: false}
	body := &middleware.UpdateDeedRequest{
		Reviewee:  strPtr("bob"),
		Completed: boolPtr(true),
	}

	plan := settlementFor(deed, body)
	if !plan.RecordFeedback {
		t.Fatal("settle flow must record feedback")
	}
	if !plan.CreditHelpers {
		t.Fatal("settle flow must pay helpers")
	}
	if !plan.MarkCompleted {
		t.Fatal("settle flow must mark the deed completed")
	}
}

func TestSettlementFor_FeedbackAlone(t *testing.T) {
	deed := &models.Deed{Completed: false}
	body := &middleware.UpdateDeedRequest{Reviewee: strPtr("bob")}

	plan := settlementFor(deed, body)
	if !plan.RecordFeedback {
		t.Fatal("feedback alone still records")
	}
	if plan.CreditHelpers || plan.MarkCompleted {
		t.Fatal("feedback without completed must not pay or complete")
	}
}

func TestSettlementFor_CompletedAloneIsFlagOnly(t *testing.T) {
	deed := &models.Deed{Completed: false}
	body := &middleware.UpdateDeedRequest{Completed: boolPtr(true)}

	plan := settlementFor(deed, body)
	if plan.RecordFeedback {
		t.Fatal("no reviewee, nothing to record")
	}
	if plan.CreditHelpers {
		t.Fatal("a bare completed flag never credits helpers")
	}
	if !plan.MarkCompleted {
		t.Fatal("a bare completed flag still completes the deed")
	}
}

func TestSettlementFor_CompletionIsOneWay(t *testing.T) {
	already := &models.Deed{Completed: true}

	plan := settlementFor(already, &middleware.UpdateDeedRequest{
		Reviewee:  strPtr("bob"),
		Completed: boolPtr(true),
	})
	if plan.CreditHelpers || plan.MarkCompleted {
		t.Fatal("an already-completed deed must not pay twice")
	}
	if !plan.RecordFeedback {
		t.Fatal("feedback still records on a completed deed")
	}

	plan = settlementFor(&models.Deed{Completed: false}, &middleware.UpdateDeedRequest{
		Completed: boolPtr(false),
	})
	if plan.MarkCompleted {
		t.Fatal("completed=false must not change the flag")
	}
}
