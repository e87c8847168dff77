package core

import (
	"testing"

	"github.com/stylemate/stylekit/pkg/utils"
)

func TestNewRecommendContext(t *testing.T) {
	rctx := NewRecommendContext()

	if rctx.Scoring != DefaultScoreParams() {
		t.Errorf("Scoring = %+v, want defaults %+v", rctx.Scoring, DefaultScoreParams())
	}
	if rctx.HasSeeds() || rctx.HasVector() {
		t.Error("fresh context should carry neither seeds nor a query vector")
	}

	// 零值 Labels 可直接写入。
	rctx.PutLabel("scene", utils.Label{Value: "detail_page", Source: "test"})
	if lbl, ok := rctx.GetLabel("scene"); !ok || lbl.Value != "detail_page" {
		t.Errorf("GetLabel() = (%+v, %v) after PutLabel", lbl, ok)
	}
}
