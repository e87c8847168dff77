package feature

import (
	"context"
	"testing"

	"github.com/stylemate/stylekit/feast"
)

type stubFeastClient struct {
	gotReq *feast.GetOnlineFeaturesRequest
	resp   *feast.GetOnlineFeaturesResponse
}

func (c *stubFeastClient) GetOnlineFeatures(_ context.Context, req *feast.GetOnlineFeaturesRequest) (*feast.GetOnlineFeaturesResponse, error) {
	c.gotReq = req
	return c.resp, nil
}

func (c *stubFeastClient) Close() error { return nil }

func TestFeastProviderProductFeatures(t *testing.T) {
	client := &stubFeastClient{resp: &feast.GetOnlineFeaturesResponse{
		FeatureVectors: []feast.FeatureVector{
			{Values: map[string]any{"product_stats:popularity": 0.9, "product_stats:ctr": 0.05}},
			{Values: map[string]any{"product_stats:popularity": 0.2, "not_a_number": "x"}},
		},
	}}
	p := &FeastProvider{Client: client}

	got, err := p.ProductFeatures(context.Background(), []string{"p-1", "p-2"})
	if err != nil {
		t.Fatalf("ProductFeatures() error = %v", err)
	}

	// 默认特征全名与实体键。
	if len(client.gotReq.Features) != 2 || client.gotReq.Features[0] != "product_stats:popularity" {
		t.Errorf("requested features = %v", client.gotReq.Features)
	}
	if client.gotReq.EntityRows[0]["product_id"] != "p-1" {
		t.Errorf("entity rows = %v", client.gotReq.EntityRows)
	}

	// 视图前缀被剥掉，非数值被跳过。
	if got["p-1"]["popularity"] != 0.9 || got["p-1"]["ctr"] != 0.05 {
		t.Errorf("p-1 features = %v", got["p-1"])
	}
	if _, ok := got["p-2"]["not_a_number"]; ok {
		t.Error("non-numeric feature should be skipped")
	}
}

func TestFeastProviderNoClient(t *testing.T) {
	p := &FeastProvider{}
	got, err := p.ProductFeatures(context.Background(), []string{"p-1"})
	if err != nil || got != nil {
		t.Errorf("nil client = (%v, %v), want (nil, nil)", got, err)
	}
}
