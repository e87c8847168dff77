package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stylemate/stylekit/core"
)

// appendNode 往结果里追加一个固定候选。
type appendNode struct {
	id string
}

func (n *appendNode) Name() string { return "test.append/" + n.id }
func (n *appendNode) Kind() Kind   { return KindRecall }

func (n *appendNode) Process(_ context.Context, _ *core.RecommendContext, items []*core.Item) ([]*core.Item, error) {
	return append(items, core.NewItem(&core.Product{Position: -1, ID: n.id})), nil
}

// failNode 总是报错。
type failNode struct{}

func (n *failNode) Name() string { return "test.fail" }
func (n *failNode) Kind() Kind   { return KindFilter }

func (n *failNode) Process(context.Context, *core.RecommendContext, []*core.Item) ([]*core.Item, error) {
	return nil, errors.New("node exploded")
}

func TestPipelineRunChainsNodes(t *testing.T) {
	p := &Pipeline{Nodes: []Node{&appendNode{id: "a"}, &appendNode{id: "b"}}}

	items, err := p.Run(context.Background(), core.NewRecommendContext(), nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(items) != 2 || items[0].Product.ID != "a" || items[1].Product.ID != "b" {
		t.Errorf("items = %v, want [a b] in node order", items)
	}
}

func TestPipelineRunStopsOnError(t *testing.T) {
	p := &Pipeline{Nodes: []Node{&appendNode{id: "a"}, &failNode{}, &appendNode{id: "c"}}}

	if _, err := p.Run(context.Background(), core.NewRecommendContext(), nil); err == nil {
		t.Fatal("Run() should propagate node error")
	}
}

func TestBuildPipelineFromConfig(t *testing.T) {
	factory := NewNodeFactory()
	factory.Register("test.append", func(config map[string]any) (Node, error) {
		id, _ := config["id"].(string)
		return &appendNode{id: id}, nil
	})

	cfg := &Config{}
	cfg.Pipeline.Name = "demo"
	cfg.Pipeline.Nodes = []NodeConfig{
		{Type: "test.append", Config: map[string]any{"id": "x"}},
		{Type: "test.append", Config: map[string]any{"id": "y"}},
	}

	p, err := cfg.BuildPipeline(factory)
	if err != nil {
		t.Fatalf("BuildPipeline() error = %v", err)
	}
	if len(p.Nodes) != 2 {
		t.Fatalf("nodes = %d, want 2", len(p.Nodes))
	}

	items, err := p.Run(context.Background(), core.NewRecommendContext(), nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(items) != 2 || items[0].Product.ID != "x" {
		t.Errorf("items = %v, want built node order [x y]", items)
	}
}

func TestBuildPipelineUnknownType(t *testing.T) {
	cfg := &Config{}
	cfg.Pipeline.Nodes = []NodeConfig{{Type: "no.such.node"}}

	if _, err := cfg.BuildPipeline(NewNodeFactory()); err == nil {
		t.Fatal("unknown node type should fail the build")
	}
}

func TestLoadFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipeline.yaml")
	yaml := `pipeline:
  name: demo
  nodes:
    - type: filter
      config:
        filters:
          - type: price
            min: 100
    - type: rerank.topn
      config:
        n: 5
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromYAML(path)
	if err != nil {
		t.Fatalf("LoadFromYAML() error = %v", err)
	}
	if cfg.Pipeline.Name != "demo" || len(cfg.Pipeline.Nodes) != 2 {
		t.Fatalf("cfg = %+v, want 2 nodes named demo", cfg.Pipeline)
	}
	if cfg.Pipeline.Nodes[1].Type != "rerank.topn" {
		t.Errorf("nodes[1].Type = %s, want rerank.topn", cfg.Pipeline.Nodes[1].Type)
	}
	if n, ok := cfg.Pipeline.Nodes[1].Config["n"].(int); !ok || n != 5 {
		t.Errorf("nodes[1].Config[n] = %v, want 5", cfg.Pipeline.Nodes[1].Config["n"])
	}
}

func TestLoadFromJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipeline.json")
	data := `{"pipeline":{"name":"demo","nodes":[{"type":"rerank.diversity","config":{"k":3}}]}}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromJSON(path)
	if err != nil {
		t.Fatalf("LoadFromJSON() error = %v", err)
	}
	if len(cfg.Pipeline.Nodes) != 1 || cfg.Pipeline.Nodes[0].Type != "rerank.diversity" {
		t.Errorf("cfg = %+v, want one rerank.diversity node", cfg.Pipeline)
	}
}
