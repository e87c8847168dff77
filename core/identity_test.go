package core

import "testing"

func TestProduct_Key(t *testing.T) {
	tests := []struct {
		name string
		p    *Product
		want string
	}{
		{
			name: "id wins over everything",
			p:    &Product{ID: "42", ProductURL: "https://shop.example.com/item?id=99"},
			want: "id:42",
		},
		{
			name: "id trimmed",
			p:    &Product{ID: "  42  "},
			want: "id:42",
		},
		{
			name: "product url query id with host",
			p:    &Product{ProductURL: "https://shop.example.com/view?id=12345"},
			want: "pid:shop.example.com:12345",
		},
		{
			name: "goodsNo query key",
			p:    &Product{ProductURL: "https://Mall.Example.com/goods?goodsNo=777"},
			want: "pid:mall.example.com:777",
		},
		{
			name: "path segment with digits",
			p:    &Product{ProductURL: "https://shop.example.com/products/AB-123.html"},
			want: "pid:shop.example.com:AB-123",
		},
		{
			name: "url without id falls back to raw url",
			p:    &Product{ProductURL: "https://shop.example.com/new/Arrivals"},
			want: "url:https://shop.example.com/new/arrivals",
		},
		{
			name: "image url fallback",
			p:    &Product{ImageURL: "https://cdn.example.com/IMG/1.jpg"},
			want: "img:https://cdn.example.com/img/1.jpg",
		},
		{
			name: "title and price fallback",
			p:    &Product{Title: "Wool Coat", Price: 129000},
			want: "tp:wool coat|129000",
		},
		{
			name: "empty product",
			p:    &Product{},
			want: "tp:|0",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.Key(); got != tt.want {
				t.Errorf("Key() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestProductIDFromURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{name: "query id", url: "https://a.com/p?id=1", want: "1"},
		{name: "query pid", url: "https://a.com/p?pid=2", want: "2"},
		{name: "query productId", url: "https://a.com/p?productId=3", want: "3"},
		{name: "query snake case", url: "https://a.com/p?product_id=4", want: "4"},
		{name: "query goods_no", url: "https://a.com/p?goods_no=5", want: "5"},
		{name: "id key checked before path", url: "https://a.com/items/999?id=1", want: "1"},
		{name: "numeric last segment", url: "https://a.com/items/12345", want: "12345"},
		{name: "extension stripped", url: "https://a.com/items/12345.html", want: "12345"},
		{name: "mixed token with digit", url: "https://a.com/items/AB-123", want: "AB-123"},
		{name: "segment without digit rejected", url: "https://a.com/items/new", want: ""},
		{name: "empty path", url: "https://a.com", want: ""},
		{name: "empty string", url: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ProductIDFromURL(tt.url); got != tt.want {
				t.Errorf("ProductIDFromURL(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestTitleCore(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{name: "plain title", title: "Oversized Wool Coat", want: "oversized wool coat"},
		{name: "brackets and parens stripped", title: "[무료배송] Wool Coat (2nd)", want: "wool coat"},
		{name: "color words removed", title: "Black Wool Coat Navy", want: "wool coat"},
		{name: "korean color removed", title: "블랙 오버핏 코트", want: "오버핏 코트"},
		{name: "numeric tokens removed", title: "Coat 2024 Edition", want: "coat edition"},
		{name: "first four tokens only", title: "slim fit cotton oxford shirt spring", want: "slim fit cotton oxford"},
		{name: "all stripped falls back to stripped title", title: "[SALE]", want: ""},
		{name: "only colors falls back empty tokens", title: "Black White", want: "black white"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TitleCore(tt.title); got != tt.want {
				t.Errorf("TitleCore(%q) = %q, want %q", tt.title, got, tt.want)
			}
		})
	}
}

func TestProduct_Signature(t *testing.T) {
	tests := []struct {
		name string
		p    *Product
		want string
	}{
		{
			name: "brand field preferred",
			p: &Product{
				Brand:      "Acme",
				Title:      "Wool Coat",
				ProductURL: "https://shop.example.com/coats/winter/1234",
			},
			want: "acme|wool coat|shop.example.com/coats/winter",
		},
		{
			name: "first tag as brand fallback",
			p: &Product{
				Tags:  []string{"StyleLab", "woman"},
				Title: "Wool Coat",
			},
			want: "stylelab|wool coat|",
		},
		{
			name: "no brand no url",
			p:    &Product{Title: "Wool Coat"},
			want: "|wool coat|",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.Signature(); got != tt.want {
				t.Errorf("Signature() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{raw: "", want: 0},
		{raw: "29000", want: 29000},
		{raw: "29,000원", want: 29000},
		{raw: "₩15000", want: 15000},
		{raw: "free", want: 0},
		{raw: " 1 2 3 ", want: 123},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if got := ParsePrice(tt.raw); got != tt.want {
				t.Errorf("ParsePrice(%q) = %d, want %d", tt.raw, got, tt.want)
			}
		})
	}
}
