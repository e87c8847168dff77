package core

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// 身份键与分散签名。
//
// 异构数据源（内部库表、外部目录、远端召回结果）不保证填充 id，
// 因此身份键按层级回退：id → 商品 URL 解析出的商品号+站点 → 原始
// 商品 URL → 图片 URL → 标题+价格。分散签名比身份键更粗：同一商品
// 的不同尺码/配色listing（同品牌、同标题核心、同站点路径）归并为
// 一个签名，配额截断时每个签名最多选一个代表。

var (
	reDigit       = regexp.MustCompile(`\d`)
	reBracketSeg  = regexp.MustCompile(`\[[^\]]*\]|\([^)]*\)`)
	reTitleSplit  = regexp.MustCompile(`[^a-z0-9가-힣]+`)
	reNonDigitRun = regexp.MustCompile(`[^0-9]`)
)

// colorWords 是标题核心提取时剔除的颜色词（中英韩混排目录常见）。
var colorWords = map[string]struct{}{
	// EN
	"black": {}, "white": {}, "gray": {}, "grey": {}, "navy": {}, "blue": {},
	"light": {}, "sky": {}, "red": {}, "pink": {}, "purple": {}, "green": {},
	"olive": {}, "khaki": {}, "yellow": {}, "beige": {}, "brown": {}, "cream": {},
	"ivory": {}, "orange": {}, "silver": {}, "gold": {},
	// KR
	"블랙": {}, "화이트": {}, "그레이": {}, "네이비": {}, "파랑": {}, "라이트": {},
	"하늘": {}, "빨강": {}, "레드": {}, "핑크": {}, "보라": {}, "초록": {},
	"그린": {}, "올리브": {}, "카키": {}, "노랑": {}, "베이지": {}, "브라운": {},
	"갈색": {}, "크림": {}, "아이보리": {}, "오렌지": {}, "실버": {}, "골드": {},
}

// Key 返回商品的去重身份键。
//
// 回退层级：
//  1. id 非空           → "id:<id>"
//  2. 商品 URL 可解析出商品号 → "pid:<host>:<商品号>"（带 host 防跨站撞号）
//  3. 商品 URL 存在      → "url:<小写 URL>"
//  4. 图片 URL 存在      → "img:<小写 URL>"
//  5. 兜底              → "tp:<小写标题>|<价格>"
func (p *Product) Key() string {
	if id := strings.TrimSpace(p.ID); id != "" {
		return "id:" + id
	}
	if pu := p.ProductURL; pu != "" {
		if pid := ProductIDFromURL(pu); pid != "" {
			host := ""
			if parsed, err := url.Parse(pu); err == nil {
				host = strings.ToLower(parsed.Host)
			}
			return "pid:" + host + ":" + pid
		}
		return "url:" + strings.ToLower(strings.TrimSpace(pu))
	}
	if iu := p.ImageURL; iu != "" {
		return "img:" + strings.ToLower(strings.TrimSpace(iu))
	}
	title := strings.ToLower(strings.TrimSpace(p.Title))
	return "tp:" + title + "|" + strconv.Itoa(p.Price)
}

// Signature 返回商品的分散签名：品牌|标题核心|URL 根。
func (p *Product) Signature() string {
	return p.brandKey() + "|" + TitleCore(p.Title) + "|" + urlRoot(p.ProductURL)
}

// brandKey 取小写品牌；无显式品牌字段时退化为第一个 tag。
func (p *Product) brandKey() string {
	if b := strings.TrimSpace(p.Brand); b != "" {
		return strings.ToLower(b)
	}
	if len(p.Tags) > 0 {
		return strings.ToLower(strings.TrimSpace(p.Tags[0]))
	}
	return ""
}

// TitleCore 提取标题核心：
// 小写化，剔除 [] / () 括注段，按非字母数字（含韩文音节）边界切分，
// 丢弃纯数字 token 与颜色词，取前 4 个 token 以空格拼接。
// 全部被剔除时退化为整个小写标题。
func TitleCore(title string) string {
	t := strings.ToLower(title)
	stripped := reBracketSeg.ReplaceAllString(t, " ")
	var tokens []string
	for _, tok := range reTitleSplit.Split(stripped, -1) {
		if tok == "" || isASCIIDigits(tok) {
			continue
		}
		if _, ok := colorWords[tok]; ok {
			continue
		}
		tokens = append(tokens, tok)
		if len(tokens) == 4 {
			break
		}
	}
	if len(tokens) == 0 {
		return strings.TrimSpace(stripped)
	}
	return strings.Join(tokens, " ")
}

// ProductIDFromURL 从商品 URL 中解析商品号。
// 先查常见 query 参数（id / pid / productId / product_id / goodsNo / goods_no），
// 再取路径最后一段（去掉扩展名，须含数字）。解析不出返回空串。
func ProductIDFromURL(raw string) string {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return ""
	}
	q := parsed.Query()
	for _, key := range []string{"id", "pid", "productId", "product_id", "goodsNo", "goods_no"} {
		if v := q.Get(key); v != "" {
			return v
		}
	}
	segs := splitPath(parsed.Path)
	if len(segs) == 0 {
		return ""
	}
	last := segs[len(segs)-1]
	if i := strings.IndexByte(last, '.'); i >= 0 {
		last = last[:i]
	}
	if reDigit.MatchString(last) {
		return last
	}
	return ""
}

// urlRoot 返回 host + 前两段路径（小写），用于分散签名。
func urlRoot(raw string) string {
	if raw == "" {
		return ""
	}
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return ""
	}
	segs := splitPath(parsed.Path)
	if len(segs) > 2 {
		segs = segs[:2]
	}
	return strings.ToLower(parsed.Host) + "/" + strings.ToLower(strings.Join(segs, "/"))
}

func splitPath(path string) []string {
	var segs []string
	for _, s := range strings.Split(path, "/") {
		if s != "" {
			segs = append(segs, s)
		}
	}
	return segs
}

func isASCIIDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// ParsePrice 把任意价格表示（"29,000원"、"₩15000"、数字串）解析为非负整数。
// 剔除所有非数字字符后解析，无数字时返回 0。
func ParsePrice(raw string) int {
	digits := reNonDigitRun.ReplaceAllString(strings.TrimSpace(raw), "")
	if digits == "" {
		return 0
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return n
}
