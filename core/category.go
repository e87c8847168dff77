package core

import (
	"regexp"
	"strings"
)

// Category 是归一化后的服装类目。
//
// 闭集为 top / pants / shoes / outer / accessories / unknown；
// 归一化函数对无法映射的输入原样透传（小写），调用方可据此观测
// 未收敛的类目词；unknown 仅用于空输入。
type Category string

const (
	CategoryTop         Category = "top"
	CategoryPants       Category = "pants"
	CategoryShoes       Category = "shoes"
	CategoryOuter       Category = "outer"
	CategoryAccessories Category = "accessories"
	CategoryUnknown     Category = "unknown"
)

// KnownCategories 返回配额分配使用的类目闭集（有序）。
func KnownCategories() []Category {
	return []Category{CategoryTop, CategoryPants, CategoryShoes, CategoryOuter, CategoryAccessories}
}

// Known 判断类目是否属于闭集（不含 unknown）。
func (c Category) Known() bool {
	switch c {
	case CategoryTop, CategoryPants, CategoryShoes, CategoryOuter, CategoryAccessories:
		return true
	}
	return false
}

// NormalizeCategory 把任意类目词映射进闭集。
//
// 匹配按子串、分支有序（outer 先于 top，避免 "outer top" 误判），
// 同义词覆盖中英双语：
//   - outer: outer / jacket / coat
//   - top:   top / shirt / tee / 상의
//   - pants: pant / bottom / 하의 / denim / skirt
//   - shoes: shoe / sneaker / 신발
//   - accessories: access 前缀
//
// 未命中的输入小写透传，空输入归为 unknown。
func NormalizeCategory(raw string) Category {
	v := strings.ToLower(strings.TrimSpace(raw))
	if v == "" {
		return CategoryUnknown
	}
	switch {
	case strings.Contains(v, "outer") || strings.Contains(v, "jacket") || strings.Contains(v, "coat"):
		return CategoryOuter
	case strings.Contains(v, "top") || strings.Contains(v, "shirt") || strings.Contains(v, "tee") || strings.Contains(v, "상의"):
		return CategoryTop
	case strings.Contains(v, "pant") || strings.Contains(v, "bottom") || strings.Contains(v, "하의") ||
		strings.Contains(v, "denim") || strings.Contains(v, "skirt"):
		return CategoryPants
	case strings.Contains(v, "shoe") || strings.Contains(v, "sneaker") || strings.Contains(v, "신발"):
		return CategoryShoes
	case strings.Contains(v, "access"):
		return CategoryAccessories
	}
	return Category(v)
}

// SlotCategory 把旧目录库的槽位类目映射进闭集（精确匹配，数据源边界专用）。
// dress/skirt 槽位归入 pants。未知槽位小写透传，空输入归为 unknown。
func SlotCategory(raw string) Category {
	c := strings.ToLower(strings.TrimSpace(raw))
	if c == "" {
		return CategoryUnknown
	}
	switch c {
	case "man_outer", "woman_outer":
		return CategoryOuter
	case "man_top", "woman_top":
		return CategoryTop
	case "man_bottom", "woman_bottom":
		return CategoryPants
	case "man_shoes", "woman_shoes":
		return CategoryShoes
	case "woman_dress_skirt":
		return CategoryPants
	}
	return Category(c)
}

// MajorityFirst 返回类目的去重有序列表，出现次数最多的类目排在首位。
// 次数相同取先出现者；其余类目按输入首次出现顺序排列。
func MajorityFirst(cats []Category) []Category {
	if len(cats) == 0 {
		return nil
	}
	counts := make(map[Category]int, len(cats))
	var order []Category
	for _, c := range cats {
		if _, ok := counts[c]; !ok {
			order = append(order, c)
		}
		counts[c]++
	}
	majority := order[0]
	for _, c := range order {
		if counts[c] > counts[majority] {
			majority = c
		}
	}
	out := make([]Category, 0, len(order))
	out = append(out, majority)
	for _, c := range order {
		if c != majority {
			out = append(out, c)
		}
	}
	return out
}

// Gender 是归一化后的适用性别。
type Gender string

const (
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
	GenderUnisex  Gender = "unisex"
	GenderKids    Gender = "kids"
	GenderUnknown Gender = "unknown"
)

// 性别词表使用英文单词边界 + 中韩文子串匹配。
// 英文用 \b 防止 'women' 里的 'men' 误命中；CJK 无词边界概念，按子串处理。
var (
	reGenderSep = regexp.MustCompile(`[_\-\/]+`)
	reUnisex    = regexp.MustCompile(`(?i)(?:\buni(?:sex)?\b|男女|공용|유니섹스|남녀|남여|all\s*genders?)`)
	reKids      = regexp.MustCompile(`(?i)(?:\bkids?\b|\bchild(?:ren)?\b|\byouth\b|\bjunior\b|boys?\s*&\s*girls?|아동|키즈)`)
	reFemale    = regexp.MustCompile(`(?i)(?:\bwomen\b|\bwoman\b|\bfemale\b|\bladies\b|\blady\b|\bgirls?\b|여성|여자|우먼)`)
	reMale      = regexp.MustCompile(`(?i)(?:\bmen\b|\bman\b|\bmale\b|\bboys?\b|\bmens\b|\bman's\b|\bmans\b|남성|남자|맨)`)
)

// NormalizeGender 把任意性别描述映射进闭集。
//
// 判定顺序：unisex / kids 优先，其后男女分判；男女同时命中归为 unisex。
// 下划线、横线、斜线先替换为空格以强化词边界识别。
// 未命中的输入小写透传，空输入归为 unknown。
func NormalizeGender(raw string) Gender {
	g := strings.TrimSpace(raw)
	if g == "" {
		return GenderUnknown
	}
	g = reGenderSep.ReplaceAllString(g, " ")

	if reUnisex.MatchString(g) {
		return GenderUnisex
	}
	if reKids.MatchString(g) {
		return GenderKids
	}

	female := reFemale.MatchString(g)
	male := reMale.MatchString(g)
	switch {
	case female && male:
		return GenderUnisex
	case female:
		return GenderFemale
	case male:
		return GenderMale
	}
	return Gender(strings.ToLower(g))
}
