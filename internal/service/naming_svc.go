package service

import (
	"strconv"
	"strings"
)

// 规范资产名生成
// 资产名是部件当前身份的纯函数：无持久化计数器、无随机数，
// 随时可重算，且对自身输出幂等

// SanitizeSegment 规范化单个名称片段：
// 小写化，非 [a-z0-9] 连续串压成单个下划线，去掉首尾下划线
func SanitizeSegment(segment string) string {
	lower := strings.ToLower(segment)

	var b strings.Builder
	b.Grow(len(lower))
	pendingSep := false
	for _, r := range lower {
		isAlnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if isAlnum {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
		} else {
			pendingSep = true
		}
	}
	return b.String()
}

// GenerateAssetName 生成规范资产名（不含扩展名）
// 片段固定顺序 [供应商编码?, 货号, 颜色名?, 序号]：
//   - 无供应商时整段省略
//   - 图片直属部件（非变体）时颜色段省略
//   - order 为 1 起始序号
func GenerateAssetName(supplierCode *string, productNumber string, colorName *string, order int) string {
	segments := make([]string, 0, 4)

	if supplierCode != nil {
		if s := SanitizeSegment(*supplierCode); s != "" {
			segments = append(segments, s)
		}
	}
	// 货号也可能整段被清洗掉（如全符号），同样跳过以免连出双下划线
	if s := SanitizeSegment(productNumber); s != "" {
		segments = append(segments, s)
	}
	if colorName != nil {
		if s := SanitizeSegment(*colorName); s != "" {
			segments = append(segments, s)
		}
	}
	segments = append(segments, strconv.Itoa(order))

	return strings.Join(segments, "_")
}
