package utils

import (
	"strings"
	"unicode"
)

// CollapseWhitespace 把连续空白压缩为单个空格并去掉首尾空白
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// WordCount 统计词数(按空白切分)
func WordCount(s string) int {
	return len(strings.Fields(s))
}

// TruncateAtSentence 截断文本到max字符以内,尽量在句子边界截断
// 截断窗口内找不到靠后的句子边界时,退而在最后一个空格处截断
func TruncateAtSentence(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}

	cut := s[:max]

	// 在窗口后半段查找最后的句子结束符
	boundary := -1
	for _, p := range []string{". ", "! ", "? "} {
		if idx := strings.LastIndex(cut, p); idx > boundary {
			boundary = idx
		}
	}
	// 结尾恰好是句子结束符的情况
	if last := len(cut) - 1; boundary < last && (cut[last] == '.' || cut[last] == '!' || cut[last] == '?') {
		boundary = last
	}
	if boundary >= max/2 {
		return strings.TrimSpace(cut[:boundary+1])
	}

	// 没有可用的句子边界,在最后一个空格处截断
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		return strings.TrimSpace(cut[:idx])
	}
	return strings.TrimSpace(cut)
}

// Slugify 把文本转为小写连字符slug,用于FAQ标签
// 例如 "Our Mission" -> "our-mission"
func Slugify(s string) string {
	var b strings.Builder
	lastDash := true // 抑制开头的连字符
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// CleanHeading 清理标题文本用于问题合成
// 去掉首尾标点和多余空白,保留标题本身的大小写
func CleanHeading(s string) string {
	s = CollapseWhitespace(s)
	return strings.TrimFunc(s, func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSymbol(r) || unicode.IsSpace(r)
	})
}
