package utils

import (
	"unicode/utf8"
)

const (
	// GitLab issue limits
	// https://docs.gitlab.com/ee/administration/instance_limits.html
	MaxIssueTitleLength       = 255
	MaxIssueDescriptionLength = 1048576
)

// TruncateText cuts text down to maxLength characters. GitLab rejects longer values,
// so the tail is dropped without any marker.
func TruncateText(text string, maxLength int) string {
	if maxLength <= 0 {
		return ""
	}
	if len(text) <= maxLength || utf8.RuneCountInString(text) <= maxLength {
		return text
	}

	runes := []rune(text)
	return string(runes[:maxLength])
}
