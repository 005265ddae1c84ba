package analyzer

import "regexp"

var sourceURLPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^https?://(www\.)?youtube\.com/watch\?v=[\w-]+`),
	regexp.MustCompile(`^https?://youtu\.be/[\w-]+`),
}

// ValidSourceURL reports whether url is a YouTube watch or short link
func ValidSourceURL(url string) bool {
	for _, p := range sourceURLPatterns {
		if p.MatchString(url) {
			return true
		}
	}
	return false
}
