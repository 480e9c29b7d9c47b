package models

// DefaultIncludeKeyword is the text a job page must show to be kept.
const DefaultIncludeKeyword = "Easy Apply"

// DefaultStopwords returns a fresh copy of the terms that reject a job page.
func DefaultStopwords() []string {
	return []string{
		".net",
		"chef",
		"hadoop",
		"java",
		"junior",
		"powershell",
		"puppet",
		"saltstack",
		"teamcity",
	}
}
