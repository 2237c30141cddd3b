package tui

import "github.com/custodia-labs/specmcp/internal/core/domain"

// searchDone carries results of a semantic or keyword search.
type searchDone struct {
	results []domain.Section
	err     error
}

// sectionLoaded carries a section opened from the result list.
type sectionLoaded struct {
	section *domain.Section
	err     error
}

// answerDone carries a generated answer.
type answerDone struct {
	question string
	answer   string
	err      error
}
