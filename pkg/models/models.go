package models

import "encoding/json"

// ScrapeRequest is the input of one scrape run.
// Keywords are matched as case-sensitive substrings.
type ScrapeRequest struct {
	Sites    []string `json:"sites"`
	Keywords []string `json:"keywords"`
}

// ExtractedFields holds the values derived from one content block
type ExtractedFields struct {
	Title   string
	Link    string
	HasLink bool
	Body    string
	Date    string // advisory, scraped from the page
}

// Valid reports whether the block may produce a match at all
func (f ExtractedFields) Valid() bool {
	return f.HasLink && f.Title != ""
}

// MatchResult represents one block that matched at least one keyword
type MatchResult struct {
	URL      string   `json:"url"`
	Title    string   `json:"title"`
	Keywords []string `json:"keywords"`
	Date     string   `json:"date"`
}

// SiteReport summarizes how a single site fared during a run
type SiteReport struct {
	Site    string `json:"site"`
	Matches int    `json:"matches"`
	Error   string `json:"error,omitempty"`
}

// ScrapeOutcome is the aggregate of one run, in site-then-block order
type ScrapeOutcome struct {
	Results []MatchResult `json:"results"`
	Sites   []SiteReport  `json:"sites,omitempty"`
}

// Failed returns the number of sites that produced an error
func (o *ScrapeOutcome) Failed() int {
	n := 0
	for _, s := range o.Sites {
		if s.Error != "" {
			n++
		}
	}
	return n
}

// Response is the batch result handed to callers of the service
type Response struct {
	Success bool          `json:"success"`
	Results []MatchResult `json:"results,omitempty"`
	Error   string        `json:"error,omitempty"`
}

// MarshalJSON always emits results on success and only the error on failure
func (r Response) MarshalJSON() ([]byte, error) {
	if !r.Success {
		return json.Marshal(struct {
			Success bool   `json:"success"`
			Error   string `json:"error"`
		}{false, r.Error})
	}
	results := r.Results
	if results == nil {
		results = []MatchResult{}
	}
	return json.Marshal(struct {
		Success bool          `json:"success"`
		Results []MatchResult `json:"results"`
	}{true, results})
}

// NewResponse wraps a finished outcome
func NewResponse(o *ScrapeOutcome) Response {
	return Response{Success: true, Results: o.Results}
}

// NewErrorResponse wraps a batch-level failure
func NewErrorResponse(err error) Response {
	return Response{Success: false, Error: err.Error()}
}
