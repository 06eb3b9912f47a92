// Package query holds the single search, filter and pagination path for the
// subject catalog. Handlers, the teacher list and the CLI all go through it.
package query

import (
	"strconv"
	"strings"

	"github.com/stemsi/subject-catalog/internal/model"
)

const (
	// AllTeachers is the teacher filter value that disables the filter.
	AllTeachers = "Tất cả"

	DefaultPage  = 1
	DefaultLimit = 5
)

// SubjectQuery describes one listing request. Zero values mean "no filter"
// for Search and Teacher; Page and Limit are clamped to at least 1.
type SubjectQuery struct {
	Search  string
	Teacher string
	Page    int
	Limit   int
}

// Result is one page of the matched set plus the size of the whole matched set.
type Result struct {
	Items []model.Subject
	Total int
}

// ParseSubjectQuery builds a query from raw request parameters.
// Non-numeric page and limit fall back to DefaultPage and DefaultLimit.
func ParseSubjectQuery(search, teacher, page, limit string) SubjectQuery {
	return SubjectQuery{
		Search:  search,
		Teacher: teacher,
		Page:    parseInt(page, DefaultPage),
		Limit:   parseInt(limit, DefaultLimit),
	}
}

func parseInt(raw string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return fallback
	}
	return n
}

// Normalize trims the filters and clamps Page and Limit to at least 1.
func (q SubjectQuery) Normalize() SubjectQuery {
	q.Search = strings.TrimSpace(q.Search)
	q.Teacher = strings.TrimSpace(q.Teacher)
	if q.Teacher == AllTeachers {
		q.Teacher = ""
	}
	q.Page = max(q.Page, 1)
	q.Limit = max(q.Limit, 1)
	return q
}

// Matches reports whether s passes both the search and the teacher filter.
// The query is expected to be normalized.
func (q SubjectQuery) Matches(s model.Subject) bool {
	if q.Search != "" && !strings.Contains(strings.ToLower(s.Name), strings.ToLower(q.Search)) {
		return false
	}
	if q.Teacher != "" && s.Teacher != q.Teacher {
		return false
	}
	return true
}

// Subjects filters all in its original order and cuts out the requested page.
// It never modifies all and never returns a nil Items slice.
func Subjects(all []model.Subject, q SubjectQuery) Result {
	q = q.Normalize()

	matched := make([]model.Subject, 0, len(all))
	for _, s := range all {
		if q.Matches(s) {
			matched = append(matched, s)
		}
	}

	res := Result{Items: []model.Subject{}, Total: len(matched)}

	// Compare page indexes rather than offsets so huge values cannot overflow.
	if q.Page-1 >= TotalPages(res.Total, q.Limit) || res.Total == 0 {
		return res
	}
	start := (q.Page - 1) * q.Limit
	end := start + min(q.Limit, res.Total-start)
	res.Items = matched[start:end]
	return res
}

// TotalPages is ceil(total/limit) with a minimum of 1.
func TotalPages(total, limit int) int {
	limit = max(limit, 1)
	if total <= 0 {
		return 1
	}
	return (total-1)/limit + 1
}

// Teachers returns the distinct non-empty teacher names in first-seen order,
// led by AllTeachers.
func Teachers(all []model.Subject) []string {
	seen := make(map[string]struct{}, len(all))
	out := []string{AllTeachers}
	for _, s := range all {
		if s.Teacher == "" {
			continue
		}
		if _, ok := seen[s.Teacher]; ok {
			continue
		}
		seen[s.Teacher] = struct{}{}
		out = append(out, s.Teacher)
	}
	return out
}
