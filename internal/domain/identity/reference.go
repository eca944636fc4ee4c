package identity

import "sort"

// ReferenceData is a per-batch snapshot of the department registry. A
// department deactivated mid-batch does not invalidate rows already vetted
// against the snapshot.
type ReferenceData struct {
	Departments map[string]int64
}

func (r ReferenceData) HasDepartment(code string) bool {
	_, ok := r.Departments[code]
	return ok
}

func (r ReferenceData) DepartmentID(code string) (int64, bool) {
	id, ok := r.Departments[code]
	return id, ok
}

func (r ReferenceData) DepartmentCodes() []string {
	codes := make([]string, 0, len(r.Departments))
	for code := range r.Departments {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
