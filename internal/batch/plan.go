package batch

import (
	"vco-icon-geom/internal/scene"
)

// Job is one icon to export: a root object and the descendants merged
// into it.
type Job struct {
	Root     *scene.Object
	Children []*scene.Object
}

// Plan selects the roots to export from s. Candidates are filtered by
// group when it is non-empty; skipped lists the meshes left out for
// lacking vertex colors. scene.ErrGroupNotFound passes through.
func Plan(s *scene.Scene, group string) (jobs []Job, skipped []scene.Skip, err error) {
	candidates, skipped, err := s.Candidates(group)
	if err != nil {
		return nil, nil, err
	}

	children := s.ChildMap()
	for _, root := range scene.Roots(candidates) {
		jobs = append(jobs, Job{Root: root, Children: children[root]})
	}
	return jobs, skipped, nil
}
