package scene

import (
	"errors"
	"sort"
	"strings"
)

// ErrGroupNotFound is returned by Candidates when the requested collection
// does not exist in the scene.
var ErrGroupNotFound = errors.New("scene: group not found")

// Skip records an object left out of export and why.
type Skip struct {
	Name   string
	Reason string
}

// IsCopyName reports whether name looks like a host-generated duplicate
// such as "Cube.001": the text after the last dot is all digits.
func IsCopyName(name string) bool {
	tail := name[strings.LastIndex(name, ".")+1:]
	if tail == "" {
		return false
	}
	for _, r := range tail {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Candidates returns the mesh objects eligible for export, sorted by name.
// With a non-empty group only members of that collection are considered.
// Non-mesh objects and numbered copies are dropped silently; meshes
// without vertex colors are reported in skipped.
func (s *Scene) Candidates(group string) (objects []*Object, skipped []Skip, err error) {
	source := s.Objects
	if group != "" {
		if !s.HasCollection(group) {
			return nil, nil, ErrGroupNotFound
		}
		source = nil
		for _, ob := range s.Objects {
			if ob.InCollection(group) {
				source = append(source, ob)
			}
		}
	}

	for _, ob := range source {
		if ob.Type != TypeMesh || ob.Mesh == nil {
			continue
		}
		if IsCopyName(ob.Name) {
			continue
		}
		if !ob.Mesh.HasVertexColors() {
			skipped = append(skipped, Skip{Name: ob.Name, Reason: ErrNoVertexColors.Error()})
			continue
		}
		objects = append(objects, ob)
	}

	sort.SliceStable(objects, func(i, j int) bool { return objects[i].Name < objects[j].Name })
	return objects, skipped, nil
}

// Roots filters candidates down to the objects without a parent.
func Roots(candidates []*Object) []*Object {
	var roots []*Object
	for _, ob := range candidates {
		if ob.Parent == nil {
			roots = append(roots, ob)
		}
	}
	return roots
}

// ChildMap maps every root to all of its descendants, in name order.
// All scene objects take part regardless of type or group membership.
func (s *Scene) ChildMap() map[*Object][]*Object {
	children := make(map[*Object][]*Object)
	for _, ob := range s.Objects {
		if ob.Parent == nil {
			continue
		}
		root := ob.Root()
		children[root] = append(children[root], ob)
	}
	for _, list := range children {
		sort.SliceStable(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	}
	return children
}
