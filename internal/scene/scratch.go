package scene

import (
	"sync"

	"vco-icon-geom/internal/mathutil"
)

// Scratch tracks temporary mesh copies made during extraction, the
// equivalent of the host tool's throwaway mesh datablocks. It is safe
// for concurrent use.
type Scratch struct {
	mu     sync.Mutex
	meshes map[*Mesh]struct{}
	peak   int
}

func NewScratch() *Scratch {
	return &Scratch{meshes: make(map[*Mesh]struct{})}
}

// Acquire registers a copy of ob's mesh, transformed by m when m is non-nil.
// The copy is not validated; callers check it with Mesh.Validate.
// The returned release func removes the copy; calling it more than once is
// harmless.
func (s *Scratch) Acquire(ob *Object, m *mathutil.Mat4) (*Mesh, func(), error) {
	if ob.Type != TypeMesh || ob.Mesh == nil {
		return nil, nil, ErrNotMesh
	}
	me := ob.Mesh.Copy()
	me.Name = ob.Name + ".copy"
	if m != nil {
		me.Transform(*m)
	}

	s.mu.Lock()
	s.meshes[me] = struct{}{}
	if len(s.meshes) > s.peak {
		s.peak = len(s.meshes)
	}
	s.mu.Unlock()

	var once sync.Once
	release := func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.meshes, me)
			s.mu.Unlock()
		})
	}
	return me, release, nil
}

// Len returns the number of copies currently held.
func (s *Scratch) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.meshes)
}

// Peak returns the largest number of copies held at once.
func (s *Scratch) Peak() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.peak
}
