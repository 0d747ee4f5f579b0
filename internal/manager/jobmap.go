package manager

import "sync"

// jobMap is the shared registry: an atomically-swapped immutable value per
// key. Mutation is insert-or-replace only; a reader always sees either the
// previous or the next complete Job, never a mix.
type jobMap struct {
	m sync.Map
}

func (j *jobMap) get(id string) (*Job, bool) {
	v, ok := j.m.Load(id)
	if !ok {
		return nil, false
	}
	return v.(*Job), true
}

func (j *jobMap) put(id string, job *Job) {
	j.m.Store(id, job)
}
