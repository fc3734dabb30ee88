package web

import (
	"sync"
)

const defaultUploadSlots = 32

// upload is a CSV kept so a report can be re-filtered without re-uploading.
type upload struct {
	filename string
	data     []byte
	narrate  bool
}

// uploadStore holds the most recent uploads by report ID.
type uploadStore struct {
	mu    sync.Mutex
	slots int
	byID  map[string]upload
	order []string
}

func newUploadStore(slots int) *uploadStore {
	return &uploadStore{slots: slots, byID: make(map[string]upload)}
}

func (s *uploadStore) put(id string, u upload) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		s.order = append(s.order, id)
	}
	s.byID[id] = u
	for len(s.order) > s.slots {
		delete(s.byID, s.order[0])
		s.order = s.order[1:]
	}
}

func (s *uploadStore) get(id string) (upload, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[id]
	return u, ok
}
