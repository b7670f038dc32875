package mediahost

import (
	"context"
	"sync"

	"github.com/marwyg/annotation-tool/internal/pkg/ctxutil"
)

// Static serves media packages from memory. It backs tests and local
// development where no host platform is running.
type Static struct {
	mu       sync.RWMutex
	packages map[string]*MediaPackage
}

func NewStatic(packages ...*MediaPackage) *Static {
	s := &Static{packages: make(map[string]*MediaPackage)}
	for _, mp := range packages {
		s.packages[mp.ID] = mp
	}
	return s
}

func (s *Static) Put(mp *MediaPackage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.packages[mp.ID] = mp
}

func (s *Static) FindMediaPackage(_ context.Context, extID string) (*MediaPackage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.packages[extID], nil
}

func (s *Static) HasAction(_ context.Context, principal *ctxutil.Principal, mp *MediaPackage, action string) bool {
	return EvaluateACL(principal, mp, action)
}
