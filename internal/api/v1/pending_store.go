package v1

import (
	"sync"

	"github.com/manumurali010/gst-sub002/internal/model"
)

// pendingAmbiguity 等待人工决策的歧义请求
type pendingAmbiguity struct {
	request  model.AmbiguityRequest
	fileHash string
}

// pendingStore 挂起请求的进程内登记表
// 按请求 ID 存取；同一 (文件, cacheKey) 重复登记时保留先到的请求。
// 不同文件的同一逻辑歧义是两个独立请求，各自按自己的文件落盘
type pendingStore struct {
	mu       sync.Mutex
	items    map[string]pendingAmbiguity // request ID → 请求
	byCache  map[string]string           // fileHash + "|" + cacheKey → request ID
	ordering []string                    // 登记顺序
}

func pendingDedupKey(fileHash, cacheKey string) string {
	return fileHash + "|" + cacheKey
}

func newPendingStore() *pendingStore {
	return &pendingStore{
		items:   make(map[string]pendingAmbiguity),
		byCache: make(map[string]string),
	}
}

func (s *pendingStore) put(req model.AmbiguityRequest, fileHash string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byCache[pendingDedupKey(fileHash, req.CacheKey)]; ok {
		return
	}
	s.items[req.ID] = pendingAmbiguity{request: req, fileHash: fileHash}
	s.byCache[pendingDedupKey(fileHash, req.CacheKey)] = req.ID
	s.ordering = append(s.ordering, req.ID)
}

func (s *pendingStore) get(id string) (pendingAmbiguity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.items[id]
	return v, ok
}

func (s *pendingStore) remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.items[id]; ok {
		delete(s.byCache, pendingDedupKey(v.fileHash, v.request.CacheKey))
		delete(s.items, id)
		for i, x := range s.ordering {
			if x == id {
				s.ordering = append(s.ordering[:i], s.ordering[i+1:]...)
				break
			}
		}
	}
}

func (s *pendingStore) list() []model.AmbiguityRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.AmbiguityRequest, 0, len(s.ordering))
	for _, id := range s.ordering {
		out = append(out, s.items[id].request)
	}
	return out
}
