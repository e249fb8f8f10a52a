package resolve

import (
	"sync"

	"github.com/manumurali010/gst-sub002/internal/model"
)

// Cache 歧义决议缓存
// cacheKey (scopeId + ":" + key) → 选中的规范化表头文本。
// 会话内共享，同一逻辑选择只会问用户一次。
// 只追加：同一键的后写直接忽略，运行中不会出现互相冲突的值。
// 引擎自己从不发明条目，条目只能来自外部决议或宿主预载
type Cache struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewCache 创建空缓存
func NewCache() *Cache {
	return &Cache{entries: make(map[string]string)}
}

// CacheKey 组合缓存键
func CacheKey(scopeID string, key model.CanonicalKey) string {
	return scopeID + ":" + string(key)
}

// Lookup 查询缓存
func (c *Cache) Lookup(cacheKey string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[cacheKey]
	return v, ok
}

// Put 写入决议，先写者生效
func (c *Cache) Put(cacheKey, normalizedText string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[cacheKey]; ok {
		return
	}
	c.entries[cacheKey] = normalizedText
}

// Seed 预载宿主持久化的历史决议
func (c *Cache) Seed(entries map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, v := range entries {
		if _, ok := c.entries[k]; !ok {
			c.entries[k] = v
		}
	}
}

// Snapshot 导出当前全部条目（宿主持久化用）
func (c *Cache) Snapshot() map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]string, len(c.entries))
	for k, v := range c.entries {
		out[k] = v
	}
	return out
}
