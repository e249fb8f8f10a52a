package store

import "fmt"

// SaveResolution 保存一条歧义决议
// 同键已有记录时忽略，落盘语义与内存缓存一致：先写者生效
func (s *Store) SaveResolution(fileHash, cacheKey, headerText string) error {
	_, err := s.db.Exec(`
		INSERT OR IGNORE INTO resolutions (file_hash, cache_key, header_text)
		VALUES (?, ?, ?)
	`, fileHash, cacheKey, headerText)
	if err != nil {
		return fmt.Errorf("failed to save resolution: %w", err)
	}
	return nil
}

// LoadResolutions 读出指定文件的全部历史决议（预载内存缓存用）
func (s *Store) LoadResolutions(fileHash string) (map[string]string, error) {
	rows, err := s.db.Query(`
		SELECT cache_key, header_text FROM resolutions WHERE file_hash = ?
	`, fileHash)
	if err != nil {
		return nil, fmt.Errorf("failed to load resolutions: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var cacheKey, headerText string
		if err := rows.Scan(&cacheKey, &headerText); err != nil {
			return nil, fmt.Errorf("failed to scan resolution row: %w", err)
		}
		out[cacheKey] = headerText
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate resolutions: %w", err)
	}
	return out, nil
}
