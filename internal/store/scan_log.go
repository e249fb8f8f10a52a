package store

import "fmt"

// CreateScanLog 创建扫描日志，返回 scan_log_id
func (s *Store) CreateScanLog(filename, fileHash string) (int64, error) {
	res, err := s.db.Exec(`
		INSERT INTO scan_logs (filename, file_hash, status)
		VALUES (?, ?, 'processing')
	`, filename, fileHash)
	if err != nil {
		return 0, fmt.Errorf("failed to create scan log: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get scan log id: %w", err)
	}
	return id, nil
}

// UpdateScanLog 回填扫描结果
func (s *Store) UpdateScanLog(id int64, totalPoints, passed, failed, pending int, status, errorMessage string) error {
	_, err := s.db.Exec(`
		UPDATE scan_logs SET
			total_points = ?,
			passed = ?,
			failed = ?,
			pending = ?,
			status = ?,
			error_message = ?,
			completed_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, totalPoints, passed, failed, pending, status, errorMessage, id)
	if err != nil {
		return fmt.Errorf("failed to update scan log: %w", err)
	}
	return nil
}
