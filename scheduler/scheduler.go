package scheduler

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"prdconsole/database"
	"prdconsole/logger"
)

// StartScheduler 스케줄러 시작 (1시간마다 고아 자산 파일 정리)
func StartScheduler(storageDir string) {
	logger.Info("Scheduler started")

	ticker := time.NewTicker(1 * time.Hour)

	// 서버 시작 시 즉시 한 번 실행
	SweepOrphanedAssets(storageDir)

	go func() {
		for {
			<-ticker.C
			logger.Info("Scheduler tick: Running SweepOrphanedAssets")
			SweepOrphanedAssets(storageDir)
		}
	}()
}

// sweepMinAge 이보다 최근에 쓰인 파일은 정리 대상에서 제외합니다.
// 업로드는 파일을 먼저 쓰고 행을 나중에 넣으므로, 진행 중인 업로드의
// 파일이 레코드 없는 고아로 보일 수 있습니다.
const sweepMinAge = 10 * time.Minute

// SweepOrphanedAssets 디스크에는 있지만 assets 테이블에 레코드가 없는 파일 제거.
// 교체 실패나 비정상 종료로 남은 잔여물을 정리합니다. 고정 경로 자산과
// 방금 쓰인 파일은 건너뜁니다.
func SweepOrphanedAssets(storageDir string) {
	known, err := knownStoragePaths()
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"error": err.Error(),
		}).Error("Failed to load asset records for sweep")
		return
	}

	removed := 0
	err = filepath.Walk(storageDir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(storageDir, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		// 고정 경로 자산은 DB 레코드 없이 관례로 존재합니다.
		if strings.HasPrefix(rel, "singleton/") {
			return nil
		}

		// 진행 중인 업로드와 경합하지 않도록 새 파일은 다음 주기로 미룹니다.
		if time.Since(info.ModTime()) < sweepMinAge {
			return nil
		}

		if !known[rel] {
			if removeErr := os.Remove(path); removeErr == nil {
				removed++
				logger.WithFields(map[string]interface{}{
					"path": rel,
				}).Info("Removed orphaned asset file")
			}
		}
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		logger.WithFields(map[string]interface{}{
			"error": err.Error(),
		}).Error("Asset sweep failed")
		return
	}

	if removed > 0 {
		logger.Info("Asset sweep removed %d orphaned file(s)", removed)
	}
}

// knownStoragePaths assets 테이블의 storage_path 전체 집합
func knownStoragePaths() (map[string]bool, error) {
	rows, err := database.DB.Query("SELECT storage_path FROM assets")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	known := map[string]bool{}
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, err
		}
		known[path] = true
	}
	return known, rows.Err()
}
