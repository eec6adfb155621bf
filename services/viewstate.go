package services

import (
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"prdconsole/models"
)

// AppendCacheBust URL에 캐시 무효화 토큰을 붙입니다.
// 쿼리 문자열이 이미 있으면 &v=, 없으면 ?v=를 사용하며, 빈 URL은 그대로 반환합니다.
func AppendCacheBust(url string, token int64) string {
	if url == "" {
		return ""
	}

	sep := "?"
	if strings.Contains(url, "?") {
		sep = "&"
	}
	return url + sep + "v=" + strconv.FormatInt(token, 10)
}

// ConsoleState 프로세스 전역 콘솔 뷰 상태.
// 캐시 무효화 토큰, 셀 단위 깨진 이미지 플래그, 셀 단위 업로드 단일 비행,
// 일시적 업로드 대상을 명시적이고 테스트 가능한 객체로 보관합니다.
type ConsoleState struct {
	mu        sync.Mutex
	token     int64
	broken    map[string]bool
	uploading map[string]bool
	target    *models.UploadTarget
}

// NewConsoleState 초기 상태 생성 (토큰은 현재 시각)
func NewConsoleState() *ConsoleState {
	return &ConsoleState{
		token:     time.Now().UnixMilli(),
		broken:    map[string]bool{},
		uploading: map[string]bool{},
	}
}

// CacheToken 현재 캐시 무효화 토큰
func (s *ConsoleState) CacheToken() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// BumpCacheToken 토큰을 현재 시각으로 갱신합니다. 단조 증가가 보장됩니다.
// 업로드/삭제 성공 후, 매트릭스를 다시 표시하기 전에 반드시 호출해야 합니다.
func (s *ConsoleState) BumpCacheToken() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UnixMilli()
	if now <= s.token {
		now = s.token + 1
	}
	s.token = now
	return s.token
}

// ApplyCacheBust 현재 토큰으로 URL 장식
func (s *ConsoleState) ApplyCacheBust(url string) string {
	return AppendCacheBust(url, s.CacheToken())
}

// MarkCellBroken 셀의 깨진 이미지 플래그 설정
func (s *ConsoleState) MarkCellBroken(cellKey string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.broken[cellKey] = true
}

// IsCellBroken 셀의 깨진 이미지 플래그 조회
func (s *ConsoleState) IsCellBroken(cellKey string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.broken[cellKey]
}

// ClearCellBroken 단일 셀의 깨진 이미지 플래그 해제
func (s *ConsoleState) ClearCellBroken(cellKey string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.broken, cellKey)
}

// BrokenCells 깨진 이미지 플래그가 설정된 셀 키 목록 (정렬됨)
func (s *ConsoleState) BrokenCells() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	cells := make([]string, 0, len(s.broken))
	for cellKey := range s.broken {
		cells = append(cells, cellKey)
	}
	sort.Strings(cells)
	return cells
}

// ClearBrokenForKey 키 프리픽스가 일치하는 모든 셀의 플래그 해제.
// 키 삭제 시 해당 키의 모든 스킨 셀 플래그가 함께 정리됩니다.
func (s *ConsoleState) ClearBrokenForKey(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prefix := key + "@@"
	for cellKey := range s.broken {
		if strings.HasPrefix(cellKey, prefix) {
			delete(s.broken, cellKey)
		}
	}
}

// BeginUpload 셀 업로드 시작을 표시합니다.
// 셀마다 논리적으로 한 번에 하나의 업로드만 허용되며, 이미 진행 중이면 false를 반환합니다.
// 서로 다른 셀의 동시 업로드는 독립적입니다.
func (s *ConsoleState) BeginUpload(cellKey string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.uploading[cellKey] {
		return false
	}
	s.uploading[cellKey] = true
	return true
}

// EndUpload 셀 업로드 종료 표시 (성공/실패 공통)
func (s *ConsoleState) EndUpload(cellKey string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.uploading, cellKey)
}

// IsUploading 셀 업로드 진행 여부
func (s *ConsoleState) IsUploading(cellKey string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.uploading[cellKey]
}

// SetUploadTarget 일시적 업로드 대상 설정
func (s *ConsoleState) SetUploadTarget(target models.UploadTarget) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.target = &target
}

// TakeUploadTarget 업로드 대상을 꺼내고 즉시 비웁니다.
// 완료/취소 후 이전 대상이 재사용되는 것을 막습니다.
func (s *ConsoleState) TakeUploadTarget() (models.UploadTarget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.target == nil {
		return models.UploadTarget{}, ErrMissingUploadTarget
	}
	target := *s.target
	s.target = nil
	return target, nil
}

// ClearUploadTarget 업로드 대상 폐기 (파일 선택 취소 등)
func (s *ConsoleState) ClearUploadTarget() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.target = nil
}
