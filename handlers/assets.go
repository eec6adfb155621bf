package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"prdconsole/logger"
	"prdconsole/models"
	"prdconsole/services"
)

const maxAssetUploadSize = 20 << 20 // 20 MB

// GetAssetsMatrix 자산 매트릭스 조회
// 스킨 로드 실패는 컬럼을 계산할 수 없으므로 차단 에러이고,
// 브랜딩 로드 실패는 행 합성 없이 매트릭스를 계속 표시합니다.
// @Summary 자산 매트릭스 조회
// @Tags 관리자 - 데스크톱 자산
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.APIResponse{data=models.MatrixResponse} "조회 성공"
// @Failure 500 {object} models.APIResponse "서버 에러"
// @Router /api/admin/desktop/assets/matrix [get]
func GetAssetsMatrix(w http.ResponseWriter, r *http.Request) {
	requestID := r.Context().Value("request_id")

	skins, err := assetSvc.EnabledSkinNames(r.Context())
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(models.ErrorResponse("Failed to load skins", err))
		return
	}

	branding, err := brandingSvc.Get(r.Context())
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Branding load failed - matrix shown without synthesized rows")
		branding = models.BrandingConfig{}
	}

	rawRows, err := assetSvc.MatrixRows(r.Context(), skins)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(models.ErrorResponse("Failed to load asset matrix", err))
		return
	}

	matrix := services.ResolveMatrix(rawRows, skins, branding, hiddenKeys)

	// 캐시 무효화 토큰으로 셀 URL 장식
	token := consoleState.CacheToken()
	for i := range matrix.Rows {
		for column, cell := range matrix.Rows[i].Cells {
			cell.URL = services.AppendCacheBust(cell.URL, token)
			matrix.Rows[i].Cells[column] = cell
		}
	}

	json.NewEncoder(w).Encode(models.SuccessResponse("Matrix retrieved", models.MatrixResponse{
		AssetMatrix: matrix,
		CacheToken:  token,
		BrokenCells: consoleState.BrokenCells(),
	}))
}

// CreateAssetKey 자산 키 생성
// @Summary 자산 키 생성
// @Tags 관리자 - 데스크톱 자산
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CreateAssetKeyRequest true "자산 키 정보"
// @Success 201 {object} models.APIResponse{data=models.AssetKey} "생성 성공"
// @Failure 400 {object} models.APIResponse "키 검증 실패"
// @Failure 409 {object} models.APIResponse "이미 존재하는 키"
// @Router /api/admin/desktop/assets/keys [post]
func CreateAssetKey(w http.ResponseWriter, r *http.Request) {
	requestID := r.Context().Value("request_id")

	var req models.CreateAssetKeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(models.ErrorResponse("Invalid request body", err))
		return
	}

	rec, err := assetSvc.CreateAssetKey(r.Context(), req)
	if err != nil {
		switch {
		case services.IsValidationError(err):
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(models.ErrorResponse("Invalid asset key", err))
		case errors.Is(err, services.ErrInvalidAssetKind):
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(models.ErrorResponse("Invalid asset kind", err))
		case errors.Is(err, services.ErrAssetKeyExists):
			w.WriteHeader(http.StatusConflict)
			json.NewEncoder(w).Encode(models.ErrorResponse("Asset key already exists", err))
		default:
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(models.ErrorResponse("Failed to create asset key", err))
		}
		return
	}

	logger.WithFields(map[string]interface{}{
		"request_id": requestID,
		"key":        rec.Key,
		"kind":       rec.Kind,
	}).Info("Asset key created")

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(models.SuccessResponse("Asset key created", rec))
}

// DeleteAssetKey 자산 키 삭제
// 보호된 키(내장 예약, required 플래그, 브랜딩 참조)는 저장소 호출 전에 거부됩니다.
// @Summary 자산 키 삭제
// @Tags 관리자 - 데스크톱 자산
// @Produce json
// @Security BearerAuth
// @Param id path string true "자산 키 ID"
// @Success 200 {object} models.APIResponse "삭제 성공"
// @Failure 403 {object} models.APIResponse "보호된 키"
// @Failure 404 {object} models.APIResponse "키 없음"
// @Router /api/admin/desktop/assets/keys/{id} [delete]
func DeleteAssetKey(w http.ResponseWriter, r *http.Request) {
	requestID := r.Context().Value("request_id")

	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/admin/desktop/assets/keys/"), "/")
	if id == "" {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(models.ErrorResponse("Asset key ID is required", nil))
		return
	}

	// 보호 판정에 브랜딩 참조가 필요하므로, 브랜딩을 읽지 못하면 삭제를 진행하지 않습니다.
	branding, err := brandingSvc.Get(r.Context())
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(models.ErrorResponse("Failed to load branding for protection check", err))
		return
	}

	key, err := assetSvc.DeleteAssetKey(r.Context(), id, branding)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrKeyProtected):
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(models.ErrorResponse("Asset key is protected", err))
		case errors.Is(err, services.ErrAssetKeyNotFound):
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(models.ErrorResponse("Asset key not found", nil))
		default:
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(models.ErrorResponse("Failed to delete asset key", err))
		}
		return
	}

	// 삭제 성공: 캐시 토큰 갱신 + 해당 키의 깨진 셀 플래그 정리
	consoleState.BumpCacheToken()
	consoleState.ClearBrokenForKey(key)

	logger.WithFields(map[string]interface{}{
		"request_id": requestID,
		"key":        key,
	}).Info("Asset key deleted")

	json.NewEncoder(w).Encode(models.SuccessResponse("Asset key deleted", nil))
}

// UploadAsset 매트릭스 셀에 자산 업로드/교체
// @Summary 자산 업로드
// @Description 매트릭스 셀(key, column)에 파일을 업로드합니다. column이 __base__면 기본 변형입니다.
// @Tags 관리자 - 데스크톱 자산
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "자산 파일"
// @Param key formData string true "자산 키"
// @Param column formData string false "컬럼 (기본값 __base__)"
// @Success 201 {object} models.APIResponse{data=models.StoredAsset} "업로드 성공"
// @Failure 400 {object} models.APIResponse "키 검증 실패"
// @Failure 409 {object} models.APIResponse "셀 업로드 진행 중"
// @Router /api/admin/desktop/assets/upload [post]
func UploadAsset(w http.ResponseWriter, r *http.Request) {
	requestID := r.Context().Value("request_id")

	r.Body = http.MaxBytesReader(w, r.Body, maxAssetUploadSize+int64(1<<20))
	if err := r.ParseMultipartForm(maxAssetUploadSize); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(models.ErrorResponse("Failed to parse upload request", err))
		return
	}

	column := strings.TrimSpace(r.FormValue("column"))
	if column == "" {
		column = models.BaseColumn
	}

	// 대상 해석이 실패하면 파일을 읽기 전에 거부합니다.
	target, err := services.ResolveUploadTarget(r.FormValue("key"), column)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(models.ErrorResponse("Invalid upload target", err))
		return
	}

	// 셀당 업로드는 한 번에 하나만 허용 (다른 셀과는 독립)
	cellKey := services.TargetCellKey(target)
	if !consoleState.BeginUpload(cellKey) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(models.ErrorResponse("Upload already in progress for this cell", nil))
		return
	}
	defer consoleState.EndUpload(cellKey)

	file, header, err := r.FormFile("file")
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(models.ErrorResponse("File field is required", err))
		return
	}
	defer file.Close()

	originalName := filepath.Base(strings.TrimSpace(header.Filename))
	reader, mimeType := sniffMimeType(file, header.Header.Get("Content-Type"), originalName)

	stored, err := assetSvc.SaveAsset(r.Context(), target, originalName, mimeType, reader)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(models.ErrorResponse("Failed to store asset", err))
		return
	}

	// 업로드 성공: 캐시 토큰 갱신 + 이 셀의 깨진 플래그 해제
	token := consoleState.BumpCacheToken()
	consoleState.ClearCellBroken(cellKey)
	stored.URL = services.AppendCacheBust(stored.URL, token)

	logger.WithFields(map[string]interface{}{
		"request_id": requestID,
		"key":        stored.Key,
		"skin":       stored.Skin,
		"size":       stored.FileSize,
	}).Info("Asset uploaded")

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(models.SuccessResponse("Asset uploaded", stored))
}

// UploadSingletonAsset 고정 경로 자산 업로드 (키/스킨 정규화 없음)
// @Summary 고정 경로 자산 업로드
// @Tags 관리자 - 데스크톱 자산
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "자산 파일"
// @Success 201 {object} models.APIResponse "업로드 성공"
// @Failure 409 {object} models.APIResponse "업로드 진행 중"
// @Router /api/admin/desktop/assets/singleton [post]
func UploadSingletonAsset(w http.ResponseWriter, r *http.Request) {
	requestID := r.Context().Value("request_id")

	r.Body = http.MaxBytesReader(w, r.Body, maxAssetUploadSize+int64(1<<20))
	if err := r.ParseMultipartForm(maxAssetUploadSize); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(models.ErrorResponse("Failed to parse upload request", err))
		return
	}

	target := services.SingletonUploadTarget()
	cellKey := services.TargetCellKey(target)
	if !consoleState.BeginUpload(cellKey) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(models.ErrorResponse("Upload already in progress", nil))
		return
	}
	defer consoleState.EndUpload(cellKey)

	file, _, err := r.FormFile("file")
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(models.ErrorResponse("File field is required", err))
		return
	}
	defer file.Close()

	path, err := assetSvc.SaveSingleton(file)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(models.ErrorResponse("Failed to store asset", err))
		return
	}

	consoleState.BumpCacheToken()
	consoleState.ClearCellBroken(cellKey)

	logger.WithFields(map[string]interface{}{
		"request_id": requestID,
		"path":       path,
	}).Info("Singleton asset uploaded")

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(models.SuccessResponse("Asset uploaded", map[string]string{"path": path}))
}

// MarkBrokenCell 깨진 이미지 셀 보고
// @Summary 깨진 이미지 셀 보고
// @Tags 관리자 - 데스크톱 자산
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.APIResponse "보고 성공"
// @Router /api/admin/desktop/assets/broken [post]
func MarkBrokenCell(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Key  string `json:"key"`
		Skin string `json:"skin"` // 빈 문자열이면 기본 변형
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(models.ErrorResponse("Invalid request body", err))
		return
	}

	key, err := services.NormalizeKeyInput(req.Key)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(models.ErrorResponse("Invalid asset key", err))
		return
	}

	var skin *string
	if req.Skin != "" {
		skin = &req.Skin
	}
	consoleState.MarkCellBroken(services.CellStateKey(key, skin))

	json.NewEncoder(w).Encode(models.SuccessResponse("Broken cell recorded", nil))
}

// DownloadAsset 자산 파일 다운로드 (익명, 매트릭스 셀 URL의 대상)
// @Summary 자산 파일 다운로드
// @Tags 데스크톱
// @Produce octet-stream
// @Param key path string true "자산 키"
// @Param skin query string false "스킨 (생략 시 기본 변형)"
// @Success 200 {file} binary "자산 파일"
// @Failure 404 {object} models.APIResponse "자산 없음"
// @Router /api/desktop/assets/{key} [get]
func DownloadAsset(w http.ResponseWriter, r *http.Request) {
	key := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/desktop/assets/"), "/")
	if key == "" || strings.Contains(key, "/") {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	skin := strings.TrimSpace(r.URL.Query().Get("skin"))

	path, mimeType, err := assetSvc.AssetFile(r.Context(), key, skin)
	if err != nil {
		if errors.Is(err, services.ErrAssetNotFound) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(models.ErrorResponse("Asset not found", nil))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(models.ErrorResponse("Failed to load asset", err))
		return
	}

	f, err := os.Open(path)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(models.ErrorResponse("Stored asset not found", nil))
		return
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(models.ErrorResponse("Failed to stat asset", err))
		return
	}

	if mimeType != "" {
		w.Header().Set("Content-Type", mimeType)
	}
	http.ServeContent(w, r, key, stat.ModTime(), f)
}

// sniffMimeType Content-Type 헤더 → 매직 바이트 → 확장자 순으로 MIME 타입 판별
func sniffMimeType(file io.ReadSeeker, headerType, originalName string) (io.Reader, string) {
	mimeType := headerType

	buf := make([]byte, 512)
	n, _ := file.Read(buf)
	if mimeType == "" && n > 0 {
		mimeType = http.DetectContentType(buf[:n])
	}

	var reader io.Reader = file
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		reader = io.MultiReader(bytes.NewReader(buf[:n]), file)
	}

	if mimeType == "" {
		if ext := strings.ToLower(filepath.Ext(originalName)); ext != "" {
			mimeType = mime.TypeByExtension(ext)
		}
		if mimeType == "" {
			mimeType = "application/octet-stream"
		}
	}

	return reader, mimeType
}
