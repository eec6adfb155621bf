package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"prdconsole/logger"
	"prdconsole/models"
	"prdconsole/services"
)

// GetBranding 브랜딩 설정 조회 (관리자)
// @Summary 브랜딩 설정 조회
// @Tags 관리자 - 브랜딩
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.APIResponse{data=models.BrandingConfig} "조회 성공"
// @Failure 500 {object} models.APIResponse "서버 에러"
// @Router /api/admin/desktop/branding [get]
func GetBranding(w http.ResponseWriter, r *http.Request) {
	config, err := brandingSvc.Get(r.Context())
	if err != nil {
		if errors.Is(err, services.ErrBrandingNotFound) {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(models.ErrorResponse("Branding settings not found", nil))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(models.ErrorResponse("Failed to load branding settings", err))
		return
	}

	json.NewEncoder(w).Encode(models.SuccessResponse("Branding retrieved", config))
}

// UpdateBranding 브랜딩 설정 수정
// 키 참조는 저장 전에 정규화되며, 비어 있으면 기본값(login_icon/bg)이 사용됩니다.
// @Summary 브랜딩 설정 수정
// @Tags 관리자 - 브랜딩
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.UpdateBrandingRequest true "브랜딩 설정"
// @Success 200 {object} models.APIResponse{data=models.BrandingConfig} "수정 성공"
// @Failure 400 {object} models.APIResponse "잘못된 요청"
// @Router /api/admin/desktop/branding [put]
func UpdateBranding(w http.ResponseWriter, r *http.Request) {
	requestID := r.Context().Value("request_id")

	var req models.UpdateBrandingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(models.ErrorResponse("Invalid request body", err))
		return
	}

	config, err := brandingSvc.Update(r.Context(), req)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(models.ErrorResponse("Failed to update branding settings", err))
		return
	}

	logger.WithFields(map[string]interface{}{
		"request_id":   requestID,
		"login_icon":   config.LoginIconKey,
		"login_bg":     config.LoginBackgroundKey,
		"desktop_name": config.DesktopName,
	}).Info("Branding updated")

	json.NewEncoder(w).Encode(models.SuccessResponse("Branding updated", config))
}

// GetDesktopBranding 데스크톱용 브랜딩 조회 (익명)
// @Summary 데스크톱 브랜딩 조회
// @Tags 데스크톱
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.BrandingConfig} "조회 성공"
// @Router /api/desktop/branding [get]
func GetDesktopBranding(w http.ResponseWriter, r *http.Request) {
	config, err := brandingSvc.Get(r.Context())
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(models.ErrorResponse("Failed to load branding settings", err))
		return
	}

	json.NewEncoder(w).Encode(models.SuccessResponse("Branding retrieved", config))
}
