package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"prdconsole/logger"
	"prdconsole/models"
	"prdconsole/services"
)

// GetSkins 스킨 목록 조회 (비활성 포함)
// @Summary 스킨 목록 조회
// @Tags 관리자 - 데스크톱 자산
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.APIResponse{data=[]models.Skin} "조회 성공"
// @Failure 500 {object} models.APIResponse "서버 에러"
// @Router /api/admin/desktop/skins [get]
func GetSkins(w http.ResponseWriter, r *http.Request) {
	skins, err := assetSvc.ListSkins(r.Context())
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(models.ErrorResponse("Failed to list skins", err))
		return
	}

	json.NewEncoder(w).Encode(models.SuccessResponse("Skins retrieved", skins))
}

// CreateSkin 스킨 생성
// @Summary 스킨 생성
// @Tags 관리자 - 데스크톱 자산
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CreateSkinRequest true "스킨 정보"
// @Success 201 {object} models.APIResponse{data=models.Skin} "생성 성공"
// @Failure 400 {object} models.APIResponse "이름 검증 실패"
// @Failure 409 {object} models.APIResponse "이미 존재하는 스킨"
// @Router /api/admin/desktop/skins [post]
func CreateSkin(w http.ResponseWriter, r *http.Request) {
	requestID := r.Context().Value("request_id")

	var req models.CreateSkinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(models.ErrorResponse("Invalid request body", err))
		return
	}

	skin, err := assetSvc.CreateSkin(r.Context(), req)
	if err != nil {
		switch {
		case services.IsValidationError(err):
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(models.ErrorResponse("Invalid skin name", err))
		case errors.Is(err, services.ErrSkinExists):
			w.WriteHeader(http.StatusConflict)
			json.NewEncoder(w).Encode(models.ErrorResponse("Skin already exists", err))
		default:
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(models.ErrorResponse("Failed to create skin", err))
		}
		return
	}

	logger.WithFields(map[string]interface{}{
		"request_id": requestID,
		"skin":       skin.Name,
		"enabled":    skin.Enabled,
	}).Info("Skin created")

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(models.SuccessResponse("Skin created", skin))
}

// GetDesktopSkins 데스크톱용 활성 스킨 이름 목록 (익명)
// @Summary 활성 스킨 이름 목록
// @Tags 데스크톱
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.SkinsResponse} "조회 성공"
// @Router /api/desktop/skins [get]
func GetDesktopSkins(w http.ResponseWriter, r *http.Request) {
	names, err := assetSvc.EnabledSkinNames(r.Context())
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(models.ErrorResponse("Failed to list skins", err))
		return
	}

	json.NewEncoder(w).Encode(models.SuccessResponse("Skins retrieved", models.SkinsResponse{Skins: names}))
}
