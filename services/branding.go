package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"prdconsole/models"
	"prdconsole/utils"
)

// 브랜딩 키 참조가 비었을 때 사용하는 기본값
const (
	DefaultLoginIconKey       = "login_icon"
	DefaultLoginBackgroundKey = "bg"
)

// ErrBrandingNotFound는 브랜딩 행이 존재하지 않을 때 반환됩니다.
var ErrBrandingNotFound = errors.New("branding settings not found")

// NormalizeBrandingKey 저장 전 브랜딩 키 참조를 정규화합니다.
// trim → 소문자화 → 선행 슬래시 제거 → 슬래시/백슬래시 전부 제거 → 확장자 제거.
// 결과가 비어 있으면 fallback을 사용합니다.
func NormalizeBrandingKey(raw, fallback string) string {
	value := strings.ToLower(strings.TrimSpace(raw))
	value = strings.TrimLeft(value, "/")
	value = strings.ReplaceAll(value, "/", "")
	value = strings.ReplaceAll(value, `\`, "")
	value = StripExtension(value)

	if value == "" {
		return fallback
	}
	return value
}

// BrandingService 브랜딩 설정의 유일한 기록자입니다. MatrixResolver는 읽기만 합니다.
type BrandingService interface {
	// Get은 브랜딩 설정을 반환합니다. 키 참조는 확장자가 제거된 정규 형태로 노출됩니다.
	Get(ctx context.Context) (models.BrandingConfig, error)
	// Update는 키 참조를 정규화한 뒤 저장하고 저장된 설정을 반환합니다.
	Update(ctx context.Context, req models.UpdateBrandingRequest) (models.BrandingConfig, error)
}

type brandingService struct {
	db SQLExecutor
}

// NewBrandingService BrandingService 구현체 생성
func NewBrandingService(db SQLExecutor) BrandingService {
	return &brandingService{db: db}
}

func (s *brandingService) Get(ctx context.Context) (models.BrandingConfig, error) {
	var config models.BrandingConfig

	err := s.db.QueryRowContext(ctx, `
		SELECT desktop_name, subtitle, window_title, login_icon_key, login_background_key, updated_at
		FROM branding WHERE id = 1`,
	).Scan(&config.DesktopName, &config.Subtitle, &config.WindowTitle,
		&config.LoginIconKey, &config.LoginBackgroundKey, &config.UpdatedAt)

	if err == sql.ErrNoRows {
		return models.BrandingConfig{}, ErrBrandingNotFound
	}
	if err != nil {
		return models.BrandingConfig{}, err
	}

	// 과거 데이터에 확장자가 남아 있을 수 있으므로 표시 전에 제거
	config.LoginIconKey = StripExtension(config.LoginIconKey)
	config.LoginBackgroundKey = StripExtension(config.LoginBackgroundKey)

	return config, nil
}

func (s *brandingService) Update(ctx context.Context, req models.UpdateBrandingRequest) (models.BrandingConfig, error) {
	config := models.BrandingConfig{
		DesktopName:        strings.TrimSpace(req.DesktopName),
		Subtitle:           strings.TrimSpace(req.Subtitle),
		WindowTitle:        strings.TrimSpace(req.WindowTitle),
		LoginIconKey:       NormalizeBrandingKey(req.LoginIconKey, DefaultLoginIconKey),
		LoginBackgroundKey: NormalizeBrandingKey(req.LoginBackgroundKey, DefaultLoginBackgroundKey),
		UpdatedAt:          utils.FormatDateTimeForDB(utils.NowShanghai()),
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE branding
		SET desktop_name = ?, subtitle = ?, window_title = ?, login_icon_key = ?, login_background_key = ?, updated_at = ?
		WHERE id = 1`,
		config.DesktopName, config.Subtitle, config.WindowTitle,
		config.LoginIconKey, config.LoginBackgroundKey, config.UpdatedAt,
	)
	if err != nil {
		return models.BrandingConfig{}, err
	}

	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return models.BrandingConfig{}, ErrBrandingNotFound
	}

	return config, nil
}
