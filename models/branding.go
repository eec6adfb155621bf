package models

// BrandingConfig 데스크톱 브랜딩 설정. 여기서 참조되는 키는 매트릭스에서 항상 required로 취급됩니다.
type BrandingConfig struct {
	DesktopName        string `json:"desktopName"`
	Subtitle           string `json:"subtitle,omitempty"`
	WindowTitle        string `json:"windowTitle,omitempty"`
	LoginIconKey       string `json:"loginIconKey"`
	LoginBackgroundKey string `json:"loginBackgroundKey"`
	UpdatedAt          string `json:"updatedAt,omitempty"`
}

// UpdateBrandingRequest 브랜딩 설정 수정 요청
type UpdateBrandingRequest struct {
	DesktopName        string `json:"desktopName"`
	Subtitle           string `json:"subtitle"`
	WindowTitle        string `json:"windowTitle"`
	LoginIconKey       string `json:"loginIconKey"`
	LoginBackgroundKey string `json:"loginBackgroundKey"`
}
