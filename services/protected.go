package services

import (
	"errors"

	"prdconsole/models"
)

// ErrKeyProtected는 보호된 키 삭제 시도 시 반환됩니다. 저장소 호출 전에 차단됩니다.
var ErrKeyProtected = errors.New("asset key is protected and cannot be deleted")

// reservedKeys 내장 예약 키 집합. 백엔드 플래그와 무관하게 절대 삭제할 수 없습니다.
var reservedKeys = map[string]bool{
	"load":       true,
	"start_load": true,
	"login_icon": true,
}

// IsReservedKey 내장 예약 키 여부
func IsReservedKey(key string) bool {
	return reservedKeys[key]
}

// ReservedKeys 내장 예약 키 목록 반환 (복사본)
func ReservedKeys() []string {
	keys := make([]string, 0, len(reservedKeys))
	for k := range reservedKeys {
		keys = append(keys, k)
	}
	return keys
}

// brandingKeyRefs 브랜딩 설정이 참조하는 정규화된 키 목록.
// 저장값에 확장자가 남아 있을 수 있으므로 키 선택과 동일한 전처리를 거칩니다.
func brandingKeyRefs(branding models.BrandingConfig) []string {
	refs := []string{}
	for _, raw := range []string{branding.LoginIconKey, branding.LoginBackgroundKey} {
		if normalized, err := NormalizeKeyInput(raw); err == nil {
			refs = append(refs, normalized)
		}
	}
	return refs
}

// IsProtectedKey 키 보호 여부를 판별합니다.
// 보호 조건: 내장 예약 키이거나, 백엔드 required 플래그가 참이거나,
// 브랜딩 설정(loginIconKey/loginBackgroundKey)이 해당 키를 참조하는 경우.
func IsProtectedKey(key string, backendRequired bool, branding models.BrandingConfig) bool {
	if backendRequired {
		return true
	}
	if IsReservedKey(key) {
		return true
	}
	for _, ref := range brandingKeyRefs(branding) {
		if ref == key {
			return true
		}
	}
	return false
}
