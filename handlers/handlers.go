package handlers

import (
	"prdconsole/services"
)

var (
	assetSvc     services.AssetService
	brandingSvc  services.BrandingService
	consoleState *services.ConsoleState
	hiddenKeys   []string
)

// Configure 핸들러가 사용하는 서비스/상태 주입.
// 숨김 키 목록은 운영자 입력(대문자/확장자 포함 가능)이므로 매트릭스의
// 정규 키와 비교되도록 여기서 정규화합니다. 정규화할 수 없는 항목은 버립니다.
func Configure(assets services.AssetService, branding services.BrandingService, state *services.ConsoleState, hidden []string) {
	assetSvc = assets
	brandingSvc = branding
	consoleState = state

	hiddenKeys = nil
	for _, raw := range hidden {
		if key, err := services.NormalizeKeyInput(raw); err == nil {
			hiddenKeys = append(hiddenKeys, key)
		}
	}
}
