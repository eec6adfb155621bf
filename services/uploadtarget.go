package services

import (
	"errors"

	"prdconsole/models"
)

// ErrMissingUploadTarget은 해석된 대상 없이 파일이 전달됐을 때 반환됩니다.
// 정상 흐름에서는 도달할 수 없지만, 파일을 조용히 버리는 대신 명시적으로 실패합니다.
var ErrMissingUploadTarget = errors.New("no upload target resolved")

// SingletonCellKey 고정 경로 자산의 셀 상태 키 센티널
const SingletonCellKey = "__singleton__"

// ResolveUploadTarget 매트릭스 셀 클릭을 정규 업로드 대상으로 변환합니다.
// column이 기본 센티널이면 skin은 nil이고, 그 외에는 NormalizeSkinName을 통과해야
// 합니다 (스킨은 저장 하위 디렉터리가 되므로 검증 없이 디스크에 닿으면 안 됩니다).
// 키는 StripExtension → NormalizeDesktopKey를 거칩니다. 정규화에 실패하면
// 검증 에러를 반환하고 대상은 설정되지 않습니다 (파일 선택기를 열면 안 됩니다).
func ResolveUploadTarget(key, column string) (models.UploadTarget, error) {
	normalized, err := NormalizeKeyInput(key)
	if err != nil {
		return models.UploadTarget{}, err
	}

	var skin *string
	if column != models.BaseColumn {
		name, err := NormalizeSkinName(column)
		if err != nil {
			return models.UploadTarget{}, err
		}
		skin = &name
	}

	return models.UploadTarget{
		Skin: skin,
		Key:  normalized,
		Mode: models.UploadModeMatrix,
	}, nil
}

// SingletonUploadTarget 고정 경로 자산의 업로드 대상.
// 경로가 관례로 고정되어 있으므로 키/스킨 정규화를 거치지 않습니다.
func SingletonUploadTarget() models.UploadTarget {
	return models.UploadTarget{
		Skin: nil,
		Key:  "",
		Mode: models.UploadModeSingleton,
	}
}

// CellStateKey (key, skin) 셀의 상태 키: "key@@skinOrBase"
func CellStateKey(key string, skin *string) string {
	column := models.BaseColumn
	if skin != nil && *skin != "" {
		column = *skin
	}
	return key + "@@" + column
}

// TargetCellKey 업로드 대상의 셀 상태 키
func TargetCellKey(target models.UploadTarget) string {
	if target.Mode == models.UploadModeSingleton {
		return SingletonCellKey
	}
	return CellStateKey(target.Key, target.Skin)
}
