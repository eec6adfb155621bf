package services

import (
	"fmt"
	"sort"

	"prdconsole/models"
)

// ColumnOrder 매트릭스 컬럼 순서를 계산합니다.
// 기본 컬럼이 항상 첫 번째이고, white/dark는 활성 시 항상 그 다음을 차지하며
// (원시 목록의 순서와 무관), 나머지 활성 스킨은 사전순으로 뒤에 붙습니다.
// 활성 스킨이 없으면 [__base__]만 반환합니다.
func ColumnOrder(enabledSkins []string) []string {
	columns := []string{models.BaseColumn}

	seen := map[string]bool{}
	others := []string{}
	hasWhite, hasDark := false, false

	for _, name := range enabledSkins {
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true

		switch name {
		case models.SkinWhite:
			hasWhite = true
		case models.SkinDark:
			hasDark = true
		default:
			others = append(others, name)
		}
	}

	if hasWhite {
		columns = append(columns, models.SkinWhite)
	}
	if hasDark {
		columns = append(columns, models.SkinDark)
	}

	sort.Strings(others)
	return append(columns, others...)
}

// ResolveMatrix 원시 자산 행을 해석된 매트릭스로 변환합니다.
//
// 1. 컬럼 순서 계산 (ColumnOrder)
// 2. 행 구성: 제목은 description → name → key 순으로 선택,
//    required는 백엔드 플래그 ∪ 내장 예약 키 ∪ 브랜딩 참조
// 3. 숨김 키 제외 (운영 오버라이드, 표시 필터일 뿐 삭제가 아님)
// 4. 브랜딩이 참조하지만 레코드가 없는 키는 빈 셀 행으로 합성
// 5. 셀 정렬: 각 행의 셀 키 집합을 정확히 컬럼 집합에 맞춤.
//    isFallback은 백엔드가 미리 계산한 값을 그대로 통과시키며
//    리졸버가 교차 스킨 폴백 URL을 만들어내지 않습니다.
//
// 같은 키가 중복 등장하면 첫 레코드만 유지합니다 (결정적, 에러 없음).
func ResolveMatrix(rawRows []models.AssetMatrixRow, enabledSkins []string, branding models.BrandingConfig, hiddenKeys []string) models.AssetMatrix {
	columns := ColumnOrder(enabledSkins)

	hidden := map[string]bool{}
	for _, key := range hiddenKeys {
		hidden[key] = true
	}

	refs := brandingKeyRefs(branding)
	referenced := map[string]bool{}
	for _, ref := range refs {
		referenced[ref] = true
	}

	rows := []models.MatrixRow{}
	seen := map[string]bool{}

	for _, raw := range rawRows {
		if seen[raw.Key] {
			continue // 중복 키: 첫 레코드 유지
		}
		seen[raw.Key] = true

		if hidden[raw.Key] {
			continue
		}

		row := models.MatrixRow{
			AssetKey: raw.AssetKey,
			Title:    rowTitle(raw),
			Cells:    alignCells(raw.Cells, columns),
		}
		row.Required = raw.Required || IsReservedKey(raw.Key) || referenced[raw.Key]
		rows = append(rows, row)
	}

	// 브랜딩 참조 키 합성: 레코드가 없으면 관리자에게 보이도록 빈 행 추가
	for _, ref := range refs {
		if seen[ref] || hidden[ref] {
			continue
		}
		seen[ref] = true

		row := models.MatrixRow{
			AssetKey: models.AssetKey{
				Key:      ref,
				Kind:     models.AssetKindImage,
				Required: true,
			},
			Title:     fmt.Sprintf("%s (branding)", ref),
			Synthetic: true,
			Cells:     alignCells(nil, columns),
		}
		rows = append(rows, row)
	}

	return models.AssetMatrix{Columns: columns, Rows: rows}
}

// rowTitle 행 제목: description → name → key
func rowTitle(raw models.AssetMatrixRow) string {
	if raw.Description != "" {
		return raw.Description
	}
	if raw.Name != "" {
		return raw.Name
	}
	return raw.Key
}

// alignCells 셀 키 집합을 컬럼 집합에 정확히 맞춥니다.
// 비활성 스킨의 잔류 셀은 버려지고, 없는 셀은 빈 셀로 채워집니다.
func alignCells(cells map[string]models.MatrixCell, columns []string) map[string]models.MatrixCell {
	aligned := make(map[string]models.MatrixCell, len(columns))
	for _, column := range columns {
		lookup := column
		if column == models.BaseColumn {
			lookup = ""
		}
		if cell, ok := cells[lookup]; ok {
			aligned[column] = cell
		} else {
			aligned[column] = models.MatrixCell{}
		}
	}
	return aligned
}
