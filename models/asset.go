package models

// BaseColumn 스킨 독립(기본) 변형을 나타내는 센티널 컬럼 이름
const BaseColumn = "__base__"

// 고정 스킨 이름 (주간/야간 테마, 항상 다른 스킨보다 앞에 정렬)
const (
	SkinWhite = "white"
	SkinDark  = "dark"
)

// 자산 종류
const (
	AssetKindImage = "image"
	AssetKindAudio = "audio"
	AssetKindVideo = "video"
	AssetKindOther = "other"
)

// Skin 데스크톱 스킨 (시각 테마 변형)
type Skin struct {
	Name      string `json:"name"`
	Enabled   bool   `json:"enabled"`
	CreatedAt string `json:"created_at,omitempty"`
}

// AssetKey 논리 자산 슬롯. 합성 행(branding 참조로만 존재)은 ID가 비어 있습니다.
type AssetKey struct {
	ID          string `json:"id,omitempty"`
	Key         string `json:"key"`
	Kind        string `json:"kind"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required"`
	CreatedAt   string `json:"created_at,omitempty"`
	UpdatedAt   string `json:"updated_at,omitempty"`
}

// MatrixCell (key, skin) 쌍의 해석 결과
type MatrixCell struct {
	URL        string `json:"url"`
	IsFallback bool   `json:"is_fallback"`
}

// AssetMatrixRow 저장소가 반환하는 원시 행. Cells의 빈 문자열 키는 기본 변형을 뜻합니다.
type AssetMatrixRow struct {
	AssetKey
	Name  string                `json:"name,omitempty"`
	Cells map[string]MatrixCell `json:"cells"`
}

// MatrixRow 해석된 매트릭스 행. Cells의 키 집합은 항상 {BaseColumn} ∪ {활성 스킨}입니다.
type MatrixRow struct {
	AssetKey
	Title     string                `json:"title"`
	Synthetic bool                  `json:"synthetic,omitempty"`
	Cells     map[string]MatrixCell `json:"cells"`
}

// AssetMatrix 컬럼 순서와 해석된 행 전체
type AssetMatrix struct {
	Columns []string    `json:"columns"`
	Rows    []MatrixRow `json:"rows"`
}

// MatrixResponse 매트릭스 조회 응답 (캐시 토큰과 깨진 셀 목록 포함)
type MatrixResponse struct {
	AssetMatrix
	CacheToken  int64    `json:"cache_token"`
	BrokenCells []string `json:"broken_cells"`
}

// 업로드 대상 모드
const (
	UploadModeMatrix    = "matrix"
	UploadModeSingleton = "singleton"
)

// UploadTarget 셀 클릭과 파일 선택 사이에만 존재하는 일시적 업로드 대상.
// Skin이 nil이면 기본 변형을 대상으로 합니다.
type UploadTarget struct {
	Skin *string `json:"skin"`
	Key  string  `json:"key"`
	Mode string  `json:"mode"`
}

// StoredAsset 업로드가 저장한 자산 파일의 메타데이터
type StoredAsset struct {
	ID          string `json:"id"`
	Key         string `json:"key"`
	Skin        string `json:"skin"` // 빈 문자열이면 기본 변형
	StoredName  string `json:"stored_name"`
	StoragePath string `json:"storage_path"`
	MimeType    string `json:"mime_type"`
	FileSize    int64  `json:"file_size"`
	Checksum    string `json:"checksum"`
	URL         string `json:"url"`
}

// CreateSkinRequest 스킨 생성 요청
type CreateSkinRequest struct {
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
}

// CreateAssetKeyRequest 자산 키 생성 요청
type CreateAssetKeyRequest struct {
	Key         string `json:"key"`
	Kind        string `json:"kind"`
	Description string `json:"description,omitempty"`
}

// SkinsResponse 활성 스킨 이름 목록 (백엔드는 이름만 반환)
type SkinsResponse struct {
	Skins []string `json:"skins"`
}
