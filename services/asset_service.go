package services

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"prdconsole/models"
	"prdconsole/utils"
)

var (
	// ErrSkinExists는 동일한 이름의 스킨이 이미 존재할 때 반환됩니다.
	ErrSkinExists = errors.New("skin already exists")
	// ErrAssetKeyExists는 동일한 키가 이미 존재할 때 반환됩니다.
	ErrAssetKeyExists = errors.New("asset key already exists")
	// ErrAssetKeyNotFound는 자산 키 레코드가 없을 때 반환됩니다.
	ErrAssetKeyNotFound = errors.New("asset key not found")
	// ErrAssetNotFound는 자산 파일 레코드가 없을 때 반환됩니다.
	ErrAssetNotFound = errors.New("asset not found")
	// ErrInvalidAssetKind는 지원하지 않는 자산 종류일 때 반환됩니다.
	ErrInvalidAssetKind = errors.New("invalid asset kind")
)

// singletonRelPath 고정 경로 자산의 저장 위치 (관례로 고정)
const singletonRelPath = "singleton/loader.png"

// AssetService 스킨/자산 키/자산 파일에 대한 저장소 연산을 정의합니다.
// 셀의 isFallback은 여기서(기본 변형 기준으로만) 미리 계산되며,
// 리졸버는 이 값을 그대로 통과시킵니다.
type AssetService interface {
	ListSkins(ctx context.Context) ([]models.Skin, error)
	EnabledSkinNames(ctx context.Context) ([]string, error)
	CreateSkin(ctx context.Context, req models.CreateSkinRequest) (models.Skin, error)

	CreateAssetKey(ctx context.Context, req models.CreateAssetKeyRequest) (models.AssetKey, error)
	// DeleteAssetKey는 보호 검사를 통과한 키와 그 자산 전부를 삭제하고 삭제된 키를 반환합니다.
	// 보호된 키는 저장소를 건드리기 전에 거부됩니다.
	DeleteAssetKey(ctx context.Context, id string, branding models.BrandingConfig) (string, error)

	// MatrixRows는 원시 매트릭스 행을 반환합니다 (해석은 ResolveMatrix가 담당).
	MatrixRows(ctx context.Context, enabledSkins []string) ([]models.AssetMatrixRow, error)

	// SaveAsset은 업로드 대상 셀에 파일을 저장하고 메타데이터를 upsert합니다.
	// 대상 키의 레코드가 없으면(합성 행에 대한 첫 업로드) 이때 실제 레코드가 생성됩니다.
	SaveAsset(ctx context.Context, target models.UploadTarget, originalName, mimeType string, r io.Reader) (models.StoredAsset, error)

	// SaveSingleton은 고정 경로 자산을 저장합니다. 키/스킨 정규화를 거치지 않습니다.
	SaveSingleton(r io.Reader) (string, error)

	// AssetFile은 다운로드용으로 저장 경로와 MIME 타입을 반환합니다.
	AssetFile(ctx context.Context, key, skin string) (string, string, error)
}

type assetService struct {
	db         SQLExecutor
	storageDir string
}

// NewAssetService AssetService 구현체 생성
func NewAssetService(db SQLExecutor, storageDir string) AssetService {
	if storageDir == "" {
		storageDir = filepath.Join("data", "assets")
	}
	return &assetService{db: db, storageDir: storageDir}
}

// publicAssetURL 매트릭스 셀에 노출되는 자산 URL
func publicAssetURL(key, skin string) string {
	if skin == "" {
		return "/api/desktop/assets/" + key
	}
	return "/api/desktop/assets/" + key + "?skin=" + skin
}

func (s *assetService) ListSkins(ctx context.Context) ([]models.Skin, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name, enabled, created_at FROM skins ORDER BY created_at ASC, name ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	skins := []models.Skin{}
	for rows.Next() {
		var (
			skin    models.Skin
			enabled int
		)
		if err := rows.Scan(&skin.Name, &enabled, &skin.CreatedAt); err != nil {
			return nil, err
		}
		skin.Enabled = enabled != 0
		skins = append(skins, skin)
	}

	return skins, rows.Err()
}

func (s *assetService) EnabledSkinNames(ctx context.Context) ([]string, error) {
	skins, err := s.ListSkins(ctx)
	if err != nil {
		return nil, err
	}

	names := []string{}
	for _, skin := range skins {
		if skin.Enabled {
			names = append(names, skin.Name)
		}
	}
	return names, nil
}

func (s *assetService) CreateSkin(ctx context.Context, req models.CreateSkinRequest) (models.Skin, error) {
	name, err := NormalizeSkinName(req.Name)
	if err != nil {
		return models.Skin{}, err
	}

	enabled := 0
	if req.Enabled {
		enabled = 1
	}

	now := utils.FormatDateTimeForDB(utils.NowShanghai())
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO skins (name, enabled, created_at) VALUES (?, ?, ?)",
		name, enabled, now,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return models.Skin{}, ErrSkinExists
		}
		return models.Skin{}, err
	}

	return models.Skin{Name: name, Enabled: req.Enabled, CreatedAt: now}, nil
}

func (s *assetService) CreateAssetKey(ctx context.Context, req models.CreateAssetKeyRequest) (models.AssetKey, error) {
	key, err := NormalizeKeyInput(req.Key)
	if err != nil {
		return models.AssetKey{}, err
	}

	kind := req.Kind
	if kind == "" {
		kind = models.AssetKindImage
	}
	switch kind {
	case models.AssetKindImage, models.AssetKindAudio, models.AssetKindVideo, models.AssetKindOther:
	default:
		return models.AssetKey{}, ErrInvalidAssetKind
	}

	id, err := utils.GenerateID("KEY")
	if err != nil {
		return models.AssetKey{}, err
	}

	required := 0
	if IsReservedKey(key) {
		required = 1
	}

	now := utils.FormatDateTimeForDB(utils.NowShanghai())
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO asset_keys (id, asset_key, kind, description, required, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, key, kind, req.Description, required, now, now,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return models.AssetKey{}, ErrAssetKeyExists
		}
		return models.AssetKey{}, err
	}

	return models.AssetKey{
		ID:          id,
		Key:         key,
		Kind:        kind,
		Description: req.Description,
		Required:    required == 1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func (s *assetService) DeleteAssetKey(ctx context.Context, id string, branding models.BrandingConfig) (string, error) {
	var (
		rec      models.AssetKey
		required int
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT id, asset_key, kind, required FROM asset_keys WHERE id = ?", id,
	).Scan(&rec.ID, &rec.Key, &rec.Kind, &required)
	if err == sql.ErrNoRows {
		return "", ErrAssetKeyNotFound
	}
	if err != nil {
		return "", err
	}
	rec.Required = required == 1

	// 보호 검사: 저장소를 변경하기 전에 차단
	if IsProtectedKey(rec.Key, rec.Required, branding) {
		return "", ErrKeyProtected
	}

	// 이 키의 자산 파일 경로 수집 (행 삭제 후 제거)
	paths := []string{}
	rows, err := s.db.QueryContext(ctx, "SELECT storage_path FROM assets WHERE asset_key = ?", rec.Key)
	if err != nil {
		return "", err
	}
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			rows.Close()
			return "", err
		}
		paths = append(paths, p)
	}
	rows.Close()

	if _, err := s.db.ExecContext(ctx, "DELETE FROM assets WHERE asset_key = ?", rec.Key); err != nil {
		return "", err
	}
	if _, err := s.db.ExecContext(ctx, "DELETE FROM asset_keys WHERE id = ?", rec.ID); err != nil {
		return "", err
	}

	// 파일 제거는 best-effort (잔여물은 스케줄러가 정리)
	for _, p := range paths {
		os.Remove(filepath.Join(s.storageDir, filepath.FromSlash(p)))
	}

	return rec.Key, nil
}

func (s *assetService) MatrixRows(ctx context.Context, enabledSkins []string) ([]models.AssetMatrixRow, error) {
	keyRows, err := s.db.QueryContext(ctx, `
		SELECT id, asset_key, kind, description, required, created_at, updated_at
		FROM asset_keys ORDER BY created_at ASC, asset_key ASC`)
	if err != nil {
		return nil, err
	}
	defer keyRows.Close()

	records := []models.AssetKey{}
	for keyRows.Next() {
		var (
			rec         models.AssetKey
			description sql.NullString
			required    int
		)
		if err := keyRows.Scan(&rec.ID, &rec.Key, &rec.Kind, &description, &required, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, err
		}
		if description.Valid {
			rec.Description = description.String
		}
		rec.Required = required == 1
		records = append(records, rec)
	}
	if err := keyRows.Err(); err != nil {
		return nil, err
	}

	// 키/스킨별 업로드된 자산 셀 수집
	assetRows, err := s.db.QueryContext(ctx, "SELECT asset_key, skin FROM assets")
	if err != nil {
		return nil, err
	}
	defer assetRows.Close()

	uploaded := map[string]map[string]bool{}
	for assetRows.Next() {
		var key, skin string
		if err := assetRows.Scan(&key, &skin); err != nil {
			return nil, err
		}
		if uploaded[key] == nil {
			uploaded[key] = map[string]bool{}
		}
		uploaded[key][skin] = true
	}
	if err := assetRows.Err(); err != nil {
		return nil, err
	}

	result := make([]models.AssetMatrixRow, 0, len(records))
	for _, rec := range records {
		cells := map[string]models.MatrixCell{}
		hasBase := uploaded[rec.Key][""]

		if hasBase {
			cells[""] = models.MatrixCell{URL: publicAssetURL(rec.Key, "")}
		}

		for _, skin := range enabledSkins {
			if uploaded[rec.Key][skin] {
				cells[skin] = models.MatrixCell{URL: publicAssetURL(rec.Key, skin)}
				continue
			}
			// 스킨 전용 자산이 없으면 기본 변형으로 폴백 (기본 변형만, white→dark 폴백 없음)
			if hasBase {
				cells[skin] = models.MatrixCell{URL: publicAssetURL(rec.Key, ""), IsFallback: true}
			}
		}

		result = append(result, models.AssetMatrixRow{AssetKey: rec, Cells: cells})
	}

	return result, nil
}

func (s *assetService) SaveAsset(ctx context.Context, target models.UploadTarget, originalName, mimeType string, r io.Reader) (models.StoredAsset, error) {
	if target.Mode != models.UploadModeMatrix || target.Key == "" {
		return models.StoredAsset{}, ErrMissingUploadTarget
	}

	skin := ""
	if target.Skin != nil {
		skin = *target.Skin
	}

	// 스킨은 저장 하위 디렉터리가 되므로 정규 이름이 아니면 거부합니다.
	if skin != "" {
		normalized, err := NormalizeSkinName(skin)
		if err != nil {
			return models.StoredAsset{}, err
		}
		if normalized != skin {
			return models.StoredAsset{}, ErrSkinNameInvalidChars
		}
	}

	ext := strings.ToLower(filepath.Ext(originalName))
	storedName := target.Key + ext
	subDir := "base"
	if skin != "" {
		subDir = skin
	}
	relPath := filepath.ToSlash(filepath.Join(subDir, storedName))
	absPath := filepath.Join(s.storageDir, filepath.FromSlash(relPath))

	if err := os.MkdirAll(filepath.Dir(absPath), 0755); err != nil {
		return models.StoredAsset{}, fmt.Errorf("failed to prepare storage path: %w", err)
	}

	dst, err := os.Create(absPath)
	if err != nil {
		return models.StoredAsset{}, fmt.Errorf("failed to store asset: %w", err)
	}
	defer dst.Close()

	hash := sha256.New()
	size, err := io.Copy(io.MultiWriter(dst, hash), r)
	if err != nil {
		os.Remove(absPath)
		return models.StoredAsset{}, fmt.Errorf("failed to save asset: %w", err)
	}
	checksum := hex.EncodeToString(hash.Sum(nil))

	now := utils.FormatDateTimeForDB(utils.NowShanghai())

	// 합성 행에 대한 첫 업로드: 자산 행보다 키 레코드를 먼저 보장해
	// asset_keys 없는 assets 행이 남는 일이 없게 합니다.
	if err := s.ensureAssetKeyRecord(ctx, target.Key, mimeType, now); err != nil {
		os.Remove(absPath)
		return models.StoredAsset{}, err
	}

	// 기존 레코드가 있으면 교체, 없으면 생성
	var (
		existingID   string
		existingPath string
	)
	err = s.db.QueryRowContext(ctx,
		"SELECT id, storage_path FROM assets WHERE asset_key = ? AND skin = ?",
		target.Key, skin,
	).Scan(&existingID, &existingPath)

	switch {
	case err == sql.ErrNoRows:
		existingID, err = utils.GenerateID("AST")
		if err != nil {
			return models.StoredAsset{}, err
		}
		_, err = s.db.ExecContext(ctx, `
			INSERT INTO assets (id, asset_key, skin, stored_name, storage_path, mime_type, file_size, checksum, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			existingID, target.Key, skin, storedName, relPath, mimeType, size, checksum, now, now,
		)
		if err != nil {
			os.Remove(absPath)
			return models.StoredAsset{}, err
		}
	case err != nil:
		return models.StoredAsset{}, err
	default:
		_, err = s.db.ExecContext(ctx, `
			UPDATE assets
			SET stored_name = ?, storage_path = ?, mime_type = ?, file_size = ?, checksum = ?, updated_at = ?
			WHERE id = ?`,
			storedName, relPath, mimeType, size, checksum, now, existingID,
		)
		if err != nil {
			return models.StoredAsset{}, err
		}
		// 확장자가 바뀐 교체의 이전 파일 제거
		if existingPath != relPath {
			os.Remove(filepath.Join(s.storageDir, filepath.FromSlash(existingPath)))
		}
	}

	return models.StoredAsset{
		ID:          existingID,
		Key:         target.Key,
		Skin:        skin,
		StoredName:  storedName,
		StoragePath: relPath,
		MimeType:    mimeType,
		FileSize:    size,
		Checksum:    checksum,
		URL:         publicAssetURL(target.Key, skin),
	}, nil
}

// ensureAssetKeyRecord 키 레코드가 없으면 업로드된 MIME 타입으로부터 종류를 유추해 생성
func (s *assetService) ensureAssetKeyRecord(ctx context.Context, key, mimeType, now string) error {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM asset_keys WHERE asset_key = ?", key).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	id, err := utils.GenerateID("KEY")
	if err != nil {
		return err
	}

	required := 0
	if IsReservedKey(key) {
		required = 1
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO asset_keys (id, asset_key, kind, description, required, created_at, updated_at)
		VALUES (?, ?, ?, '', ?, ?, ?)`,
		id, key, kindFromMime(mimeType), required, now, now,
	)
	if err != nil && !isDuplicateKeyError(err) {
		return err
	}
	return nil
}

func kindFromMime(mimeType string) string {
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return models.AssetKindImage
	case strings.HasPrefix(mimeType, "audio/"):
		return models.AssetKindAudio
	case strings.HasPrefix(mimeType, "video/"):
		return models.AssetKindVideo
	default:
		return models.AssetKindOther
	}
}

func (s *assetService) SaveSingleton(r io.Reader) (string, error) {
	absPath := filepath.Join(s.storageDir, filepath.FromSlash(singletonRelPath))
	if err := os.MkdirAll(filepath.Dir(absPath), 0755); err != nil {
		return "", fmt.Errorf("failed to prepare storage path: %w", err)
	}

	dst, err := os.Create(absPath)
	if err != nil {
		return "", fmt.Errorf("failed to store asset: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		os.Remove(absPath)
		return "", fmt.Errorf("failed to save asset: %w", err)
	}

	return singletonRelPath, nil
}

func (s *assetService) AssetFile(ctx context.Context, key, skin string) (string, string, error) {
	var (
		relPath  string
		mimeType string
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT storage_path, mime_type FROM assets WHERE asset_key = ? AND skin = ?",
		key, skin,
	).Scan(&relPath, &mimeType)
	if err == sql.ErrNoRows {
		return "", "", ErrAssetNotFound
	}
	if err != nil {
		return "", "", err
	}

	return filepath.Join(s.storageDir, filepath.FromSlash(relPath)), mimeType, nil
}
