package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"prdconsole/models"
	"prdconsole/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

// setupTestHandlers 인메모리 SQLite 위에 서비스/핸들러를 구성합니다.
func setupTestHandlers(t *testing.T) (services.AssetService, *services.ConsoleState) {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	tables := []string{
		`CREATE TABLE skins (
			name VARCHAR(32) PRIMARY KEY,
			enabled INTEGER NOT NULL DEFAULT 1,
			created_at VARCHAR(50) NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE asset_keys (
			id VARCHAR(50) PRIMARY KEY,
			asset_key VARCHAR(128) UNIQUE NOT NULL,
			kind VARCHAR(20) NOT NULL DEFAULT 'image',
			description TEXT,
			required INTEGER NOT NULL DEFAULT 0,
			created_at VARCHAR(50) NOT NULL DEFAULT '',
			updated_at VARCHAR(50) NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE assets (
			id VARCHAR(50) PRIMARY KEY,
			asset_key VARCHAR(128) NOT NULL,
			skin VARCHAR(32) NOT NULL DEFAULT '',
			stored_name VARCHAR(255) NOT NULL,
			storage_path VARCHAR(512) NOT NULL,
			mime_type VARCHAR(100) NOT NULL DEFAULT '',
			file_size BIGINT NOT NULL DEFAULT 0,
			checksum VARCHAR(64) NOT NULL DEFAULT '',
			created_at VARCHAR(50) NOT NULL DEFAULT '',
			updated_at VARCHAR(50) NOT NULL DEFAULT '',
			UNIQUE(asset_key, skin)
		)`,
		`CREATE TABLE branding (
			id INTEGER PRIMARY KEY,
			desktop_name VARCHAR(255) NOT NULL DEFAULT '',
			subtitle VARCHAR(255) NOT NULL DEFAULT '',
			window_title VARCHAR(255) NOT NULL DEFAULT '',
			login_icon_key VARCHAR(128) NOT NULL DEFAULT 'login_icon',
			login_background_key VARCHAR(128) NOT NULL DEFAULT 'bg',
			updated_at VARCHAR(50) NOT NULL DEFAULT ''
		)`,
	}
	for _, query := range tables {
		_, err := db.Exec(query)
		require.NoError(t, err)
	}

	_, err = db.Exec(
		"INSERT INTO branding (id, desktop_name, login_icon_key, login_background_key, updated_at) VALUES (1, 'PRD Desktop', 'login_icon', 'bg', '')",
	)
	require.NoError(t, err)

	executor := services.NewSQLExecutor(db)
	assets := services.NewAssetService(executor, t.TempDir())
	branding := services.NewBrandingService(executor)
	state := services.NewConsoleState()

	Configure(assets, branding, state, nil)
	return assets, state
}

func decodeResponse(t *testing.T, body *bytes.Buffer) models.APIResponse {
	t.Helper()
	var resp models.APIResponse
	require.NoError(t, json.Unmarshal(body.Bytes(), &resp))
	return resp
}

func multipartUpload(t *testing.T, fields map[string]string, fileName, fileBody string) (*bytes.Buffer, string) {
	t.Helper()

	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)
	for name, value := range fields {
		require.NoError(t, writer.WriteField(name, value))
	}
	part, err := writer.CreateFormFile("file", fileName)
	require.NoError(t, err)
	_, err = part.Write([]byte(fileBody))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	return buf, writer.FormDataContentType()
}

func TestCreateSkinHandler(t *testing.T) {
	setupTestHandlers(t)

	body := strings.NewReader(`{"name":"  Ocean ","enabled":true}`)
	req := httptest.NewRequest(http.MethodPost, "/api/admin/desktop/skins", body)
	rec := httptest.NewRecorder()

	CreateSkin(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	resp := decodeResponse(t, rec.Body)
	assert.Equal(t, "success", resp.Status)

	// 중복 생성은 409
	req = httptest.NewRequest(http.MethodPost, "/api/admin/desktop/skins", strings.NewReader(`{"name":"ocean"}`))
	rec = httptest.NewRecorder()
	CreateSkin(rec, req)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// 잘못된 이름은 400
	req = httptest.NewRequest(http.MethodPost, "/api/admin/desktop/skins", strings.NewReader(`{"name":"bad name"}`))
	rec = httptest.NewRecorder()
	CreateSkin(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateAssetKeyHandler(t *testing.T) {
	setupTestHandlers(t)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/desktop/assets/keys",
		strings.NewReader(`{"key":"Banner.PNG","description":"메인 배너"}`))
	rec := httptest.NewRecorder()

	CreateAssetKey(rec, req)
	assert.Equal(t, http.StatusCreated, rec.Code)

	// 경로 조작 키는 400
	req = httptest.NewRequest(http.MethodPost, "/api/admin/desktop/assets/keys",
		strings.NewReader(`{"key":"../etc/passwd"}`))
	rec = httptest.NewRecorder()
	CreateAssetKey(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteAssetKeyHandlerProtected(t *testing.T) {
	assets, _ := setupTestHandlers(t)

	key, err := assets.CreateAssetKey(context.Background(), models.CreateAssetKeyRequest{Key: "load"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodDelete, "/api/admin/desktop/assets/keys/"+key.ID, nil)
	rec := httptest.NewRecorder()

	DeleteAssetKey(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// 레코드는 그대로 남아 있어야 한다
	rows, err := assets.MatrixRows(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "load", rows[0].Key)
}

func TestDeleteAssetKeyHandler(t *testing.T) {
	assets, state := setupTestHandlers(t)

	key, err := assets.CreateAssetKey(context.Background(), models.CreateAssetKeyRequest{Key: "banner"})
	require.NoError(t, err)

	state.MarkCellBroken("banner@@white")
	tokenBefore := state.CacheToken()

	req := httptest.NewRequest(http.MethodDelete, "/api/admin/desktop/assets/keys/"+key.ID, nil)
	rec := httptest.NewRecorder()

	DeleteAssetKey(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// 삭제 성공 시 토큰이 갱신되고 깨진 셀 플래그가 정리된다
	assert.Greater(t, state.CacheToken(), tokenBefore)
	assert.False(t, state.IsCellBroken("banner@@white"))

	// 존재하지 않는 키는 404
	req = httptest.NewRequest(http.MethodDelete, "/api/admin/desktop/assets/keys/"+key.ID, nil)
	rec = httptest.NewRecorder()
	DeleteAssetKey(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUploadAssetHandler(t *testing.T) {
	_, state := setupTestHandlers(t)

	state.MarkCellBroken("load@@white")
	tokenBefore := state.CacheToken()

	body, contentType := multipartUpload(t, map[string]string{
		"key":    "Load.PNG",
		"column": "white",
	}, "load.png", "png-bytes")

	req := httptest.NewRequest(http.MethodPost, "/api/admin/desktop/assets/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	UploadAsset(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// 응답 URL은 갱신된 토큰으로 캐시 무효화되어 있다
	var resp struct {
		Data models.StoredAsset `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "load", resp.Data.Key)
	assert.Equal(t, "white", resp.Data.Skin)
	assert.Contains(t, resp.Data.URL, "&v=")

	assert.Greater(t, state.CacheToken(), tokenBefore)
	assert.False(t, state.IsCellBroken("load@@white"))
}

func TestUploadAssetHandlerInvalidKey(t *testing.T) {
	setupTestHandlers(t)

	body, contentType := multipartUpload(t, map[string]string{
		"key": "../etc/passwd",
	}, "x.png", "x")

	req := httptest.NewRequest(http.MethodPost, "/api/admin/desktop/assets/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	UploadAsset(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// 조작된 column 값은 파일을 읽기 전에 400으로 거부된다.
func TestUploadAssetHandlerInvalidColumn(t *testing.T) {
	setupTestHandlers(t)

	body, contentType := multipartUpload(t, map[string]string{
		"key":    "load",
		"column": "../escape",
	}, "load.png", "x")

	req := httptest.NewRequest(http.MethodPost, "/api/admin/desktop/assets/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	UploadAsset(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMarkBrokenCellHandler(t *testing.T) {
	_, state := setupTestHandlers(t)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/desktop/assets/broken",
		strings.NewReader(`{"key":"Load.PNG","skin":"white"}`))
	rec := httptest.NewRecorder()

	MarkBrokenCell(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, state.IsCellBroken("load@@white"))

	// skin 생략 시 기본 변형 셀
	req = httptest.NewRequest(http.MethodPost, "/api/admin/desktop/assets/broken",
		strings.NewReader(`{"key":"load"}`))
	rec = httptest.NewRecorder()
	MarkBrokenCell(rec, req)
	assert.True(t, state.IsCellBroken("load@@"+models.BaseColumn))
}

func TestGetAssetsMatrixHandler(t *testing.T) {
	assets, state := setupTestHandlers(t)
	ctx := context.Background()

	_, err := assets.CreateSkin(ctx, models.CreateSkinRequest{Name: "white", Enabled: true})
	require.NoError(t, err)
	_, err = assets.CreateAssetKey(ctx, models.CreateAssetKeyRequest{Key: "load"})
	require.NoError(t, err)

	target, err := services.ResolveUploadTarget("load", models.BaseColumn)
	require.NoError(t, err)
	_, err = assets.SaveAsset(ctx, target, "load.png", "image/png", strings.NewReader("x"))
	require.NoError(t, err)

	state.MarkCellBroken("load@@white")

	req := httptest.NewRequest(http.MethodGet, "/api/admin/desktop/assets/matrix", nil)
	rec := httptest.NewRecorder()

	GetAssetsMatrix(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Data models.MatrixResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, []string{models.BaseColumn, "white"}, resp.Data.Columns)
	assert.Equal(t, state.CacheToken(), resp.Data.CacheToken)
	assert.Equal(t, []string{"load@@white"}, resp.Data.BrokenCells)

	// 매트릭스에는 실제 행 + 브랜딩 합성 행(bg)이 포함된다
	keys := map[string]bool{}
	for _, row := range resp.Data.Rows {
		keys[row.Key] = true
		for _, cell := range row.Cells {
			if cell.URL != "" {
				assert.Contains(t, cell.URL, "v=")
			}
		}
	}
	assert.True(t, keys["load"])
	assert.True(t, keys["bg"], "branding-referenced key without a record must be synthesized")
}

// 숨김 키는 운영자 입력 그대로가 아니라 정규 키로 비교된다.
func TestHiddenKeysNormalizedOnConfigure(t *testing.T) {
	assets, state := setupTestHandlers(t)
	Configure(assets, brandingSvc, state, []string{" Banner.PNG ", "../garbage"})

	_, err := assets.CreateAssetKey(context.Background(), models.CreateAssetKeyRequest{Key: "banner"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/desktop/assets/matrix", nil)
	rec := httptest.NewRecorder()

	GetAssetsMatrix(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Data models.MatrixResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	for _, row := range resp.Data.Rows {
		assert.NotEqual(t, "banner", row.Key)
	}
}

func TestGetDesktopSkinsHandler(t *testing.T) {
	assets, _ := setupTestHandlers(t)
	ctx := context.Background()

	_, err := assets.CreateSkin(ctx, models.CreateSkinRequest{Name: "white", Enabled: true})
	require.NoError(t, err)
	_, err = assets.CreateSkin(ctx, models.CreateSkinRequest{Name: "retro", Enabled: false})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/desktop/skins", nil)
	rec := httptest.NewRecorder()

	GetDesktopSkins(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data models.SkinsResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"white"}, resp.Data.Skins)
}

func TestUpdateBrandingHandler(t *testing.T) {
	setupTestHandlers(t)

	req := httptest.NewRequest(http.MethodPut, "/api/admin/desktop/branding",
		strings.NewReader(`{"desktopName":"My Desktop","loginIconKey":"/Custom_Icon.PNG","loginBackgroundKey":""}`))
	rec := httptest.NewRecorder()

	UpdateBranding(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Data models.BrandingConfig `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "My Desktop", resp.Data.DesktopName)
	assert.Equal(t, "custom_icon", resp.Data.LoginIconKey)
	assert.Equal(t, services.DefaultLoginBackgroundKey, resp.Data.LoginBackgroundKey)
}

func TestGetDesktopBrandingHandler(t *testing.T) {
	setupTestHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/api/desktop/branding", nil)
	rec := httptest.NewRecorder()

	GetDesktopBranding(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data models.BrandingConfig `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "PRD Desktop", resp.Data.DesktopName)
}
