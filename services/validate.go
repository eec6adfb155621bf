package services

import (
	"errors"
	"regexp"
	"strings"
)

// 스킨 이름 검증 에러
var (
	// ErrSkinNameEmpty는 트림 후 스킨 이름이 비어 있을 때 반환됩니다.
	ErrSkinNameEmpty = errors.New("skin name is empty")
	// ErrSkinNameTooLong은 스킨 이름이 32자를 초과할 때 반환됩니다.
	ErrSkinNameTooLong = errors.New("skin name exceeds 32 characters")
	// ErrSkinNameInvalidChars는 스킨 이름에 허용되지 않는 문자가 있을 때 반환됩니다.
	ErrSkinNameInvalidChars = errors.New("skin name contains invalid characters")
)

// 데스크톱 키 검증 에러
var (
	// ErrKeyEmpty는 정규화 후 키가 비어 있을 때 반환됩니다.
	ErrKeyEmpty = errors.New("asset key is empty")
	// ErrKeyTooLong은 키가 128자를 초과할 때 반환됩니다.
	ErrKeyTooLong = errors.New("asset key exceeds 128 characters")
	// ErrKeyPathTraversal은 키에 ".." 이 포함될 때 반환됩니다.
	ErrKeyPathTraversal = errors.New("asset key must not contain path traversal")
	// ErrKeyBackslash는 키에 백슬래시가 포함될 때 반환됩니다.
	ErrKeyBackslash = errors.New("asset key must not contain backslashes")
	// ErrKeySubdirectory는 키에 슬래시가 포함될 때 반환됩니다 (키는 평면 파일명).
	ErrKeySubdirectory = errors.New("asset key must not contain subdirectories")
	// ErrKeyInvalidChars는 키에 허용되지 않는 문자가 있을 때 반환됩니다.
	ErrKeyInvalidChars = errors.New("asset key contains invalid characters")
)

var (
	skinNamePattern   = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,31}$`)
	desktopKeyPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]{0,127}$`)
)

// NormalizeSkinName 스킨 이름을 정규 식별자로 변환합니다.
// 트림/소문자화 외의 변형은 하지 않으며, 성공 값에 대해 멱등합니다.
func NormalizeSkinName(raw string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(raw))

	if value == "" {
		return "", ErrSkinNameEmpty
	}
	if len(value) > 32 {
		return "", ErrSkinNameTooLong
	}
	if !skinNamePattern.MatchString(value) {
		return "", ErrSkinNameInvalidChars
	}

	return value, nil
}

// NormalizeDesktopKey 데스크톱 자산 키를 정규 식별자로 변환합니다.
// 키는 평면 파일명만 허용됩니다 (중첩 경로 금지).
func NormalizeDesktopKey(raw string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	value = strings.TrimLeft(value, "/")

	if value == "" {
		return "", ErrKeyEmpty
	}
	if len(value) > 128 {
		return "", ErrKeyTooLong
	}
	if strings.Contains(value, "..") {
		return "", ErrKeyPathTraversal
	}
	if strings.Contains(value, `\`) {
		return "", ErrKeyBackslash
	}
	if strings.Contains(value, "/") {
		return "", ErrKeySubdirectory
	}
	if !desktopKeyPattern.MatchString(value) {
		return "", ErrKeyInvalidChars
	}

	return value, nil
}

// StripExtension 마지막 점 이후의 확장자를 제거합니다.
// 점이 마지막 경로 구분자보다 앞에 있으면 확장자가 아니므로 입력을 그대로 두어,
// 이어지는 NormalizeDesktopKey가 원본에 대해 경로 검사를 수행하게 합니다.
// 키 생성/선택 경로의 고정 전처리 단계입니다: StripExtension → NormalizeDesktopKey.
func StripExtension(raw string) string {
	idx := strings.LastIndex(raw, ".")
	if idx < 0 || idx < strings.LastIndex(raw, "/") || idx < strings.LastIndex(raw, `\`) {
		return raw
	}
	return raw[:idx]
}

// NormalizeKeyInput 사용자 입력을 정규 키로 변환합니다 (확장자 제거 포함).
// "load.png"와 "load"는 같은 키 "load"로 해석됩니다.
func NormalizeKeyInput(raw string) (string, error) {
	return NormalizeDesktopKey(StripExtension(raw))
}

// IsValidationError 이름/키 검증 에러 여부 판별
func IsValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrSkinNameEmpty),
		errors.Is(err, ErrSkinNameTooLong),
		errors.Is(err, ErrSkinNameInvalidChars),
		errors.Is(err, ErrKeyEmpty),
		errors.Is(err, ErrKeyTooLong),
		errors.Is(err, ErrKeyPathTraversal),
		errors.Is(err, ErrKeyBackslash),
		errors.Is(err, ErrKeySubdirectory),
		errors.Is(err, ErrKeyInvalidChars):
		return true
	}
	return false
}
