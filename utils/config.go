package utils

import (
	"os"
	"strings"
)

// GetEnv 환경변수 조회, 없으면 기본값 반환
func GetEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// GetEnvList 콤마로 구분된 환경변수를 리스트로 반환 (공백/빈 항목 제거)
func GetEnvList(key string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}

	values := []string{}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			values = append(values, part)
		}
	}
	return values
}
