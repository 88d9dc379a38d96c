package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
)

// SaveJSON は v をインデント付き JSON として key に保存し、公開 URL を返す
func SaveJSON(ctx context.Context, s Storage, key string, v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("storage: encode: %w", err)
	}
	return s.Save(ctx, key, &buf, "application/json")
}
