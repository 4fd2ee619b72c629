package coriolis

import (
	"bytes"
	"compress/gzip"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
)

const importURLPrefix = "https://coriolis.io/import?data="

// Linker builds coriolis.io import links
type Linker struct{}

// ImportURL returns the coriolis.io link that opens the loadout in the editor
func (Linker) ImportURL(loadout json.RawMessage) (string, error) {
	data, err := EncodeLoadout(loadout)
	if err != nil {
		return "", err
	}
	return importURLPrefix + data, nil
}

// EncodeLoadout gzips the compact key-sorted loadout JSON and encodes it as
// URL-safe base64 with the padding escaped.
func EncodeLoadout(loadout json.RawMessage) (string, error) {
	canonical, err := canonicalJSON(loadout)
	if err != nil {
		return "", err
	}

	var compressed bytes.Buffer
	gz := gzip.NewWriter(&compressed)
	if _, err := gz.Write(canonical); err != nil {
		return "", fmt.Errorf("failed to compress loadout: %w", err)
	}
	if err := gz.Close(); err != nil {
		return "", fmt.Errorf("failed to compress loadout: %w", err)
	}

	encoded := base64.URLEncoding.EncodeToString(compressed.Bytes())
	return strings.ReplaceAll(encoded, "=", "%3D"), nil
}

// canonicalJSON re-encodes raw with sorted keys, no whitespace and no HTML escaping
func canonicalJSON(raw json.RawMessage) ([]byte, error) {
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	var value interface{}
	if err := decoder.Decode(&value); err != nil {
		return nil, fmt.Errorf("invalid loadout: %w", err)
	}

	var out bytes.Buffer
	encoder := json.NewEncoder(&out)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(value); err != nil {
		return nil, fmt.Errorf("failed to encode loadout: %w", err)
	}
	return bytes.TrimRight(out.Bytes(), "\n"), nil
}
