package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// InstanceHash computes a deterministic hash for a planning instance. The
// instance is serialized to canonical JSON (struct fields in declaration
// order, slices in input order), so equal instances always map to the same
// key and planner determinism makes the cached result valid.
func InstanceHash(instance any) (string, error) {
	data, err := json.Marshal(instance)
	if err != nil {
		return "", fmt.Errorf("hash instance: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:16]), nil
}

// BuildPlanKey assembles the cache key for a plan result.
func BuildPlanKey(variant, hash string) string {
	return fmt.Sprintf("gridflow:plan:%s:%s", variant, hash)
}
