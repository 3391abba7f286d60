package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Hash returns the hex SHA-256 digest of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// ProblemHash returns a content hash of a transportation problem. Problems
// with equal supplies, demands and costs hash the same regardless of how
// they were read.
func ProblemHash(supply, demand []float64, costs [][]float64) string {
	return Hash(mustJSON(struct {
		Supply []float64   `json:"s"`
		Demand []float64   `json:"d"`
		Costs  [][]float64 `json:"c"`
	}{supply, demand, costs}))
}

// kindKey builds "kind:digest" where digest covers every part. Only
// JSON-encodable plain data is passed in, so encoding cannot fail.
func kindKey(kind string, parts ...any) string {
	return kind + ":" + Hash(mustJSON(parts))
}

func mustJSON(v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		panic("cache: " + err.Error())
	}
	return data
}
