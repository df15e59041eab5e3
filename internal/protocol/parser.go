package protocol

import (
	"fmt"
	"strconv"

	"fourheat/internal/models"
)

// IsErrorResult reports whether the stove answered with the error marker
// and the caller should re-query with ErrorQuery.
func IsErrorResult(tokens []string) bool {
	return len(tokens) > 0 && tokens[0] == ResultError
}

// ParseTokens decodes <tag:1><key:5><value> tokens into a fresh snapshot.
// Fragments of three characters or fewer are skipped. Tokens that cannot be
// decoded are skipped too, unless no token at all could be decoded.
func ParseTokens(tokens []string) (models.Snapshot, error) {
	out := make(models.Snapshot)
	var bad []string
	for _, tok := range tokens {
		if len(tok) < minTokenLen {
			continue
		}
		key, r, err := parseToken(tok)
		if err != nil {
			bad = append(bad, tok)
			continue
		}
		out[key] = r
	}
	if len(out) == 0 && len(bad) > 0 {
		return nil, fmt.Errorf("%w: %d undecodable tokens, first %q", ErrParse, len(bad), bad[0])
	}
	return out, nil
}

func parseToken(tok string) (string, models.Reading, error) {
	valueAt := tagLen + keyLen
	if len(tok) <= valueAt {
		return "", models.Reading{}, fmt.Errorf("%w: token %q too short", ErrParse, tok)
	}
	v, err := strconv.ParseInt(tok[valueAt:], 10, 64)
	if err != nil {
		return "", models.Reading{}, fmt.Errorf("%w: token %q: %v", ErrParse, tok, err)
	}
	return tok[tagLen:valueAt], models.Reading{Value: v, Type: tok[:tagLen]}, nil
}

// Merge overlays update on a copy of base. Keys missing from update keep
// their previous reading.
func Merge(base, update models.Snapshot) models.Snapshot {
	out := make(models.Snapshot, len(base)+len(update))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range update {
		out[k] = v
	}
	return out
}
