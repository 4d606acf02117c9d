// Package model bundles the default CRF weights shipped with the
// module, so EmailBodyExtractor works out of the box without requiring
// callers to train or supply their own model first.
package model

import (
	"bytes"
	_ "embed"
	"sync"

	"github.com/nkmr-lab/meichaku/pkg/crf"
)

//go:embed default_model.json
var defaultModelData []byte

var (
	once      sync.Once
	cached    *crf.Model
	cachedErr error
)

// Default returns the bundled default model, decoding it once and
// caching the result for subsequent calls.
func Default() (*crf.Model, error) {
	once.Do(func() {
		cached, cachedErr = crf.DecodeModel(bytes.NewReader(defaultModelData))
	})
	return cached, cachedErr
}
