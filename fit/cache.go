// Copyright (c) 2020, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fit

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// ModelCache holds trained engines under generated ids, so a model can be
// trained once and used for prediction later by id.  Entries stay until
// they are evicted or the cache is cleared.  It is safe for concurrent use.
type ModelCache struct {
	mu     sync.Mutex
	models map[string]Engine
}

// NewModelCache returns an empty cache
func NewModelCache() *ModelCache {
	return &ModelCache{models: make(map[string]Engine)}
}

// Add stores the engine under a new id and returns the id
func (mc *ModelCache) Add(eng Engine) string {
	id := uuid.New().String()
	mc.mu.Lock()
	if mc.models == nil {
		mc.models = make(map[string]Engine)
	}
	mc.models[id] = eng
	mc.mu.Unlock()
	return id
}

// Get returns the engine stored under id
func (mc *ModelCache) Get(id string) (Engine, bool) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	eng, ok := mc.models[id]
	return eng, ok
}

// GetTry returns the engine stored under id, or an error if there is none
func (mc *ModelCache) GetTry(id string) (Engine, error) {
	eng, ok := mc.Get(id)
	if !ok {
		return nil, fmt.Errorf("fit.ModelCache: model %q not found", id)
	}
	return eng, nil
}

// Evict removes the engine stored under id, returning false if there was none
func (mc *ModelCache) Evict(id string) bool {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	if _, ok := mc.models[id]; !ok {
		return false
	}
	delete(mc.models, id)
	return true
}

// Clear removes all engines
func (mc *ModelCache) Clear() {
	mc.mu.Lock()
	mc.models = make(map[string]Engine)
	mc.mu.Unlock()
}

// Len returns the number of cached engines
func (mc *ModelCache) Len() int {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	return len(mc.models)
}
