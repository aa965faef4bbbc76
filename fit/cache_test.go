// Copyright (c) 2020, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fit

import (
	"sync"
	"testing"

	"github.com/emer/ebatch/databuf"
)

type nopEngine struct{ id int }

func (ne *nopEngine) TrainMinibatch(x, y *databuf.Batch) (Stats, error) {
	return Stats{NSamples: x.N}, nil
}

func (ne *nopEngine) Evaluate(x *databuf.Batch) ([][]float32, error) {
	return make([][]float32, x.N), nil
}

func TestModelCache(t *testing.T) {
	mc := NewModelCache()
	a, b := &nopEngine{1}, &nopEngine{2}
	ida := mc.Add(a)
	idb := mc.Add(b)
	if ida == idb {
		t.Fatalf("ids not unique: %s", ida)
	}
	if mc.Len() != 2 {
		t.Errorf("Len: %d", mc.Len())
	}
	if eng, ok := mc.Get(idb); !ok || eng != b {
		t.Errorf("Get returned %v %v", eng, ok)
	}
	if !mc.Evict(ida) || mc.Evict(ida) {
		t.Errorf("Evict should succeed once")
	}
	if _, err := mc.GetTry(ida); err == nil {
		t.Errorf("GetTry of evicted id should fail")
	}
	mc.Clear()
	if mc.Len() != 0 {
		t.Errorf("Clear left %d", mc.Len())
	}
}

func TestModelCacheConcurrent(t *testing.T) {
	var mc ModelCache
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := mc.Add(&nopEngine{i})
			mc.Get(id)
		}(i)
	}
	wg.Wait()
	if mc.Len() != 8 {
		t.Errorf("Len: %d", mc.Len())
	}
}

func TestParams(t *testing.T) {
	var pr Params
	pr.Update()
	if pr.BatchSize != 32 || pr.Epochs != 10 {
		t.Errorf("Update did not fix zero values: %+v", pr)
	}
	pr.Defaults()
	pr.BatchSize = 7
	pr.Update()
	if pr.BatchSize != 7 {
		t.Errorf("Update changed a valid value")
	}
}
