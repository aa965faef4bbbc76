// Copyright (c) 2020, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
eBatch stages tensor data for a backing tensor / autodiff engine and serves
it back as minibatches for training and prediction.

Each data stream is registered with a minibatch.Source as one contiguous
row-major blob of shape [nSamples, ...], together with the per-sample shape
the engine requires (normally the shape of the corresponding Input or Target
layer of a model.Network).  The Source keeps one shared cursor across all of
its streams, so every call to NextBatch returns the same samples of every
stream, in order, each exactly once per sweep.  The last batch of a sweep is
flagged with SweepEnd.  A repeating source then starts a new sweep, while a
non-repeating one is exhausted.

The data of each stream is held in a databuf.Buffer, which converts its
storage once, on first use, into the engine layout: column-major within each
sample, with samples following each other.  Batch values are borrowed from
the buffer and are only valid until the next batch is requested.

The fit package drives an Engine through epochs of training and through
prediction, records the training history in an etable.Table, and caches
trained engines by id.  The engine/linear package is a reference Engine on
gonum matrices, and cmd/ebatch exercises all of it on synthetic data.
*/
package ebatch
