// Copyright (c) 2020, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linear

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/emer/emergent/weights"
	"github.com/goki/gi/gi"
)

// BiasName is the sending name of the projection holding the bias in weight files
const BiasName = "Bias"

// Weights returns the weights in the weights.Network structure: one
// receiving layer OutName with a projection from InName holding Wts, and a
// single-sender projection from BiasName holding Bias.
func (en *Engine) Weights() *weights.Network {
	wp := weights.Prjn{From: en.InName}
	bp := weights.Prjn{From: BiasName}
	si := make([]int, en.NIn)
	for i := range si {
		si[i] = i
	}
	for ri := 0; ri < en.NOut; ri++ {
		wt := make([]float32, en.NIn)
		for i := range wt {
			wt[i] = float32(en.Wts.At(ri, i))
		}
		wp.Rs = append(wp.Rs, weights.Recv{Ri: ri, N: en.NIn, Si: si, Wt: wt})
		bp.Rs = append(bp.Rs, weights.Recv{Ri: ri, N: 1, Si: []int{0}, Wt: []float32{float32(en.Bias.AtVec(ri))}})
	}
	return &weights.Network{
		Network: en.Nm,
		Layers:  []weights.Layer{{Layer: en.OutName, Prjns: []weights.Prjn{wp, bp}}},
	}
}

// SetWts sets the weights and bias from weights.Network decoded values
func (en *Engine) SetWts(nw *weights.Network) error {
	var lw *weights.Layer
	for li := range nw.Layers {
		if nw.Layers[li].Layer == en.OutName {
			lw = &nw.Layers[li]
			break
		}
	}
	if lw == nil {
		return fmt.Errorf("linear.SetWts: layer %q not found", en.OutName)
	}
	nset := 0
	for _, pw := range lw.Prjns {
		switch pw.From {
		case en.InName, BiasName:
		default:
			continue
		}
		for _, rw := range pw.Rs {
			if rw.Ri < 0 || rw.Ri >= en.NOut || len(rw.Si) != len(rw.Wt) {
				return fmt.Errorf("linear.SetWts: %v: bad recv unit %d", pw.From, rw.Ri)
			}
			for k, si := range rw.Si {
				if pw.From == BiasName {
					en.Bias.SetVec(rw.Ri, float64(rw.Wt[k]))
					continue
				}
				if si < 0 || si >= en.NIn {
					return fmt.Errorf("linear.SetWts: %v: sending unit %d out of range", pw.From, si)
				}
				en.Wts.Set(rw.Ri, si, float64(rw.Wt[k]))
			}
		}
		nset++
	}
	if nset == 0 {
		return fmt.Errorf("linear.SetWts: no projection from %q in layer %q", en.InName, en.OutName)
	}
	return nil
}

// WriteWtsJSON writes the weights to JSON-formatted output
func (en *Engine) WriteWtsJSON(w io.Writer) error {
	b, err := json.MarshalIndent(en.Weights(), "", "\t")
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// ReadWtsJSON reads the weights from JSON-formatted input into a temporary
// weights.Network structure that is then passed to SetWts
func (en *Engine) ReadWtsJSON(r io.Reader) error {
	nw, err := weights.NetReadJSON(r)
	if err != nil {
		return err
	}
	return en.SetWts(nw)
}

// SaveWtsJSON saves the weights to given file name in JSON format
func (en *Engine) SaveWtsJSON(filename gi.FileName) error {
	fp, err := os.Create(string(filename))
	if err != nil {
		log.Println(err)
		return err
	}
	defer fp.Close()
	bw := bufio.NewWriter(fp)
	if err := en.WriteWtsJSON(bw); err != nil {
		return err
	}
	return bw.Flush()
}

// OpenWtsJSON opens the weights from given file name in JSON format
func (en *Engine) OpenWtsJSON(filename gi.FileName) error {
	fp, err := os.Open(string(filename))
	if err != nil {
		log.Println(err)
		return err
	}
	defer fp.Close()
	return en.ReadWtsJSON(bufio.NewReader(fp))
}
