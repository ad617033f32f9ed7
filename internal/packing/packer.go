// Package packing stores finite-domain variable values in bit fields of uint64 bins.
package packing

import (
	"fmt"
	"math/bits"
)

// Bin is the storage word of a packed state.
type Bin = uint64

const binBits = 64

type varInfo struct {
	bin   int
	shift uint
	mask  Bin
}

// Packer maps variable values to bit ranges. A variable never straddles two bins.
type Packer struct {
	vars    []varInfo
	numBins int
}

// New lays out variables with the given domain sizes.
// Larger domains are placed first to reduce wasted bits.
func New(domainSizes []int) (*Packer, error) {
	p := &Packer{vars: make([]varInfo, len(domainSizes))}

	widths := make([]uint, len(domainSizes))
	for v, size := range domainSizes {
		if size < 1 {
			return nil, fmt.Errorf("variable %d: domain size must be positive, got %d", v, size)
		}
		widths[v] = bitsFor(size)
	}

	// Greedy first-fit by decreasing width.
	order := make([]int, len(domainSizes))
	for i := range order {
		order[i] = i
	}
	sortByWidthDesc(order, widths)

	var free []uint
	for _, v := range order {
		w := widths[v]
		bin := -1
		for b, left := range free {
			if left >= w {
				bin = b
				break
			}
		}
		if bin < 0 {
			free = append(free, binBits)
			bin = len(free) - 1
		}
		shift := binBits - free[bin]
		p.vars[v] = varInfo{bin: bin, shift: shift, mask: ((Bin(1) << w) - 1) << shift}
		free[bin] -= w
	}
	p.numBins = len(free)
	return p, nil
}

func bitsFor(size int) uint {
	if size <= 1 {
		return 1
	}
	return uint(bits.Len(uint(size - 1)))
}

func sortByWidthDesc(order []int, widths []uint) {
	// insertion sort keeps equal widths in variable order
	for i := 1; i < len(order); i++ {
		for j := i; j > 0 && widths[order[j]] > widths[order[j-1]]; j-- {
			order[j], order[j-1] = order[j-1], order[j]
		}
	}
}

// NumBins returns the number of words needed per state.
func (p *Packer) NumBins() int {
	return p.numBins
}

// NumVariables returns the number of packed variables.
func (p *Packer) NumVariables() int {
	return len(p.vars)
}

// Get reads variable v from buf.
func (p *Packer) Get(buf []Bin, v int) int {
	info := p.vars[v]
	return int((buf[info.bin] & info.mask) >> info.shift)
}

// Set writes variable v into buf.
func (p *Packer) Set(buf []Bin, v int, value int) {
	info := p.vars[v]
	buf[info.bin] = (buf[info.bin] &^ info.mask) | ((Bin(value) << info.shift) & info.mask)
}

// Pack encodes a full value vector into a fresh buffer.
func (p *Packer) Pack(values []int) []Bin {
	buf := make([]Bin, p.numBins)
	for v, val := range values {
		p.Set(buf, v, val)
	}
	return buf
}

// Unpack decodes buf into a fresh value vector.
func (p *Packer) Unpack(buf []Bin) []int {
	values := make([]int, len(p.vars))
	for v := range values {
		values[v] = p.Get(buf, v)
	}
	return values
}
