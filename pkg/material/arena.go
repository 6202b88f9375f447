package material

// arenaChunkSize is the number of BSDFs allocated per chunk
const arenaChunkSize = 64

// Arena hands out BSDFs for the duration of one camera ray. Memory is
// allocated in fixed chunks so earlier pointers stay valid as it grows,
// and Reset makes every chunk reusable for the next ray. An Arena belongs
// to a single goroutine.
type Arena struct {
	chunks [][]BSDF
	chunk  int // Index of the chunk being filled
	used   int // Entries used in that chunk
}

// NewArena creates an arena with one chunk preallocated
func NewArena() *Arena {
	return &Arena{chunks: [][]BSDF{make([]BSDF, arenaChunkSize)}}
}

// NewBSDF returns an empty BSDF for si that lives until the next Reset
func (a *Arena) NewBSDF(si *SurfaceInteraction, eta float64) *BSDF {
	if len(a.chunks) == 0 {
		a.chunks = append(a.chunks, make([]BSDF, arenaChunkSize))
	}
	if a.used == arenaChunkSize {
		a.chunk++
		a.used = 0
		if a.chunk == len(a.chunks) {
			a.chunks = append(a.chunks, make([]BSDF, arenaChunkSize))
		}
	}
	b := &a.chunks[a.chunk][a.used]
	a.used++
	b.init(si, eta)
	return b
}

// Len returns the number of live allocations
func (a *Arena) Len() int {
	return a.chunk*arenaChunkSize + a.used
}

// Reset releases every allocation. BSDFs handed out earlier must not be
// used afterwards.
func (a *Arena) Reset() {
	for c := 0; c <= a.chunk && c < len(a.chunks); c++ {
		n := arenaChunkSize
		if c == a.chunk {
			n = a.used
		}
		// Drop lobe references so the GC can reclaim them
		clear(a.chunks[c][:n])
	}
	a.chunk = 0
	a.used = 0
}
