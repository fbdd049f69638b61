package ecs

// EntityID encodes a 32-bit serial in the lower bits and a 32-bit epoch in the
// upper bits. Serials grow monotonically within an epoch; Reset advances the
// epoch so references taken before a purge never resolve again.
type EntityID uint64

func NewEntityID(serial uint32, epoch uint32) EntityID {
	return EntityID(uint64(epoch)<<32 | uint64(serial))
}

func (id EntityID) Serial() uint32 { return uint32(id) }
func (id EntityID) Epoch() uint32  { return uint32(id >> 32) }
func (id EntityID) IsZero() bool   { return id == 0 }

// EntityPool allocates serials starting at 1. Serial 0 is the null entity.
// Serials are never handed out twice within an epoch.
type EntityPool struct {
	alive []bool // indexed by serial
	epoch uint32
	next  uint32
	live  int
}

func NewEntityPool() *EntityPool {
	return &EntityPool{
		alive: make([]bool, 1, 1024),
		next:  1,
	}
}

func (p *EntityPool) Create() EntityID {
	serial := p.next
	p.next++
	p.alive = append(p.alive, true)
	p.live++
	return NewEntityID(serial, p.epoch)
}

func (p *EntityPool) Alive(id EntityID) bool {
	if id.Epoch() != p.epoch {
		return false
	}
	serial := id.Serial()
	if serial == 0 || serial >= p.next {
		return false
	}
	return p.alive[serial]
}

// Destroy reports whether id was alive.
func (p *EntityPool) Destroy(id EntityID) bool {
	if !p.Alive(id) {
		return false // already destroyed (stale reference)
	}
	p.alive[id.Serial()] = false
	p.live--
	return true
}

// Live returns the number of entities currently alive.
func (p *EntityPool) Live() int { return p.live }

// Epoch returns the current registry epoch.
func (p *EntityPool) Epoch() uint32 { return p.epoch }

// Reset forgets every entity, restarts serials at 1 and advances the epoch.
func (p *EntityPool) Reset() {
	p.epoch++
	p.next = 1
	p.alive = p.alive[:1]
	p.live = 0
}
