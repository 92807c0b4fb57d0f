package clientdata

// State is the outcome of a cache lookup.
type State string

const (
	Miss      State = "MISS"
	MemoryHit State = "MEMORY_HIT"
	FileHit   State = "FILE_HIT"
	Stale     State = "STALE"
)

// Hit reports whether the lookup produced a fresh payload.
func (s State) Hit() bool {
	return s == MemoryHit || s == FileHit
}

// FileState is the outcome of reading one file tier document.
type FileState int

const (
	FileMissing FileState = iota
	FileCorrupt
	FileStale
	FileFresh
)

// Resolve maps tier outcomes onto the lookup state. Memory wins, then a
// fresh file; a stale file is kept as a fallback; missing and corrupt
// documents are both a miss.
func Resolve(memoryHit bool, file FileState) State {
	switch {
	case memoryHit:
		return MemoryHit
	case file == FileFresh:
		return FileHit
	case file == FileStale:
		return Stale
	default:
		return Miss
	}
}
