package hashing

// Digest is the result of running one algorithm over one file: the algorithm
// identifier plus the lowercase hexadecimal digest string. Values are
// immutable once produced.
type Digest struct {
	Algorithm Algorithm `json:"algorithm"`
	Hex       string    `json:"hex"`
}

// FileDigestSet maps each requested algorithm to its digest for a single
// file. It is created by one hashing pass and read-only afterward.
type FileDigestSet struct {
	Path    string               `json:"path"`
	Digests map[Algorithm]Digest `json:"digests"`
}

// Get returns the digest for a and whether it is present.
func (s *FileDigestSet) Get(a Algorithm) (Digest, bool) {
	d, ok := s.Digests[a]
	return d, ok
}
