package soapwire

import "sync"

// resolver computes the inheritance-flattened property set of an object
// type. Results are memoized per type name; the type graph never changes
// after construction, so entries cannot go stale. One resolver is owned by
// each Encoder/Decoder instance (never process-wide).
type resolver struct {
	ix        TypeIndex
	mu        sync.Mutex
	memo      map[string][]Property
	unionMemo map[string]map[string]Property
}

func newResolver(ix TypeIndex) *resolver {
	return &resolver{
		ix:        ix,
		memo:      make(map[string][]Property),
		unionMemo: make(map[string]map[string]Property),
	}
}

// allProperties returns o's full effective property list: base-chain
// properties first (most ancestral first), a derived property of the same
// name shadowing the base definition in place. The returned slice is
// shared with the memo; callers must not mutate it.
func (r *resolver) allProperties(o *ObjectType) ([]Property, error) {
	r.mu.Lock()
	if ps, ok := r.memo[o.Name]; ok {
		r.mu.Unlock()
		return ps, nil
	}
	r.mu.Unlock()

	chain := []*ObjectType{o}
	seen := map[string]bool{o.Name: true}
	cur := o
	for cur.Base != "" {
		base, ok := r.ix.Object(cur.Base)
		if !ok {
			return nil, singleIssue("/"+cur.Name, CodeUnknownType, map[string]string{"type": cur.Base}, "base type missing from index")
		}
		if seen[base.Name] {
			return nil, singleIssue("/"+cur.Name, CodeInvalidUsage, map[string]string{"type": base.Name}, "inheritance cycle")
		}
		seen[base.Name] = true
		chain = append(chain, base)
		cur = base
	}

	var out []Property
	idx := make(map[string]int)
	for i := len(chain) - 1; i >= 0; i-- {
		for _, p := range chain[i].Properties() {
			if j, ok := idx[p.Name]; ok {
				out[j] = p
				continue
			}
			idx[p.Name] = len(out)
			out = append(out, p)
		}
	}

	r.mu.Lock()
	r.memo[o.Name] = out
	r.mu.Unlock()
	return out, nil
}

// unionProperties returns o's effective properties merged with those of
// every descendant type, own properties taking precedence. The decoder
// uses this to tolerate polymorphic children that arrive without an
// explicit type override.
func (r *resolver) unionProperties(o *ObjectType) (map[string]Property, error) {
	r.mu.Lock()
	if m, ok := r.unionMemo[o.Name]; ok {
		r.mu.Unlock()
		return m, nil
	}
	r.mu.Unlock()

	own, err := r.allProperties(o)
	if err != nil {
		return nil, err
	}
	out := make(map[string]Property, len(own))
	for _, p := range own {
		out[p.Name] = p
	}
	for _, d := range r.ix.Descendants(o.Name) {
		ps, err := r.allProperties(d)
		if err != nil {
			return nil, err
		}
		for _, p := range ps {
			if _, ok := out[p.Name]; !ok {
				out[p.Name] = p
			}
		}
	}

	r.mu.Lock()
	r.unionMemo[o.Name] = out
	r.mu.Unlock()
	return out, nil
}
