package filter

// Mask holds one inclusion flag per table row.
type Mask []bool

// NewMask returns a mask of n rows, all set to value.
func NewMask(n int, value bool) Mask {
	m := make(Mask, n)
	if value {
		for i := range m {
			m[i] = true
		}
	}
	return m
}

// Count returns the number of selected rows.
func (m Mask) Count() int {
	n := 0
	for _, v := range m {
		if v {
			n++
		}
	}
	return n
}

// Indices returns the positions of selected rows in ascending order.
func (m Mask) Indices() []int {
	out := make([]int, 0, m.Count())
	for i, v := range m {
		if v {
			out = append(out, i)
		}
	}
	return out
}

// And returns the elementwise conjunction. Both masks must have the same length.
func (m Mask) And(other Mask) Mask {
	out := make(Mask, len(m))
	for i := range m {
		out[i] = m[i] && other[i]
	}
	return out
}

// Or returns the elementwise disjunction. Both masks must have the same length.
func (m Mask) Or(other Mask) Mask {
	out := make(Mask, len(m))
	for i := range m {
		out[i] = m[i] || other[i]
	}
	return out
}

// Not returns the elementwise negation.
//
// Rows excluded because their value was null become selected: the mask does not
// distinguish false from unknown.
func (m Mask) Not() Mask {
	out := make(Mask, len(m))
	for i := range m {
		out[i] = !m[i]
	}
	return out
}

// orInPlace merges other into m.
func (m Mask) orInPlace(other Mask) {
	for i := range m {
		m[i] = m[i] || other[i]
	}
}
