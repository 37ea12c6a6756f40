package dewey

// ClassRange selects three digit classes with From <= class < To that are
// multiples of Multiple.
type ClassRange struct {
	From     int
	To       int
	Multiple int
}

// DecadesOf returns the tens below a century: 610..690 for 600, and 910..990
// for 900 where the range is clamped to Bound.
func DecadesOf(century Code) ClassRange {
	start := century.Class()
	return ClassRange{From: start + 10, To: RangeEnd(start, 100), Multiple: 10}
}

// UnitsOf returns the classes from decade up to the next decade, the decade
// itself included.
func UnitsOf(decade Code) ClassRange {
	start := decade.Class()
	return ClassRange{From: start, To: RangeEnd(start, 10), Multiple: 1}
}

// Contains reports whether c is a class inside the range.
func (r ClassRange) Contains(c Code) bool {
	if !c.IsClass() || c.Class() < r.From || c.Class() >= r.To {
		return false
	}
	return r.Multiple <= 1 || c.Class()%r.Multiple == 0
}

// Centuries is the fixed top level of the hierarchy.
func Centuries() []Code {
	out := make([]Code, 0, 10)
	for n := 0; n < Bound; n += 100 {
		out = append(out, FromClass(n))
	}
	return out
}
