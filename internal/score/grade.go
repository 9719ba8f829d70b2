package score

// Grade is the ordinal band a final score falls into.
type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeF Grade = "F"
)

type gradeBand struct {
	min         float64
	grade       Grade
	description string
}

// Bands are non-overlapping and cover [0,100].
var gradeBands = []gradeBand{
	{90, GradeA, "Excellent"},
	{80, GradeB, "Very Good"},
	{70, GradeC, "Good"},
	{60, GradeD, "Fair"},
	{0, GradeF, "Needs Improvement"},
}

// GradeFor maps a final score to its grade band and textual descriptor.
func GradeFor(score float64) (Grade, string) {
	for _, band := range gradeBands {
		if score >= band.min {
			return band.grade, band.description
		}
	}
	return GradeF, "Needs Improvement"
}
