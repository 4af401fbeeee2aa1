package evaluation

import "strconv"

// Field names a narrative field of the evaluation schema.
type Field string

const (
	FieldSkills     Field = "Skills"
	FieldExperience Field = "Experience"
	FieldStrengths  Field = "Strengths"
	FieldWeaknesses Field = "Weaknesses"
	FieldJobFit     Field = "Job Fit"
)

// RatingLabel is the exact label the model is asked to use for the rating line.
const RatingLabel = "Candidate Rating (1-10)"

var fieldOrder = []Field{FieldSkills, FieldExperience, FieldStrengths, FieldWeaknesses, FieldJobFit}

var fieldDefaults = map[Field]string{
	FieldSkills:     "No skills assessment was provided.",
	FieldExperience: "No experience assessment was provided.",
	FieldStrengths:  "No strengths were identified.",
	FieldWeaknesses: "No weaknesses were identified.",
	FieldJobFit:     "No job fit assessment was provided.",
}

// Fields returns the narrative fields in report order.
func Fields() []Field {
	fields := make([]Field, len(fieldOrder))
	copy(fields, fieldOrder)
	return fields
}

// DefaultValue is the placeholder used when a field cannot be extracted.
func DefaultValue(f Field) string {
	return fieldDefaults[f]
}

// Rating is a candidate score in [MinRating, MaxRating]. The zero value is unknown.
type Rating int

const (
	RatingUnknown Rating = 0
	MinRating     Rating = 1
	MaxRating     Rating = 10
	DefaultRating Rating = 5
)

func (r Rating) Valid() bool {
	return r >= MinRating && r <= MaxRating
}

func (r Rating) String() string {
	if !r.Valid() {
		return "unknown"
	}
	return strconv.Itoa(int(r))
}

// Schema is the evaluation extracted from a model response.
type Schema struct {
	Skills     string
	Experience string
	Strengths  string
	Weaknesses string
	JobFit     string
	Rating     Rating
}

// DefaultSchema is the complete fallback evaluation.
func DefaultSchema() Schema {
	return Schema{
		Skills:     DefaultValue(FieldSkills),
		Experience: DefaultValue(FieldExperience),
		Strengths:  DefaultValue(FieldStrengths),
		Weaknesses: DefaultValue(FieldWeaknesses),
		JobFit:     DefaultValue(FieldJobFit),
		Rating:     DefaultRating,
	}
}

// Value returns the narrative text of f.
func (s Schema) Value(f Field) string {
	switch f {
	case FieldSkills:
		return s.Skills
	case FieldExperience:
		return s.Experience
	case FieldStrengths:
		return s.Strengths
	case FieldWeaknesses:
		return s.Weaknesses
	case FieldJobFit:
		return s.JobFit
	default:
		return ""
	}
}

func (s *Schema) set(f Field, value string) {
	switch f {
	case FieldSkills:
		s.Skills = value
	case FieldExperience:
		s.Experience = value
	case FieldStrengths:
		s.Strengths = value
	case FieldWeaknesses:
		s.Weaknesses = value
	case FieldJobFit:
		s.JobFit = value
	}
}
