package entity

// ClassLevel is a supported class of the curriculum.
type ClassLevel string

const (
	Class6  ClassLevel = "6"
	Class7  ClassLevel = "7"
	Class8  ClassLevel = "8"
	Class9  ClassLevel = "9"
	Class10 ClassLevel = "10"
	Class11 ClassLevel = "11"
	Class12 ClassLevel = "12"
)

func (c ClassLevel) Valid() bool {
	switch c {
	case Class6, Class7, Class8, Class9, Class10, Class11, Class12:
		return true
	}
	return false
}

// HasCombinedScience reports whether Science is taught as a single
// combined subject for this class. Senior classes take Physics,
// Chemistry and Biology as separate subjects.
func (c ClassLevel) HasCombinedScience() bool {
	switch c {
	case Class6, Class7, Class8, Class9, Class10:
		return true
	}
	return false
}

// Subject is a selectable subject. Only meaningful together with a class.
type Subject string

const (
	SubjectMathematics   Subject = "Mathematics"
	SubjectScience       Subject = "Science"
	SubjectSocialScience Subject = "Social Science"
	SubjectEnglish       Subject = "English"
	SubjectHindi         Subject = "Hindi"
	SubjectPhysics       Subject = "Physics"
	SubjectChemistry     Subject = "Chemistry"
	SubjectBiology       Subject = "Biology"
	SubjectEconomics     Subject = "Economics"
)

func (s Subject) Valid() bool {
	switch s {
	case SubjectMathematics, SubjectScience, SubjectSocialScience, SubjectEnglish,
		SubjectHindi, SubjectPhysics, SubjectChemistry, SubjectBiology, SubjectEconomics:
		return true
	}
	return false
}

// SubjectsFor lists the subjects offered at a class level.
func SubjectsFor(class ClassLevel) []Subject {
	if class.HasCombinedScience() {
		return []Subject{SubjectMathematics, SubjectScience, SubjectSocialScience, SubjectEnglish, SubjectHindi}
	}
	return []Subject{SubjectMathematics, SubjectPhysics, SubjectChemistry, SubjectBiology, SubjectEconomics, SubjectEnglish}
}

// ChapterCategoryNames is the fixed categorization policy for a chapter
// listing: combined-science classes split Science into its three
// disciplines, Social Science splits into its four, everything else is a
// single catch-all category.
func ChapterCategoryNames(class ClassLevel, subject Subject) []string {
	if subject == SubjectScience && class.HasCombinedScience() {
		return []string{"Physics", "Chemistry", "Biology"}
	}
	if subject == SubjectSocialScience {
		return []string{"History", "Geography", "Political Science", "Economics"}
	}
	return []string{string(subject)}
}
