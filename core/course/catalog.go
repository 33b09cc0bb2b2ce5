package course

// DefaultCatalog is the course catalog a fresh data directory is seeded with.
func DefaultCatalog() []Course {
	mk := func(id, name, instructor string, day Weekday, start, end string, maxStudents, credits int) Course {
		return Course{
			ID:          id,
			Name:        name,
			Instructor:  instructor,
			Schedule:    Schedule{Day: day, Start: MustParseClock(start), End: MustParseClock(end)},
			MaxStudents: maxStudents,
			Credits:     credits,
		}
	}
	return []Course{
		mk("MATH101", "Calculus I", "Dr. Smith", Monday, "11:00", "11:50", 35, 4),
		mk("PHYS101", "General Physics I", "Dr. Johnson", Tuesday, "10:00", "11:50", 30, 4),
		mk("CHEM101", "General Chemistry I", "Dr. Lee", Wednesday, "09:00", "09:50", 40, 3),
		mk("ENG101", "Composition I", "Prof. Brown", Thursday, "12:00", "12:50", 25, 3),
		mk("HIST101", "World History", "Dr. Davis", Friday, "14:00", "14:50", 30, 3),
		mk("CS101", "Intro to Programming", "Prof. Wilson", Monday, "13:00", "14:20", 30, 3),
		mk("BIO101", "Principles of Biology", "Dr. Martinez", Tuesday, "14:00", "14:50", 35, 3),
		mk("PSY101", "Intro to Psychology", "Dr. Taylor", Wednesday, "11:00", "11:50", 30, 3),
		mk("ECON101", "Microeconomics", "Prof. Anderson", Thursday, "09:00", "10:20", 28, 3),
		mk("ART101", "Art Appreciation", "Dr. White", Friday, "10:00", "10:50", 20, 3),
		mk("SPAN101", "Elementary Spanish I", "Prof. Garcia", Monday, "08:00", "08:50", 25, 4),
		mk("MUSI100", "Music Fundamentals", "Dr. Evans", Wednesday, "15:00", "16:20", 15, 3),
	}
}
