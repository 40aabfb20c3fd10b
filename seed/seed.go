package seed

import (
	"log"

	"healthsync/models"

	"gorm.io/gorm"
)

type doctorSeed struct {
	name   string
	spec   string
	exp    int
	rating float64
	count  int
	about  string
	image  string
}

var specializations = []string{
	"Cardiologist",
	"Psychologist",
	"Neurologist",
	"General Physician",
	"Dermatologist",
}

var doctors = []doctorSeed{
	{
		name:   "Dr. Prakash Das",
		spec:   "Psychologist",
		exp:    11,
		rating: 4.8,
		count:  4942,
		about:  "11+ years of experience in all aspects of psychology.",
		image:  "https://img.freepik.com/free-photo/smiling-doctor-with-stethoscope-isolated-on-white_231208-11234.jpg",
	},
	{
		name:   "Dr. Kumar Das",
		spec:   "Cardiologist",
		exp:    15,
		rating: 4.9,
		count:  5000,
		about:  "15+ years of experience in Cardiology.",
		image:  "https://img.freepik.com/free-photo/doctor-offering-medical-teleconsultation_23-2149329007.jpg",
	},
	{
		name:   "Dr. Divya Das",
		spec:   "Neurologist",
		exp:    8,
		rating: 4.7,
		count:  3200,
		about:  "Specialist in neurological disorders.",
		image:  "https://img.freepik.com/free-photo/female-doctor-hospital_23-2148825940.jpg",
	},
}

var slotTimes = []struct {
	time  string
	shift string
}{
	{"09:30 AM", models.ShiftMorning},
	{"10:30 AM", models.ShiftMorning},
	{"11:30 AM", models.ShiftMorning},
	{"02:00 PM", models.ShiftAfternoon},
	{"03:00 PM", models.ShiftAfternoon},
	{"06:00 PM", models.ShiftEvening},
	{"07:00 PM", models.ShiftEvening},
}

// Run populates the directory reference data. Existing rows are left alone,
// so re-running is safe.
func Run(db *gorm.DB) error {
	specIDs := make(map[string]uint)
	for _, name := range specializations {
		spec := models.Specialization{Name: name}
		if err := db.Where("name = ?", name).FirstOrCreate(&spec).Error; err != nil {
			return err
		}
		specIDs[name] = spec.SpecializationID
	}

	for _, d := range doctors {
		doctor := models.Doctor{
			Name:             d.name,
			SpecializationID: specIDs[d.spec],
			Experience:       d.exp,
			Rating:           d.rating,
			ReviewsCount:     d.count,
			About:            d.about,
			ImageURL:         d.image,
		}
		if err := db.Where("name = ?", d.name).FirstOrCreate(&doctor).Error; err != nil {
			return err
		}

		var slotCount int64
		db.Model(&models.Slot{}).Where("doctor_id = ?", doctor.DoctorID).Count(&slotCount)
		if slotCount > 0 {
			continue
		}
		for _, s := range slotTimes {
			slot := models.Slot{DoctorID: doctor.DoctorID, Time: s.time, Shift: s.shift}
			if err := db.Create(&slot).Error; err != nil {
				return err
			}
		}
	}

	log.Println("Seed data loaded")
	return nil
}
