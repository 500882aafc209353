package models

// Outlets lists the stores staff can sign in for.
var Outlets = []string{
	"Hilal",
	"Azizia",
	"Bin Omran",
	"Al Khor",
	"Wakra",
	"Muaither",
	"Rawdha",
	"Fereej Kulaib",
	"Mansoura",
	"Barwa",
	"Madinat Khalifa",
	"Gharrafa",
	"Abu Hamour",
	"Ain Khalid",
	"Najma",
	"Umm Salal",
}

// IsOutlet reports whether name is one of the known outlets.
func IsOutlet(name string) bool {
	for _, o := range Outlets {
		if o == name {
			return true
		}
	}
	return false
}
